// Package pdf extracts agreement text from PDF files with poppler's
// pdftotext command.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/normalisers"
)

const (
	toolName = "pdftotext"

	// maxTitleLength bounds a first line before it counts as a title.
	maxTitleLength = 200
)

// ErrPDFToolNotFound is returned when pdftotext is not on PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}

// Normaliser handles PDF documents.
type Normaliser struct {
	runner   CommandRunner
	lookPath func(string) (string, error)
}

// New creates a PDF normaliser that shells out to pdftotext.
func New() *Normaliser {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	return &Normaliser{runner: runner, lookPath: exec.LookPath}
}

// CheckAvailable reports whether pdftotext can be found.
func CheckAvailable() error {
	if _, err := exec.LookPath(toolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions explains how to get pdftotext.
func InstallInstructions() string {
	return `PDF ingestion needs pdftotext from poppler.

  macOS:          brew install poppler
  Debian/Ubuntu:  sudo apt install poppler-utils
  Fedora:         sudo dnf install poppler-utils`
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise writes the PDF to a temp file and reads pdftotext's output.
// Page breaks become blank lines and the page count lands in metadata.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if !bytes.HasPrefix(bytes.TrimLeft(raw.Content, "\x00\t\r\n "), []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: %s is not a PDF", domain.ErrInvalidInput, raw.URI)
	}
	if _, err := n.lookPath(toolName); err != nil {
		return nil, ErrPDFToolNotFound
	}

	tmp, err := os.CreateTemp("", "clausewise-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	out, err := n.runner.Run(ctx, toolName, "-layout", "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	content, pages := joinPages(string(out))

	metadata := normalisers.CopyMetadata(raw.Metadata, raw.MIMEType, "pdf")
	metadata["pages"] = pages

	doc := domain.Document{
		URI:      raw.URI,
		Title:    extractTitle(content, raw.URI),
		Content:  content,
		Metadata: metadata,
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// joinPages splits pdftotext output on form feeds.
// The trailing form feed after the last page does not count.
func joinPages(out string) (string, int) {
	out = strings.TrimRight(out, "\f\n ")
	if out == "" {
		return "", 0
	}

	pages := strings.Split(out, "\f")
	for i, page := range pages {
		pages[i] = strings.TrimRight(page, "\n ")
	}
	return strings.TrimSpace(strings.Join(pages, "\n\n")), len(pages)
}

// extractTitle uses the first short non-empty line.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len(line) >= maxTitleLength {
			continue
		}
		return line
	}
	return normalisers.TitleFromURI(uri)
}
