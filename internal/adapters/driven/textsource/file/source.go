// Package file reads agreements from local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/logger"
	"github.com/custodia-labs/clausewise/internal/normalisers"
	"github.com/custodia-labs/clausewise/internal/normalisers/docx"
	"github.com/custodia-labs/clausewise/internal/normalisers/markdown"
	"github.com/custodia-labs/clausewise/internal/normalisers/pdf"
	"github.com/custodia-labs/clausewise/internal/normalisers/plaintext"
)

// DefaultMaxFileSize caps how much of a file is read (50 MiB).
const DefaultMaxFileSize int64 = 50 << 20

// mimeTypes maps supported file extensions to MIME types.
var mimeTypes = map[string]string{
	".pdf":      "application/pdf",
	".docx":     docx.MIMEType,
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
}

// Ensure Source implements the interface.
var _ driven.TextSource = (*Source)(nil)

// Source extracts text from local files.
type Source struct {
	registry driven.NormaliserRegistry
	maxSize  int64
}

// Option configures a Source.
type Option func(*Source)

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(s *Source) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// New creates a Source backed by registry.
func New(registry driven.NormaliserRegistry, opts ...Option) *Source {
	s := &Source{registry: registry, maxSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDefault creates a Source with the pdf, docx, markdown and plaintext
// normalisers registered.
func NewDefault(opts ...Option) *Source {
	return New(DefaultRegistry(), opts...)
}

// DefaultRegistry returns a registry with every built-in normaliser.
func DefaultRegistry() *normalisers.Registry {
	return normalisers.NewRegistry(
		pdf.New(),
		docx.New(),
		markdown.New(),
		plaintext.New(),
	)
}

// SupportedExtensions returns the file extensions Extract accepts, sorted.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(mimeTypes))
	for ext := range mimeTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IsSupported reports whether path has a supported extension.
func IsSupported(path string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extract reads the file at locator and normalises it to text.
// The locator may be a bare path or a file:// URI.
func (s *Source) Extract(ctx context.Context, locator string) (*domain.Document, error) {
	path := ResolvePath(locator)
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", domain.ErrInvalidInput)
	}

	mime, ok := mimeTypes[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%s: %w (supported: %s)",
			filepath.Base(path), domain.ErrUnsupportedType, strings.Join(SupportedExtensions(), ", "))
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > s.maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrInvalidInput, path, info.Size(), s.maxSize)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Debug("Read %d bytes from %s (%s)", len(content), path, mime)

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	raw := &domain.RawDocument{
		URI:      abs,
		MIMEType: mime,
		Content:  content,
		Metadata: map[string]any{
			"size":     info.Size(),
			"modified": info.ModTime().UTC(),
		},
	}

	result, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}

	doc := result.Document
	return &doc, nil
}

// ResolvePath converts a file:// URI to a local path.
// Bare paths pass through unchanged.
func ResolvePath(locator string) string {
	locator = strings.TrimSpace(locator)
	return strings.TrimPrefix(locator, "file://")
}
