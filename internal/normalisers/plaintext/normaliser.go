// Package plaintext is the fallback normaliser for text files.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/normalisers"
)

const utf8BOM = "\uFEFF"

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
// Markdown is listed so .md files still ingest when no richer
// normaliser is registered.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/x-markdown",
		"text/rtf",
		"text/csv",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise passes text through with line endings unified.
// A leading byte-order mark is dropped and invalid UTF-8 is replaced.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.TrimPrefix(string(raw.Content), utf8BOM)
	content = strings.ToValidUTF8(content, "�")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	doc := domain.Document{
		URI:      raw.URI,
		Title:    titleFor(raw),
		Content:  content,
		Metadata: normalisers.CopyMetadata(raw.Metadata, raw.MIMEType, "text"),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// titleFor prefers a caller-supplied title in metadata.
func titleFor(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	return normalisers.TitleFromURI(raw.URI)
}
