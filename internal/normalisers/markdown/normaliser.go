// Package markdown flattens Markdown agreements into plain text.
package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

var (
	codeFence   = regexp.MustCompile("(?m)^[ \\t]*```.*$")
	inlineCode  = regexp.MustCompile("`([^`]+)`")
	images      = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings    = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	emphasis    = regexp.MustCompile(`(\*\*|__|\*)([^*_\n]+)(\*\*|__|\*)`)
	blockquote  = regexp.MustCompile(`(?m)^> ?`)
	rule        = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bullets     = regexp.MustCompile(`(?m)^([ \t]*)[-*+][ \t]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	headingLine = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority, above the plaintext fallback.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise strips Markdown syntax but keeps numbered clauses intact.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text := string(raw.Content)

	doc := domain.Document{
		URI:      raw.URI,
		Title:    extractTitle(text, raw.URI),
		Content:  stripMarkdown(text),
		Metadata: normalisers.CopyMetadata(raw.Metadata, raw.MIMEType, "markdown"),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// extractTitle uses the first level-one heading, else the file name.
func extractTitle(content, uri string) string {
	if m := headingLine.FindStringSubmatch(content); m != nil {
		if title := strings.TrimSpace(m[1]); title != "" {
			return title
		}
	}
	return normalisers.TitleFromURI(uri)
}

// stripMarkdown removes formatting markers.
// Ordered list markers stay because agreements cite clauses by number.
func stripMarkdown(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = codeFence.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = blockquote.ReplaceAllString(content, "")
	content = rule.ReplaceAllString(content, "")
	content = bullets.ReplaceAllString(content, "$1")
	content = blankLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
