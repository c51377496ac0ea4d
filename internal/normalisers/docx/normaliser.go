// Package docx extracts agreement text from Word (.docx) files.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/normalisers"
)

// MIMEType is the Office Open XML word-processing type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts paragraph text from word/document.xml.
// Table cells are read in document order, one paragraph per line.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a docx archive: %v", domain.ErrInvalidInput, err)
	}

	body, err := readPart(reader, documentPart)
	if err != nil {
		return nil, err
	}

	content, err := parseDocumentXML(body)
	if err != nil {
		return nil, err
	}

	doc := domain.Document{
		URI:      raw.URI,
		Title:    extractTitle(reader, raw.URI),
		Content:  content,
		Metadata: normalisers.CopyMetadata(raw.Metadata, raw.MIMEType, "docx"),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// readPart returns the bytes of one archive member.
// A missing member yields nil without error.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", domain.ErrInvalidInput, name, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", domain.ErrInvalidInput, name, err)
		}
		return data, nil
	}
	return nil, nil
}

// parseDocumentXML walks the WordprocessingML token stream.
// Text runs (w:t) are concatenated, w:tab becomes a tab, w:br and w:cr
// become newlines, and every closing w:p ends a line.
func parseDocumentXML(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	var (
		out    strings.Builder
		inText bool
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: malformed document.xml: %v", domain.ErrInvalidInput, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				out.WriteByte('\t')
			case "br", "cr":
				out.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				out.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				out.Write(t)
			}
		}
	}

	return tidyLines(out.String()), nil
}

// tidyLines trims trailing spaces and collapses runs of blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if blank {
				continue
			}
			blank = true
		} else {
			blank = false
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// coreXML is the subset of docProps/core.xml we read.
type coreXML struct {
	Title string `xml:"title"`
}

// extractTitle prefers dc:title from the core properties.
func extractTitle(reader *zip.Reader, uri string) string {
	data, err := readPart(reader, corePart)
	if err == nil && len(data) > 0 {
		var core coreXML
		if xml.Unmarshal(data, &core) == nil {
			if title := strings.TrimSpace(core.Title); title != "" {
				return title
			}
		}
	}
	return normalisers.TitleFromURI(uri)
}
