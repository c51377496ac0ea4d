package driving

import (
	"context"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// IngestService turns a document locator into an indexed, summarised document.
type IngestService interface {
	// Ingest extracts, chunks, embeds and indexes the document, then
	// classifies it and stores a short summary.
	// Extraction and embedding failures abort with no document created.
	// Summarisation failures never abort; the summary carries a placeholder.
	Ingest(ctx context.Context, locator, owner string) (*domain.IngestResult, error)
}

// ChatService answers questions about an ingested document.
type ChatService interface {
	// Ask answers a question, creating the document's session on first use.
	// Returns domain.ErrSessionNotFound for an unknown explicit session id.
	Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error)
}

// SummaryService produces and retrieves document summaries.
type SummaryService interface {
	// DetailedSummary generates a fresh detailed summary and records it in
	// the document's session, creating the session if needed.
	DetailedSummary(ctx context.Context, owner, documentID string) (*domain.Summary, error)

	// ShortSummary returns the summary stored at ingestion.
	ShortSummary(ctx context.Context, owner, documentID string) (*domain.Summary, error)
}
