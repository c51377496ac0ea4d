package driving

import (
	"context"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// DocumentService manages ingested documents.
type DocumentService interface {
	// List returns all documents for an owner, newest first.
	List(ctx context.Context, owner string) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, owner, documentID string) (*domain.Document, error)

	// Chunks returns the document's chunks in position order.
	Chunks(ctx context.Context, owner, documentID string) ([]domain.Chunk, error)

	// Content returns the indexed text, one chunk per line.
	Content(ctx context.Context, owner, documentID string) (string, error)

	// Delete removes the document with its index, chunks and summaries.
	// Sessions are kept; they outlive the document.
	Delete(ctx context.Context, owner, documentID string) error
}
