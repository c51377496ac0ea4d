package driven

import (
	"context"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// TextSource pulls raw document text for a locator (a file path or
// similar address). Any error is fatal to ingestion of that document.
type TextSource interface {
	// Extract returns a document with Title, URI and Content populated.
	Extract(ctx context.Context, locator string) (*domain.Document, error)
}
