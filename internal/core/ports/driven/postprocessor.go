package driven

import (
	"context"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// PostProcessor turns document content into chunks, or refines chunks
// produced by an earlier processor.
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// A creating processor (the chunker) receives nil chunks.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
