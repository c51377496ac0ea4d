// Package postprocessors turns extracted agreement text into indexed chunks.
package postprocessors

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
)

// Pipeline runs PostProcessors in order and returns chunks that are ready
// to embed: no blank chunks, every chunk owned by the document and
// positions contiguous from 0 so that chunk i is row i of the index.
type Pipeline struct {
	processors []driven.PostProcessor
	newID      func() string
}

// NewPipeline creates a pipeline that runs processors in the order given.
func NewPipeline(processors ...driven.PostProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
		newID:      uuid.NewString,
	}
}

// Process runs the document through every processor. The first processor
// receives nil chunks and creates them; later ones may rewrite them.
func (p *Pipeline) Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil: %w", domain.ErrInvalidInput)
	}

	var chunks []domain.Chunk
	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var err error
		chunks, err = processor.Process(ctx, doc, chunks)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
	}

	return p.finalise(doc.ID, chunks), nil
}

// finalise drops blank chunks and renumbers the rest.
func (p *Pipeline) finalise(documentID string, chunks []domain.Chunk) []domain.Chunk {
	if len(chunks) == 0 {
		return nil
	}

	out := chunks[:0]
	for _, c := range chunks {
		if strings.TrimSpace(c.Content) == "" {
			continue
		}
		if c.ID == "" {
			c.ID = p.newID()
		}
		c.DocumentID = documentID
		c.Position = len(out)
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}
