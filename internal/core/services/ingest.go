package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/core/ports/driving"
	"github.com/custodia-labs/clausewise/internal/logger"
	"github.com/custodia-labs/clausewise/internal/vectorindex"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService extracts, chunks, embeds and indexes documents.
type IngestService struct {
	source     driven.TextSource
	pipeline   driven.PostProcessorPipeline
	embedder   *Embedder
	summarizer *Summarizer
	repo       *documentRepository
	now        func() time.Time
	newID      func() string
}

// NewIngestService creates an ingest service.
func NewIngestService(
	source driven.TextSource,
	pipeline driven.PostProcessorPipeline,
	embedder *Embedder,
	summarizer *Summarizer,
	blobs driven.BlobStore,
) *IngestService {
	return &IngestService{
		source:     source,
		pipeline:   pipeline,
		embedder:   embedder,
		summarizer: summarizer,
		repo:       newDocumentRepository(blobs),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Ingest processes the document at locator for owner.
//
// Extraction, chunking and embedding failures abort before anything is
// stored. Classification and summarisation never abort; a failed summary
// is stored as its placeholder. The document record is written last, so a
// listed document always has its index and chunks.
func (s *IngestService) Ingest(ctx context.Context, locator, owner string) (*domain.IngestResult, error) {
	logger.Section("Ingest")
	defer logger.Step("ingest")()
	logger.Debug("Locator: %s, owner: %s", locator, owner)

	if strings.TrimSpace(owner) == "" {
		return nil, fmt.Errorf("owner is required: %w", domain.ErrInvalidInput)
	}

	doc, err := s.source.Extract(ctx, locator)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", locator, wrapExtraction(err))
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, fmt.Errorf("extract %s: no text found: %w", locator, domain.ErrTextExtraction)
	}

	now := s.now()
	doc.ID = s.newID()
	doc.Owner = owner
	doc.CreatedAt = now
	doc.UpdatedAt = now
	logger.Debug("Extracted %d characters from %q", len(doc.Content), doc.Title)

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("chunk: %w", err)
	}
	texts := domain.ChunkTexts(chunks)
	logger.Info("Created %d chunks", len(chunks))

	embedDone := logger.Step("embed")
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	embedDone()
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	index, err := vectorindex.Build(vectors)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	logger.Debug("Index built: %d vectors, %d dimensions", index.Len(), index.Dimensions())

	summary := s.summarizer.Summarize(ctx, SummaryText(texts, domain.DefaultSummaryChunks), domain.SummaryShort)
	summary.DocumentID = doc.ID

	doc.ChunkCount = len(chunks)
	doc.Dimensions = index.Dimensions()
	doc.EmbeddingModel = s.embedder.ModelName()
	doc.AgreementType = summary.AgreementType

	if err := s.persist(ctx, doc, index, chunks, summary); err != nil {
		if cleanupErr := s.repo.DeleteDocument(context.WithoutCancel(ctx), owner, doc.ID); cleanupErr != nil {
			logger.Warn("Could not remove partial blobs for %s: %v", doc.ID, cleanupErr)
		}
		return nil, err
	}

	logger.Info("Ingested %q as %s (%s)", doc.Title, doc.ID, summary.AgreementLabel)
	return &domain.IngestResult{
		DocumentID: doc.ID,
		Title:      doc.Title,
		ChunkCount: doc.ChunkCount,
		Summary:    summary,
	}, nil
}

// persist writes the document's blobs. The record is written last so the
// document is only listed once everything else is stored.
func (s *IngestService) persist(
	ctx context.Context, doc *domain.Document, index *vectorindex.Index, chunks []domain.Chunk, summary *domain.Summary,
) error {
	if err := s.repo.SaveIndex(ctx, doc.Owner, doc.ID, index); err != nil {
		return err
	}
	if err := s.repo.SaveChunks(ctx, doc.Owner, doc.ID, chunks); err != nil {
		return err
	}
	if err := s.repo.SaveSummary(ctx, doc.Owner, summary); err != nil {
		return err
	}
	return s.repo.SaveDocument(ctx, doc)
}

// wrapExtraction ensures extraction errors carry domain.ErrTextExtraction.
func wrapExtraction(err error) error {
	if errors.Is(err, domain.ErrTextExtraction) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTextExtraction, err)
}
