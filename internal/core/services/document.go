package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/core/ports/driving"
	"github.com/custodia-labs/clausewise/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages ingested documents.
type DocumentService struct {
	repo  *documentRepository
	locks *keyedMutex
}

// NewDocumentService creates a new document service.
func NewDocumentService(blobs driven.BlobStore) *DocumentService {
	return &DocumentService{
		repo:  newDocumentRepository(blobs),
		locks: newKeyedMutex(),
	}
}

// List returns all documents for an owner, newest first.
func (s *DocumentService) List(ctx context.Context, owner string) ([]domain.Document, error) {
	return s.repo.ListDocuments(ctx, owner)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, owner, documentID string) (*domain.Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, domain.ErrDocumentNotFound
	}
	return s.repo.LoadDocument(ctx, owner, documentID)
}

// Chunks returns the document's chunks in position order.
func (s *DocumentService) Chunks(ctx context.Context, owner, documentID string) ([]domain.Chunk, error) {
	if _, err := s.Get(ctx, owner, documentID); err != nil {
		return nil, err
	}
	return s.repo.LoadChunks(ctx, owner, documentID)
}

// Content returns the concatenated content of all chunks.
func (s *DocumentService) Content(ctx context.Context, owner, documentID string) (string, error) {
	chunks, err := s.Chunks(ctx, owner, documentID)
	if err != nil {
		return "", err
	}
	return strings.Join(domain.ChunkTexts(chunks), "\n"), nil
}

// Delete removes the document with its index, chunks and summaries.
func (s *DocumentService) Delete(ctx context.Context, owner, documentID string) error {
	unlock := s.locks.Lock(owner + "/" + documentID)
	defer unlock()

	if _, err := s.Get(ctx, owner, documentID); err != nil {
		return err
	}

	logger.Debug("Deleting document %s for owner %s", documentID, owner)
	if err := s.repo.DeleteDocument(ctx, owner, documentID); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}
