package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/vectorindex"
)

// Blob key layout, relative to the owner.
const (
	documentsPrefix = "documents/"
	vectorPrefix    = "vectorstore/"
	summariesPrefix = "summaries/"
	sessionsPrefix  = "chat_sessions/"
)

func documentKey(docID string) string { return documentsPrefix + docID + ".json" }
func indexKey(docID string) string    { return vectorPrefix + docID + "/index.bin" }
func chunksKey(docID string) string   { return vectorPrefix + docID + "/chunks.json" }
func sessionKey(id string) string     { return sessionsPrefix + id + ".json" }

func summaryKey(docID string, detail domain.SummaryDetail) string {
	if detail == domain.SummaryDetailed {
		return summariesPrefix + docID + "_detailed.json"
	}
	return summariesPrefix + docID + "_summary.json"
}

// documentRepository stores document artefacts in a BlobStore.
type documentRepository struct {
	blobs driven.BlobStore
}

func newDocumentRepository(blobs driven.BlobStore) *documentRepository {
	return &documentRepository{blobs: blobs}
}

func (r *documentRepository) putJSON(ctx context.Context, owner, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := r.blobs.Put(ctx, owner, key, data); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// getJSON decodes the blob at key into v. Absent keys return notFound.
func (r *documentRepository) getJSON(ctx context.Context, owner, key string, v any, notFound error) error {
	data, err := r.blobs.Get(ctx, owner, key)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (r *documentRepository) SaveDocument(ctx context.Context, doc *domain.Document) error {
	return r.putJSON(ctx, doc.Owner, documentKey(doc.ID), doc)
}

func (r *documentRepository) LoadDocument(ctx context.Context, owner, docID string) (*domain.Document, error) {
	var doc domain.Document
	if err := r.getJSON(ctx, owner, documentKey(docID), &doc, domain.ErrDocumentNotFound); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns the owner's documents, newest first.
func (r *documentRepository) ListDocuments(ctx context.Context, owner string) ([]domain.Document, error) {
	keys, err := r.blobs.List(ctx, owner, documentsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	docs := make([]domain.Document, 0, len(keys))
	for _, key := range keys {
		var doc domain.Document
		if err := r.getJSON(ctx, owner, key, &doc, domain.ErrDocumentNotFound); err != nil {
			// Removed between List and Get.
			if errors.Is(err, domain.ErrDocumentNotFound) {
				continue
			}
			return nil, err
		}
		docs = append(docs, doc)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func (r *documentRepository) SaveIndex(ctx context.Context, owner, docID string, idx *vectorindex.Index) error {
	data, err := idx.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := r.blobs.Put(ctx, owner, indexKey(docID), data); err != nil {
		return fmt.Errorf("put index: %w", err)
	}
	return nil
}

// LoadIndex returns the document's index. A missing index reports
// domain.ErrEmptyIndex since the document cannot be queried yet.
func (r *documentRepository) LoadIndex(ctx context.Context, owner, docID string) (*vectorindex.Index, error) {
	data, err := r.blobs.Get(ctx, owner, indexKey(docID))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrEmptyIndex
	}
	if err != nil {
		return nil, fmt.Errorf("get index: %w", err)
	}
	return vectorindex.Decode(data)
}

func (r *documentRepository) SaveChunks(ctx context.Context, owner, docID string, chunks []domain.Chunk) error {
	return r.putJSON(ctx, owner, chunksKey(docID), chunks)
}

func (r *documentRepository) LoadChunks(ctx context.Context, owner, docID string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	if err := r.getJSON(ctx, owner, chunksKey(docID), &chunks, domain.ErrEmptyIndex); err != nil {
		return nil, err
	}
	sort.SliceStable(chunks, func(i, j int) bool {
		return chunks[i].Position < chunks[j].Position
	})
	return chunks, nil
}

func (r *documentRepository) SaveSummary(ctx context.Context, owner string, s *domain.Summary) error {
	return r.putJSON(ctx, owner, summaryKey(s.DocumentID, s.Detail), s)
}

func (r *documentRepository) LoadSummary(
	ctx context.Context, owner, docID string, detail domain.SummaryDetail,
) (*domain.Summary, error) {
	var s domain.Summary
	if err := r.getJSON(ctx, owner, summaryKey(docID, detail), &s, domain.ErrNotFound); err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteDocument removes every blob belonging to the document.
func (r *documentRepository) DeleteDocument(ctx context.Context, owner, docID string) error {
	keys := []string{
		indexKey(docID),
		chunksKey(docID),
		summaryKey(docID, domain.SummaryShort),
		summaryKey(docID, domain.SummaryDetailed),
	}

	extra, err := r.blobs.List(ctx, owner, vectorPrefix+docID+"/")
	if err != nil {
		return fmt.Errorf("list document blobs: %w", err)
	}
	keys = append(keys, extra...)

	for _, key := range keys {
		if err := r.blobs.Delete(ctx, owner, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}

	// The record goes last so a partial delete leaves the document visible.
	if err := r.blobs.Delete(ctx, owner, documentKey(docID)); err != nil {
		return fmt.Errorf("delete %s: %w", documentKey(docID), err)
	}
	return nil
}

// idFromKey extracts the id from keys like "chat_sessions/<id>.json".
func idFromKey(prefix, key string) string {
	return strings.TrimSuffix(strings.TrimPrefix(key, prefix), ".json")
}
