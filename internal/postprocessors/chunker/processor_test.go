package chunker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		p, err := New()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ChunkSize() != 1200 {
			t.Errorf("expected chunkSize 1200, got %d", p.ChunkSize())
		}
		if p.Overlap() != 200 {
			t.Errorf("expected overlap 200, got %d", p.Overlap())
		}
	})

	t.Run("custom values", func(t *testing.T) {
		p, err := New(WithChunkSize(500), WithOverlap(100))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.ChunkSize() != 500 || p.Overlap() != 100 {
			t.Errorf("expected 500/100, got %d/%d", p.ChunkSize(), p.Overlap())
		}
	})

	t.Run("overlap equal to chunk size is rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(200), WithOverlap(200))
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("overlap exceeding chunk size is rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(100), WithOverlap(150))
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("zero chunk size is rejected", func(t *testing.T) {
		_, err := New(WithChunkSize(0))
		if !errors.Is(err, domain.ErrConfiguration) {
			t.Errorf("expected ErrConfiguration, got %v", err)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p, _ := New()
	if p.Name() != "chunker" {
		t.Errorf("expected name 'chunker', got '%s'", p.Name())
	}
}

func TestProcessor_Process_EmptyContent(t *testing.T) {
	p, _ := New()
	doc := &domain.Document{ID: "test-doc", Content: "  \n\t "}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks for empty content, got %d", len(chunks))
	}
}

func TestProcessor_Process_NilDocument(t *testing.T) {
	p, _ := New()
	if _, err := p.Process(context.Background(), nil, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProcessor_Process_CancelledContext(t *testing.T) {
	p, _ := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Process(ctx, &domain.Document{ID: "d", Content: "text"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestProcessor_Process_SmallContent(t *testing.T) {
	p, _ := New(WithChunkSize(100), WithOverlap(20))
	doc := &domain.Document{
		ID:      "test-doc",
		Content: "This is a small piece of content.",
	}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for small content, got %d", len(chunks))
	}
	if chunks[0].DocumentID != doc.ID {
		t.Errorf("expected DocumentID '%s', got '%s'", doc.ID, chunks[0].DocumentID)
	}
	if chunks[0].Content != doc.Content {
		t.Errorf("expected content to match document content")
	}
	if chunks[0].Position != 0 {
		t.Errorf("expected position 0, got %d", chunks[0].Position)
	}
}

func TestProcessor_Process_LargeContent(t *testing.T) {
	p, _ := New(WithChunkSize(100), WithOverlap(20))

	content := strings.Repeat("The tenant shall pay rent on time. ", 20)
	doc := &domain.Document{ID: "test-doc", Content: content}

	chunks, err := p.Process(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	seenIDs := make(map[string]bool)
	for i, chunk := range chunks {
		if seenIDs[chunk.ID] {
			t.Errorf("duplicate chunk ID: %s", chunk.ID)
		}
		seenIDs[chunk.ID] = true

		if chunk.Position != i {
			t.Errorf("expected position %d, got %d", i, chunk.Position)
		}
		if chunk.DocumentID != doc.ID {
			t.Errorf("expected DocumentID '%s', got '%s'", doc.ID, chunk.DocumentID)
		}
	}
}

func TestProcessor_Process_IgnoresInputChunks(t *testing.T) {
	p, _ := New(WithChunkSize(100), WithOverlap(10))

	existingChunks := []domain.Chunk{
		{ID: "existing", Content: "should be ignored"},
	}
	doc := &domain.Document{ID: "test-doc", Content: "New content to chunk"}

	chunks, err := p.Process(context.Background(), doc, existingChunks)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, chunk := range chunks {
		if chunk.ID == "existing" {
			t.Error("existing chunks should be ignored")
		}
	}
}
