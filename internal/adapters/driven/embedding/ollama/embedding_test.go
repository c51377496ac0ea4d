package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestEmbedBatch(t *testing.T) {
	var got embedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"model":"all-minilm","embeddings":[[0.1,0.2],[0.3,0.4]]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, Model: "all-minilm", Dimensions: 2})
	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.1, 0.2}, {0.3, 0.4}}, vecs)
	assert.Equal(t, embedRequest{Model: "all-minilm", Input: []string{"a", "b"}}, got)
}

func TestEmbed_Single(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embeddings":[[1,2,3]]}`))
	}))
	defer server.Close()

	vec, err := NewEmbeddingService(Config{BaseURL: server.URL}).Embed(context.Background(), "a")

	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 3}, vec)
}

func TestEmbedBatch_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"embeddings":[[1]]}`))
	}))
	defer server.Close()

	_, err := NewEmbeddingService(Config{BaseURL: server.URL}).EmbedBatch(context.Background(), []string{"a", "b"})
	assert.ErrorContains(t, err, "got 1 embeddings for 2 inputs")
}

func TestEmbedBatch_ModelMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model \"nope\" not found, try pulling it first"}`))
	}))
	defer server.Close()

	_, err := NewEmbeddingService(Config{BaseURL: server.URL, Model: "nope"}).Embed(context.Background(), "a")
	assert.ErrorIs(t, err, domain.ErrProviderRejected)
	assert.ErrorContains(t, err, "try pulling it first")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	assert.Error(t, NewEmbeddingService(Config{BaseURL: url}).Ping(context.Background()))
}
