package domain

import "time"

// Document is an ingested agreement.
// The extracted text is transient: it is carried through ingestion in
// Content and never persisted.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// Owner scopes the document's blobs.
	Owner string `json:"owner"`

	// URI is the original location (file path, URL, etc).
	URI string `json:"uri"`

	// Title is the human-readable name.
	Title string `json:"title"`

	// Content is the full extracted text. Not persisted.
	Content string `json:"-"`

	// AgreementType is the classified legal category.
	AgreementType AgreementType `json:"agreement_type"`

	// ChunkCount is the number of indexed chunks.
	ChunkCount int `json:"chunk_count"`

	// Dimensions is the embedding vector size used by the index.
	Dimensions int `json:"dimensions"`

	// EmbeddingModel names the model that produced the index.
	EmbeddingModel string `json:"embedding_model,omitempty"`

	// Metadata contains normaliser-specific key-value pairs.
	Metadata map[string]any `json:"metadata,omitempty"`

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the document was last re-indexed.
	UpdatedAt time.Time `json:"updated_at"`
}

// Chunk is a retrievable unit within a document.
// Positions are contiguous from 0 and match the index row of the
// chunk's embedding.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string `json:"id"`

	// DocumentID links to the parent Document.
	DocumentID string `json:"document_id"`

	// Content is the text content of this chunk.
	Content string `json:"content"`

	// Position is the ordinal position within the document.
	Position int `json:"position"`

	// Embedding is the vector representation, populated during ingestion.
	Embedding []float32 `json:"-"`
}

// ChunkTexts returns the content of each chunk in order.
func ChunkTexts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}
	return texts
}
