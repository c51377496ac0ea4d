package driven

import "context"

// BlobStore is an opaque key-value store scoped by owner.
//
// Keys are slash-separated paths such as "vectorstore/<doc>/index.bin" or
// "chat_sessions/<id>.json". The store knows nothing about their content.
type BlobStore interface {
	// Put writes data under (owner, key), replacing any existing value.
	Put(ctx context.Context, owner, key string, data []byte) error

	// Get reads the value at (owner, key).
	// Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, owner, key string) ([]byte, error)

	// Delete removes the value at (owner, key). Deleting a missing key is not an error.
	Delete(ctx context.Context, owner, key string) error

	// List returns the keys for owner that start with prefix, sorted.
	List(ctx context.Context, owner, prefix string) ([]string, error)

	// Close releases resources.
	Close() error
}
