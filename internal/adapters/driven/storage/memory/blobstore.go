package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

type blobKey struct {
	owner string
	key   string
}

// BlobStore is an in-memory implementation of driven.BlobStore.
// Values are copied on the way in and out.
type BlobStore struct {
	mu    sync.RWMutex
	blobs map[blobKey][]byte
}

// NewBlobStore creates a new in-memory blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs: make(map[blobKey][]byte),
	}
}

// Put writes data under (owner, key).
func (s *BlobStore) Put(_ context.Context, owner, key string, data []byte) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[blobKey{owner, key}] = append([]byte(nil), data...)
	return nil
}

// Get reads the value at (owner, key).
func (s *BlobStore) Get(_ context.Context, owner, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[blobKey{owner, key}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Delete removes the value at (owner, key).
func (s *BlobStore) Delete(_ context.Context, owner, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, blobKey{owner, key})
	return nil
}

// List returns the owner's keys that start with prefix, sorted.
func (s *BlobStore) List(_ context.Context, owner, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for k := range s.blobs {
		if k.owner == owner && strings.HasPrefix(k.key, prefix) {
			keys = append(keys, k.key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored blobs across all owners.
func (s *BlobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.blobs)
}

// Close is a no-op.
func (s *BlobStore) Close() error {
	return nil
}
