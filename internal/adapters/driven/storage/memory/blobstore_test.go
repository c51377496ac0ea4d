package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestBlobStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore()

	require.NoError(t, store.Put(ctx, "alice", "documents/a.json", []byte(`{"id":"a"}`)))

	data, err := store.Get(ctx, "alice", "documents/a.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a"}`, string(data))
}

func TestBlobStore_Get_NotFound(t *testing.T) {
	store := NewBlobStore()

	_, err := store.Get(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBlobStore_Put_EmptyKey(t *testing.T) {
	store := NewBlobStore()

	err := store.Put(context.Background(), "alice", "", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlobStore_OwnerIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore()
	_ = store.Put(ctx, "alice", "chat_sessions/s.json", []byte("a"))
	_ = store.Put(ctx, "bob", "chat_sessions/s.json", []byte("b"))

	a, _ := store.Get(ctx, "alice", "chat_sessions/s.json")
	b, _ := store.Get(ctx, "bob", "chat_sessions/s.json")
	assert.Equal(t, "a", string(a))
	assert.Equal(t, "b", string(b))

	require.NoError(t, store.Delete(ctx, "alice", "chat_sessions/s.json"))
	_, err := store.Get(ctx, "alice", "chat_sessions/s.json")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(ctx, "bob", "chat_sessions/s.json")
	assert.NoError(t, err)
}

func TestBlobStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore()
	data := []byte("original")
	_ = store.Put(ctx, "alice", "k", data)
	data[0] = 'X'

	got, _ := store.Get(ctx, "alice", "k")
	got[1] = 'Y'

	again, _ := store.Get(ctx, "alice", "k")
	assert.Equal(t, "original", string(again))
}

func TestBlobStore_List(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore()
	for _, key := range []string{
		"vectorstore/d2/index.bin",
		"vectorstore/d1/index.bin",
		"vectorstore/d1/chunks.json",
		"documents/d1.json",
	} {
		_ = store.Put(ctx, "alice", key, []byte("x"))
	}
	_ = store.Put(ctx, "bob", "vectorstore/d9/index.bin", []byte("x"))

	keys, err := store.List(ctx, "alice", "vectorstore/d1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"vectorstore/d1/chunks.json", "vectorstore/d1/index.bin"}, keys)

	keys, _ = store.List(ctx, "alice", "")
	assert.Len(t, keys, 4)

	keys, _ = store.List(ctx, "carol", "")
	assert.Empty(t, keys)
}

func TestBlobStore_DeleteMissing(t *testing.T) {
	store := NewBlobStore()
	assert.NoError(t, store.Delete(context.Background(), "alice", "nothing"))
	assert.NoError(t, store.Close())
}

func TestBlobStore_Concurrency(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("chat_sessions/%d.json", n)
			_ = store.Put(ctx, "alice", key, []byte("x"))
			_, _ = store.Get(ctx, "alice", key)
			_, _ = store.List(ctx, "alice", "chat_sessions/")
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Len())
}
