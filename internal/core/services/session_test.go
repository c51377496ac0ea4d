package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// steppingClock returns a time one second later on every call.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newTestSessionStore() *SessionStore {
	s := NewSessionStore(memory.NewBlobStore())
	s.now = steppingClock()
	return s
}

func TestSessionStore_Create(t *testing.T) {
	s := newTestSessionStore()

	created, err := s.Create(context.Background(), &domain.ChatSession{
		Name:       "Lease Review",
		Owner:      "alice",
		DocumentID: "doc-1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Lease Review", created.Name)
	assert.Zero(t, created.MessageCount)
	assert.Equal(t, domain.SessionCreated, created.State())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	loaded, err := s.Get(context.Background(), "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.Equal(t, "doc-1", loaded.DocumentID)
}

func TestSessionStore_Create_RequiresOwner(t *testing.T) {
	s := newTestSessionStore()

	_, err := s.Create(context.Background(), &domain.ChatSession{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.Create(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_Get_NotFound(t *testing.T) {
	s := newTestSessionStore()

	_, err := s.Get(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.Get(context.Background(), "alice", "")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_Get_IsOwnerScoped(t *testing.T) {
	s := newTestSessionStore()
	created, err := s.Create(context.Background(), &domain.ChatSession{Owner: "alice"})
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "bob", created.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_Append(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore()
	created, err := s.Create(ctx, &domain.ChatSession{Owner: "alice"})
	require.NoError(t, err)

	updated, err := s.Append(ctx, "alice", created.ID,
		domain.ChatMessage{Role: domain.RoleUser, Content: "What is the rent?"},
		domain.ChatMessage{Role: domain.RoleAssistant, Content: "1000 per month."},
	)

	require.NoError(t, err)
	require.Len(t, updated.Messages, 2)
	assert.Equal(t, 2, updated.MessageCount)
	assert.Equal(t, domain.SessionActive, updated.State())
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
	for _, m := range updated.Messages {
		assert.NotEmpty(t, m.ID)
		assert.False(t, m.Timestamp.IsZero())
	}
	assert.Equal(t, []string{"User: What is the rent?", "Assistant: 1000 per month."}, updated.History(4))
}

func TestSessionStore_Append_KeepsGivenIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore()
	created, _ := s.Create(ctx, &domain.ChatSession{Owner: "alice"})
	stamp := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	updated, err := s.Append(ctx, "alice", created.ID,
		domain.ChatMessage{ID: "m-1", Role: domain.RoleSystem, Content: "x", Timestamp: stamp})

	require.NoError(t, err)
	assert.Equal(t, "m-1", updated.Messages[0].ID)
	assert.True(t, stamp.Equal(updated.Messages[0].Timestamp))
}

func TestSessionStore_Append_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore()
	created, _ := s.Create(ctx, &domain.ChatSession{Owner: "alice"})

	_, err := s.Append(ctx, "alice", created.ID, domain.ChatMessage{Role: "robot", Content: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.Append(ctx, "alice", "missing", domain.ChatMessage{Role: domain.RoleUser, Content: "x"})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	loaded, _ := s.Get(ctx, "alice", created.ID)
	assert.Zero(t, loaded.MessageCount)
}

func TestSessionStore_Append_WriteFailure(t *testing.T) {
	ctx := context.Background()
	blobs := &failingBlobStore{BlobStore: memory.NewBlobStore()}
	s := NewSessionStore(blobs)
	created, err := s.Create(ctx, &domain.ChatSession{Owner: "alice"})
	require.NoError(t, err)

	blobs.failOn = "chat_sessions/"
	_, err = s.Append(ctx, "alice", created.ID, domain.ChatMessage{Role: domain.RoleUser, Content: "x"})
	require.Error(t, err)

	loaded, err := s.Get(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Zero(t, loaded.MessageCount)
}

func TestSessionStore_Rename(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore()
	created, err := s.Create(ctx, &domain.ChatSession{Name: "Untitled", Owner: "alice"})
	require.NoError(t, err)
	_, err = s.Append(ctx, "alice", created.ID, domain.ChatMessage{Role: domain.RoleUser, Content: "Hi"})
	require.NoError(t, err)

	renamed, err := s.Rename(ctx, "alice", created.ID, "  Deposit terms ")

	require.NoError(t, err)
	assert.Equal(t, "Deposit terms", renamed.Name)
	assert.Equal(t, 1, renamed.MessageCount)
	assert.True(t, renamed.UpdatedAt.After(created.UpdatedAt))

	loaded, err := s.Get(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Deposit terms", loaded.Name)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "Hi", loaded.Messages[0].Content)
}

func TestSessionStore_Rename_Errors(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore()
	created, err := s.Create(ctx, &domain.ChatSession{Name: "Untitled", Owner: "alice"})
	require.NoError(t, err)

	_, err = s.Rename(ctx, "alice", created.ID, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = s.Rename(ctx, "alice", "missing", "Name")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = s.Rename(ctx, "bob", created.ID, "Name")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	loaded, err := s.Get(ctx, "alice", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Untitled", loaded.Name)
}

func TestSessionStore_ConcurrentAppendsKeepPairsTogether(t *testing.T) {
	ctx := context.Background()
	s := NewSessionStore(memory.NewBlobStore())
	created, err := s.Create(ctx, &domain.ChatSession{Owner: "alice"})
	require.NoError(t, err)

	const workers = 20
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := s.Append(ctx, "alice", created.ID,
				domain.ChatMessage{Role: domain.RoleUser, Content: fmt.Sprintf("q%d", n)},
				domain.ChatMessage{Role: domain.RoleAssistant, Content: fmt.Sprintf("a%d", n)},
			)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	loaded, err := s.Get(ctx, "alice", created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 2*workers)
	assert.Equal(t, 2*workers, loaded.MessageCount)
	for i := 0; i < len(loaded.Messages); i += 2 {
		q, a := loaded.Messages[i], loaded.Messages[i+1]
		assert.Equal(t, domain.RoleUser, q.Role)
		assert.Equal(t, domain.RoleAssistant, a.Role)
		assert.Equal(t, "a"+q.Content[1:], a.Content)
	}
	assert.Zero(t, s.locks.size())
}

func TestSessionStore_ListAndForDocument(t *testing.T) {
	ctx := context.Background()
	s := newTestSessionStore()

	first, _ := s.Create(ctx, &domain.ChatSession{Owner: "alice", Name: "first", DocumentID: "doc-1"})
	second, _ := s.Create(ctx, &domain.ChatSession{Owner: "alice", Name: "second", DocumentID: "doc-2"})
	_, _ = s.Create(ctx, &domain.ChatSession{Owner: "bob", Name: "other", DocumentID: "doc-1"})

	// Touching the first session moves it to the top.
	_, err := s.Append(ctx, "alice", first.ID, domain.ChatMessage{Role: domain.RoleUser, Content: "hi"})
	require.NoError(t, err)

	list, err := s.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
	assert.Equal(t, 1, list[0].MessageCount)
	assert.Equal(t, second.ID, list[1].ID)

	found, err := s.ForDocument(ctx, "alice", "doc-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)

	_, err = s.ForDocument(ctx, "alice", "doc-3")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionStore_List_Empty(t *testing.T) {
	s := newTestSessionStore()

	list, err := s.List(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()

	unlockA := k.Lock("a")
	unlockB := k.Lock("b")
	assert.Equal(t, 2, k.size())

	acquired := make(chan struct{})
	go func() {
		unlock := k.Lock("a")
		close(acquired)
		unlock()
	}()

	select {
	case <-acquired:
		t.Fatal("second Lock on the same key should block")
	case <-time.After(20 * time.Millisecond):
	}

	unlockA()
	<-acquired
	unlockB()

	assert.Eventually(t, func() bool { return k.size() == 0 }, time.Second, time.Millisecond)
}
