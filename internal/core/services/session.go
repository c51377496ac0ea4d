package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/core/ports/driving"
)

// Ensure SessionStore implements the interface.
var _ driving.SessionService = (*SessionStore)(nil)

// SessionStore persists chat sessions as JSON blobs.
//
// Appends to one session are serialised; appends to different sessions run
// in parallel. After every append MessageCount is recomputed from the
// persisted messages.
type SessionStore struct {
	repo  *documentRepository
	locks *keyedMutex
	now   func() time.Time
	newID func() string
}

// NewSessionStore creates a session store backed by blobs.
func NewSessionStore(blobs driven.BlobStore) *SessionStore {
	return &SessionStore{
		repo:  newDocumentRepository(blobs),
		locks: newKeyedMutex(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Create assigns an id and timestamps to session and persists it.
func (s *SessionStore) Create(ctx context.Context, session *domain.ChatSession) (*domain.ChatSession, error) {
	if session == nil || session.Owner == "" {
		return nil, fmt.Errorf("create session: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	created := *session
	created.ID = s.newID()
	created.Messages = append([]domain.ChatMessage{}, session.Messages...)
	created.MessageCount = len(created.Messages)
	created.CreatedAt = now
	created.UpdatedAt = now

	if err := s.repo.putJSON(ctx, created.Owner, sessionKey(created.ID), &created); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &created, nil
}

// Get returns a session. Unknown ids return domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, owner, sessionID string) (*domain.ChatSession, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	var session domain.ChatSession
	if err := s.repo.getJSON(ctx, owner, sessionKey(sessionID), &session, domain.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return &session, nil
}

// Append adds messages to a session in order and returns the persisted
// session. The messages are written together, so a question and its
// answer are never separated by a concurrent append.
func (s *SessionStore) Append(
	ctx context.Context, owner, sessionID string, msgs ...domain.ChatMessage,
) (*domain.ChatSession, error) {
	for _, m := range msgs {
		if !m.Role.IsValid() {
			return nil, fmt.Errorf("message role %q: %w", m.Role, domain.ErrInvalidInput)
		}
	}

	unlock := s.locks.Lock(owner + "/" + sessionID)
	defer unlock()

	session, err := s.Get(ctx, owner, sessionID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, m := range msgs {
		if m.ID == "" {
			m.ID = s.newID()
		}
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		session.Messages = append(session.Messages, m)
	}
	session.MessageCount = len(session.Messages)
	session.UpdatedAt = now

	if err := s.repo.putJSON(ctx, owner, sessionKey(sessionID), session); err != nil {
		return nil, fmt.Errorf("append to session: %w", err)
	}

	persisted, err := s.Get(ctx, owner, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reload session: %w", err)
	}
	persisted.MessageCount = len(persisted.Messages)
	return persisted, nil
}

// Rename sets a session's display name. Surrounding whitespace is dropped
// and a blank name is rejected.
func (s *SessionStore) Rename(ctx context.Context, owner, sessionID, name string) (*domain.ChatSession, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("session name: %w", domain.ErrInvalidInput)
	}

	unlock := s.locks.Lock(owner + "/" + sessionID)
	defer unlock()

	session, err := s.Get(ctx, owner, sessionID)
	if err != nil {
		return nil, err
	}
	session.Name = name
	session.MessageCount = len(session.Messages)
	session.UpdatedAt = s.now()

	if err := s.repo.putJSON(ctx, owner, sessionKey(sessionID), session); err != nil {
		return nil, fmt.Errorf("rename session: %w", err)
	}
	return session, nil
}

// List returns session summaries, most recently updated first.
func (s *SessionStore) List(ctx context.Context, owner string) ([]domain.SessionSummary, error) {
	sessions, err := s.all(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := make([]domain.SessionSummary, 0, len(sessions))
	for i := range sessions {
		out = append(out, sessions[i].Summarise())
	}
	return out, nil
}

// ForDocument returns the most recently updated session linked to a document.
func (s *SessionStore) ForDocument(ctx context.Context, owner, documentID string) (*domain.ChatSession, error) {
	sessions, err := s.all(ctx, owner)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		if sessions[i].DocumentID == documentID {
			return &sessions[i], nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

// all loads every session for owner, most recently updated first.
func (s *SessionStore) all(ctx context.Context, owner string) ([]domain.ChatSession, error) {
	keys, err := s.repo.blobs.List(ctx, owner, sessionsPrefix)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]domain.ChatSession, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		session, err := s.Get(ctx, owner, idFromKey(sessionsPrefix, key))
		if errors.Is(err, domain.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		session.MessageCount = len(session.Messages)
		sessions = append(sessions, *session)
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
	return sessions, nil
}
