package driving

import (
	"context"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// SessionService reads and renames chat sessions.
type SessionService interface {
	// List returns session summaries for an owner, most recently updated first.
	List(ctx context.Context, owner string) ([]domain.SessionSummary, error)

	// Get returns a session with its full message history.
	Get(ctx context.Context, owner, sessionID string) (*domain.ChatSession, error)

	// ForDocument returns the session linked to a document.
	// Returns domain.ErrSessionNotFound when none exists yet.
	ForDocument(ctx context.Context, owner, documentID string) (*domain.ChatSession, error)

	// Rename sets a session's display name.
	// Returns domain.ErrSessionNotFound for an unknown session and
	// domain.ErrInvalidInput for a blank name.
	Rename(ctx context.Context, owner, sessionID, name string) (*domain.ChatSession, error)
}
