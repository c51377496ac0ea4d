package domain

import "time"

// MessageRole identifies the author of a chat message.
type MessageRole string

// Message roles.
const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// IsValid returns true if the role is recognised.
func (r MessageRole) IsValid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// ChatMessage is a single entry in a session. Messages are append-only.
type ChatMessage struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// ChatSession is a conversation thread tied to zero or one document.
//
// MessageCount always equals len(Messages) of the persisted record. It is
// recomputed from the stored messages after every append, never incremented
// ahead of a write.
type ChatSession struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Owner        string        `json:"owner"`
	DocumentID   string        `json:"document_id,omitempty"`
	DocumentName string        `json:"document_name,omitempty"`
	DocumentPath string        `json:"document_path,omitempty"`
	Messages     []ChatMessage `json:"messages"`
	MessageCount int           `json:"message_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"last_updated"`
}

// SessionState is the lifecycle state of a session.
type SessionState string

// Session states. There is no closed state; sessions persist indefinitely.
const (
	SessionAbsent  SessionState = "absent"
	SessionCreated SessionState = "created"
	SessionActive  SessionState = "active"
)

// State derives the lifecycle state from the message history.
func (s *ChatSession) State() SessionState {
	if s == nil {
		return SessionAbsent
	}
	if len(s.Messages) == 0 {
		return SessionCreated
	}
	return SessionActive
}

// History returns the last n messages formatted as "Role: content" lines,
// oldest first.
func (s *ChatSession) History(n int) []string {
	if s == nil || n <= 0 {
		return nil
	}
	msgs := s.Messages
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, m.Role.Speaker()+": "+m.Content)
	}
	return lines
}

// Speaker returns the capitalised role name used in prompts.
func (r MessageRole) Speaker() string {
	switch r {
	case RoleUser:
		return "User"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// SessionSummary is the listing view of a session.
type SessionSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DocumentID   string    `json:"document_id,omitempty"`
	DocumentName string    `json:"document_name,omitempty"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"last_updated"`
}

// Summarise returns the listing view of the session.
func (s *ChatSession) Summarise() SessionSummary {
	return SessionSummary{
		ID:           s.ID,
		Name:         s.Name,
		DocumentID:   s.DocumentID,
		DocumentName: s.DocumentName,
		MessageCount: s.MessageCount,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
