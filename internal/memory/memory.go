// Package memory is the append-only conversation log. Every user and
// assistant turn is recorded per session so a new estimator run or a
// human reviewer can replay the exchange.
package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a logged turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Entry is one logged turn.
type Entry struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is the append-only store of conversation turns.
type Log interface {
	// Append records a turn. Entries are never updated or deleted.
	Append(ctx context.Context, entry Entry) error

	// Recent returns the latest turns of a session, oldest first, up to
	// limit entries.
	Recent(ctx context.Context, sessionID uuid.UUID, limit int) ([]Entry, error)
}

// NewEntry stamps a turn with an identifier and the current time.
func NewEntry(sessionID uuid.UUID, role Role, content string) Entry {
	return Entry{
		ID:        uuid.New(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}
