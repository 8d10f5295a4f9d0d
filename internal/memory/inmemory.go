package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryLog implements Log with an in-process map, used when no
// database is configured and in tests.
type InMemoryLog struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]Entry
}

// NewInMemoryLog creates a new InMemoryLog.
func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{entries: make(map[uuid.UUID][]Entry)}
}

// Append records a turn.
func (l *InMemoryLog) Append(_ context.Context, entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[entry.SessionID] = append(l.entries[entry.SessionID], entry)
	return nil
}

// Recent returns the latest turns of a session, oldest first.
func (l *InMemoryLog) Recent(_ context.Context, sessionID uuid.UUID, limit int) ([]Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := l.entries[sessionID]
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	out := make([]Entry, len(all))
	copy(out, all)
	return out, nil
}
