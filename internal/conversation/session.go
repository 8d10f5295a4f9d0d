// Package conversation runs the guided quote dialogue: it owns the
// per-session state, classifies each user turn, updates the project
// record, and decides what the assistant says next.
package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/clock"
	"github.com/infinitydev4/reenove-sub000/internal/domain"
)

// Session is one quote conversation: the record being filled, the
// dialogue state, and the options last offered to the user. The mutex
// serializes turns; readers outside the package go through Snapshot.
type Session struct {
	mu          sync.Mutex
	ID          uuid.UUID
	Record      domain.ProjectRecord
	State       domain.ConversationState
	LastOptions []domain.Option
	CreatedAt   time.Time
	LastActive  time.Time
}

// Snapshot is a consistent copy of session data for the transport layer.
type Snapshot struct {
	ID         uuid.UUID
	Record     domain.ProjectRecord
	State      domain.ConversationState
	CreatedAt  time.Time
	LastActive time.Time
}

// Snapshot copies the session under its lock, so reads never observe a
// turn in progress.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.ID,
		Record:     s.Record.Clone(),
		State:      s.State,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive,
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.LastActive = now
	s.mu.Unlock()
}

func newSession(id uuid.UUID, now time.Time) *Session {
	return &Session{
		ID:         id,
		Record:     domain.NewProjectRecord(),
		State:      domain.NewConversationState(),
		CreatedAt:  now,
		LastActive: now,
	}
}

// Store keeps sessions in memory with TTL-based eviction. Every access
// goes through the store; there is no process-wide session state.
type Store struct {
	mu            sync.Mutex
	sessions      map[uuid.UUID]*Session
	ttl           time.Duration
	sweepInterval time.Duration
	logger        *zap.Logger
	clock         clock.Clock
}

// NewStore creates a session store. A zero ttl disables eviction.
func NewStore(ttl, sweepInterval time.Duration, logger *zap.Logger) *Store {
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	return &Store{
		sessions:      make(map[uuid.UUID]*Session),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		logger:        logger,
		clock:         clock.New(),
	}
}

// GetOrCreate returns the session for id, creating it on first use, and
// refreshes its activity timestamp.
func (s *Store) GetOrCreate(id uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	sess, ok := s.sessions[id]
	if !ok {
		sess = newSession(id, now)
		s.sessions[id] = sess
		return sess
	}
	sess.touch(now)
	return sess
}

// Get returns the session for id if it exists.
func (s *Store) Get(id uuid.UUID) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if ok {
		sess.touch(s.clock.Now())
	}
	return sess, ok
}

// Reset discards the session's record and state but keeps the id, so
// the user restarts from an empty project.
func (s *Store) Reset(id uuid.UUID) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := newSession(id, s.clock.Now())
	s.sessions[id] = sess
	return sess
}

// Delete removes a session.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// StartSweeper evicts idle sessions periodically until ctx is done.
func (s *Store) StartSweeper(ctx context.Context) {
	if s.ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *Store) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().Add(-s.ttl)
	evicted := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.LastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		s.logger.Debug("evicted idle sessions",
			zap.Int("count", evicted),
			zap.Int("remaining", len(s.sessions)),
		)
	}
}
