// Package clock abstracts time.Now so session expiry and circuit
// breaker timeouts can be tested deterministically.
package clock

import (
	"sync"
	"time"
)

// Clock provides the time operations the service depends on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NowUTC returns the current time in UTC, for values that get
	// stored.
	NowUTC() time.Time

	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration
}

type realClock struct{}

// New returns a Clock backed by the system time.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time                  { return time.Now() }
func (realClock) NowUTC() time.Time               { return time.Now().UTC() }
func (realClock) Since(t time.Time) time.Duration { return time.Since(t) }

// Mock is a Clock whose time only moves when told to.
type Mock struct {
	mu      sync.RWMutex
	current time.Time
}

// NewMock creates a Mock set to the given time.
func NewMock(t time.Time) *Mock {
	return &Mock{current: t}
}

// Now returns the mock's current time.
func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// NowUTC returns the mock's current time in UTC.
func (m *Mock) NowUTC() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.UTC()
}

// Since returns the duration between t and the mock's current time.
func (m *Mock) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

// Set moves the mock to a specific time.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the mock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}
