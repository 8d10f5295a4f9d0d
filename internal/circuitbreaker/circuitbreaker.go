// Package circuitbreaker guards calls to the Claude API. When the
// upstream fails repeatedly, turns fail fast instead of holding the
// conversation open for the full HTTP timeout.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/clock"
)

// State represents the circuit breaker state.
type State int

const (
	StateClosed   State = iota // Normal operation, requests go through
	StateOpen                  // Circuit is open, requests fail fast
	StateHalfOpen              // Testing if the service has recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Errors returned by the circuit breaker.
var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures before opening the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive successes needed in half-open to close.
	SuccessThreshold int
	// OpenTimeout is how long the circuit stays open before testing recovery.
	OpenTimeout time.Duration
	// HalfOpenMaxRequests is the maximum number of requests allowed in half-open state.
	HalfOpenMaxRequests int
}

// DefaultConfig returns sensible defaults for a circuit breaker.
func DefaultConfig() *Config {
	return &Config{
		FailureThreshold:    5,
		SuccessThreshold:    3,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 3,
	}
}

// CircuitBreaker tracks consecutive failures of one upstream and
// rejects requests while it is considered down.
type CircuitBreaker struct {
	mu sync.RWMutex

	config *Config

	state                State
	consecutiveFailures  int
	consecutiveSuccesses int
	halfOpenRequests     int
	lastFailure          time.Time
	lastStateChange      time.Time

	totalRequests  int64
	totalSuccesses int64
	totalFailures  int64
	totalRejected  int64
	lastError      error

	clock  clock.Clock
	logger *zap.Logger
	name   string
}

// New creates a new circuit breaker.
func New(name string, config *Config, logger *zap.Logger) *CircuitBreaker {
	if config == nil {
		config = DefaultConfig()
	}

	clk := clock.New()
	return &CircuitBreaker{
		name:            name,
		config:          config,
		state:           StateClosed,
		clock:           clk,
		lastStateChange: clk.Now(),
		logger:          logger,
	}
}

// Execute runs fn under the breaker. It returns ErrCircuitOpen without
// calling fn while the circuit is open, and ErrTooManyRequests when the
// half-open probe budget is spent.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.beforeRequest(); err != nil {
		return err
	}

	err := fn(ctx)

	cb.afterRequest(err)
	return err
}

func (cb *CircuitBreaker) beforeRequest() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.totalRequests++

	switch cb.state {
	case StateClosed:
		return nil

	case StateOpen:
		if cb.clock.Now().Sub(cb.lastFailure) >= cb.config.OpenTimeout {
			cb.setState(StateHalfOpen)
			cb.halfOpenRequests = 1
			cb.logger.Info("circuit breaker transitioning to half-open",
				zap.String("name", cb.name),
			)
			return nil
		}
		cb.totalRejected++
		return ErrCircuitOpen

	case StateHalfOpen:
		if cb.halfOpenRequests >= cb.config.HalfOpenMaxRequests {
			cb.totalRejected++
			return ErrTooManyRequests
		}
		cb.halfOpenRequests++
		return nil
	}

	return nil
}

func (cb *CircuitBreaker) afterRequest(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case err == nil:
		cb.recordSuccess()
	case CountsAsFailure(err):
		cb.recordFailure(err)
	}
	// Client-side cancellations say nothing about upstream health and
	// are ignored.
}

func (cb *CircuitBreaker) recordFailure(err error) {
	cb.totalFailures++
	cb.consecutiveFailures++
	cb.consecutiveSuccesses = 0
	cb.lastFailure = cb.clock.Now()
	cb.lastError = err

	switch cb.state {
	case StateClosed:
		if cb.consecutiveFailures >= cb.config.FailureThreshold {
			cb.setState(StateOpen)
			cb.logger.Warn("circuit breaker opened",
				zap.String("name", cb.name),
				zap.Int("consecutive_failures", cb.consecutiveFailures),
				zap.Error(err),
			)
		}

	case StateHalfOpen:
		// Single failure in half-open reopens the circuit
		cb.setState(StateOpen)
		cb.lastFailure = cb.clock.Now()
		cb.logger.Warn("circuit breaker reopened from half-open",
			zap.String("name", cb.name),
			zap.Error(err),
		)
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.totalSuccesses++
	cb.consecutiveSuccesses++
	cb.consecutiveFailures = 0

	if cb.state == StateHalfOpen && cb.consecutiveSuccesses >= cb.config.SuccessThreshold {
		cb.setState(StateClosed)
		cb.logger.Info("circuit breaker closed",
			zap.String("name", cb.name),
			zap.Int("consecutive_successes", cb.consecutiveSuccesses),
		)
	}
}

// setState changes state and resets the per-state counters. Callers
// hold cb.mu.
func (cb *CircuitBreaker) setState(newState State) {
	cb.state = newState
	cb.lastStateChange = cb.clock.Now()
	cb.consecutiveFailures = 0
	cb.consecutiveSuccesses = 0
	cb.halfOpenRequests = 0
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// IsOpen returns true if the circuit is open.
func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state == StateOpen
}

// Stats holds circuit breaker statistics.
type Stats struct {
	Name                 string    `json:"name"`
	State                string    `json:"state"`
	TotalRequests        int64     `json:"total_requests"`
	TotalSuccesses       int64     `json:"total_successes"`
	TotalFailures        int64     `json:"total_failures"`
	TotalRejected        int64     `json:"total_rejected"`
	ConsecutiveFailures  int       `json:"consecutive_failures"`
	ConsecutiveSuccesses int       `json:"consecutive_successes"`
	LastFailure          time.Time `json:"last_failure,omitempty"`
	LastStateChange      time.Time `json:"last_state_change"`
	LastError            string    `json:"last_error,omitempty"`
}

// Stats returns current circuit breaker statistics.
func (cb *CircuitBreaker) Stats() Stats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	var lastError string
	if cb.lastError != nil {
		lastError = cb.lastError.Error()
	}

	return Stats{
		Name:                 cb.name,
		State:                cb.state.String(),
		TotalRequests:        cb.totalRequests,
		TotalSuccesses:       cb.totalSuccesses,
		TotalFailures:        cb.totalFailures,
		TotalRejected:        cb.totalRejected,
		ConsecutiveFailures:  cb.consecutiveFailures,
		ConsecutiveSuccesses: cb.consecutiveSuccesses,
		LastFailure:          cb.lastFailure,
		LastStateChange:      cb.lastStateChange,
		LastError:            lastError,
	}
}

// Reset forces the circuit breaker to the closed state, for
// administrative use only.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.setState(StateClosed)
	cb.totalRejected = 0
	cb.lastError = nil

	cb.logger.Info("circuit breaker reset",
		zap.String("name", cb.name),
		zap.String("from_state", oldState.String()),
	)
}

// CountsAsFailure reports whether an error reflects upstream health.
// Cancellations from the caller and the breaker's own rejections do
// not.
func CountsAsFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests) {
		return false
	}
	return true
}
