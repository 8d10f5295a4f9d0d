// Package ratelimit provides rate limiting functionality for cost control.
package ratelimit

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// GenerationLimiter caps how often the application calls the text generation
// API, to keep spend predictable.
type GenerationLimiter struct {
	mu sync.RWMutex

	// Configuration
	maxRequestsPerMinute int
	maxRequestsPerHour   int
	maxRequestsPerDay    int
	maxConcurrent        int

	// State
	minuteBucket  *tokenBucket
	hourBucket    *tokenBucket
	dayBucket     *tokenBucket
	currentActive int

	// Metrics
	totalRequests   int64
	totalRejected   int64
	lastRejectedAt  time.Time
	rejectionReason string

	logger *zap.Logger
}

// GenerationLimiterConfig holds configuration for the generation limiter.
type GenerationLimiterConfig struct {
	MaxRequestsPerMinute int
	MaxRequestsPerHour   int
	MaxRequestsPerDay    int
	MaxConcurrent        int
}

// DefaultGenerationLimiterConfig returns sensible defaults for cost control.
func DefaultGenerationLimiterConfig() *GenerationLimiterConfig {
	return &GenerationLimiterConfig{
		MaxRequestsPerMinute: 30,   // 30 generations per minute
		MaxRequestsPerHour:   500,  // 500 generations per hour
		MaxRequestsPerDay:    3000, // 3000 generations per day
		MaxConcurrent:        10,   // 10 concurrent generations
	}
}

// NewGenerationLimiter creates a new generation rate limiter.
func NewGenerationLimiter(cfg *GenerationLimiterConfig, logger *zap.Logger) *GenerationLimiter {
	if cfg == nil {
		cfg = DefaultGenerationLimiterConfig()
	}

	now := time.Now()
	return &GenerationLimiter{
		maxRequestsPerMinute: cfg.MaxRequestsPerMinute,
		maxRequestsPerHour:   cfg.MaxRequestsPerHour,
		maxRequestsPerDay:    cfg.MaxRequestsPerDay,
		maxConcurrent:        cfg.MaxConcurrent,
		minuteBucket:         newTokenBucket(cfg.MaxRequestsPerMinute, time.Minute, now),
		hourBucket:           newTokenBucket(cfg.MaxRequestsPerHour, time.Hour, now),
		dayBucket:            newTokenBucket(cfg.MaxRequestsPerDay, 24*time.Hour, now),
		logger:               logger,
	}
}

// Errors for rate limiting.
var (
	ErrRateLimitExceeded       = errors.New("rate limit exceeded")
	ErrMinuteLimitExceeded     = errors.New("minute rate limit exceeded")
	ErrHourLimitExceeded       = errors.New("hour rate limit exceeded")
	ErrDayLimitExceeded        = errors.New("day rate limit exceeded")
	ErrConcurrentLimitExceeded = errors.New("concurrent request limit exceeded")
)

// Acquire attempts to acquire a rate limit slot for a generation call.
// Returns nil if successful, or an error if rate limited.
func (gl *GenerationLimiter) Acquire(ctx context.Context) error {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	gl.totalRequests++
	now := time.Now()

	// Check concurrent limit
	if gl.currentActive >= gl.maxConcurrent {
		gl.reject("concurrent limit", now)
		return ErrConcurrentLimitExceeded
	}

	// Check minute limit
	if !gl.minuteBucket.tryAcquire(now) {
		gl.reject("minute limit", now)
		return ErrMinuteLimitExceeded
	}

	// Check hour limit
	if !gl.hourBucket.tryAcquire(now) {
		// Rollback minute bucket
		gl.minuteBucket.release()
		gl.reject("hour limit", now)
		return ErrHourLimitExceeded
	}

	// Check day limit
	if !gl.dayBucket.tryAcquire(now) {
		// Rollback minute and hour buckets
		gl.minuteBucket.release()
		gl.hourBucket.release()
		gl.reject("day limit", now)
		return ErrDayLimitExceeded
	}

	// All checks passed
	gl.currentActive++

	gl.logger.Debug("generation rate limit acquired",
		zap.Int("active", gl.currentActive),
		zap.Int("minute_remaining", gl.minuteBucket.remaining()),
		zap.Int("hour_remaining", gl.hourBucket.remaining()),
		zap.Int("day_remaining", gl.dayBucket.remaining()),
	)

	return nil
}

// Release releases a rate limit slot after the generation call completes.
func (gl *GenerationLimiter) Release() {
	gl.mu.Lock()
	defer gl.mu.Unlock()

	if gl.currentActive > 0 {
		gl.currentActive--
	}

	gl.logger.Debug("generation rate limit released",
		zap.Int("active", gl.currentActive),
	)
}

// Wait blocks until a rate limit slot is available or context is canceled.
func (gl *GenerationLimiter) Wait(ctx context.Context) error {
	// Try to acquire immediately
	if err := gl.Acquire(ctx); err == nil {
		return nil
	}

	// Poll for availability
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := gl.Acquire(ctx); err == nil {
				return nil
			}
		}
	}
}

// reject records a rejection.
func (gl *GenerationLimiter) reject(reason string, t time.Time) {
	gl.totalRejected++
	gl.lastRejectedAt = t
	gl.rejectionReason = reason

	gl.logger.Warn("generation rate limit exceeded",
		zap.String("reason", reason),
		zap.Int64("total_rejected", gl.totalRejected),
	)
}

// Stats returns current rate limiter statistics.
func (gl *GenerationLimiter) Stats() GenerationLimiterStats {
	gl.mu.RLock()
	defer gl.mu.RUnlock()

	now := time.Now()
	return GenerationLimiterStats{
		CurrentActive:       gl.currentActive,
		MaxConcurrent:       gl.maxConcurrent,
		MinuteRemaining:     gl.minuteBucket.remaining(),
		MinuteMax:           gl.maxRequestsPerMinute,
		HourRemaining:       gl.hourBucket.remaining(),
		HourMax:             gl.maxRequestsPerHour,
		DayRemaining:        gl.dayBucket.remaining(),
		DayMax:              gl.maxRequestsPerDay,
		TotalRequests:       gl.totalRequests,
		TotalRejected:       gl.totalRejected,
		LastRejectedAt:      gl.lastRejectedAt,
		LastRejectionReason: gl.rejectionReason,
		MinuteResetIn:       gl.minuteBucket.resetIn(now),
		HourResetIn:         gl.hourBucket.resetIn(now),
		DayResetIn:          gl.dayBucket.resetIn(now),
	}
}

// GenerationLimiterStats holds statistics about the rate limiter.
type GenerationLimiterStats struct {
	CurrentActive       int           `json:"current_active"`
	MaxConcurrent       int           `json:"max_concurrent"`
	MinuteRemaining     int           `json:"minute_remaining"`
	MinuteMax           int           `json:"minute_max"`
	HourRemaining       int           `json:"hour_remaining"`
	HourMax             int           `json:"hour_max"`
	DayRemaining        int           `json:"day_remaining"`
	DayMax              int           `json:"day_max"`
	TotalRequests       int64         `json:"total_requests"`
	TotalRejected       int64         `json:"total_rejected"`
	LastRejectedAt      time.Time     `json:"last_rejected_at,omitempty"`
	LastRejectionReason string        `json:"last_rejection_reason,omitempty"`
	MinuteResetIn       time.Duration `json:"minute_reset_in"`
	HourResetIn         time.Duration `json:"hour_reset_in"`
	DayResetIn          time.Duration `json:"day_reset_in"`
}

// tokenBucket is a simple sliding window token bucket implementation.
type tokenBucket struct {
	max       int
	period    time.Duration
	tokens    int
	lastReset time.Time
}

func newTokenBucket(maxTokens int, period time.Duration, now time.Time) *tokenBucket {
	return &tokenBucket{
		max:       maxTokens,
		period:    period,
		tokens:    maxTokens,
		lastReset: now,
	}
}

func (b *tokenBucket) tryAcquire(now time.Time) bool {
	b.refill(now)
	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (b *tokenBucket) release() {
	if b.tokens < b.max {
		b.tokens++
	}
}

func (b *tokenBucket) remaining() int {
	return b.tokens
}

func (b *tokenBucket) resetIn(now time.Time) time.Duration {
	elapsed := now.Sub(b.lastReset)
	remaining := b.period - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (b *tokenBucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastReset)
	if elapsed >= b.period {
		// Reset the bucket
		b.tokens = b.max
		b.lastReset = now
	}
}
