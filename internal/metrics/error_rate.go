package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/infinitydev4/reenove-sub000/internal/clock"
)

// ErrorCategory buckets errors by where they came from, so a spike in
// Claude failures is distinguishable from a database outage.
type ErrorCategory string

const (
	ErrorCategoryDatabase   ErrorCategory = "database"
	ErrorCategoryHTTP       ErrorCategory = "http"
	ErrorCategoryValidation ErrorCategory = "validation"
	ErrorCategoryExternal   ErrorCategory = "external"
	ErrorCategoryInternal   ErrorCategory = "internal"
	ErrorCategoryAI         ErrorCategory = "ai"
	ErrorCategoryRateLimit  ErrorCategory = "rate_limit"
)

// ErrorRateConfig configures the error rate tracker.
type ErrorRateConfig struct {
	// WindowDuration is the time window for rate calculation.
	WindowDuration time.Duration

	// BucketCount is the number of buckets within the window.
	BucketCount int

	// AlertThreshold is the error rate in errors per second above
	// which AlertCallback fires.
	AlertThreshold float64

	// AlertCallback is invoked when a category's rate crosses the
	// threshold.
	AlertCallback func(category ErrorCategory, rate float64)
}

// DefaultErrorRateConfig returns sensible defaults.
func DefaultErrorRateConfig() ErrorRateConfig {
	return ErrorRateConfig{
		WindowDuration: time.Minute,
		BucketCount:    60,
		AlertThreshold: 10.0,
	}
}

// ErrorRateTracker keeps per-category sliding-window error counts and
// an overall error percentage surfaced in /health.
type ErrorRateTracker struct {
	config  ErrorRateConfig
	clock   clock.Clock
	mu      sync.RWMutex
	windows map[ErrorCategory]*slidingWindow

	totalErrors   atomic.Int64
	totalRequests atomic.Int64
}

// NewErrorRateTracker creates a new error rate tracker.
func NewErrorRateTracker(config ErrorRateConfig) *ErrorRateTracker {
	if config.WindowDuration == 0 {
		config.WindowDuration = time.Minute
	}
	if config.BucketCount == 0 {
		config.BucketCount = 60
	}

	return &ErrorRateTracker{
		config:  config,
		clock:   clock.New(),
		windows: make(map[ErrorCategory]*slidingWindow),
	}
}

// RecordError records an error in the given category.
func (t *ErrorRateTracker) RecordError(category ErrorCategory) {
	t.totalErrors.Add(1)
	t.window(category).increment()

	if t.config.AlertCallback != nil {
		if rate := t.Rate(category); rate > t.config.AlertThreshold {
			t.config.AlertCallback(category, rate)
		}
	}
}

// RecordRequest counts a request toward the error percentage
// denominator.
func (t *ErrorRateTracker) RecordRequest() {
	t.totalRequests.Add(1)
}

// Rate returns the windowed error rate in errors per second for a
// category.
func (t *ErrorRateTracker) Rate(category ErrorCategory) float64 {
	t.mu.RLock()
	window, ok := t.windows[category]
	t.mu.RUnlock()

	if !ok {
		return 0
	}
	return float64(window.count()) / t.config.WindowDuration.Seconds()
}

// ErrorPercentage returns the share of recorded requests that failed,
// or 0 before any request was recorded.
func (t *ErrorRateTracker) ErrorPercentage() float64 {
	requests := t.totalRequests.Load()
	if requests == 0 {
		return 0
	}
	return float64(t.totalErrors.Load()) / float64(requests) * 100
}

// ErrorRateSnapshot is a point-in-time error rate for one category.
type ErrorRateSnapshot struct {
	Category ErrorCategory
	Count    int64
	Rate     float64
}

// Snapshot returns the current windowed counts for every category that
// has recorded an error.
func (t *ErrorRateTracker) Snapshot() map[ErrorCategory]ErrorRateSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[ErrorCategory]ErrorRateSnapshot, len(t.windows))
	for category, window := range t.windows {
		count := window.count()
		result[category] = ErrorRateSnapshot{
			Category: category,
			Count:    count,
			Rate:     float64(count) / t.config.WindowDuration.Seconds(),
		}
	}
	return result
}

// Reset clears all counters.
func (t *ErrorRateTracker) Reset() {
	t.mu.Lock()
	t.windows = make(map[ErrorCategory]*slidingWindow)
	t.mu.Unlock()

	t.totalErrors.Store(0)
	t.totalRequests.Store(0)
}

func (t *ErrorRateTracker) window(category ErrorCategory) *slidingWindow {
	t.mu.RLock()
	window, ok := t.windows[category]
	t.mu.RUnlock()
	if ok {
		return window
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if window, ok = t.windows[category]; ok {
		return window
	}
	window = newSlidingWindow(t.config.WindowDuration, t.config.BucketCount, t.clock)
	t.windows[category] = window
	return window
}

// slidingWindow is a ring of per-interval counters covering the window.
type slidingWindow struct {
	mu         sync.Mutex
	clock      clock.Clock
	buckets    []int64
	bucketDur  time.Duration
	current    int
	lastRotate time.Time
}

func newSlidingWindow(windowDur time.Duration, bucketCount int, clk clock.Clock) *slidingWindow {
	return &slidingWindow{
		clock:      clk,
		buckets:    make([]int64, bucketCount),
		bucketDur:  windowDur / time.Duration(bucketCount),
		lastRotate: clk.Now(),
	}
}

func (w *slidingWindow) increment() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rotate()
	w.buckets[w.current]++
}

func (w *slidingWindow) count() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.rotate()

	var total int64
	for _, c := range w.buckets {
		total += c
	}
	return total
}

// rotate clears the buckets that aged out since the last call. Callers
// hold w.mu.
func (w *slidingWindow) rotate() {
	now := w.clock.Now()
	passed := int(now.Sub(w.lastRotate) / w.bucketDur)
	if passed == 0 {
		return
	}
	if passed > len(w.buckets) {
		passed = len(w.buckets)
	}

	for i := 0; i < passed; i++ {
		w.current = (w.current + 1) % len(w.buckets)
		w.buckets[w.current] = 0
	}
	w.lastRotate = now
}
