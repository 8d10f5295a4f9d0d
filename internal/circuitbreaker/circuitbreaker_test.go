package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/clock"
)

var errUpstream = errors.New("api error: status 500")

func newTestBreaker(cfg *Config) (*CircuitBreaker, *clock.Mock) {
	cb := New("claude-api", cfg, zap.NewNop())
	mock := clock.NewMock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	cb.clock = mock
	return cb, mock
}

func failN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(context.Background(), func(ctx context.Context) error {
			return errUpstream
		})
	}
}

func succeedN(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(context.Background(), func(ctx context.Context) error {
			return nil
		})
	}
}

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	cb, _ := newTestBreaker(nil)

	if cb.State() != StateClosed {
		t.Errorf("initial state = %v, want closed", cb.State())
	}
	if cb.IsOpen() {
		t.Error("IsOpen() = true for a new breaker")
	}
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb, _ := newTestBreaker(&Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 2,
	})

	failN(cb, 2)
	if cb.State() != StateClosed {
		t.Fatalf("state after 2 failures = %v, want closed", cb.State())
	}

	failN(cb, 1)
	if cb.State() != StateOpen {
		t.Fatalf("state after 3 failures = %v, want open", cb.State())
	}

	// Open circuit rejects without calling fn.
	called := false
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("fn was called while the circuit was open")
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb, _ := newTestBreaker(&Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 2,
	})

	failN(cb, 2)
	succeedN(cb, 1)
	failN(cb, 2)

	if cb.State() != StateClosed {
		t.Errorf("state = %v, want closed after interleaved success", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	cb, mock := newTestBreaker(&Config{
		FailureThreshold:    2,
		SuccessThreshold:    2,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 2,
	})

	failN(cb, 2)
	if cb.State() != StateOpen {
		t.Fatalf("state = %v, want open", cb.State())
	}

	mock.Advance(29 * time.Second)
	if err := cb.Execute(context.Background(), func(ctx context.Context) error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("before timeout: err = %v, want ErrCircuitOpen", err)
	}

	mock.Advance(2 * time.Second)
	if err := cb.Execute(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("after timeout: err = %v, want nil", err)
	}
	if cb.State() != StateHalfOpen {
		t.Errorf("state = %v, want half-open", cb.State())
	}
}

func TestCircuitBreaker_ClosesAfterSuccesses(t *testing.T) {
	cb, mock := newTestBreaker(&Config{
		FailureThreshold:    2,
		SuccessThreshold:    2,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 5,
	})

	failN(cb, 2)
	mock.Advance(31 * time.Second)

	succeedN(cb, 2)
	if cb.State() != StateClosed {
		t.Errorf("state = %v, want closed after recovery", cb.State())
	}
}

func TestCircuitBreaker_ReopensOnHalfOpenFailure(t *testing.T) {
	cb, mock := newTestBreaker(&Config{
		FailureThreshold:    2,
		SuccessThreshold:    3,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 5,
	})

	failN(cb, 2)
	mock.Advance(31 * time.Second)

	succeedN(cb, 1)
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open", cb.State())
	}

	failN(cb, 1)
	if cb.State() != StateOpen {
		t.Errorf("state = %v, want open after half-open failure", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenRequestBudget(t *testing.T) {
	cb, mock := newTestBreaker(&Config{
		FailureThreshold:    2,
		SuccessThreshold:    10,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 2,
	})

	failN(cb, 2)
	mock.Advance(31 * time.Second)

	// First probe transitions to half-open and consumes one slot.
	succeedN(cb, 2)
	if cb.State() != StateHalfOpen {
		t.Fatalf("state = %v, want half-open", cb.State())
	}

	err := cb.Execute(context.Background(), func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("err = %v, want ErrTooManyRequests", err)
	}
}

func TestCircuitBreaker_CancellationNotCounted(t *testing.T) {
	cb, _ := newTestBreaker(&Config{
		FailureThreshold:    2,
		SuccessThreshold:    2,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 2,
	})

	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), func(ctx context.Context) error {
			return context.Canceled
		})
	}

	if cb.State() != StateClosed {
		t.Errorf("state = %v, want closed after cancellations only", cb.State())
	}
	if got := cb.Stats().TotalFailures; got != 0 {
		t.Errorf("TotalFailures = %d, want 0", got)
	}
}

func TestCircuitBreaker_Stats(t *testing.T) {
	cb, _ := newTestBreaker(&Config{
		FailureThreshold:    5,
		SuccessThreshold:    2,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 2,
	})

	succeedN(cb, 3)
	failN(cb, 2)

	stats := cb.Stats()
	if stats.Name != "claude-api" {
		t.Errorf("Name = %q, want claude-api", stats.Name)
	}
	if stats.TotalRequests != 5 {
		t.Errorf("TotalRequests = %d, want 5", stats.TotalRequests)
	}
	if stats.TotalSuccesses != 3 {
		t.Errorf("TotalSuccesses = %d, want 3", stats.TotalSuccesses)
	}
	if stats.TotalFailures != 2 {
		t.Errorf("TotalFailures = %d, want 2", stats.TotalFailures)
	}
	if stats.ConsecutiveFailures != 2 {
		t.Errorf("ConsecutiveFailures = %d, want 2", stats.ConsecutiveFailures)
	}
	if stats.LastError != errUpstream.Error() {
		t.Errorf("LastError = %q, want %q", stats.LastError, errUpstream.Error())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb, _ := newTestBreaker(&Config{
		FailureThreshold:    2,
		SuccessThreshold:    2,
		OpenTimeout:         30 * time.Second,
		HalfOpenMaxRequests: 2,
	})

	failN(cb, 2)
	if !cb.IsOpen() {
		t.Fatal("expected open circuit before reset")
	}

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("state = %v, want closed after reset", cb.State())
	}
	stats := cb.Stats()
	if stats.TotalRejected != 0 {
		t.Errorf("TotalRejected = %d, want 0 after reset", stats.TotalRejected)
	}
	if stats.LastError != "" {
		t.Errorf("LastError = %q, want empty after reset", stats.LastError)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestCountsAsFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"upstream error", errUpstream, true},
		{"canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"circuit open", ErrCircuitOpen, false},
		{"too many requests", ErrTooManyRequests, false},
	}

	for _, tt := range tests {
		if got := CountsAsFailure(tt.err); got != tt.want {
			t.Errorf("%s: CountsAsFailure = %v, want %v", tt.name, got, tt.want)
		}
	}
}
