package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/infinitydev4/reenove-sub000/internal/clock"
)

// RateLimiter allows a fixed number of requests per IP per window. A
// conversation turn is one request, so the default config still leaves
// room for a fast typist.
type RateLimiter struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
	clock    clock.Clock
	logger   *zap.Logger
	onLimit  func(ip string)
}

type visitor struct {
	tokens    int
	lastReset time.Time
}

// NewRateLimiter creates a new rate limiter and starts its cleanup
// goroutine.
func NewRateLimiter(rate int, window time.Duration, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		clock:    clock.New(),
		logger:   logger,
	}

	go rl.cleanup()

	return rl
}

// SetOnLimit registers a callback invoked each time a request is
// rejected, used to feed metrics and audit logging.
func (rl *RateLimiter) SetOnLimit(fn func(ip string)) {
	rl.onLimit = fn
}

// cleanup drops visitors that have been idle for two full windows.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := rl.clock.Now()
		for ip, v := range rl.visitors {
			if now.Sub(v.lastReset) > rl.window*2 {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()

	v, exists := rl.visitors[ip]
	if !exists {
		rl.visitors[ip] = &visitor{
			tokens:    rl.rate - 1,
			lastReset: now,
		}
		return true
	}

	if now.Sub(v.lastReset) >= rl.window {
		v.tokens = rl.rate - 1
		v.lastReset = now
		return true
	}

	if v.tokens > 0 {
		v.tokens--
		return true
	}

	return false
}

func (rl *RateLimiter) remaining(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	v, exists := rl.visitors[ip]
	if !exists {
		return rl.rate
	}

	if rl.clock.Now().Sub(v.lastReset) >= rl.window {
		return rl.rate
	}

	return v.tokens
}

// RateLimit returns middleware enforcing the limiter. Rejections get a
// Retry-After of the window and a JSON body.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(rl.window.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getClientIP(r)

			if !rl.allow(ip) {
				rl.logger.Warn("rate limit exceeded",
					zap.String("ip", ip),
					zap.String("path", r.URL.Path),
				)
				if rl.onLimit != nil {
					rl.onLimit(ip)
				}
				w.Header().Set("Retry-After", retryAfter)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "too many requests",
				})
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rl.remaining(ip)))

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP extracts the client IP, trusting proxy headers first.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr may come without a port in tests
		return r.RemoteAddr
	}
	return host
}
