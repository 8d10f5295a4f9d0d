// Package middleware provides HTTP middleware for the application.
package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Probe and scrape endpoints hit every few seconds; logging them at
// info would drown out real traffic.
var quietPaths = map[string]bool{
	"/live":    true,
	"/metrics": true,
}

// RequestLogger logs HTTP requests with structured logging. Correlation
// IDs from the request context are attached to every line, and error
// responses are raised to warn so they stand out at the default level.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)

			log := LoggerWithCorrelation(r.Context(), logger)
			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rw.statusCode),
				zap.Duration("duration", duration),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("user_agent", r.UserAgent()),
			}

			switch {
			case rw.statusCode >= http.StatusInternalServerError:
				log.Error("http request", fields...)
			case rw.statusCode >= http.StatusBadRequest:
				log.Warn("http request", fields...)
			case quietPaths[r.URL.Path]:
				log.Debug("http request", fields...)
			default:
				log.Info("http request", fields...)
			}
		})
	}
}
