package middleware

import (
	"encoding/json"
	"net/http"
)

// MaxJSONBodySize caps JSON API request bodies at 1 MB. Turn bodies
// carry text and photo URLs, never photo bytes, so anything larger is
// abuse.
const MaxJSONBodySize = 1 << 20

// BodySizeLimiter rejects request bodies above maxBytes. The
// Content-Length header is checked up front; chunked bodies are capped
// while reading via http.MaxBytesReader.
func BodySizeLimiter(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.ContentLength == 0 {
				next.ServeHTTP(w, r)
				return
			}

			if r.ContentLength > maxBytes {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "request body too large",
				})
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// BodySizeLimiterJSON limits JSON API request bodies to MaxJSONBodySize.
func BodySizeLimiterJSON() func(http.Handler) http.Handler {
	return BodySizeLimiter(MaxJSONBodySize)
}
