package middleware

import (
	"fmt"
	"net/http"

	"github.com/dmitrymomot/mailprobe/core/response"
)

// Common size constants for convenience
const (
	KB int64 = 1024
	MB       = 1024 * KB
)

// BodyLimit rejects requests whose declared Content-Length exceeds maxSize
// with 413 and caps the body reader for requests without one.
func BodyLimit(maxSize int64) func(http.Handler) http.Handler {
	if maxSize <= 0 {
		maxSize = 4 * MB
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxSize {
				_ = response.Error(w, response.ErrRequestEntityTooLarge.
					WithMessage(fmt.Sprintf("request body too large, maximum allowed: %s", formatBytes(maxSize))).
					WithDetail("limit", maxSize).
					WithDetail("size", r.ContentLength))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func formatBytes(bytes int64) string {
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
