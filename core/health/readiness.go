package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/mailprobe/core/logger"
	"github.com/dmitrymomot/mailprobe/core/response"
)

// Check verifies one dependency.
type Check func(context.Context) error

// Readiness runs every check in order and answers 503 on the first failure.
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed", logger.Error(err))
				_ = response.Error(w, response.ErrServiceUnavailable)
				return
			}
		}
		_ = response.String(w, http.StatusOK, "READY")
	}
}
