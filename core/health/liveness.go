package health

import (
	"net/http"

	"github.com/dmitrymomot/mailprobe/core/response"
)

// Liveness reports that the process is running. It checks no dependencies.
func Liveness(w http.ResponseWriter, _ *http.Request) {
	_ = response.String(w, http.StatusOK, "ALIVE")
}
