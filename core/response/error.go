package response

import (
	"errors"
	"net/http"
)

// ErrorBody is the JSON envelope for error responses.
type ErrorBody struct {
	Error HTTPError `json:"error"`
}

// Error writes err as a JSON error envelope. Errors that are not an
// HTTPError become a generic 500 without leaking their text.
func Error(w http.ResponseWriter, err error) error {
	var httpErr HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = ErrInternalServerError
	}
	return JSON(w, httpErr.Status, ErrorBody{Error: httpErr})
}
