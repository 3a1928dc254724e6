// Package response writes JSON and plain-text HTTP responses and the JSON
// error envelope used by every endpoint:
//
//	{"error": {"code": "conflict", "message": "...", "details": {...}}}
//
// Handlers return HTTPError values built from the predefined errors:
//
//	response.Error(w, response.ErrConflict.WithMessage("a run is already in progress"))
//
// Any other error is rendered as a generic internal server error.
package response
