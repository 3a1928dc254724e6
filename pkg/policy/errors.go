package policy

import "errors"

var (
	ErrNotUTF8        = errors.New("policy: document is not valid UTF-8 text")
	ErrTooLarge       = errors.New("policy: document too large")
	ErrReadFailed     = errors.New("policy: failed to read document")
	ErrRemoteDisabled = errors.New("policy: remote sources are not configured")
)
