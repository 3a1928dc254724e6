package testmail

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for whole-run failures. Typed errors below match them
// through errors.Is.
var (
	ErrConfiguration  = errors.New("testmail: configuration error")
	ErrInvalidRequest = errors.New("testmail: invalid request")
	ErrRunInProgress  = errors.New("testmail: another run is in progress")
	ErrFormatting     = errors.New("testmail: prompt template is missing placeholders")
	ErrGeneration     = errors.New("testmail: generation failed")
	ErrJSONParse      = errors.New("testmail: model response is not valid JSON")
	ErrStructure      = errors.New("testmail: expected a list of email objects")
	ErrEmptyBatch     = errors.New("testmail: no valid emails in model response")
)

// Error kinds reported to users and used as metric labels.
const (
	KindConfiguration  = "configuration"
	KindInvalidRequest = "invalid_request"
	KindBusy           = "busy"
	KindFormatting     = "formatting"
	KindGeneration     = "generation"
	KindJSONParse      = "json_parse"
	KindStructure      = "structure"
	KindEmptyBatch     = "empty_batch"
	KindCanceled       = "canceled"
	KindInternal       = "internal"
)

// FormattingError reports a template that lacks required placeholders.
type FormattingError struct {
	Locale  string
	Missing []string
}

func (e *FormattingError) Error() string {
	return fmt.Sprintf("%s: locale %q lacks %s", ErrFormatting, e.Locale, strings.Join(e.Missing, ", "))
}

func (e *FormattingError) Unwrap() error { return ErrFormatting }

// GenerationError wraps a failed model call.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %v", ErrGeneration, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", ErrGeneration, e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() []error { return []error{ErrGeneration, e.Err} }

// JSONParseError keeps the text that failed to parse for diagnostic display.
type JSONParseError struct {
	Raw string
	Err error
}

func (e *JSONParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrJSONParse, e.Err)
}

func (e *JSONParseError) Unwrap() []error { return []error{ErrJSONParse, e.Err} }

// StructureError reports valid JSON of the wrong shape.
type StructureError struct {
	Raw string
	Got string
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s, got %s", ErrStructure, e.Got)
}

func (e *StructureError) Unwrap() error { return ErrStructure }

// EmptyBatchError reports a parsed array in which no element survived
// validation. Warnings explain why each element was dropped.
type EmptyBatchError struct {
	Raw      string
	Warnings []Warning
}

func (e *EmptyBatchError) Error() string {
	return fmt.Sprintf("%s (%d dropped)", ErrEmptyBatch, len(e.Warnings))
}

func (e *EmptyBatchError) Unwrap() error { return ErrEmptyBatch }

// FieldError describes one rejected request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// RequestError lists every rejected request field.
type RequestError struct {
	Fields []FieldError
}

func (e *RequestError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " (" + f.Rule + ")"
	}
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(parts, ", "))
}

func (e *RequestError) Unwrap() error { return ErrInvalidRequest }

// Kind classifies err into one of the Kind* constants.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	case errors.Is(err, ErrRunInProgress):
		return KindBusy
	case errors.Is(err, ErrFormatting):
		return KindFormatting
	case errors.Is(err, ErrGeneration):
		return KindGeneration
	case errors.Is(err, ErrJSONParse):
		return KindJSONParse
	case errors.Is(err, ErrStructure):
		return KindStructure
	case errors.Is(err, ErrEmptyBatch):
		return KindEmptyBatch
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindInternal
	}
}

// RawResponse returns the model text attached to a parse, structure or
// empty-batch failure.
func RawResponse(err error) (string, bool) {
	var pe *JSONParseError
	if errors.As(err, &pe) {
		return pe.Raw, true
	}
	var se *StructureError
	if errors.As(err, &se) {
		return se.Raw, true
	}
	var ee *EmptyBatchError
	if errors.As(err, &ee) {
		return ee.Raw, true
	}
	return "", false
}
