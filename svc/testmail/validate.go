package testmail

import (
	"encoding/json"
	"strings"
)

// ValidEmail is an element of the model reply that passed validation.
// Subject and body are trimmed.
type ValidEmail struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Warning records an array element that was dropped.
type Warning struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
	Item   string `json:"item"`
}

// Reasons an element is dropped.
const (
	ReasonNotObject    = "not an object"
	ReasonMissingField = "missing subject or body"
	ReasonNotString    = "subject and body must be strings"
	ReasonBlankSubject = "blank subject"
	ReasonBlankBody    = "blank body"
)

type validateOptions struct {
	requireBody bool
}

// ValidateOption configures ValidateBatch.
type ValidateOption func(*validateOptions)

// RequireBody drops elements whose body is blank after trimming. By default
// such elements are kept.
func RequireBody() ValidateOption {
	return func(o *validateOptions) {
		o.requireBody = true
	}
}

// ValidateBatch parses text as a JSON array of {subject, body} objects.
// Malformed elements are dropped with a warning and never fail the batch;
// extra fields are ignored. The array length is not compared with the
// requested count.
//
// Errors: *JSONParseError when text is not JSON, *StructureError when it is
// not an array, *EmptyBatchError when no element survives.
func ValidateBatch(text string, opts ...ValidateOption) ([]ValidEmail, []Warning, error) {
	var o validateOptions
	for _, opt := range opts {
		opt(&o)
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, nil, &JSONParseError{Raw: text, Err: err}
	}

	items, ok := parsed.([]any)
	if !ok {
		return nil, nil, &StructureError{Raw: text, Got: jsonKind(parsed)}
	}

	var (
		valid    = make([]ValidEmail, 0, len(items))
		warnings []Warning
	)
	for i, item := range items {
		email, reason := validateItem(item, o)
		if reason != "" {
			warnings = append(warnings, Warning{Index: i, Reason: reason, Item: compactJSON(item)})
			continue
		}
		valid = append(valid, email)
	}

	if len(valid) == 0 {
		return nil, warnings, &EmptyBatchError{Raw: text, Warnings: warnings}
	}
	return valid, warnings, nil
}

func validateItem(item any, o validateOptions) (ValidEmail, string) {
	obj, ok := item.(map[string]any)
	if !ok {
		return ValidEmail{}, ReasonNotObject
	}

	rawSubject, hasSubject := obj["subject"]
	rawBody, hasBody := obj["body"]
	if !hasSubject || !hasBody {
		return ValidEmail{}, ReasonMissingField
	}

	subject, ok1 := rawSubject.(string)
	body, ok2 := rawBody.(string)
	if !ok1 || !ok2 {
		return ValidEmail{}, ReasonNotString
	}

	subject = strings.TrimSpace(subject)
	body = strings.TrimSpace(body)
	if subject == "" {
		return ValidEmail{}, ReasonBlankSubject
	}
	if o.requireBody && body == "" {
		return ValidEmail{}, ReasonBlankBody
	}

	return ValidEmail{Subject: subject, Body: body}, ""
}

func jsonKind(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
