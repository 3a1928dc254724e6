package testmail

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	// DefaultEmailCount is requested when a request leaves the count unset.
	DefaultEmailCount = 5
	// MaxEmailCount bounds how many emails a single run may ask for.
	MaxEmailCount = 50
)

// GenerationRequest carries everything one run needs. Recipient syntax is
// left to the mail relay; only presence is checked here.
type GenerationRequest struct {
	StoreName   string `json:"store_name" validate:"required"`
	Recipient   string `json:"recipient" validate:"required,singleline"`
	OrderNumber string `json:"order_number" validate:"required"`
	Locale      string `json:"locale"`
	NumEmails   int    `json:"num_emails" validate:"gte=0,lte=50"`
	PolicyText  string `json:"-"`
}

var requestValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
})

// Normalized returns a copy with surrounding whitespace trimmed from the
// text fields. The policy text is kept verbatim.
func (r GenerationRequest) Normalized() GenerationRequest {
	r.StoreName = strings.TrimSpace(r.StoreName)
	r.Recipient = strings.TrimSpace(r.Recipient)
	r.OrderNumber = strings.TrimSpace(r.OrderNumber)
	r.Locale = strings.TrimSpace(r.Locale)
	return r
}

// Validate checks the request after normalization. The returned error is a
// *RequestError listing every rejected field.
func (r GenerationRequest) Validate() error {
	err := requestValidator().Struct(r.Normalized())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Join(ErrInvalidRequest, err)
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
	}
	return &RequestError{Fields: fields}
}

// emailCount treats zero as DefaultEmailCount. The count is a hint for the
// model; replies of any length are accepted.
func (r GenerationRequest) emailCount() int {
	if r.NumEmails <= 0 {
		return DefaultEmailCount
	}
	return r.NumEmails
}
