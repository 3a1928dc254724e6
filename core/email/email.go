package email

import (
	"context"
	"fmt"
	"strings"
)

// EmailSender delivers a single message.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}

// Session is an open, authenticated connection to a mail relay that can
// deliver several messages. Close must be called on every exit path.
type Session interface {
	EmailSender
	Close() error
}

// SessionOpener is implemented by senders that can reuse one connection
// for a batch of messages.
type SessionOpener interface {
	OpenSession(ctx context.Context) (Session, error)
}

// SendEmailParams represents the parameters for sending a plain-text email.
type SendEmailParams struct {
	SendTo   string `json:"send_to"`       // Recipient address
	Subject  string `json:"subject"`       // Subject line
	BodyText string `json:"body_text"`     // Plain-text body, may be empty
	Tag      string `json:"tag,omitempty"` // Optional tag for tracking
}

// Validate checks that the message can be handed to a relay.
// An empty body is allowed; recipient syntax is left to the relay.
func (p SendEmailParams) Validate() error {
	if strings.TrimSpace(p.SendTo) == "" {
		return fmt.Errorf("%w: SendTo is required", ErrInvalidParams)
	}
	if strings.ContainsAny(p.SendTo, "\r\n") {
		return fmt.Errorf("%w: SendTo must be a single line", ErrInvalidParams)
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: Subject is required", ErrInvalidParams)
	}
	return nil
}
