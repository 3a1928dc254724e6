package postmark

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"github.com/mrz1836/postmark"

	"github.com/dmitrymomot/mailprobe/core/email"
)

var _ email.EmailSender = (*Client)(nil)

// Client sends plain-text email through Postmark's transactional API.
type Client struct {
	client *postmark.Client
	config Config
}

// Option configures the client.
type Option func(*postmark.Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(c *postmark.Client) {
		if url != "" {
			c.BaseURL = url
		}
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *postmark.Client) {
		if hc != nil {
			c.HTTPClient = hc
		}
	}
}

// New creates a Postmark-backed email sender.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.ServerToken == "" {
		return nil, fmt.Errorf("%w: ServerToken is required", email.ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" || !isValidEmail(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", email.ErrInvalidConfig)
	}

	pc := postmark.NewClient(cfg.ServerToken, cfg.AccountToken)
	for _, opt := range opts {
		opt(pc)
	}
	return &Client{client: pc, config: cfg}, nil
}

// MustNewClient creates a Postmark client that panics on invalid config.
func MustNewClient(cfg Config, opts ...Option) *Client {
	client, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail delivers one plain-text message through the Postmark API.
func (c *Client) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:     c.config.SenderEmail,
		To:       params.SendTo,
		Subject:  params.Subject,
		TextBody: params.BodyText,
		Tag:      params.Tag,
	})
	if err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(
			email.ErrFailedToSendEmail,
			fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message),
		)
	}
	return nil
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
