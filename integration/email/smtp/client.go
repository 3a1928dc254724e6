package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/mailprobe/core/email"
)

var (
	_ email.EmailSender   = (*Client)(nil)
	_ email.SessionOpener = (*Client)(nil)
)

// Client sends plain-text email through an authenticated SMTP relay.
// Safe for concurrent use; every session owns its own connection.
type Client struct {
	config    Config
	auth      smtp.Auth
	tlsConfig *tls.Config
	now       func() time.Time
}

// Option configures the client.
type Option func(*Client)

// WithTLSConfig overrides the TLS configuration used for "tls" and "starttls" modes.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		if cfg != nil {
			c.tlsConfig = cfg
		}
	}
}

// New creates an SMTP-backed email sender. Credentials are required:
// the relay always requires authentication.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: Host is required", email.ErrInvalidConfig)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: Port must be between 1 and 65535", email.ErrInvalidConfig)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("%w: Username is required", email.ErrInvalidConfig)
	}
	if cfg.Password == "" {
		return nil, fmt.Errorf("%w: Password is required", email.ErrInvalidConfig)
	}
	switch cfg.TLSMode {
	case TLSModeImplicit, TLSModeSTARTTLS, TLSModePlain:
	default:
		return nil, fmt.Errorf("%w: TLSMode must be tls, starttls, or plain", email.ErrInvalidConfig)
	}
	if cfg.SenderEmail == "" {
		cfg.SenderEmail = cfg.Username
	}
	if !isValidEmail(cfg.SenderEmail) {
		return nil, fmt.Errorf("%w: SenderEmail must be a valid email address", email.ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	c := &Client{
		config:    cfg,
		auth:      smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
		tlsConfig: &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MustNewClient creates an SMTP client that panics on invalid config.
func MustNewClient(cfg Config, opts ...Option) *Client {
	client, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return client
}

// SendEmail delivers a single message over a short-lived session.
func (c *Client) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	sess, err := c.OpenSession(ctx)
	if err != nil {
		return err
	}
	sendErr := sess.SendEmail(ctx, params)
	closeErr := sess.Close()
	if sendErr != nil {
		return sendErr
	}
	if closeErr != nil {
		return errors.Join(email.ErrFailedToSendEmail, closeErr)
	}
	return nil
}

// OpenSession dials the relay and authenticates. The returned session can
// deliver any number of messages and must be closed by the caller.
func (c *Client) OpenSession(ctx context.Context) (email.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Join(email.ErrFailedToSendEmail, err)
	}
	conn, client, err := c.dial(ctx)
	if err != nil {
		return nil, errors.Join(email.ErrFailedToSendEmail, err)
	}
	return &session{owner: c, conn: conn, client: client}, nil
}

// dial connects according to the TLS mode and authenticates.
func (c *Client) dial(ctx context.Context) (net.Conn, *smtp.Client, error) {
	addr := net.JoinHostPort(c.config.Host, strconv.Itoa(c.config.Port))
	dialer := &net.Dialer{Timeout: c.config.Timeout}

	var (
		conn net.Conn
		err  error
	)
	if c.config.TLSMode == TLSModeImplicit {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: c.tlsConfig}
		conn, err = tlsDialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to SMTP server with TLS: %w", err)
		}
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
		}
	}
	_ = conn.SetDeadline(c.deadline(ctx))

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	if c.config.TLSMode == TLSModeSTARTTLS {
		if err := client.StartTLS(c.tlsConfig); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if err := client.Auth(c.auth); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("authentication failed: %w", err)
	}
	return conn, client, nil
}

// deadline bounds one SMTP exchange by the context deadline or the configured timeout.
func (c *Client) deadline(ctx context.Context) time.Time {
	limit := c.now().Add(c.config.Timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(limit) {
		return dl
	}
	return limit
}

// transmit runs one MAIL/RCPT/DATA exchange on an authenticated client.
func (c *Client) transmit(client *smtp.Client, params email.SendEmailParams) error {
	if err := client.Mail(c.config.SenderEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(params.SendTo); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := writer.Write(c.buildMessage(params)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("message rejected: %w", err)
	}
	return nil
}

// buildMessage renders the RFC 5322 message: fixed header order, RFC 2047
// encoded subject and a quoted-printable UTF-8 body.
func (c *Client) buildMessage(params email.SendEmailParams) []byte {
	var buf bytes.Buffer
	header := func(k, v string) {
		buf.WriteString(k)
		buf.WriteString(": ")
		buf.WriteString(v)
		buf.WriteString("\r\n")
	}

	header("From", c.config.SenderEmail)
	header("To", params.SendTo)
	header("Subject", mime.QEncoding.Encode("utf-8", singleLine(params.Subject)))
	header("Date", c.now().Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), c.config.Host))
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	_, _ = qp.Write([]byte(toCRLF(params.BodyText)))
	_ = qp.Close()

	return buf.Bytes()
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func toCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}
