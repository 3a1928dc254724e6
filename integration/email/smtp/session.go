package smtp

import (
	"context"
	"errors"
	"net"
	"net/smtp"
	"sync"

	"github.com/dmitrymomot/mailprobe/core/email"
)

// session is one authenticated relay connection shared by a batch.
// A failed message is followed by RSET so the next one can proceed; when
// the connection itself is broken it is dropped and redialed on the next send.
type session struct {
	mu     sync.Mutex
	owner  *Client
	conn   net.Conn
	client *smtp.Client
	closed bool
}

func (s *session) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return email.ErrSessionClosed
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	if s.client == nil {
		conn, client, err := s.owner.dial(ctx)
		if err != nil {
			return errors.Join(email.ErrFailedToSendEmail, err)
		}
		s.conn, s.client = conn, client
	}
	_ = s.conn.SetDeadline(s.owner.deadline(ctx))

	if err := s.owner.transmit(s.client, params); err != nil {
		if resetErr := s.client.Reset(); resetErr != nil {
			_ = s.client.Close()
			s.conn, s.client = nil, nil
		}
		return errors.Join(email.ErrFailedToSendEmail, err)
	}
	return nil
}

// Close ends the SMTP dialogue. Safe to call more than once.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.client == nil {
		return nil
	}

	client := s.client
	s.conn, s.client = nil, nil
	if err := client.Quit(); err != nil {
		// Some relays drop the connection right after the last DATA.
		_ = client.Close()
	}
	return nil
}
