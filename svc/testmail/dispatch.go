package testmail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/mailprobe/core/email"
	"github.com/dmitrymomot/mailprobe/core/logger"
)

// DispatchResult is the outcome of one delivery attempt.
type DispatchResult struct {
	Email ValidEmail `json:"email"`
	Sent  bool       `json:"sent"`
	Error string     `json:"error,omitempty"`
}

// DispatchReport aggregates a batch. Attempted always equals the number of
// emails handed to DispatchAll.
type DispatchReport struct {
	Attempted int              `json:"attempted"`
	Sent      int              `json:"sent"`
	Failed    int              `json:"failed"`
	Results   []DispatchResult `json:"results"`
}

// Summary renders the report as "sent N out of M".
func (r DispatchReport) Summary() string {
	return fmt.Sprintf("sent %d out of %d", r.Sent, r.Attempted)
}

// Progress is published after every completed delivery attempt.
type Progress struct {
	Done   int
	Total  int
	Result DispatchResult
}

// ProgressFunc observes dispatch progress. It must not block for long; it
// runs on the dispatch goroutine.
type ProgressFunc func(Progress)

// Dispatcher delivers a batch one email at a time. A failed email is
// recorded and the batch continues.
type Dispatcher struct {
	sender   email.EmailSender
	logger   *slog.Logger
	observer Observer
	tag      string
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDispatchLogger sets the logger.
func WithDispatchLogger(l *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithDispatchObserver sets the metrics observer.
func WithDispatchObserver(o Observer) DispatcherOption {
	return func(d *Dispatcher) {
		if o != nil {
			d.observer = o
		}
	}
}

// WithDispatchTag sets the tag attached to every message.
func WithDispatchTag(tag string) DispatcherOption {
	return func(d *Dispatcher) {
		d.tag = tag
	}
}

// NewDispatcher creates a Dispatcher on top of sender.
func NewDispatcher(sender email.EmailSender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender:   sender,
		logger:   logger.Nop(),
		observer: nopObserver{},
		tag:      "mailprobe",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DispatchAll sends every email to recipient in order. If the sender can
// open sessions, one session serves the whole batch and is closed before
// returning; if opening fails, each email falls back to a one-shot send.
func (d *Dispatcher) DispatchAll(ctx context.Context, emails []ValidEmail, recipient string, progress ProgressFunc) DispatchReport {
	report := DispatchReport{
		Attempted: len(emails),
		Results:   make([]DispatchResult, 0, len(emails)),
	}
	if len(emails) == 0 {
		return report
	}

	sender := d.sender
	if opener, ok := d.sender.(email.SessionOpener); ok {
		session, err := opener.OpenSession(ctx)
		if err != nil {
			d.logger.WarnContext(ctx, "mail session unavailable, sending one by one",
				logger.Component("dispatcher"),
				logger.Error(err),
			)
		} else {
			sender = session
			defer func() {
				if err := session.Close(); err != nil {
					d.logger.WarnContext(ctx, "failed to close mail session",
						logger.Component("dispatcher"),
						logger.Error(err),
					)
				}
			}()
		}
	}

	for i, e := range emails {
		result := DispatchResult{Email: e}

		err := sender.SendEmail(ctx, email.SendEmailParams{
			SendTo:   recipient,
			Subject:  e.Subject,
			BodyText: e.Body,
			Tag:      d.tag,
		})
		if err != nil {
			result.Error = err.Error()
			report.Failed++
			d.logger.WarnContext(ctx, "email not sent",
				logger.Component("dispatcher"),
				logger.Subject(e.Subject),
				logger.Progress(i+1, len(emails)),
				logger.Error(err),
			)
		} else {
			result.Sent = true
			report.Sent++
			d.logger.InfoContext(ctx, "email sent",
				logger.Component("dispatcher"),
				logger.Subject(e.Subject),
				logger.Progress(i+1, len(emails)),
			)
		}
		d.observer.ObserveDelivery(result.Sent)

		report.Results = append(report.Results, result)
		if progress != nil {
			progress(Progress{Done: i + 1, Total: len(emails), Result: result})
		}
	}

	return report
}
