package testmail_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailprobe/core/email"
	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

var threeEmails = []testmail.ValidEmail{
	{Subject: "A", Body: "first"},
	{Subject: "B", Body: "second"},
	{Subject: "C", Body: "third"},
}

func TestDispatcher_DispatchAll(t *testing.T) {
	t.Parallel()

	t.Run("isolates a failed email", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, subjectIs("B")).Return(errors.New("550 mailbox unavailable")).Once()
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil).Twice()

		obs := &recordingObserver{}
		d := testmail.NewDispatcher(sender, testmail.WithDispatchObserver(obs))
		report := d.DispatchAll(context.Background(), threeEmails, "qa@example.com", nil)

		assert.Equal(t, 3, report.Attempted)
		assert.Equal(t, 2, report.Sent)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, "sent 2 out of 3", report.Summary())
		require.Len(t, report.Results, 3)
		assert.True(t, report.Results[0].Sent)
		assert.False(t, report.Results[1].Sent)
		assert.Contains(t, report.Results[1].Error, "550")
		assert.True(t, report.Results[2].Sent)
		assert.Equal(t, 2, obs.sent)
		assert.Equal(t, 1, obs.failed)
		sender.AssertExpectations(t)
	})

	t.Run("builds messages for the recipient", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, email.SendEmailParams{
			SendTo:   "qa@example.com",
			Subject:  "A",
			BodyText: "first",
			Tag:      "smoke",
		}).Return(nil).Once()

		d := testmail.NewDispatcher(sender, testmail.WithDispatchTag("smoke"))
		report := d.DispatchAll(context.Background(), threeEmails[:1], "qa@example.com", nil)

		assert.Equal(t, 1, report.Sent)
		sender.AssertExpectations(t)
	})

	t.Run("reports progress after each attempt", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

		var seen []testmail.Progress
		d := testmail.NewDispatcher(sender)
		d.DispatchAll(context.Background(), threeEmails, "qa@example.com", func(p testmail.Progress) {
			seen = append(seen, p)
		})

		require.Len(t, seen, 3)
		for i, p := range seen {
			assert.Equal(t, i+1, p.Done)
			assert.Equal(t, 3, p.Total)
			assert.Equal(t, threeEmails[i], p.Result.Email)
		}
	})

	t.Run("empty batch sends nothing", func(t *testing.T) {
		t.Parallel()

		sender := &MockSessionSender{}
		report := testmail.NewDispatcher(sender).DispatchAll(context.Background(), nil, "qa@example.com", nil)

		assert.Equal(t, "sent 0 out of 0", report.Summary())
		sender.AssertNotCalled(t, "OpenSession", mock.Anything)
	})
}

func TestDispatcher_Session(t *testing.T) {
	t.Parallel()

	t.Run("one session for the batch", func(t *testing.T) {
		t.Parallel()

		session := &MockSession{}
		session.On("SendEmail", mock.Anything, subjectIs("B")).Return(errors.New("rejected")).Once()
		session.On("SendEmail", mock.Anything, mock.Anything).Return(nil).Twice()
		session.On("Close").Return(nil).Once()

		sender := &MockSessionSender{}
		sender.On("OpenSession", mock.Anything).Return(session, nil).Once()

		report := testmail.NewDispatcher(sender).DispatchAll(context.Background(), threeEmails, "qa@example.com", nil)

		assert.Equal(t, 2, report.Sent)
		assert.Equal(t, 1, report.Failed)
		session.AssertExpectations(t)
		sender.AssertExpectations(t)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("close error does not change the report", func(t *testing.T) {
		t.Parallel()

		session := &MockSession{}
		session.On("SendEmail", mock.Anything, mock.Anything).Return(nil)
		session.On("Close").Return(errors.New("quit failed")).Once()

		sender := &MockSessionSender{}
		sender.On("OpenSession", mock.Anything).Return(session, nil)

		report := testmail.NewDispatcher(sender).DispatchAll(context.Background(), threeEmails, "qa@example.com", nil)
		assert.Equal(t, 3, report.Sent)
		session.AssertExpectations(t)
	})

	t.Run("falls back to one-shot sends", func(t *testing.T) {
		t.Parallel()

		sender := &MockSessionSender{}
		sender.On("OpenSession", mock.Anything).Return(nil, errors.New("auth failed")).Once()
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil).Times(3)

		report := testmail.NewDispatcher(sender).DispatchAll(context.Background(), threeEmails, "qa@example.com", nil)

		assert.Equal(t, 3, report.Sent)
		sender.AssertExpectations(t)
	})
}
