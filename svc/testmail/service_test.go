package testmail_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailprobe/pkg/textgen"
	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

const twoEmailsReply = "```json\n[{\"subject\":\"Where is my order?\",\"body\":\"Order #12345 has not arrived.\"},{\"subject\":\"Return\",\"body\":\"How do I return it?\"}]\n```"

func validRequest() testmail.GenerationRequest {
	return testmail.GenerationRequest{
		StoreName:   "SuperStore",
		Recipient:   "qa@example.com",
		OrderNumber: "#12345",
		Locale:      "English",
		NumEmails:   2,
		PolicyText:  "Returns within 30 days.",
	}
}

func replyWith(text string, prompts *[]string) textgen.Generator {
	return textgen.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		if prompts != nil {
			*prompts = append(*prompts, prompt)
		}
		return text, nil
	})
}

func newService(t *testing.T, gen textgen.Generator, sender *MockSender, opts ...testmail.Option) *testmail.Service {
	t.Helper()
	svc, err := testmail.NewService(testmail.MustDefaultRegistry(), gen, sender, opts...)
	require.NoError(t, err)
	return svc
}

func TestNewService_RequiresCollaborators(t *testing.T) {
	t.Parallel()

	reg := testmail.MustDefaultRegistry()
	gen := replyWith("[]", nil)
	sender := &MockSender{}

	_, err := testmail.NewService(nil, gen, sender)
	assert.ErrorIs(t, err, testmail.ErrConfiguration)
	_, err = testmail.NewService(reg, nil, sender)
	assert.ErrorIs(t, err, testmail.ErrConfiguration)
	_, err = testmail.NewService(reg, gen, nil)
	assert.ErrorIs(t, err, testmail.ErrConfiguration)
}

func TestService_Run(t *testing.T) {
	t.Parallel()

	t.Run("generates and dispatches", func(t *testing.T) {
		t.Parallel()

		var prompts []string
		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil).Twice()
		obs := &recordingObserver{}

		svc := newService(t, replyWith(twoEmailsReply, &prompts), sender,
			testmail.WithProvider("google"),
			testmail.WithObserver(obs),
		)
		report, err := svc.Run(context.Background(), validRequest(), nil)
		require.NoError(t, err)

		require.Len(t, prompts, 1)
		assert.Contains(t, prompts[0], "SuperStore")
		assert.Contains(t, prompts[0], "Returns within 30 days.")
		assert.Equal(t, len(prompts[0]), report.PromptLength)

		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, "English", report.Locale.Name)
		assert.False(t, report.LocaleFallback)
		assert.Len(t, report.Emails, 2)
		assert.Equal(t, "Where is my order?", report.Emails[0].Subject)
		assert.Equal(t, "sent 2 out of 2", report.Summary)
		assert.Equal(t, 2, report.Dispatch.Sent)
		assert.NotContains(t, report.Response, "```")

		assert.Equal(t, []string{""}, obs.runs)
		assert.Equal(t, []string{"google"}, obs.generations)
		assert.Equal(t, 2, obs.valid)
		assert.Equal(t, 2, obs.sent)
		sender.AssertExpectations(t)
	})

	t.Run("unsupported locale falls back", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

		req := validRequest()
		req.Locale = "Klingon"
		report, err := newService(t, replyWith(twoEmailsReply, nil), sender).Run(context.Background(), req, nil)
		require.NoError(t, err)
		assert.Equal(t, "English", report.Locale.Name)
		assert.True(t, report.LocaleFallback)
	})

	t.Run("keeps run id from context", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

		var seen string
		gen := textgen.GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
			seen, _ = testmail.RunIDFromContext(ctx)
			return twoEmailsReply, nil
		})

		ctx := testmail.WithRunID(context.Background(), "run-42")
		report, err := newService(t, gen, sender).Run(ctx, validRequest(), nil)
		require.NoError(t, err)
		assert.Equal(t, "run-42", report.RunID)
		assert.Equal(t, "run-42", seen)
	})

	t.Run("partial delivery still completes", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		sender.On("SendEmail", mock.Anything, subjectIs("Return")).Return(errors.New("refused"))
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

		report, err := newService(t, replyWith(twoEmailsReply, nil), sender).Run(context.Background(), validRequest(), nil)
		require.NoError(t, err)
		assert.Equal(t, "sent 1 out of 2", report.Summary)
	})

	t.Run("invalid request never calls the model", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		gen := textgen.GeneratorFunc(func(context.Context, string) (string, error) {
			calls.Add(1)
			return "[]", nil
		})

		req := validRequest()
		req.Recipient = ""
		_, err := newService(t, gen, &MockSender{}).Run(context.Background(), req, nil)
		assert.ErrorIs(t, err, testmail.ErrInvalidRequest)
		assert.Zero(t, calls.Load())
	})

	t.Run("generation failure", func(t *testing.T) {
		t.Parallel()

		gen := textgen.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", textgen.ErrRateLimitExceeded
		})
		sender := &MockSender{}
		obs := &recordingObserver{}

		_, err := newService(t, gen, sender, testmail.WithProvider("openai"), testmail.WithObserver(obs)).
			Run(context.Background(), validRequest(), nil)

		var ge *testmail.GenerationError
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, "openai", ge.Provider)
		assert.ErrorIs(t, err, textgen.ErrRateLimitExceeded)
		assert.Equal(t, testmail.KindGeneration, testmail.Kind(err))
		assert.Equal(t, []string{testmail.KindGeneration}, obs.runs)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("unparsable reply keeps raw text", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		_, err := newService(t, replyWith("I cannot help with that.", nil), sender).Run(context.Background(), validRequest(), nil)

		assert.ErrorIs(t, err, testmail.ErrJSONParse)
		raw, ok := testmail.RawResponse(err)
		assert.True(t, ok)
		assert.Equal(t, "I cannot help with that.", raw)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("require body option", func(t *testing.T) {
		t.Parallel()

		sender := &MockSender{}
		_, err := newService(t, replyWith(`[{"subject":"S","body":" "}]`, nil), sender,
			testmail.WithValidateOptions(testmail.RequireBody()),
		).Run(context.Background(), validRequest(), nil)

		assert.ErrorIs(t, err, testmail.ErrEmptyBatch)
	})
}

func TestService_Run_Busy(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	gen := textgen.GeneratorFunc(func(context.Context, string) (string, error) {
		close(started)
		<-release
		return twoEmailsReply, nil
	})

	sender := &MockSender{}
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)
	svc := newService(t, gen, sender)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background(), validRequest(), nil)
		done <- err
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first run did not start")
	}

	_, err := svc.Run(context.Background(), validRequest(), nil)
	assert.ErrorIs(t, err, testmail.ErrRunInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestService_Run_LogsDispatchGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	sender := &MockSender{}
	sender.On("SendEmail", mock.Anything, subjectIs("Return")).Return(errors.New("mailbox full")).Once()
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := newService(t, replyWith(twoEmailsReply, nil), sender, testmail.WithLogger(log)).
		Run(context.Background(), validRequest(), nil)
	require.NoError(t, err)

	var completed map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		if rec["msg"] == "run completed" {
			completed = rec
		}
	}
	require.NotNil(t, completed)

	dispatch, ok := completed["dispatch"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 2, dispatch["attempted"])
	assert.EqualValues(t, 1, dispatch["sent"])
	assert.EqualValues(t, 1, dispatch["failed"])
}
