package testmail_test

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/mailprobe/core/email"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

type MockSession struct {
	MockSender
}

func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockSessionSender is a sender that can also open batch sessions.
type MockSessionSender struct {
	MockSender
}

func (m *MockSessionSender) OpenSession(ctx context.Context) (email.Session, error) {
	args := m.Called(ctx)
	session, _ := args.Get(0).(email.Session)
	return session, args.Error(1)
}

type recordingObserver struct {
	mu          sync.Mutex
	runs        []string
	generations []string
	valid       int
	dropped     int
	sent        int
	failed      int
}

func (o *recordingObserver) ObserveRun(kind string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.runs = append(o.runs, kind)
}

func (o *recordingObserver) ObserveGeneration(provider string, _ time.Duration, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.generations = append(o.generations, provider)
}

func (o *recordingObserver) ObserveBatch(valid, dropped int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.valid += valid
	o.dropped += dropped
}

func (o *recordingObserver) ObserveDelivery(sent bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if sent {
		o.sent++
	} else {
		o.failed++
	}
}

func subjectIs(subject string) any {
	return mock.MatchedBy(func(p email.SendEmailParams) bool {
		return p.Subject == subject
	})
}
