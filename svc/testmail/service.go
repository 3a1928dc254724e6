package testmail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/mailprobe/core/email"
	"github.com/dmitrymomot/mailprobe/core/logger"
	"github.com/dmitrymomot/mailprobe/pkg/textgen"
)

// Report is the result of a completed run. A run with zero delivered emails
// is still completed; check Dispatch.Sent.
type Report struct {
	RunID          string         `json:"run_id"`
	Locale         LocaleInfo     `json:"locale"`
	LocaleFallback bool           `json:"locale_fallback"`
	PromptLength   int            `json:"prompt_length"`
	Response       string         `json:"response"`
	Emails         []ValidEmail   `json:"emails"`
	Warnings       []Warning      `json:"warnings,omitempty"`
	Dispatch       DispatchReport `json:"dispatch"`
	Summary        string         `json:"summary"`
	Duration       time.Duration  `json:"duration"`
}

// Service runs the generate-and-dispatch pipeline. At most one run executes
// at a time; a concurrent Run returns ErrRunInProgress.
type Service struct {
	registry     *Registry
	generator    textgen.Generator
	provider     string
	dispatcher   *Dispatcher
	logger       *slog.Logger
	observer     Observer
	validateOpts []ValidateOption

	running sync.Mutex
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	logger       *slog.Logger
	observer     Observer
	provider     string
	validateOpts []ValidateOption
	tag          string
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *serviceOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver sets the metrics observer.
func WithObserver(obs Observer) Option {
	return func(o *serviceOptions) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithProvider names the generation backend in logs, metrics and errors.
func WithProvider(name string) Option {
	return func(o *serviceOptions) {
		o.provider = name
	}
}

// WithValidateOptions passes options to ValidateBatch on every run.
func WithValidateOptions(opts ...ValidateOption) Option {
	return func(o *serviceOptions) {
		o.validateOpts = append(o.validateOpts, opts...)
	}
}

// WithMessageTag sets the tag attached to dispatched messages.
func WithMessageTag(tag string) Option {
	return func(o *serviceOptions) {
		o.tag = tag
	}
}

// NewService wires the pipeline. All three collaborators are required.
func NewService(registry *Registry, generator textgen.Generator, sender email.EmailSender, opts ...Option) (*Service, error) {
	switch {
	case registry == nil:
		return nil, fmt.Errorf("%w: template registry is required", ErrConfiguration)
	case generator == nil:
		return nil, fmt.Errorf("%w: generator is required", ErrConfiguration)
	case sender == nil:
		return nil, fmt.Errorf("%w: email sender is required", ErrConfiguration)
	}

	o := serviceOptions{
		logger:   logger.Nop(),
		observer: nopObserver{},
		tag:      "mailprobe",
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Service{
		registry:  registry,
		generator: generator,
		provider:  o.provider,
		dispatcher: NewDispatcher(sender,
			WithDispatchLogger(o.logger),
			WithDispatchObserver(o.observer),
			WithDispatchTag(o.tag),
		),
		logger:       o.logger,
		observer:     o.observer,
		validateOpts: o.validateOpts,
	}, nil
}

// Registry returns the template registry the service uses.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Run executes one full pipeline: template lookup, prompt, model call,
// normalization, validation and dispatch. Whole-run failures are returned as
// errors; per-email delivery failures are recorded in the report.
func (s *Service) Run(ctx context.Context, req GenerationRequest, progress ProgressFunc) (*Report, error) {
	if !s.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	runID, ok := RunIDFromContext(ctx)
	if !ok {
		runID = NewRunID()
		ctx = WithRunID(ctx, runID)
	}

	report, err := s.run(ctx, req.Normalized(), progress)
	s.observer.ObserveRun(Kind(err), time.Since(start))
	if err != nil {
		s.logger.ErrorContext(ctx, "run failed",
			logger.Component("testmail"),
			logger.Key("kind", Kind(err)),
			logger.Elapsed(start),
			logger.Error(err),
		)
		return nil, err
	}

	report.RunID = runID
	report.Duration = time.Since(start)
	s.logger.InfoContext(ctx, "run completed",
		logger.Component("testmail"),
		logger.Result(report.Summary),
		logger.Group("dispatch",
			logger.Count("attempted", report.Dispatch.Attempted),
			logger.Count("sent", report.Dispatch.Sent),
			logger.Count("failed", report.Dispatch.Failed),
		),
		logger.Elapsed(start),
	)
	return report, nil
}

func (s *Service) run(ctx context.Context, req GenerationRequest, progress ProgressFunc) (*Report, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	info, matched := s.registry.Resolve(req.Locale)
	if !matched && req.Locale != "" {
		s.logger.WarnContext(ctx, "unsupported locale, using default",
			logger.Component("testmail"),
			logger.Key("requested", req.Locale),
			logger.Locale(info.Name),
		)
	}
	req.Locale = info.Name

	prompt, err := BuildPrompt(s.registry.Template(info.Name), req)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "generating emails",
		logger.Component("testmail"),
		logger.Locale(info.Name),
		logger.Provider(s.provider),
		logger.Count("requested", req.emailCount()),
		logger.Count("prompt_length", len(prompt)),
	)

	genStart := time.Now()
	raw, err := s.generator.Generate(ctx, prompt)
	s.observer.ObserveGeneration(s.provider, time.Since(genStart), err)
	if err != nil {
		return nil, &GenerationError{Provider: s.provider, Err: err}
	}

	normalized := Normalize(raw)
	emails, warnings, err := ValidateBatch(normalized, s.validateOpts...)
	s.observer.ObserveBatch(len(emails), len(warnings))
	for _, w := range warnings {
		s.logger.WarnContext(ctx, "dropped email candidate",
			logger.Component("testmail"),
			logger.Key("index", w.Index),
			logger.Key("reason", w.Reason),
		)
	}
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "dispatching emails",
		logger.Component("testmail"),
		logger.Count("valid", len(emails)),
		logger.Recipient(req.Recipient),
	)
	dispatch := s.dispatcher.DispatchAll(ctx, emails, req.Recipient, progress)

	return &Report{
		Locale:         info,
		LocaleFallback: !matched,
		PromptLength:   len(prompt),
		Response:       normalized,
		Emails:         emails,
		Warnings:       warnings,
		Dispatch:       dispatch,
		Summary:        dispatch.Summary(),
	}, nil
}
