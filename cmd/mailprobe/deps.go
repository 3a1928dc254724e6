package main

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/mailprobe/core/email"
	"github.com/dmitrymomot/mailprobe/core/metrics"
	"github.com/dmitrymomot/mailprobe/integration/email/postmark"
	"github.com/dmitrymomot/mailprobe/integration/email/smtp"
	"github.com/dmitrymomot/mailprobe/integration/storage/s3"
	"github.com/dmitrymomot/mailprobe/pkg/policy"
	"github.com/dmitrymomot/mailprobe/pkg/textgen"
	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

func newGenerator(ctx context.Context, cfg Config) (textgen.Generator, error) {
	switch cfg.ModelProvider {
	case ProviderGoogle:
		return textgen.NewGoogle(ctx, cfg.GoogleAPIKey, textgen.WithGoogleModel(cfg.GoogleModel))
	case ProviderOpenAI:
		return textgen.NewOpenAI(cfg.OpenAIAPIKey, textgen.WithOpenAIModel(cfg.OpenAIModel))
	default:
		return nil, fmt.Errorf("%w: unknown MODEL_PROVIDER %q", testmail.ErrConfiguration, cfg.ModelProvider)
	}
}

func newSender(cfg Config) (email.EmailSender, error) {
	switch cfg.MailProvider {
	case MailSMTP:
		return smtp.New(cfg.SMTP)
	case MailPostmark:
		return postmark.New(cfg.Postmark)
	case MailDev:
		return email.NewDevSender(cfg.DevMailDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown MAIL_PROVIDER %q", testmail.ErrConfiguration, cfg.MailProvider)
	}
}

// newService validates the configuration and wires the pipeline. obs may be
// nil.
func (a *app) newService(ctx context.Context, obs *metrics.Collector) (*testmail.Service, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, err
	}

	registry, err := testmail.DefaultRegistry()
	if err != nil {
		return nil, err
	}
	gen, err := newGenerator(ctx, a.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", testmail.ErrConfiguration, err)
	}
	sender, err := newSender(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", testmail.ErrConfiguration, err)
	}

	opts := []testmail.Option{
		testmail.WithLogger(a.log),
		testmail.WithProvider(a.cfg.ModelProvider),
		testmail.WithMessageTag(a.cfg.MessageTag),
	}
	if obs != nil {
		opts = append(opts, testmail.WithObserver(obs))
	}
	if a.cfg.RequireBody {
		opts = append(opts, testmail.WithValidateOptions(testmail.RequireBody()))
	}
	return testmail.NewService(registry, gen, sender, opts...)
}

// newPolicyLoader connects to S3 only when a source needs it.
func (a *app) newPolicyLoader(ctx context.Context, sources []string) (*policy.Loader, error) {
	opts := []policy.LoaderOption{policy.WithMaxSize(a.cfg.S3.MaxObjectSize)}
	for _, src := range sources {
		if !policy.IsRemote(src) {
			continue
		}
		reader, err := s3.New(ctx, a.cfg.S3)
		if err != nil {
			return nil, err
		}
		opts = append(opts, policy.WithObjectReader(reader))
		break
	}
	return policy.NewLoader(opts...), nil
}
