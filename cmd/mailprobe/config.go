package main

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/mailprobe/core/server"
	"github.com/dmitrymomot/mailprobe/integration/email/postmark"
	"github.com/dmitrymomot/mailprobe/integration/email/smtp"
	"github.com/dmitrymomot/mailprobe/integration/storage/s3"
	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

// Model and mail providers.
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"

	MailSMTP     = "smtp"
	MailPostmark = "postmark"
	MailDev      = "dev"
)

// Config is the process configuration. Nested configs read their own
// variables; see each package for the names.
type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"mailprobe"`
	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	LogLevel string `env:"LOG_LEVEL"`

	ModelProvider string `env:"MODEL_PROVIDER" envDefault:"google"`
	GoogleAPIKey  string `env:"GOOGLE_API_KEY"`
	GoogleModel   string `env:"GOOGLE_MODEL" envDefault:"gemini-1.5-flash"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	MailProvider string `env:"MAIL_PROVIDER" envDefault:"smtp"`
	DevMailDir   string `env:"DEV_MAIL_DIR" envDefault:"./tmp/emails"`
	MessageTag   string `env:"MESSAGE_TAG" envDefault:"mailprobe"`
	RequireBody  bool   `env:"REQUIRE_BODY" envDefault:"false"`

	SMTP     smtp.Config
	Postmark postmark.Config
	S3       s3.Config
	Server   server.Config
}

// Validate checks the model key and the mail credentials for the selected
// providers. Every missing value is listed in one error.
func (c Config) Validate() error {
	var missing []string

	switch c.ModelProvider {
	case ProviderGoogle:
		if c.GoogleAPIKey == "" {
			missing = append(missing, "GOOGLE_API_KEY")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
	default:
		return fmt.Errorf("%w: unknown MODEL_PROVIDER %q", testmail.ErrConfiguration, c.ModelProvider)
	}

	switch c.MailProvider {
	case MailSMTP:
		if c.SMTP.Username == "" {
			missing = append(missing, "EMAIL_ADDRESS")
		}
		if c.SMTP.Password == "" {
			missing = append(missing, "EMAIL_PASSWORD")
		}
	case MailPostmark:
		if c.Postmark.SenderEmail == "" {
			missing = append(missing, "EMAIL_ADDRESS")
		}
		if c.Postmark.ServerToken == "" {
			missing = append(missing, "POSTMARK_SERVER_TOKEN")
		}
	case MailDev:
	default:
		return fmt.Errorf("%w: unknown MAIL_PROVIDER %q", testmail.ErrConfiguration, c.MailProvider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", testmail.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}
