package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailprobe/core/email"
	"github.com/dmitrymomot/mailprobe/integration/email/smtp"
	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

func validConfig() Config {
	return Config{
		ModelProvider: ProviderGoogle,
		GoogleAPIKey:  "key",
		MailProvider:  MailSMTP,
		SMTP: smtp.Config{
			Host:     "smtp.example.com",
			Port:     465,
			Username: "bot@example.com",
			Password: "secret",
			TLSMode:  smtp.TLSModeImplicit,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		missing string
	}{
		{"google key", func(c *Config) { c.GoogleAPIKey = "" }, "GOOGLE_API_KEY"},
		{"openai key", func(c *Config) { c.ModelProvider = ProviderOpenAI }, "OPENAI_API_KEY"},
		{"mail address", func(c *Config) { c.SMTP.Username = "" }, "EMAIL_ADDRESS"},
		{"mail password", func(c *Config) { c.SMTP.Password = "" }, "EMAIL_PASSWORD"},
		{"postmark token", func(c *Config) {
			c.MailProvider = MailPostmark
			c.Postmark.SenderEmail = "bot@example.com"
		}, "POSTMARK_SERVER_TOKEN"},
		{"unknown model provider", func(c *Config) { c.ModelProvider = "llama" }, "MODEL_PROVIDER"},
		{"unknown mail provider", func(c *Config) { c.MailProvider = "pigeon" }, "MAIL_PROVIDER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, testmail.ErrConfiguration)
			assert.ErrorContains(t, err, tt.missing)
		})
	}
}

func TestConfig_Validate_ListsEveryMissingSecret(t *testing.T) {
	t.Parallel()

	err := Config{ModelProvider: ProviderGoogle, MailProvider: MailSMTP}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY, EMAIL_ADDRESS, EMAIL_PASSWORD")
}

func TestConfig_Validate_DevMailNeedsNoCredentials(t *testing.T) {
	t.Parallel()

	cfg := Config{ModelProvider: ProviderGoogle, GoogleAPIKey: "key", MailProvider: MailDev}
	assert.NoError(t, cfg.Validate())
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	t.Run("smtp", func(t *testing.T) {
		t.Parallel()
		sender, err := newSender(validConfig())
		require.NoError(t, err)
		_, ok := sender.(email.SessionOpener)
		assert.True(t, ok)
	})

	t.Run("dev", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MailProvider = MailDev
		cfg.DevMailDir = t.TempDir()
		sender, err := newSender(cfg)
		require.NoError(t, err)
		assert.IsType(t, &email.DevSender{}, sender)
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		cfg := validConfig()
		cfg.MailProvider = "fax"
		_, err := newSender(cfg)
		assert.ErrorIs(t, err, testmail.ErrConfiguration)
	})
}

func TestNewGenerator_Unknown(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.ModelProvider = "llama"
	_, err := newGenerator(context.Background(), cfg)
	assert.ErrorIs(t, err, testmail.ErrConfiguration)
}
