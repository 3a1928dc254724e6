package smtp

import "time"

// TLS modes.
const (
	TLSModeImplicit = "tls"      // TLS from the first byte, usually port 465
	TLSModeSTARTTLS = "starttls" // plain connection upgraded with STARTTLS, usually port 587
	TLSModePlain    = "plain"    // no encryption, local relays only
)

// Config holds SMTP relay configuration.
// Username and Password are the mail account credentials; SenderEmail
// defaults to Username when empty.
type Config struct {
	Host        string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port        int           `env:"SMTP_PORT" envDefault:"465"`
	Username    string        `env:"EMAIL_ADDRESS"`
	Password    string        `env:"EMAIL_PASSWORD"`
	TLSMode     string        `env:"SMTP_TLS_MODE" envDefault:"tls"`
	SenderEmail string        `env:"SMTP_SENDER_EMAIL"`
	Timeout     time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
}
