package postmark

// Config holds Postmark credentials. The account token is only needed for
// account-level API calls and may be empty.
type Config struct {
	ServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail  string `env:"EMAIL_ADDRESS"`
}
