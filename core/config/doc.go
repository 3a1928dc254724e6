// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is parsed once and cached for
// subsequent calls.
//
// The package loads the default .env file on first use and parses struct
// fields with the caarlos0/env library.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/mailprobe/core/config"
//
//	type MailConfig struct {
//		Address  string `env:"EMAIL_ADDRESS"`
//		Password string `env:"EMAIL_PASSWORD"`
//		Host     string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
//		Port     int    `env:"SMTP_PORT" envDefault:"465"`
//	}
//
//	func main() {
//		var mail MailConfig
//		if err := config.Load(&mail); err != nil {
//			log.Fatal(err)
//		}
//
//		// Or panic on failure (useful for startup)
//		config.MustLoad(&mail)
//	}
//
// # Explicit env files
//
// LoadEnv reads additional files before the first Load. Variables already
// present in the environment win:
//
//	if err := config.LoadEnv("./deploy/staging.env"); err != nil {
//		log.Fatal(err)
//	}
//
// # Caching Behavior
//
// Each configuration type is loaded only once per process. Reset drops the
// cache, which is mostly useful in tests:
//
//	var cfg1 MailConfig
//	config.Load(&cfg1) // parses the environment
//
//	var cfg2 MailConfig
//	config.Load(&cfg2) // cached value, cfg1 == cfg2
//
//	config.Reset()
package config
