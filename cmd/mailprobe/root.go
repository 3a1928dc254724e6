package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailprobe/core/config"
	"github.com/dmitrymomot/mailprobe/core/logger"
	"github.com/dmitrymomot/mailprobe/middleware"
	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	envFile string
	cfg     Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "mailprobe",
		Short: "Generate test customer emails and send them to a support inbox",
		Long: `mailprobe asks a language model to write realistic customer inquiries
based on a store's policies and delivers them to a mailbox, so that support
tooling can be exercised with believable traffic.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "load environment variables from this file before .env")

	root.AddCommand(newSendCmd(a), newServeCmd(a), newLocalesCmd(a))
	return root
}

func (a *app) init() error {
	if a.envFile != "" {
		if err := config.LoadEnv(a.envFile); err != nil {
			return err
		}
	}
	if err := config.Load(&a.cfg); err != nil {
		return err
	}

	a.log = logger.New(
		logger.WithEnvironment(a.cfg.AppEnv, a.cfg.AppName),
		logger.WithLevelName(a.cfg.LogLevel),
		logger.WithContextExtractors(testmail.RunIDExtractor, middleware.RequestIDExtractor),
	)
	return nil
}
