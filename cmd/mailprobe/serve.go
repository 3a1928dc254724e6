package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailprobe/core/health"
	"github.com/dmitrymomot/mailprobe/core/logger"
	"github.com/dmitrymomot/mailprobe/core/metrics"
	"github.com/dmitrymomot/mailprobe/core/response"
	"github.com/dmitrymomot/mailprobe/core/server"
	"github.com/dmitrymomot/mailprobe/middleware"
	"github.com/dmitrymomot/mailprobe/svc/testmail"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			return a.runServe(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SERVER_ADDR)")
	return cmd
}

func (a *app) runServe(ctx context.Context) error {
	collector := metrics.New()

	svc, err := a.newService(ctx, collector)
	if err != nil {
		return err
	}

	srv, err := server.NewFromConfig(a.cfg.Server, server.WithLogger(a.log))
	if err != nil {
		return err
	}

	a.log.InfoContext(ctx, "serving http api",
		logger.Action("serve"),
		logger.Key("addr", a.cfg.Server.Addr),
		logger.Provider(a.cfg.ModelProvider),
		logger.Key("mail_provider", a.cfg.MailProvider),
	)
	return srv.Run(ctx, newRouter(a, svc, collector))
}

func newRouter(a *app, svc *testmail.Service, collector *metrics.Collector) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{UseExisting: true}),
		middleware.LoggingWithConfig(middleware.LoggingConfig{
			Logger: a.log,
			Skip: func(r *http.Request) bool {
				return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
			},
		}),
		collector.HTTPMiddleware,
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		_ = response.Error(w, response.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		_ = response.Error(w, response.ErrMethodNotAllowed)
	})

	r.Get("/healthz", health.Liveness)
	r.Get("/readyz", health.Readiness(a.log))
	r.Method(http.MethodGet, "/metrics", collector.Handler())

	h := testmail.NewHandler(svc,
		testmail.WithHandlerLogger(a.log),
		testmail.WithMaxUploadBytes(a.cfg.Server.MaxUploadBytes),
		testmail.WithMaxDocumentBytes(a.cfg.S3.MaxObjectSize),
	)
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.BodyLimit(a.cfg.Server.MaxUploadBytes))
		h.Routes(r)
	})
	return r
}
