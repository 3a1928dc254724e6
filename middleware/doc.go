// Package middleware provides net/http middleware shared by the HTTP surface:
// request IDs, request logging and request body limits. All middleware has
// the func(http.Handler) http.Handler shape and plugs into chi directly:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{UseExisting: true}))
//	r.Use(middleware.LoggingWithConfig(middleware.LoggingConfig{
//		Logger: log,
//		Skip: func(r *http.Request) bool {
//			return r.URL.Path == "/healthz" || r.URL.Path == "/metrics"
//		},
//	}))
//	r.With(middleware.BodyLimit(20 * middleware.MB)).Post("/api/runs", h.CreateRun)
//
// Request IDs are added to log records by registering RequestIDExtractor with
// logger.WithContextExtractors.
package middleware
