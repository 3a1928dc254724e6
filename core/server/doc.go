// Package server wraps http.Server with graceful shutdown and env-driven
// configuration.
//
// The usual entry point is NewFromConfig with a Config loaded through
// core/config, followed by Run, which blocks until the context is canceled
// and then drains in-flight requests:
//
//	var cfg server.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	srv, err := server.NewFromConfig(cfg, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	return srv.Run(ctx, router)
//
// Request contexts are detached from the cancellation of the Run context, so
// a run that is mid-dispatch when shutdown starts completes within the
// shutdown timeout instead of being aborted.
//
// The default write timeout is five minutes because one request covers a
// model call plus a batch of SMTP submissions.
package server
