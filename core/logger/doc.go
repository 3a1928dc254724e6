// Package logger provides structured logging utilities built on log/slog.
//
// It offers a small factory with environment presets, a handler decorator
// that injects request- or run-scoped attributes from context, and a set of
// attribute helpers for the keys used across the application.
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/mailprobe/core/logger"
//
//	log := logger.New(
//		logger.WithEnvironment("production", "mailprobe"),
//		logger.WithLevelName("info"),
//	)
//
//	log.Info("emails dispatched",
//		logger.Component("dispatcher"),
//		logger.Count("sent", 4),
//		logger.Count("failed", 1),
//	)
//
// # Context-Aware Logging
//
// Extractors pull values out of the context on every record:
//
//	log := logger.New(
//		logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
//			if id, ok := ctx.Value(runIDKey{}).(string); ok {
//				return logger.RunID(id), true
//			}
//			return slog.Attr{}, false
//		}),
//	)
//
//	log.InfoContext(ctx, "prompt built")
//	// {"level":"INFO","msg":"prompt built","run_id":"0d9c..."}
//
// # Attribute Helpers
//
// Helpers that receive a zero value (nil error, empty ID) return an empty
// slog.Attr, which slog drops:
//
//	log.Error("generation failed", logger.Error(err), logger.Provider("google"))
//	log.Info("sending", logger.Subject(subject), logger.Progress(2, 5))
//
// # Testing
//
// Capture output with WithOutput, or discard it with Nop:
//
//	var buf bytes.Buffer
//	log := logger.New(logger.WithOutput(&buf))
//	svc := testmail.NewService(reg, gen, sender, testmail.WithLogger(logger.Nop()))
package logger
