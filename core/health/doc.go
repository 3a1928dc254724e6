// Package health provides HTTP handlers for service health probes.
//
// Handlers:
//   - Liveness: process is running (no dependency checks)
//   - Readiness: every registered check passes
//
// Usage with chi:
//
//	r.Get("/healthz", health.Liveness)
//	r.Get("/readyz", health.Readiness(log, func(ctx context.Context) error {
//		return relay.Ping(ctx)
//	}))
package health
