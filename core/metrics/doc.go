// Package metrics exposes Prometheus metrics for pipeline runs, model calls,
// deliveries and HTTP traffic.
//
// Each Collector has its own registry, so tests can create as many as they
// like:
//
//	m := metrics.New()
//	svc, _ := testmail.NewService(reg, gen, sender, testmail.WithObserver(m))
//	r.Use(m.HTTPMiddleware)
//	r.Handle("/metrics", m.Handler())
package metrics
