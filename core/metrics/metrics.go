package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mailprobe"

// Collector owns a private registry with the pipeline and HTTP metrics.
// It satisfies testmail.Observer.
type Collector struct {
	registry *prometheus.Registry

	runsTotal          *prometheus.CounterVec
	runDuration        prometheus.Histogram
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	candidatesTotal    *prometheus.CounterVec
	deliveriesTotal    *prometheus.CounterVec
	httpRequestsTotal  *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates a Collector. Go runtime and process collectors are included.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		// Labels:
		// - result: "ok" or an error kind such as "generation", "json_parse"
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "total",
				Help:      "Pipeline runs by result.",
			},
			[]string{"result"},
		),
		runDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "duration_seconds",
				Help:      "Pipeline run duration in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4m
			},
		),
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "requests_total",
				Help:      "Model requests by provider and status.",
			},
			[]string{"provider", "status"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "generation",
				Name:      "duration_seconds",
				Help:      "Model request latency in seconds.",
				Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
			},
			[]string{"provider"},
		),
		// Labels:
		// - status: "valid" or "dropped"
		candidatesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "batch",
				Name:      "candidates_total",
				Help:      "Email candidates parsed from model replies.",
			},
			[]string{"status"},
		),
		deliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "dispatch",
				Name:      "emails_total",
				Help:      "Delivery attempts by status.",
			},
			[]string{"status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveRun records a finished run. An empty kind means success.
func (c *Collector) ObserveRun(kind string, d time.Duration) {
	if kind == "" {
		kind = "ok"
	}
	c.runsTotal.WithLabelValues(kind).Inc()
	c.runDuration.Observe(d.Seconds())
}

// ObserveGeneration records one model request.
func (c *Collector) ObserveGeneration(provider string, d time.Duration, err error) {
	if provider == "" {
		provider = "unknown"
	}
	c.generationsTotal.WithLabelValues(provider, statusLabel(err == nil)).Inc()
	c.generationDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveBatch records how many candidates survived validation.
func (c *Collector) ObserveBatch(valid, dropped int) {
	c.candidatesTotal.WithLabelValues("valid").Add(float64(valid))
	c.candidatesTotal.WithLabelValues("dropped").Add(float64(dropped))
}

// ObserveDelivery records one delivery attempt.
func (c *Collector) ObserveDelivery(sent bool) {
	c.deliveriesTotal.WithLabelValues(statusLabel(sent)).Inc()
}

func statusLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
