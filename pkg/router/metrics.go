package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Navigation results recorded by Metrics.
const (
	resultOK    = "ok"
	resultError = "error"
)

// MetricsConfig configures the navigation collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "flxrouter").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for navigation duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the navigation collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "flxrouter",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors of a resolver.
//
// Metrics collected:
//   - flxrouter_navigations_total: Counter of navigations by kind (to, push) and result
//   - flxrouter_navigation_duration_seconds: Histogram of resolution and notification time
//   - flxrouter_routes: Gauge of normalized routes in the table
//
// A nil *Metrics records nothing.
type Metrics struct {
	navigations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	routes      prometheus.Gauge
}

// NewMetrics registers the navigation collectors. Registering twice on the
// same registry panics, so create one Metrics per registry and share it
// between resolvers.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of navigations by kind and result",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "result"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Navigation duration in seconds, hooks included",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		routes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "routes",
			Help:        "Number of normalized routes in the table",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) observe(kind, result string, d time.Duration) {
	if m == nil {
		return
	}
	m.navigations.WithLabelValues(kind, result).Inc()
	m.duration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) setRoutes(n int) {
	if m == nil {
		return
	}
	m.routes.Set(float64(n))
}
