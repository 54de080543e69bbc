// Package metrics exports reactive runtime activity as Prometheus metrics.
//
//	inst := metrics.New(metrics.WithRegistry(reg))
//	rt := reactive.NewRuntime(reactive.WithInstrument(inst))
package metrics

import (
	"errors"

	"github.com/delaneyj/finegrain/reactive"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the Prometheus instrument.
type Config struct {
	// Namespace is the metrics namespace (default: "finegrain").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactive").
	Subsystem string

	// ConstLabels are added to every metric, e.g. to tell runtimes apart.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations in seconds.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "finegrain",
		Subsystem: "reactive",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Instrument implements reactive.Instrument.
type Instrument struct {
	flushes         prometheus.Counter
	flushDuration   prometheus.Histogram
	flushRounds     prometheus.Histogram
	flushErrors     *prometheus.CounterVec
	effectRuns      prometheus.Counter
	abandoned       prometheus.Counter
	computations    *prometheus.CounterVec
	computeDuration *prometheus.HistogramVec
	disposedNodes   prometheus.Counter
	disposedScopes  prometheus.Counter
	deferred        prometheus.Counter
}

var _ reactive.Instrument = (*Instrument)(nil)

// New registers the collectors. Registering twice on the same registry
// panics, as with promauto.
func New(opts ...Option) *Instrument {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Instrument{
		flushes: counter("flushes_total", "Total number of flushes"),

		flushDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_duration_seconds",
			Help:        "Flush duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		flushRounds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_rounds",
			Help:        "Effect rounds needed per flush",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 11), // 1 to 1024
		}),

		flushErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "flush_errors_total",
			Help:        "Flushes that returned an error, by error type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		effectRuns: counter("effect_runs_total", "Total number of effects refreshed by flushes"),
		abandoned:  counter("abandoned_effects_total", "Effects dropped after exceeding the update depth"),

		computations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computations_total",
			Help:        "Memo and effect runs by kind and result",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "result"}),

		computeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compute_duration_seconds",
			Help:        "Memo and effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		disposedNodes:  counter("disposed_nodes_total", "Total number of nodes torn down"),
		disposedScopes: counter("disposed_scopes_total", "Total number of scopes torn down"),
		deferred:       counter("deferred_disposals_total", "Disposals postponed until a flush finished"),
	}
}

func (m *Instrument) Flush(s reactive.FlushStats) {
	m.flushes.Inc()
	m.flushDuration.Observe(s.Duration.Seconds())
	m.flushRounds.Observe(float64(s.Rounds))
	m.effectRuns.Add(float64(s.Runs))
	m.abandoned.Add(float64(s.Abandoned))
	if s.Err != nil {
		m.flushErrors.WithLabelValues(errorType(s.Err)).Inc()
	}
}

func (m *Instrument) Compute(s reactive.ComputeStats) {
	kind := s.Kind.String()
	result := "unchanged"
	switch {
	case s.Err != nil:
		result = "failed"
	case s.Kind == reactive.KindEffect:
		result = "ran"
	case s.Changed:
		result = "changed"
	}
	m.computations.WithLabelValues(kind, result).Inc()
	m.computeDuration.WithLabelValues(kind).Observe(s.Duration.Seconds())
}

func (m *Instrument) Dispose(s reactive.DisposeStats) {
	m.disposedNodes.Add(float64(s.Nodes))
	m.disposedScopes.Add(float64(s.Scopes))
	m.deferred.Add(float64(s.Deferred))
}

func errorType(err error) string {
	var ce *reactive.ComputationError
	switch {
	case errors.Is(err, reactive.ErrMaxUpdateDepthExceeded):
		return "max_update_depth"
	case errors.Is(err, reactive.ErrCyclicDependency):
		return "cyclic_dependency"
	case errors.Is(err, reactive.ErrStaleHandle):
		return "stale_handle"
	case errors.As(err, &ce):
		return "computation"
	default:
		return "other"
	}
}
