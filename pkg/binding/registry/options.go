package registry

import (
	"log/slog"

	"github.com/randalmurphal/servicebinding/pkg/binding"
	"github.com/randalmurphal/servicebinding/pkg/binding/config"
	"github.com/randalmurphal/servicebinding/pkg/binding/observability"
)

// options holds configuration for a Registry.
type options struct {
	strategy      binding.Strategy
	name          string
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
	lookupMetrics bool
	spans         observability.SpanManager
}

// defaultOptions returns the default registry configuration.
func defaultOptions() options {
	return options{
		strategy: binding.StrategySnapshot,
		logger:   slog.Default(),
		metrics:  observability.NoopMetrics{},
		spans:    observability.NoopSpanManager{},
	}
}

// Option configures a Registry.
type Option func(*options)

// WithStrategy selects the binding store.
// Default: binding.StrategySnapshot
func WithStrategy(s binding.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithName names the registry in logs.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger. A nil logger disables logging.
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder for writes and shutdown.
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithLookupMetrics records every Get, Has, and MustGet through the metrics
// recorder. This puts a metric call on the lookup path; leave it off unless
// lookup counts are needed.
func WithLookupMetrics() Option {
	return func(o *options) {
		o.lookupMetrics = true
	}
}

// WithTracing sets the span manager for configuration and shutdown.
// Default: observability.NoopSpanManager{}
func WithTracing(sm observability.SpanManager) Option {
	return func(o *options) {
		if sm != nil {
			o.spans = sm
		}
	}
}

// FromConfig converts a loaded configuration into options.
// Options passed after these override them.
//
// Example:
//
//	cfg, err := config.FromFile("registry.yaml")
//	if err != nil {
//	    return err
//	}
//	r, err := registry.New[string, Service](registry.FromConfig(cfg, handler)...)
func FromConfig(cfg config.Registry, handler slog.Handler) []Option {
	opts := []Option{
		WithStrategy(cfg.BindingStrategy()),
		WithName(cfg.Name),
	}
	if handler != nil {
		opts = append(opts, WithLogger(slog.New(&levelHandler{level: cfg.Level(), Handler: handler})))
	}
	if cfg.Metrics {
		opts = append(opts, WithMetrics(observability.NewMetricsRecorder()))
	}
	if cfg.LookupMetrics {
		opts = append(opts, WithLookupMetrics())
	}
	if cfg.Tracing {
		opts = append(opts, WithTracing(observability.NewSpanManager()))
	}
	return opts
}
