package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/randalmurphal/servicebinding/pkg/binding"
)

// Registry configures a service registry.
// Fields missing from a loaded file keep their Default values.
type Registry struct {
	// Strategy selects the binding store: snapshot, identity, or concurrent.
	Strategy string `yaml:"strategy" json:"strategy"`

	// Name identifies the registry in logs.
	Name string `yaml:"name" json:"name"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Metrics enables OpenTelemetry metrics.
	Metrics bool `yaml:"metrics" json:"metrics"`

	// LookupMetrics additionally records every lookup. Off by default
	// because lookups are the hot path.
	LookupMetrics bool `yaml:"lookup_metrics" json:"lookup_metrics"`

	// Tracing enables OpenTelemetry spans for configuration and shutdown.
	Tracing bool `yaml:"tracing" json:"tracing"`
}

// Default returns the default registry configuration.
func Default() Registry {
	return Registry{
		Strategy: string(binding.StrategySnapshot),
		LogLevel: "info",
	}
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

// Validate checks the configuration.
// Returns a *ValidationError for the first invalid field.
func (c Registry) Validate() error {
	if _, err := binding.ParseStrategy(c.Strategy); err != nil {
		return &ValidationError{Field: "strategy", Message: err.Error()}
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return &ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("unknown level %q", c.LogLevel),
		}
	}
	if c.LookupMetrics && !c.Metrics {
		return &ValidationError{Field: "lookup_metrics", Message: "requires metrics"}
	}
	return nil
}

// BindingStrategy returns the parsed strategy.
// An invalid strategy falls back to binding.StrategySnapshot; call Validate
// first to reject it instead.
func (c Registry) BindingStrategy() binding.Strategy {
	s, err := binding.ParseStrategy(c.Strategy)
	if err != nil {
		return binding.StrategySnapshot
	}
	return s
}

// Level returns the slog level for LogLevel, or slog.LevelInfo if invalid.
func (c Registry) Level() slog.Level {
	l, ok := parseLevel(c.LogLevel)
	if !ok {
		return slog.LevelInfo
	}
	return l
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return 0, false
}
