// Package observability provides logging, metrics, and tracing for
// service binding registries.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Nothing here is called on the lookup path unless lookup metrics are
// enabled explicitly.
package observability

import (
	"fmt"
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with registry_id and strategy fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "3f2a...", "snapshot")
//	enriched.Info("bound") // includes registry_id, strategy
func EnrichLogger(logger *slog.Logger, registryID, strategy string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("registry_id", registryID),
		slog.String("strategy", strategy),
	)
}

// LogConfigureStart logs the start of a configuration phase.
func LogConfigureStart(logger *slog.Logger, bindings int) {
	if logger == nil {
		return
	}
	logger.Info("registry configuration starting",
		slog.Int("bindings", bindings),
	)
}

// LogConfigureComplete logs a finished configuration phase.
func LogConfigureComplete(logger *slog.Logger, bound int, total int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("registry configuration finished",
		slog.Int("bound", bound),
		slog.Int("bindings", total),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogConfigureError logs a failed configuration phase.
func LogConfigureError(logger *slog.Logger, err error, bound int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("registry configuration failed",
		slog.String("error", err.Error()),
		slog.Int("bound", bound),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogBind logs a single binding.
func LogBind(logger *slog.Logger, key any) {
	if logger == nil {
		return
	}
	logger.Debug("service bound",
		slog.String("key", KeyString(key)),
	)
}

// LogReset logs that a registry dropped its bindings.
func LogReset(logger *slog.Logger, dropped int) {
	if logger == nil {
		return
	}
	logger.Info("registry reset",
		slog.Int("dropped", dropped),
	)
}

// LogShutdown logs registry shutdown.
func LogShutdown(logger *slog.Logger, stopped int, failed int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("registry shut down",
		slog.Int("stopped", stopped),
		slog.Int("failed", failed),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogStopError logs a service that failed to stop (non-fatal).
func LogStopError(logger *slog.Logger, key any, err error) {
	if logger == nil {
		return
	}
	logger.Warn("service stop failed",
		slog.String("key", KeyString(key)),
		slog.String("error", err.Error()),
	)
}

// KeyString renders a binding key for logs, metrics, and spans.
func KeyString(key any) string {
	if s, ok := key.(fmt.Stringer); ok {
		return s.String()
	}
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", key)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
