// Package observability provides logging, metrics, and tracing for njector.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"io"
	"log/slog"
)

// NewLogger returns a JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// LogServiceAdded logs a successful registration.
func LogServiceAdded(logger *slog.Logger, key string, observers int) {
	if logger == nil {
		return
	}
	logger.Debug("service added",
		slog.String("service_key", key),
		slog.Int("observers", observers),
	)
}

// LogServiceRemoved logs a successful removal.
func LogServiceRemoved(logger *slog.Logger, key string, observers int) {
	if logger == nil {
		return
	}
	logger.Debug("service removed",
		slog.String("service_key", key),
		slog.Int("observers", observers),
	)
}

// LogDuplicateKey logs a rejected registration.
func LogDuplicateKey(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Warn("service already registered",
		slog.String("service_key", key),
	)
}

// LogNotFound logs a get or remove for an unknown key.
func LogNotFound(logger *slog.Logger, op, key string) {
	if logger == nil {
		return
	}
	logger.Debug("service not registered",
		slog.String("operation", op),
		slog.String("service_key", key),
	)
}

// LogJournalError logs a failed journal write (non-fatal).
func LogJournalError(logger *slog.Logger, kind, key string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("journal append failed",
		slog.String("kind", kind),
		slog.String("service_key", key),
		slog.String("error", err.Error()),
	)
}
