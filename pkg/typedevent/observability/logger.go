// Package observability provides logging, metrics, and tracing hooks
// for typedevent emitters.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import "log/slog"

// EnrichLogger adds emitter context to a logger.
// Returns a new logger with emitter_id and emitter_name fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, "3f1c...", "chat")
//	enriched.Info("ready") // includes emitter_id, emitter_name
func EnrichLogger(logger *slog.Logger, emitterID, name string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("emitter_id", emitterID),
		slog.String("emitter_name", name),
	)
}

// LogEmitterReady logs emitter construction with its manifest.
func LogEmitterReady(logger *slog.Logger, kinds []string) {
	if logger == nil {
		return
	}
	logger.Info("emitter ready",
		slog.Any("kinds", kinds),
	)
}

// LogListenerAdded logs a listener registration.
func LogListenerAdded(logger *slog.Logger, kind, mode string, count int) {
	if logger == nil {
		return
	}
	logger.Debug("listener added",
		slog.String("kind", kind),
		slog.String("mode", mode),
		slog.Int("listeners", count),
	)
}

// LogListenerRemoved logs a listener removal.
func LogListenerRemoved(logger *slog.Logger, kind string, count int) {
	if logger == nil {
		return
	}
	logger.Debug("listener removed",
		slog.String("kind", kind),
		slog.Int("listeners", count),
	)
}

// LogEmit logs a completed emit pass.
func LogEmit(logger *slog.Logger, kind string, persistent, once int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event emitted",
		slog.String("kind", kind),
		slog.Int("persistent", persistent),
		slog.Int("once", once),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogListenerLeak warns that a kind holds more listeners than configured.
// This usually means listeners are registered in a loop and never disposed.
func LogListenerLeak(logger *slog.Logger, kind string, count, limit int) {
	if logger == nil {
		return
	}
	logger.Warn("possible listener leak",
		slog.String("kind", kind),
		slog.Int("listeners", count),
		slog.Int("max_listeners", limit),
	)
}

// LogCleared logs removal of every listener for a kind.
func LogCleared(logger *slog.Logger, kind string, removed int) {
	if logger == nil {
		return
	}
	logger.Debug("listeners cleared",
		slog.String("kind", kind),
		slog.Int("removed", removed),
	)
}

// LogKindError logs a rejected operation on a kind.
func LogKindError(logger *slog.Logger, op, kind string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("event kind rejected",
		slog.String("operation", op),
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)
}
