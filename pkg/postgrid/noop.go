package postgrid

import (
	"context"
	"log/slog"
)

// NoopEventSink is a no-operation implementation of EventSink.
// Useful when no observability hook is wired, and for testing.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink.
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// RecordSkipped does nothing.
func (n *NoopEventSink) RecordSkipped(ctx context.Context, id, reason string) {}

// BatchNormalized does nothing.
func (n *NoopEventSink) BatchNormalized(ctx context.Context, total, skipped int) {}

// LogEventSink logs normalization events through slog but takes no other
// action.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates an event sink that logs through the given logger,
// or slog.Default when nil.
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

// RecordSkipped logs the skipped record and the reason.
func (l *LogEventSink) RecordSkipped(ctx context.Context, id, reason string) {
	l.logger.WarnContext(ctx, "record skipped", "record_id", id, "reason", reason)
}

// BatchNormalized logs the batch summary.
func (l *LogEventSink) BatchNormalized(ctx context.Context, total, skipped int) {
	l.logger.InfoContext(ctx, "batch normalized", "total", total, "skipped", skipped)
}
