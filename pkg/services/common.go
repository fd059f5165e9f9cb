package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/teleboot/teleboot/pkg/eventbus"
	"github.com/teleboot/teleboot/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "teleboot/services"

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// now returns the current UTC time at the precision every supported store keeps.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// nolint:ireturn,spancheck // Returning interface is intentional for OpenTelemetry tracing
func startSpan(ctx context.Context, tracer trace.Tracer, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otelhelper.StartSpan(ctx, tracer, name, attrs...)
}

// endSpan records err on the span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		otelhelper.SetError(span, err)
	}

	span.End()
}

// publish sends a lifecycle event. Failures are logged and never returned:
// the write that produced the event has already been committed.
func publish(ctx context.Context, logger *slog.Logger, publisher eventbus.EventPublisher, key string, event eventbus.Event) {
	if publisher == nil {
		return
	}

	err := publisher.Publish(ctx, key, event)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "event_type", event.GetType(), "key", key, "error", err)
	}
}

// normalizeOptional turns blank strings into nil.
func normalizeOptional(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}

	return value
}
