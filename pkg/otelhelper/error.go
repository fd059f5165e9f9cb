package otelhelper

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ErrorEventName names the span event added for failed operations.
	ErrorEventName = "teleboot.error"

	// ErrorTypeKey holds the Go type of the error that failed the operation.
	ErrorTypeKey = "teleboot.error.type"
)

// SetError marks the span as failed and adds an error event carrying the
// error type and attrs.
func SetError(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	eventAttrs := make([]attribute.KeyValue, 0, len(attrs)+1)
	eventAttrs = append(eventAttrs, attrs...)
	eventAttrs = append(eventAttrs, attribute.String(ErrorTypeKey, fmt.Sprintf("%T", err)))

	span.AddEvent(ErrorEventName, trace.WithAttributes(eventAttrs...))
}
