package otelhelper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teleboot/teleboot/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpanAndSetError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := provider.Tracer("test")

	_, span := otelhelper.StartSpan(context.Background(), tracer, "flows.Get",
		attribute.String(otelhelper.FlowIDKey, "flow-1"))
	otelhelper.SetError(span, errors.New("boom"), attribute.String(otelhelper.OperationKey, "get"))
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "flows.Get", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	assert.Contains(t, spans[0].Attributes(), attribute.String(otelhelper.FlowIDKey, "flow-1"))

	var errorEvent *sdktrace.Event

	for i, event := range spans[0].Events() {
		if event.Name == otelhelper.ErrorEventName {
			errorEvent = &spans[0].Events()[i]
		}
	}

	require.NotNil(t, errorEvent)
	assert.Contains(t, errorEvent.Attributes, attribute.String(otelhelper.OperationKey, "get"))
	assert.Contains(t, errorEvent.Attributes, attribute.String(otelhelper.ErrorTypeKey, "*errors.errorString"))
}

func TestTracer_NoopByDefault(t *testing.T) {
	_, span := otelhelper.StartSpan(context.Background(), otelhelper.Tracer("test"), "noop")
	defer span.End()

	assert.False(t, span.SpanContext().IsSampled())
}
