package spyglass

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/metadata"
)

func setupPropagationTest(t *testing.T) context.Context {
	t.Helper()

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	otel.SetTextMapPropagator(buildPropagator(nil))

	ctx, span := tp.Tracer("test").Start(context.Background(), "parent")
	t.Cleanup(func() { span.End() })

	return ctx
}

func TestBuildPropagator_Default(t *testing.T) {
	prop := buildPropagator(nil)
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, prop.Fields())
}

func TestBuildPropagator_TraceContextOnly(t *testing.T) {
	prop := buildPropagator(&PropConfig{Propagators: "tracecontext"})
	assert.ElementsMatch(t, []string{"traceparent", "tracestate"}, prop.Fields())
}

func TestBuildPropagator_None(t *testing.T) {
	prop := buildPropagator(&PropConfig{Propagators: "none"})
	assert.Empty(t, prop.Fields())
}

func TestInjectExtractHTTP(t *testing.T) {
	ctx := setupPropagationTest(t)

	headers := http.Header{}
	InjectHTTP(ctx, headers)
	require.NotEmpty(t, headers.Get("traceparent"))

	extracted := ExtractHTTP(context.Background(), headers)
	assert.Equal(t,
		trace.SpanContextFromContext(ctx).TraceID(),
		trace.SpanContextFromContext(extracted).TraceID())
}

func TestInjectExtractGRPC(t *testing.T) {
	ctx := setupPropagationTest(t)

	md := metadata.MD{}
	InjectGRPC(ctx, md)
	require.NotEmpty(t, md.Get("traceparent"))

	extracted := ExtractGRPC(context.Background(), md)
	assert.Equal(t,
		trace.SpanContextFromContext(ctx).TraceID(),
		trace.SpanContextFromContext(extracted).TraceID())
}

func TestMetadataCarrier(t *testing.T) {
	md := metadata.MD{}
	carrier := metadataCarrier(md)

	carrier.Set("traceparent", "value")
	assert.Equal(t, "value", carrier.Get("traceparent"))
	assert.Equal(t, "", carrier.Get("missing"))
	assert.Contains(t, carrier.Keys(), "traceparent")
}

var _ propagation.TextMapCarrier = metadataCarrier{}
