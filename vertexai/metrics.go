package vertexai

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const attrTokenType = "gen_ai.token.type"

var (
	metricsOnce       sync.Once
	tokenUsageHist    metric.Int64Histogram
	operationDuration metric.Float64Histogram
)

// instruments lazily creates the GenAI client metrics from the global meter
// provider. Creation failures fall back to the SDK's noop instruments, so
// recording is always safe.
func instruments() (metric.Int64Histogram, metric.Float64Histogram) {
	metricsOnce.Do(func() {
		meter := otel.Meter(instrumentationName)

		var err error
		tokenUsageHist, err = meter.Int64Histogram(
			"gen_ai.client.token.usage",
			metric.WithUnit("{token}"),
			metric.WithDescription("Number of input and output tokens used per operation"),
		)
		if err != nil {
			otel.Handle(err)
		}

		operationDuration, err = meter.Float64Histogram(
			"gen_ai.client.operation.duration",
			metric.WithUnit("s"),
			metric.WithDescription("Duration of GenAI client operations"),
		)
		if err != nil {
			otel.Handle(err)
		}
	})

	return tokenUsageHist, operationDuration
}

// recordMetrics emits token usage and operation duration for one generation
// call. Token counts come from the already-projected response attributes so
// the synonym resolution happens exactly once.
func recordMetrics(ctx context.Context, client *ChatClient, respAttrs []attribute.KeyValue, elapsed time.Duration) {
	tokens, duration := instruments()
	if tokens == nil || duration == nil {
		return
	}

	base := []attribute.KeyValue{
		attribute.String(attrOperationName, "chat"),
		attribute.String(attrSystem, genAISystem),
	}
	if client.ModelName != "" {
		base = append(base, attribute.String(attrRequestModel, client.ModelName))
	}

	duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(base...))

	withTokenType := func(tokenType string) metric.MeasurementOption {
		attrs := make([]attribute.KeyValue, 0, len(base)+1)
		attrs = append(attrs, base...)
		attrs = append(attrs, attribute.String(attrTokenType, tokenType))

		return metric.WithAttributes(attrs...)
	}

	for _, kv := range respAttrs {
		switch string(kv.Key) {
		case attrUsageInputTokens:
			tokens.Record(ctx, kv.Value.AsInt64(), withTokenType("input"))
		case attrUsageOutputTokens:
			tokens.Record(ctx, kv.Value.AsInt64(), withTokenType("output"))
		}
	}
}
