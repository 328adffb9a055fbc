package vertexai

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names for the two generation entry points.
const (
	spanNameGenerate      = "vertexai.chat.generate"
	spanNameGenerateAsync = "vertexai.chat.generate_async"
)

// Wrap replaces the client's generation functions with traced versions and
// returns the same client instance. Wrapping is idempotent in effect only:
// wrapping an already wrapped client nests a second span per call, so wrap
// each client once.
//
// A nil client is returned unchanged. The original functions keep their
// exact semantics: arguments pass through untouched, results and errors are
// returned as-is.
func Wrap(client *ChatClient, opts ...Option) *ChatClient {
	if client == nil {
		return nil
	}
	o := applyOptions(opts)

	if client.GenerateFn != nil {
		client.GenerateFn = wrapGenerate(client, client.GenerateFn, o)
	}
	if client.GenerateAsyncFn != nil {
		client.GenerateAsyncFn = wrapGenerateAsync(client, client.GenerateAsyncFn, o)
	}

	return client
}

// wrapGenerate returns a traced version of the blocking generation function.
func wrapGenerate(client *ChatClient, original GenerateFunc, o options) GenerateFunc {
	return func(ctx context.Context, messages []Message, opts *CallOptions) (*ChatResult, error) {
		tracer := getTracer(o)
		ctx, span := tracer.Start(ctx, spanNameGenerate, trace.WithSpanKind(trace.SpanKindClient))
		defer span.End()

		span.SetAttributes(requestAttributes(client, messages, opts)...)

		start := time.Now()
		result, err := original(ctx, messages, opts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return result, err
		}

		respAttrs := responseAttributes(result)
		span.SetAttributes(respAttrs...)
		span.SetStatus(codes.Ok, "")

		if o.metrics {
			recordMetrics(ctx, client, respAttrs, time.Since(start))
		}

		return result, nil
	}
}

// wrapGenerateAsync returns a traced version of the asynchronous generation
// function. The span opens when the call is issued and ends when the result
// resolves, so it covers the full wait. Each invocation gets its own span;
// concurrent calls never share state beyond the client's configuration,
// which is read per invocation.
func wrapGenerateAsync(client *ChatClient, original AsyncGenerateFunc, o options) AsyncGenerateFunc {
	return func(ctx context.Context, messages []Message, opts *CallOptions) *AsyncResult {
		tracer := getTracer(o)
		ctx, span := tracer.Start(ctx, spanNameGenerateAsync, trace.WithSpanKind(trace.SpanKindClient))

		span.SetAttributes(requestAttributes(client, messages, opts)...)

		start := time.Now()
		inner := original(ctx, messages, opts)

		return Go(func() (*ChatResult, error) {
			defer span.End()

			result, err := inner.Wait(ctx)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())

				return result, err
			}

			respAttrs := responseAttributes(result)
			span.SetAttributes(respAttrs...)
			span.SetStatus(codes.Ok, "")

			if o.metrics {
				recordMetrics(ctx, client, respAttrs, time.Since(start))
			}

			return result, nil
		})
	}
}
