package spyglass

import (
	"context"

	"go.opentelemetry.io/otel/codes"
)

// Traced wraps fn in a named span. The returned function opens a span on
// every call, marks it OK on success or records the error and marks it
// ERROR on failure, and always closes it. The error returned by fn is
// passed through with identical identity.
//
// This is the general-purpose counterpart to the model-client
// instrumentation in the vertexai package:
//
//	answer := spyglass.Traced("query_with_tools", queryWithTools)
//	result, err := answer(ctx)
func Traced[T any](name string, fn func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		ctx, span := Start(ctx, name)
		defer span.End()

		result, err := fn(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())

			return result, err
		}
		span.SetStatus(codes.Ok, "")

		return result, nil
	}
}

// TracedFunc is Traced for functions with no result.
func TracedFunc(name string, fn func(context.Context) error) func(context.Context) error {
	wrapped := Traced(name, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})

	return func(ctx context.Context) error {
		_, err := wrapped(ctx)
		return err
	}
}
