package tools

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/spyglass-ai/spyglass-go/internal/tracker"
)

const (
	attrToolName      = "gen_ai.tool.name"
	attrOperationName = "gen_ai.operation.name"
)

// Traced wraps a tool so every Call emits a span named
// "execute_tool <name>". The tool's behavior is unchanged: input and
// output pass through untouched and errors are returned as-is after being
// recorded on the span.
func Traced(tool Tool) Tool {
	if tool == nil {
		return nil
	}

	return &tracedTool{inner: tool}
}

// TracedAll wraps every tool in the slice. Useful after loading a tool set
// from an external source.
func TracedAll(ts []Tool) []Tool {
	wrapped := make([]Tool, len(ts))
	for i, t := range ts {
		wrapped[i] = Traced(t)
	}

	return wrapped
}

type tracedTool struct {
	inner Tool
}

func (t *tracedTool) Name() string        { return t.inner.Name() }
func (t *tracedTool) Description() string { return t.inner.Description() }

// InputSchema forwards to the wrapped tool when it provides a schema.
func (t *tracedTool) InputSchema() map[string]any {
	if sp, ok := t.inner.(SchemaProvider); ok {
		return sp.InputSchema()
	}

	return nil
}

func (t *tracedTool) Call(ctx context.Context, input string) (string, error) {
	ctx, span := tracker.Start(ctx, "execute_tool "+t.inner.Name(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String(attrOperationName, "execute_tool"),
			attribute.String(attrToolName, t.inner.Name()),
		),
	)
	defer span.End()

	output, err := t.inner.Call(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return output, err
	}
	span.SetStatus(codes.Ok, "")

	return output, nil
}
