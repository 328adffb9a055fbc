package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/spyglass-ai/spyglass-go/internal/tracker"
)

type stubTool struct {
	name   string
	output string
	err    error
	calls  int
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub" }

func (s *stubTool) Call(ctx context.Context, input string) (string, error) {
	s.calls++

	return s.output, s.err
}

func setupTracedTest(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	tracker.Set(tp.Tracer("test"), nil)
	t.Cleanup(func() {
		tracker.Set(nil, nil)
		_ = tp.Shutdown(context.Background())
	})

	return exporter
}

func TestTraced_CreatesSpanPerCall(t *testing.T) {
	exporter := setupTracedTest(t)
	stub := &stubTool{name: "search", output: "result"}

	traced := Traced(stub)
	out, err := traced.Call(context.Background(), `{"query":"test"}`)

	require.NoError(t, err)
	assert.Equal(t, "result", out)
	assert.Equal(t, 1, stub.calls)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "execute_tool search", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestTraced_RecordsError(t *testing.T) {
	exporter := setupTracedTest(t)
	wantErr := errors.New("tool broke")
	stub := &stubTool{name: "search", err: wantErr}

	_, err := Traced(stub).Call(context.Background(), "{}")

	require.ErrorIs(t, err, wantErr)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestTraced_NoTracerIsNoOp(t *testing.T) {
	tracker.Set(nil, nil)
	stub := &stubTool{name: "search", output: "ok"}

	out, err := Traced(stub).Call(context.Background(), "{}")

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, stub.calls)
}

func TestTraced_NilTool(t *testing.T) {
	assert.Nil(t, Traced(nil))
}

func TestTraced_ForwardsSchema(t *testing.T) {
	tool, err := NewFunc("get_weather", "weather",
		func(ctx context.Context, in weatherInput) (string, error) {
			return "", nil
		})
	require.NoError(t, err)

	traced := Traced(tool)
	sp, ok := traced.(SchemaProvider)
	require.True(t, ok)
	assert.NotNil(t, sp.InputSchema())
}

func TestTracedAll(t *testing.T) {
	ts := TracedAll([]Tool{
		&stubTool{name: "a"},
		&stubTool{name: "b"},
	})

	require.Len(t, ts, 2)
	assert.Equal(t, "a", ts[0].Name())
	assert.Equal(t, "b", ts[1].Name())
}
