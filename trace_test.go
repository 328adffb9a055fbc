package spyglass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestTraced_Success(t *testing.T) {
	exporter := setupSpanTest(t)

	fn := Traced("fetch user", func(ctx context.Context) (string, error) {
		return "alice", nil
	})

	result, err := fn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", result)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "fetch user", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
}

func TestTraced_Error(t *testing.T) {
	exporter := setupSpanTest(t)

	wantErr := errors.New("db unavailable")
	fn := Traced("fetch user", func(ctx context.Context) (string, error) {
		return "", wantErr
	})

	_, err := fn(context.Background())
	require.ErrorIs(t, err, wantErr)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "db unavailable", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)
}

func TestTraced_NestsUnderParent(t *testing.T) {
	exporter := setupSpanTest(t)

	outer := Traced("outer", func(ctx context.Context) (int, error) {
		inner := Traced("inner", func(ctx context.Context) (int, error) {
			return 42, nil
		})

		return inner(ctx)
	})

	result, err := outer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, result)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	// Inner span ends first and must point at the outer span.
	assert.Equal(t, "inner", spans[0].Name)
	assert.Equal(t, "outer", spans[1].Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

func TestTracedFunc(t *testing.T) {
	exporter := setupSpanTest(t)

	called := false
	err := TracedFunc("do work", func(ctx context.Context) error {
		called = true

		return nil
	})(context.Background())

	require.NoError(t, err)
	assert.True(t, called)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "do work", spans[0].Name)
}

func TestTracedFunc_Error(t *testing.T) {
	setupSpanTest(t)

	wantErr := errors.New("nope")
	err := TracedFunc("do work", func(ctx context.Context) error {
		return wantErr
	})(context.Background())

	assert.ErrorIs(t, err, wantErr)
}
