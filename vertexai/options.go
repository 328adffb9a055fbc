package vertexai

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/spyglass-ai/spyglass-go/internal/tracker"
)

const instrumentationName = "spyglass/vertexai"

// options holds configuration for the generation wrappers.
type options struct {
	tracerName     string
	tracerProvider trace.TracerProvider
	metrics        bool
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		tracerName: instrumentationName,
		metrics:    true,
	}
}

// Option configures wrapping behavior.
type Option func(*options)

// WithTracerName sets a custom tracer name.
// Default is the package import path.
func WithTracerName(name string) Option {
	return func(o *options) {
		o.tracerName = name
	}
}

// WithTracerProvider sets an explicit tracer provider.
// If not set, the global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithMetrics enables or disables token usage and operation duration
// metrics for wrapped calls. Default is true.
func WithMetrics(enabled bool) Option {
	return func(o *options) {
		o.metrics = enabled
	}
}

// applyOptions applies option functions to the default options.
func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// getTracer returns a tracer for the configured name and provider.
func getTracer(opts options) trace.Tracer {
	if opts.tracerName == instrumentationName && opts.tracerProvider == nil {
		// Use global tracer if configured
		if t := tracker.Tracer(); t != nil {
			return t
		}
	}

	tp := opts.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return tp.Tracer(opts.tracerName)
}
