package transport

import (
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/stats"
)

// GRPCClientHandler returns a gRPC stats.Handler for client-side tracing
// and metrics. Uses the globally registered providers; initialize them with
// spyglass.Init before dialing.
func GRPCClientHandler(opts ...otelgrpc.Option) stats.Handler {
	return otelgrpc.NewClientHandler(opts...)
}

// GRPCClientHandlerWithProviders returns a gRPC stats.Handler for
// client-side tracing and metrics with explicitly provided TracerProvider,
// MeterProvider, and TextMapPropagator. Nil providers fall back to the
// globals.
func GRPCClientHandlerWithProviders(
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	prop propagation.TextMapPropagator,
	opts ...otelgrpc.Option,
) stats.Handler {
	allOpts := buildGRPCProviderOptions(tp, mp, prop)
	allOpts = append(allOpts, opts...)

	return otelgrpc.NewClientHandler(allOpts...)
}

// buildGRPCProviderOptions creates otelgrpc.Option slice from providers.
// Falls back to global providers when explicit providers are nil.
func buildGRPCProviderOptions(
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	prop propagation.TextMapPropagator,
) []otelgrpc.Option {
	var opts []otelgrpc.Option

	if tp != nil {
		opts = append(opts, otelgrpc.WithTracerProvider(tp))
	} else {
		opts = append(opts, otelgrpc.WithTracerProvider(otel.GetTracerProvider()))
	}

	if mp != nil {
		opts = append(opts, otelgrpc.WithMeterProvider(mp))
	} else {
		opts = append(opts, otelgrpc.WithMeterProvider(otel.GetMeterProvider()))
	}

	if prop != nil {
		opts = append(opts, otelgrpc.WithPropagators(prop))
	} else {
		opts = append(opts, otelgrpc.WithPropagators(otel.GetTextMapPropagator()))
	}

	return opts
}
