package spyglass

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// exporterParams holds resolved parameters for building exporters.
type exporterParams struct {
	Type        string            // "otlp", "console", "nop"
	Protocol    string            // "grpc", "http/protobuf"
	Endpoint    string            // host:port or URL
	Headers     map[string]string // includes the bearer authorization header
	Timeout     time.Duration     // request timeout
	Compression string            // "gzip", "none"
	Insecure    bool              // disable TLS
}

// resolveExporterParams resolves effective exporter parameters from config,
// including the bearer-token header derived from the API key.
func resolveExporterParams(cfg *Config) exporterParams {
	params := exporterParams{
		Type:        "otlp",
		Protocol:    "grpc",
		Endpoint:    DefaultEndpoint,
		Timeout:     10 * time.Second,
		Compression: "gzip",
	}

	if cfg == nil {
		return params
	}

	exp := cfg.GetExporter()
	if exp.Type != "" {
		params.Type = exp.Type
	}
	if exp.Protocol != "" {
		params.Protocol = exp.Protocol
	}
	params.Endpoint = cfg.GetEndpoint()
	if exp.Timeout > 0 {
		params.Timeout = exp.Timeout
	}
	if exp.Compression != "" {
		params.Compression = exp.Compression
	}
	params.Insecure = exp.IsInsecure()
	params.Headers = authHeaders(cfg.APIKey)

	return params
}

// authHeaders returns the ingestion-auth headers for the given API key.
// The header key is lowercase: gRPC transports require lowercase metadata keys.
func authHeaders(apiKey string) map[string]string {
	if apiKey == "" {
		return nil
	}

	return map[string]string{"authorization": "Bearer " + apiKey}
}

// nopSpanExporter is a no-op span exporter.
type nopSpanExporter struct{}

func (nopSpanExporter) ExportSpans(_ context.Context, _ []sdktrace.ReadOnlySpan) error { return nil }
func (nopSpanExporter) Shutdown(_ context.Context) error                               { return nil }

// buildSpanExporter creates a span exporter based on configuration.
// The console exporter is an explicit opt-in for local development; a
// missing API key with the OTLP type is caught earlier by the provider.
func buildSpanExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	params := resolveExporterParams(cfg)
	params.Type = normalizeExporterType(params.Type)

	switch params.Type {
	case "console":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "none", "nop":
		return nopSpanExporter{}, nil
	default:
		return buildOTLPSpanExporter(ctx, params)
	}
}

func buildOTLPSpanExporter(ctx context.Context, params exporterParams) (sdktrace.SpanExporter, error) {
	if isHTTPProtocol(params.Protocol) {
		opts := buildHTTPOptions(
			params,
			otlptracehttp.WithEndpoint,
			otlptracehttp.WithEndpointURL,
			otlptracehttp.WithHeaders,
			otlptracehttp.WithTimeout,
			otlptracehttp.WithInsecure,
			func() otlptracehttp.Option { return otlptracehttp.WithCompression(otlptracehttp.GzipCompression) },
		)

		return otlptrace.New(ctx, otlptracehttp.NewClient(opts...))
	}

	// Default to gRPC
	opts := buildGRPCOptions(
		params,
		otlptracegrpc.WithEndpoint,
		otlptracegrpc.WithHeaders,
		otlptracegrpc.WithTimeout,
		otlptracegrpc.WithInsecure,
		func() otlptracegrpc.Option { return otlptracegrpc.WithCompressor("gzip") },
	)

	return otlptrace.New(ctx, otlptracegrpc.NewClient(opts...))
}

// nopMetricExporter is a no-op metric exporter.
type nopMetricExporter struct{}

func (nopMetricExporter) Export(_ context.Context, _ *metricdata.ResourceMetrics) error { return nil }
func (nopMetricExporter) Temporality(k sdkmetric.InstrumentKind) metricdata.Temporality {
	return sdkmetric.DefaultTemporalitySelector(k)
}

func (nopMetricExporter) Aggregation(k sdkmetric.InstrumentKind) sdkmetric.Aggregation {
	return sdkmetric.DefaultAggregationSelector(k)
}
func (nopMetricExporter) ForceFlush(_ context.Context) error { return nil }
func (nopMetricExporter) Shutdown(_ context.Context) error   { return nil }

// buildMetricExporter creates a metric exporter based on configuration.
func buildMetricExporter(ctx context.Context, cfg *Config) (sdkmetric.Exporter, error) {
	params := resolveExporterParams(cfg)
	params.Type = normalizeExporterType(params.Type)

	switch params.Type {
	case "console":
		return stdoutmetric.New(stdoutmetric.WithPrettyPrint())
	case "none", "nop":
		return nopMetricExporter{}, nil
	default:
		return buildOTLPMetricExporter(ctx, params)
	}
}

func buildOTLPMetricExporter(ctx context.Context, params exporterParams) (sdkmetric.Exporter, error) {
	if isHTTPProtocol(params.Protocol) {
		opts := buildHTTPOptions(
			params,
			otlpmetrichttp.WithEndpoint,
			otlpmetrichttp.WithEndpointURL,
			otlpmetrichttp.WithHeaders,
			otlpmetrichttp.WithTimeout,
			otlpmetrichttp.WithInsecure,
			func() otlpmetrichttp.Option { return otlpmetrichttp.WithCompression(otlpmetrichttp.GzipCompression) },
		)

		return otlpmetrichttp.New(ctx, opts...)
	}

	// Default to gRPC
	opts := buildGRPCOptions(
		params,
		otlpmetricgrpc.WithEndpoint,
		otlpmetricgrpc.WithHeaders,
		otlpmetricgrpc.WithTimeout,
		otlpmetricgrpc.WithInsecure,
		func() otlpmetricgrpc.Option { return otlpmetricgrpc.WithCompressor("gzip") },
	)

	return otlpmetricgrpc.New(ctx, opts...)
}

// nopLogExporter is a no-op log exporter.
type nopLogExporter struct{}

func (nopLogExporter) Export(_ context.Context, _ []sdklog.Record) error { return nil }
func (nopLogExporter) Shutdown(_ context.Context) error                  { return nil }
func (nopLogExporter) ForceFlush(_ context.Context) error                { return nil }

// buildLogExporter creates a log exporter based on configuration.
func buildLogExporter(ctx context.Context, cfg *Config) (sdklog.Exporter, error) {
	params := resolveExporterParams(cfg)
	params.Type = normalizeExporterType(params.Type)

	switch params.Type {
	case "console":
		return stdoutlog.New(stdoutlog.WithPrettyPrint())
	case "none", "nop":
		return nopLogExporter{}, nil
	default:
		return buildOTLPLogExporter(ctx, params)
	}
}

func buildOTLPLogExporter(ctx context.Context, params exporterParams) (sdklog.Exporter, error) {
	if isHTTPProtocol(params.Protocol) {
		opts := buildHTTPOptions(
			params,
			otlploghttp.WithEndpoint,
			otlploghttp.WithEndpointURL,
			otlploghttp.WithHeaders,
			otlploghttp.WithTimeout,
			otlploghttp.WithInsecure,
			func() otlploghttp.Option { return otlploghttp.WithCompression(otlploghttp.GzipCompression) },
		)

		return otlploghttp.New(ctx, opts...)
	}

	// Default to gRPC
	opts := buildGRPCOptions(
		params,
		otlploggrpc.WithEndpoint,
		otlploggrpc.WithHeaders,
		otlploggrpc.WithTimeout,
		otlploggrpc.WithInsecure,
		func() otlploggrpc.Option { return otlploggrpc.WithCompressor("gzip") },
	)

	return otlploggrpc.New(ctx, opts...)
}

func normalizeExporterType(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "otlp"
	}
	switch v {
	case "stdout":
		return "console"
	case "noop", "none":
		return "nop"
	default:
		return v
	}
}

func isHTTPProtocol(protocol string) bool {
	return protocol == "http/protobuf" || protocol == "http"
}

func isHTTPURLScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

// buildHTTPOptions assembles exporter options for an OTLP/HTTP client.
// URL-form endpoints go through WithEndpointURL so the path survives.
func buildHTTPOptions[T any](
	params exporterParams,
	withEndpoint func(string) T,
	withEndpointURL func(string) T,
	withHeaders func(map[string]string) T,
	withTimeout func(time.Duration) T,
	withInsecure func() T,
	withCompression func() T,
) []T {
	var opts []T
	if parsed, err := url.Parse(params.Endpoint); err == nil && isHTTPURLScheme(parsed.Scheme) {
		opts = append(opts, withEndpointURL(params.Endpoint))
	} else {
		opts = append(opts, withEndpoint(params.Endpoint))
	}
	if len(params.Headers) > 0 {
		opts = append(opts, withHeaders(params.Headers))
	}
	if params.Timeout > 0 {
		opts = append(opts, withTimeout(params.Timeout))
	}
	if params.Insecure {
		opts = append(opts, withInsecure())
	}
	if params.Compression == "gzip" {
		opts = append(opts, withCompression())
	}

	return opts
}

// buildGRPCOptions assembles exporter options for an OTLP/gRPC client.
func buildGRPCOptions[T any](
	params exporterParams,
	withEndpoint func(string) T,
	withHeaders func(map[string]string) T,
	withTimeout func(time.Duration) T,
	withInsecure func() T,
	withCompression func() T,
) []T {
	opts := []T{withEndpoint(params.Endpoint)}
	if len(params.Headers) > 0 {
		opts = append(opts, withHeaders(params.Headers))
	}
	if params.Timeout > 0 {
		opts = append(opts, withTimeout(params.Timeout))
	}
	if params.Insecure {
		opts = append(opts, withInsecure())
	}
	if params.Compression == "gzip" {
		opts = append(opts, withCompression())
	}

	return opts
}
