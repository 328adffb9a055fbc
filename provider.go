package spyglass

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// ErrAPIKeyRequired is returned when the OTLP exporter is selected but
// SPYGLASS_API_KEY is unset. There is no silent fallback: exporting to the
// ingestion API without credentials would drop every span.
var ErrAPIKeyRequired = errors.New("spyglass: SPYGLASS_API_KEY is not set")

// ErrDeploymentIDRequired is returned when SPYGLASS_DEPLOYMENT_ID is unset.
var ErrDeploymentIDRequired = errors.New("spyglass: SPYGLASS_DEPLOYMENT_ID is not set")

// ErrLogsDisabled is returned when log export is disabled.
var ErrLogsDisabled = errors.New("spyglass: logs export is disabled")

// ErrMetricsDisabled is returned when metrics export is disabled.
var ErrMetricsDisabled = errors.New("spyglass: metrics export is disabled")

// TracerName is the instrumentation scope used for spans emitted by this
// library.
const TracerName = "spyglass-tracer"

// attrDeploymentID is the resource attribute carrying the deployment
// identifier on every exported span.
const attrDeploymentID = "spyglass.deployment.id"

// Shutdown flushes and tears down the telemetry pipeline.
// Call it during graceful shutdown; the batch processor holds spans in an
// internal queue until flushed.
type Shutdown func(ctx context.Context) error

// Init configures the complete Spyglass telemetry pipeline from cfg:
// tracer provider (always), meter and logger providers (opt-in), the global
// propagator, and the global tracer used by span helpers and the vertexai
// instrumentation.
//
// Configuration errors (missing API key or deployment ID) surface
// immediately; there is no retry and no degraded mode.
func Init(ctx context.Context, cfg *Config) (Shutdown, error) {
	tp, err := NewTracerProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	InitTracing(tp.Tracer(TracerName), DefaultNamer{})

	shutdowns := []Shutdown{tp.Shutdown}

	if cfg.Metrics.IsEnabled() {
		mp, err := NewMeterProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	if cfg.Logs.IsEnabled() {
		lp, err := NewLoggerProvider(ctx, cfg)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, lp.Shutdown)
	}

	return func(ctx context.Context) error {
		var firstErr error
		for _, fn := range shutdowns {
			if err := fn(ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}

		return firstErr
	}, nil
}

// NewTracerProvider initializes the OpenTelemetry TracerProvider with a
// batching span processor feeding the configured exporter, and registers it
// (plus the configured propagator) globally.
func NewTracerProvider(ctx context.Context, cfg *Config) (*sdktrace.TracerProvider, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sampler := buildSampler(cfg.Sampling)

	exporter, err := buildSpanExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
		sdktrace.WithBatcher(exporter),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(buildPropagator(cfg.Propagation))

	return tp, nil
}

// NewMeterProvider initializes the OpenTelemetry MeterProvider.
// Returns ErrMetricsDisabled if metrics export is not enabled in config.
func NewMeterProvider(ctx context.Context, cfg *Config) (*sdkmetric.MeterProvider, error) {
	if !cfg.Metrics.IsEnabled() {
		return nil, ErrMetricsDisabled
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := buildMetricExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build metric exporter: %w", err)
	}

	interval := cfg.Metrics.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(interval),
		)),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewLoggerProvider initializes the OpenTelemetry LoggerProvider for apps
// that bridge their logs through OTel alongside traces.
// Returns ErrLogsDisabled if log export is not enabled in config.
func NewLoggerProvider(ctx context.Context, cfg *Config) (*sdklog.LoggerProvider, error) {
	if !cfg.Logs.IsEnabled() {
		return nil, ErrLogsDisabled
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	exporter, err := buildLogExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build log exporter: %w", err)
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)

	global.SetLoggerProvider(lp)

	return lp, nil
}

// validateConfig enforces the mandatory-credential contract: the production
// OTLP exporter requires an API key, and every variant requires a
// deployment ID for the resource identity.
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return ErrAPIKeyRequired
	}
	exporterType := normalizeExporterType(cfg.GetExporter().Type)
	if exporterType == "otlp" && cfg.APIKey == "" {
		return ErrAPIKeyRequired
	}
	if cfg.DeploymentID == "" {
		return ErrDeploymentIDRequired
	}

	return nil
}

// buildResource creates the common resource for all providers. The
// deployment ID doubles as the service name so traces group per deployment
// in the Spyglass UI.
func buildResource(ctx context.Context, cfg *Config) (*resource.Resource, error) {
	baseAttrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.DeploymentID),
		semconv.ServiceVersion(cfg.Version),
		semconv.DeploymentEnvironment(cfg.Environment),
		attribute.String(attrDeploymentID, cfg.DeploymentID),
	}
	for key, value := range cfg.ResourceAttributes {
		if key == "" {
			continue
		}
		baseAttrs = append(baseAttrs, attribute.String(key, value))
	}

	res, err := resource.New(ctx,
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(baseAttrs...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	return res, nil
}

func buildSampler(cfg *SamplingConfig) sdktrace.Sampler {
	if cfg == nil {
		cfg = &SamplingConfig{Sampler: "parentbased_always_on", SamplerArg: 1.0}
	}

	// OTel standard sampler names per specification
	// https://opentelemetry.io/docs/specs/otel/configuration/sdk-environment-variables/
	switch cfg.Sampler {
	case "always_on":
		return sdktrace.AlwaysSample()
	case "always_off":
		return sdktrace.NeverSample()
	case "traceidratio":
		return sdktrace.TraceIDRatioBased(cfg.SamplerArg)
	case "parentbased_always_on":
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case "parentbased_always_off":
		return sdktrace.ParentBased(sdktrace.NeverSample())
	case "parentbased_traceidratio":
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplerArg))
	default:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	}
}
