package spyglass

import (
	"net/url"
	"slices"
	"strings"
	"time"
)

// DefaultEndpoint is the production Spyglass ingestion endpoint for
// OTLP/gRPC export.
const DefaultEndpoint = "ingest.spyglass-ai.com"

// Config configures the Spyglass telemetry pipeline.
// Spyglass-specific settings map to SPYGLASS_* environment variables;
// everything else follows the OTel SDK configuration conventions.
type Config struct {
	// APIKey authenticates against the Spyglass ingestion API. It is sent
	// as a bearer token on every export request.
	// Maps to SPYGLASS_API_KEY. Mandatory for the OTLP exporter.
	// Avoid logging this value.
	APIKey string `yaml:"apiKey" env:"SPYGLASS_API_KEY"`

	// DeploymentID identifies the deployment emitting traces. It is used
	// as both the service name and the spyglass.deployment.id resource
	// attribute. Maps to SPYGLASS_DEPLOYMENT_ID. Mandatory.
	DeploymentID string `yaml:"deploymentId" env:"SPYGLASS_DEPLOYMENT_ID"`

	// Version is the deployment version (e.g., git commit or semantic version).
	// Used in the service.version resource attribute.
	Version string `yaml:"version" env:"SPYGLASS_DEPLOYMENT_VERSION"`

	// Environment is the deployment environment (e.g., production, development).
	// Used in the deployment.environment resource attribute.
	Environment string `yaml:"environment" env:"SPYGLASS_ENVIRONMENT" default:"production"`

	// ResourceAttributes contains additional resource attributes as
	// key=value pairs attached to every exported span.
	ResourceAttributes map[string]string `yaml:"resourceAttributes,omitempty" env:"OTEL_RESOURCE_ATTRIBUTES"`

	// Exporter configures the exporter transport shared by all signals.
	Exporter *ExporterConfig `yaml:"exporter,omitempty"`

	// Metrics configures the optional metrics subsystem. Opt-in; when
	// enabled, GenAI client metrics (token usage, operation duration)
	// are exported alongside traces.
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`

	// Logs configures the optional OTel log bridge. Opt-in.
	Logs *LogsConfig `yaml:"logs,omitempty"`

	// Sampling configures the trace sampling strategy.
	Sampling *SamplingConfig `yaml:"sampling,omitempty"`

	// Propagation configures context propagation (W3C TraceContext, Baggage).
	// Maps to OTEL_PROPAGATORS.
	Propagation *PropConfig `yaml:"propagation,omitempty"`
}

// ExporterConfig configures the exporter transport shared by all signals.
type ExporterConfig struct {
	// Type determines the exporter implementation.
	// Options: "otlp" (production), "console" (local development, explicit
	// opt-in only), "none".
	Type string `yaml:"type" env:"SPYGLASS_EXPORTER" default:"otlp" validate:"omitempty,oneof=otlp console stdout none nop noop"`

	// Endpoint is the collector endpoint.
	// Maps to SPYGLASS_OTEL_EXPORTER_OTLP_ENDPOINT; defaults to the
	// production ingestion host.
	//
	// Format depends on protocol:
	//   - gRPC: "host:port" or bare host (e.g., "ingest.spyglass-ai.com")
	//   - HTTP: full URL with scheme (e.g., "https://api.spyglass-ai.com/v1/traces")
	Endpoint string `yaml:"endpoint" env:"SPYGLASS_OTEL_EXPORTER_OTLP_ENDPOINT" default:"ingest.spyglass-ai.com"`

	// Protocol determines the OTLP transport protocol.
	// "grpc" is the production transport; "http" is the legacy variant.
	Protocol string `yaml:"protocol" env:"SPYGLASS_OTLP_PROTOCOL" default:"grpc" validate:"omitempty,oneof=grpc http/protobuf http"`

	// Timeout is the timeout for export operations.
	Timeout time.Duration `yaml:"timeout" env:"SPYGLASS_OTLP_TIMEOUT" default:"10s" validate:"gte=0"`

	// Compression sets the compression algorithm. Defaults to gzip; the
	// Spyglass ingestion API always accepts gzip-compressed payloads.
	Compression string `yaml:"compression" env:"SPYGLASS_OTLP_COMPRESSION" default:"gzip" validate:"omitempty,oneof=gzip none"`

	// Insecure disables TLS for the collector connection. When nil,
	// transport security is inferred from the endpoint: an http:// scheme
	// or a well-known plaintext collector port means plaintext, anything
	// else means TLS.
	Insecure *bool `yaml:"insecure,omitempty" env:"SPYGLASS_OTLP_INSECURE"`
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	// Enabled controls whether metrics export is active. Defaults to false.
	Enabled *bool `yaml:"enabled" default:"false"`

	// Interval is the export interval for the periodic metric reader.
	Interval time.Duration `yaml:"interval,omitempty" default:"60s" validate:"omitempty,gt=0"`
}

// IsEnabled returns true if metrics export is enabled.
func (c *MetricsConfig) IsEnabled() bool {
	return c != nil && c.Enabled != nil && *c.Enabled
}

// LogsConfig configures the OTel log bridge.
type LogsConfig struct {
	// Enabled controls whether OTel log export is active. Defaults to false.
	Enabled *bool `yaml:"enabled" default:"false"`
}

// IsEnabled returns true if OTel log export is enabled.
func (c *LogsConfig) IsEnabled() bool {
	return c != nil && c.Enabled != nil && *c.Enabled
}

// SamplingConfig configures the trace sampling strategy.
// Maps to OTEL_TRACES_SAMPLER and OTEL_TRACES_SAMPLER_ARG.
type SamplingConfig struct {
	// Sampler determines which sampler to use.
	// Options: "always_on", "always_off", "traceidratio",
	// "parentbased_always_on", "parentbased_always_off", "parentbased_traceidratio".
	Sampler string `yaml:"sampler" env:"OTEL_TRACES_SAMPLER" default:"parentbased_always_on" validate:"omitempty,oneof=always_on always_off traceidratio parentbased_always_on parentbased_always_off parentbased_traceidratio"`

	// SamplerArg is the sampling probability for ratio-based samplers,
	// 0.0 to 1.0. Maps to OTEL_TRACES_SAMPLER_ARG.
	SamplerArg float64 `yaml:"samplerArg" env:"OTEL_TRACES_SAMPLER_ARG" default:"1.0" validate:"gte=0,lte=1"`
}

// PropConfig configures context propagation.
// Maps to OTEL_PROPAGATORS.
type PropConfig struct {
	// Propagators specifies which propagators to use as a comma-separated
	// list. Known values: "tracecontext", "baggage", "none".
	// Defaults to "tracecontext,baggage" (W3C standards).
	Propagators string `yaml:"propagators" env:"OTEL_PROPAGATORS" default:"tracecontext,baggage"`
}

// HasTraceContext returns true if the tracecontext propagator is enabled.
func (c *PropConfig) HasTraceContext() bool {
	if c == nil || c.Propagators == "" {
		return true // default includes tracecontext
	}

	return containsPropagator(c.Propagators, "tracecontext")
}

// HasBaggage returns true if the baggage propagator is enabled.
func (c *PropConfig) HasBaggage() bool {
	if c == nil || c.Propagators == "" {
		return true // default includes baggage
	}

	return containsPropagator(c.Propagators, "baggage")
}

// containsPropagator checks if a propagator is in the comma-separated list.
func containsPropagator(propagators, name string) bool {
	return slices.Contains(splitPropagators(propagators), name)
}

// splitPropagators splits a comma-separated propagator list.
func splitPropagators(propagators string) []string {
	if propagators == "" {
		return nil
	}

	var result []string
	for p := range strings.SplitSeq(propagators, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}

	return result
}

// GetExporter returns the effective exporter config, never nil.
func (c *Config) GetExporter() *ExporterConfig {
	if c == nil || c.Exporter == nil {
		return &ExporterConfig{}
	}

	return c.Exporter
}

// GetEndpoint returns the effective collector endpoint.
func (c *Config) GetEndpoint() string {
	exp := c.GetExporter()
	if exp.Endpoint != "" {
		return exp.Endpoint
	}

	return DefaultEndpoint
}

// IsInsecure reports whether the exporter should use a plaintext connection.
// An explicit Insecure setting wins; otherwise the endpoint decides.
func (c *ExporterConfig) IsInsecure() bool {
	if c == nil {
		return false
	}
	if c.Insecure != nil {
		return *c.Insecure
	}

	return isPlaintextEndpoint(c.Endpoint)
}

// plaintextPorts lists well-known local-collector ports that imply a
// plaintext connection when the endpoint carries no scheme.
var plaintextPorts = []string{":4317", ":4318"}

// isPlaintextEndpoint infers transport security from the endpoint's scheme,
// falling back to a well-known plaintext port suffix for scheme-less
// host:port endpoints.
func isPlaintextEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Scheme != "" {
		switch strings.ToLower(parsed.Scheme) {
		case "http":
			return true
		case "https":
			return false
		}
	}
	for _, port := range plaintextPorts {
		if strings.HasSuffix(endpoint, port) {
			return true
		}
	}

	return false
}

// boolPtr returns a pointer to the given boolean value.
// It is useful for initializing config fields.
func boolPtr(v bool) *bool { return &v }
