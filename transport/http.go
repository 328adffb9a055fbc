package transport

import (
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// HTTPTransport wraps an http.RoundTripper with OTel tracing for client
// calls. Uses the globally registered providers; initialize them with
// spyglass.Init before sending requests.
//
// If base is nil, http.DefaultTransport is used.
func HTTPTransport(base http.RoundTripper, opts ...otelhttp.Option) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	return otelhttp.NewTransport(base, opts...)
}

// HTTPTransportWithProviders wraps an http.RoundTripper with OTel tracing
// using explicitly provided TracerProvider, MeterProvider, and
// TextMapPropagator. Nil providers fall back to the globals.
func HTTPTransportWithProviders(
	base http.RoundTripper,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	prop propagation.TextMapPropagator,
	opts ...otelhttp.Option,
) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}

	allOpts := buildHTTPProviderOptions(tp, mp, prop)
	allOpts = append(allOpts, opts...)

	return otelhttp.NewTransport(base, allOpts...)
}

// httpClientConfig holds configuration for HTTP client creation.
type httpClientConfig struct {
	timeout time.Duration

	dialTimeout           time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration

	maxIdleConns        int
	maxIdleConnsPerHost int
	idleConnTimeout     time.Duration

	baseTransport http.RoundTripper
}

// HTTPClientOption configures an HTTP client.
type HTTPClientOption func(*httpClientConfig)

// WithTimeout sets the request timeout for the client. Generation calls
// can run for minutes, so the default is generous.
func WithTimeout(d time.Duration) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.timeout = d
	}
}

// WithDialTimeout sets the timeout for dialing TCP connections.
func WithDialTimeout(d time.Duration) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.dialTimeout = d
	}
}

// WithTLSHandshakeTimeout sets the timeout for TLS handshakes.
func WithTLSHandshakeTimeout(d time.Duration) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.tlsHandshakeTimeout = d
	}
}

// WithResponseHeaderTimeout sets the time to wait for response headers
// after writing the request.
func WithResponseHeaderTimeout(d time.Duration) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.responseHeaderTimeout = d
	}
}

// WithMaxIdleConns sets the max idle connections across all hosts.
func WithMaxIdleConns(n int) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.maxIdleConns = n
	}
}

// WithMaxIdleConnsPerHost sets the max idle connections to keep per-host.
func WithMaxIdleConnsPerHost(n int) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.maxIdleConnsPerHost = n
	}
}

// WithIdleConnTimeout sets how long an idle connection stays in the pool.
func WithIdleConnTimeout(d time.Duration) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.idleConnTimeout = d
	}
}

// WithBaseTransport sets the transport wrapped by the instrumentation.
func WithBaseTransport(rt http.RoundTripper) HTTPClientOption {
	return func(c *httpClientConfig) {
		c.baseTransport = rt
	}
}

func defaultHTTPClientConfig() httpClientConfig {
	return httpClientConfig{
		timeout:             2 * time.Minute,
		dialTimeout:         10 * time.Second,
		tlsHandshakeTimeout: 10 * time.Second,
		maxIdleConns:        100,
		maxIdleConnsPerHost: 10,
		idleConnTimeout:     90 * time.Second,
	}
}

// NewHTTPClient creates an http.Client with an instrumented transport and
// timeouts tuned for model backends.
func NewHTTPClient(opts ...HTTPClientOption) *http.Client {
	cfg := defaultHTTPClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	base := cfg.baseTransport
	if base == nil {
		base = &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: cfg.dialTimeout,
			}).DialContext,
			TLSHandshakeTimeout:   cfg.tlsHandshakeTimeout,
			ResponseHeaderTimeout: cfg.responseHeaderTimeout,
			MaxIdleConns:          cfg.maxIdleConns,
			MaxIdleConnsPerHost:   cfg.maxIdleConnsPerHost,
			IdleConnTimeout:       cfg.idleConnTimeout,
		}
	}

	return &http.Client{
		Timeout:   cfg.timeout,
		Transport: HTTPTransport(base),
	}
}

// buildHTTPProviderOptions creates otelhttp.Option slice from providers.
// Falls back to global providers when explicit providers are nil.
func buildHTTPProviderOptions(
	tp trace.TracerProvider,
	mp metric.MeterProvider,
	prop propagation.TextMapPropagator,
) []otelhttp.Option {
	var opts []otelhttp.Option

	if tp != nil {
		opts = append(opts, otelhttp.WithTracerProvider(tp))
	} else {
		opts = append(opts, otelhttp.WithTracerProvider(otel.GetTracerProvider()))
	}

	if mp != nil {
		opts = append(opts, otelhttp.WithMeterProvider(mp))
	} else {
		opts = append(opts, otelhttp.WithMeterProvider(otel.GetMeterProvider()))
	}

	if prop != nil {
		opts = append(opts, otelhttp.WithPropagators(prop))
	} else {
		opts = append(opts, otelhttp.WithPropagators(otel.GetTextMapPropagator()))
	}

	return opts
}
