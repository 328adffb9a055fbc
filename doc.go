// Package spyglass provides OpenTelemetry tracing for large-language-model
// workloads, exporting spans to the Spyglass ingestion endpoint.
//
// # Overview
//
// The spyglass package wraps official OTel APIs, providing:
//   - Environment-driven bootstrap of a tracer provider that exports spans
//     over OTLP/gRPC with gzip compression and bearer-token authentication
//   - Span helpers and a generic function-tracing decorator
//   - GenAI semantic-convention instrumentation for chat model clients
//     (see the vertexai sub-package)
//   - Traced tool execution for native Go tools and MCP servers
//     (see the tools and mcptools sub-packages)
//
// # Quick Start
//
// Initialize from the environment (SPYGLASS_API_KEY and
// SPYGLASS_DEPLOYMENT_ID are mandatory) and shut down on exit:
//
//	cfg, err := spyglass.ConfigFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	shutdown, err := spyglass.Init(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown(ctx)
//
// Then wrap your model client:
//
//	client = vertexai.Wrap(client)
//
// Every generation call on the wrapped client now produces a span carrying
// GenAI semantic-convention attributes (model, token usage, tool calls,
// finish reasons) without any change to call sites.
//
// # Configuration
//
// Configure via environment variables or YAML:
//
//	apiKey: "..."                     # SPYGLASS_API_KEY (mandatory)
//	deploymentId: "checkout-agent"    # SPYGLASS_DEPLOYMENT_ID (mandatory)
//	exporter:
//	  type: "otlp"                    # otlp, console (dev only), none
//	  endpoint: "ingest.spyglass-ai.com"  # SPYGLASS_OTEL_EXPORTER_OTLP_ENDPOINT
//	  protocol: "grpc"                # grpc (default), http (legacy)
//
// The console exporter exists for local development and must be requested
// explicitly; a missing API key with the OTLP exporter is a fatal
// configuration error, never a silent fallback.
//
// # Tracing arbitrary functions
//
// Use [TracedFunc] or [Traced] to wrap any function in a named span:
//
//	query := spyglass.Traced("query_with_tools", queryWithTools)
//	result, err := query(ctx)
package spyglass
