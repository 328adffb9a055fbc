// Package vertexai instruments Vertex AI chat clients with OpenTelemetry
// spans following the GenAI semantic conventions:
// https://opentelemetry.io/docs/specs/semconv/gen-ai/gen-ai-spans/
//
// [Wrap] replaces a client's generation entry points in place with traced
// equivalents, so existing call sites keep working unchanged:
//
//	client := &vertexai.ChatClient{
//	    ModelName:  "gemini-2.0-flash-exp",
//	    Project:    "my-project",
//	    Location:   "us-central1",
//	    GenerateFn: generate,
//	}
//	client = vertexai.Wrap(client)
//
//	result, err := client.Generate(ctx, messages, nil)
//
// Every generation call now produces one span carrying the request
// configuration (model, sampling parameters, tool declarations, input
// messages) and, on success, the response side (token usage, output
// message, tool calls, finish reasons). A failed call records the error on
// the span and returns it untouched; instrumented and uninstrumented
// failures are indistinguishable to the caller.
//
// Attribute extraction is a pure projection: absent or oddly shaped fields
// are omitted from the span, never defaulted and never an error.
package vertexai
