// Package tools defines the tool abstraction consumed by function-calling
// models, a reflection-based adapter that turns plain Go functions into
// tools with generated JSON schemas, and a tracing wrapper that emits one
// span per tool execution.
//
// Declare a tool from a typed function:
//
//	type weatherInput struct {
//		City string `json:"city" jsonschema:"description=City name"`
//	}
//
//	getWeather, err := tools.NewFunc("get_weather", "Look up current weather",
//		func(ctx context.Context, in weatherInput) (string, error) {
//			return lookup(ctx, in.City)
//		})
//
// Pass declarations to a model through vertexai.CallOptions:
//
//	opts := &vertexai.CallOptions{Tools: tools.Declarations(getWeather)}
//
// Wrap tools with Traced before executing model-requested calls so each
// execution appears as its own span under the active trace.
package tools
