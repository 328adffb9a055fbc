package tools

import "context"

// Tool is a capability a model can invoke through function calling.
// Input and output are JSON strings, matching how models emit tool calls.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, input string) (string, error)
}

// SchemaProvider is implemented by tools that carry a JSON schema for
// their input. Declarations uses it to describe parameters to the model.
type SchemaProvider interface {
	InputSchema() map[string]any
}

// Declarations converts tools into the declaration shape accepted by
// vertexai.CallOptions.Tools: a single entry grouping all function
// declarations. Tools without a schema get an empty parameters object.
func Declarations(ts ...Tool) []map[string]any {
	decls := make([]any, 0, len(ts))
	for _, t := range ts {
		decl := map[string]any{
			"name":        t.Name(),
			"description": t.Description(),
		}
		if sp, ok := t.(SchemaProvider); ok {
			decl["parameters"] = sp.InputSchema()
		}
		decls = append(decls, decl)
	}

	return []map[string]any{{"function_declarations": decls}}
}
