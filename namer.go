package spyglass

// SpanNamer defines how operation names are transformed into span names.
type SpanNamer interface {
	Name(operation string) string
}

// DefaultNamer returns operation names unchanged.
// This complies with OpenTelemetry semantic conventions which recommend
// using the raw operation name without service prefixes.
type DefaultNamer struct{}

// Name returns the operation name as is.
func (DefaultNamer) Name(operation string) string {
	return operation
}

// NameGenAI returns a GenAI-convention span name: "operation model".
// Example: "chat gemini-2.0-flash-exp"
func NameGenAI(operation, model string) string {
	if model == "" {
		return operation
	}

	return operation + " " + model
}

// NameTool returns a span name for a tool execution: "execute_tool name".
// Example: "execute_tool search"
func NameTool(tool string) string {
	return "execute_tool " + tool
}
