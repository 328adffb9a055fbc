package vertexai

import (
	"encoding/json"
	"reflect"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// GenAI system identifier for Vertex AI.
const genAISystem = "vertex_ai"

// Attribute keys following OTel GenAI semantic conventions, plus the
// vertex_ai provider extension keys.
const (
	attrOperationName         = "gen_ai.operation.name"
	attrSystem                = "gen_ai.system"
	attrRequestModel          = "gen_ai.request.model"
	attrRequestProject        = "gen_ai.request.vertex_ai.project"
	attrRequestLocation       = "gen_ai.request.vertex_ai.location"
	attrRequestTemperature    = "gen_ai.request.temperature"
	attrRequestMaxTokens      = "gen_ai.request.max_tokens"
	attrRequestTopP           = "gen_ai.request.top_p"
	attrRequestTopK           = "gen_ai.request.top_k"
	attrInputMessagesCount    = "gen_ai.input.messages.count"
	attrInputMessages         = "gen_ai.input.messages"
	attrRequestToolsCount     = "gen_ai.request.tools.count"
	attrRequestToolsNames     = "gen_ai.request.tools.names"
	attrSafetySettingsEnabled = "gen_ai.request.vertex_ai.safety_settings.enabled"
	attrUsageInputTokens      = "gen_ai.usage.input_tokens"
	attrUsageOutputTokens     = "gen_ai.usage.output_tokens"
	attrUsageTotalTokens      = "gen_ai.usage.total_tokens"
	attrOutputMessages        = "gen_ai.output.messages"
	attrResponseToolsCount    = "gen_ai.response.tools.count"
	attrResponseToolsNames    = "gen_ai.response.tools.names"
	attrResponseModel         = "gen_ai.response.model"
	attrResponseFinishReasons = "gen_ai.response.finish_reasons"
	attrSafetyRatingsCount    = "gen_ai.response.vertex_ai.safety_ratings.count"
	attrHasCitations          = "gen_ai.response.vertex_ai.has_citations"
)

// unknownToolName stands in for tool declarations and calls without a name.
const unknownToolName = "unknown"

// requestAttributes projects the client configuration, input messages, and
// call options onto the GenAI request vocabulary. The client's fields are
// read per invocation, never cached. Every read is optional: an absent
// field omits the attribute.
func requestAttributes(client *ChatClient, messages []Message, opts *CallOptions) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 16)

	attrs = append(attrs,
		attribute.String(attrOperationName, "chat"),
		attribute.String(attrSystem, genAISystem),
	)

	if client.ModelName != "" {
		attrs = append(attrs, attribute.String(attrRequestModel, client.ModelName))
	}
	if client.Project != "" {
		attrs = append(attrs, attribute.String(attrRequestProject, client.Project))
	}
	if client.Location != "" {
		attrs = append(attrs, attribute.String(attrRequestLocation, client.Location))
	}

	// Sampling parameters pass through as received, no clamping.
	if client.Temperature != nil {
		attrs = append(attrs, attribute.Float64(attrRequestTemperature, *client.Temperature))
	}
	if client.MaxOutputTokens != nil {
		attrs = append(attrs, attribute.Int(attrRequestMaxTokens, *client.MaxOutputTokens))
	}
	if client.TopP != nil {
		attrs = append(attrs, attribute.Float64(attrRequestTopP, *client.TopP))
	}
	if client.TopK != nil {
		attrs = append(attrs, attribute.Int(attrRequestTopK, *client.TopK))
	}

	attrs = append(attrs, attribute.Int(attrInputMessagesCount, len(messages)))
	if data, err := json.Marshal(FormatMessages(messages)); err == nil {
		attrs = append(attrs, attribute.String(attrInputMessages, string(data)))
	}

	if opts != nil && len(opts.Tools) > 0 {
		attrs = append(attrs, attribute.Int(attrRequestToolsCount, len(opts.Tools)))
		if names := toolDeclarationNames(opts.Tools); len(names) > 0 {
			attrs = append(attrs, attribute.String(attrRequestToolsNames, strings.Join(names, ",")))
		}
	}

	if len(client.SafetySettings) > 0 {
		attrs = append(attrs, attribute.Bool(attrSafetySettingsEnabled, true))
	}

	return attrs
}

// toolDeclarationNames flattens tool declarations into a name list.
// Declarations come in two shapes: a grouped "function_declarations" list,
// or a single "function" descriptor per entry.
func toolDeclarationNames(tools []map[string]any) []string {
	var names []string
	for _, tool := range tools {
		if decls, ok := tool["function_declarations"].([]any); ok {
			for _, d := range decls {
				names = append(names, declarationName(d))
			}

			continue
		}
		if fn, ok := tool["function"]; ok {
			names = append(names, declarationName(fn))
		}
	}

	return names
}

func declarationName(decl any) string {
	if m, ok := decl.(map[string]any); ok {
		if name, ok := m["name"].(string); ok && name != "" {
			return name
		}
	}

	return unknownToolName
}

// responseAttributes projects the result onto the GenAI response
// vocabulary. Only the first generation is inspected. Never errors; an
// empty or malformed result yields no attributes.
func responseAttributes(result *ChatResult) []attribute.KeyValue {
	if result == nil || len(result.Generations) == 0 {
		return nil
	}
	message := result.Generations[0].Message

	attrs := make([]attribute.KeyValue, 0, 10)
	attrs = append(attrs, usageAttributes(message.UsageMetadata)...)

	if data, err := json.Marshal(FormatMessages([]Message{message})); err == nil {
		attrs = append(attrs, attribute.String(attrOutputMessages, string(data)))
	}

	if len(message.ToolCalls) > 0 {
		attrs = append(attrs, attribute.Int(attrResponseToolsCount, len(message.ToolCalls)))
		names := make([]string, 0, len(message.ToolCalls))
		for _, tc := range message.ToolCalls {
			name := tc.Name
			if name == "" {
				name = unknownToolName
			}
			names = append(names, name)
		}
		attrs = append(attrs, attribute.String(attrResponseToolsNames, strings.Join(names, ",")))
	}

	meta := message.ResponseMetadata
	if modelName, ok := meta["model_name"].(string); ok && modelName != "" {
		attrs = append(attrs, attribute.String(attrResponseModel, modelName))
	}
	if finishReason, ok := meta["finish_reason"].(string); ok && finishReason != "" {
		attrs = append(attrs, attribute.String(attrResponseFinishReasons, finishReason))
	}
	if ratings, ok := meta["safety_ratings"]; ok {
		if n := sequenceLen(ratings); n > 0 {
			attrs = append(attrs, attribute.Int(attrSafetyRatingsCount, n))
		}
	}
	if citations, ok := meta["citation_metadata"]; ok && isPresent(citations) {
		attrs = append(attrs, attribute.Bool(attrHasCitations, true))
	}

	return attrs
}

// usageAttributes resolves token counts from usage metadata in any of its
// shapes. Mapping-shaped usage prefers the GenAI keys and falls back to the
// provider-native synonyms; struct-shaped usage is probed by field name.
// Counts pass through without rounding or scaling.
func usageAttributes(usage any) []attribute.KeyValue {
	if usage == nil {
		return nil
	}

	var attrs []attribute.KeyValue
	switch u := usage.(type) {
	case map[string]any:
		if v, ok := lookupCount(u, "input_tokens", "prompt_token_count"); ok {
			attrs = append(attrs, attribute.Int64(attrUsageInputTokens, v))
		}
		if v, ok := lookupCount(u, "output_tokens", "candidates_token_count"); ok {
			attrs = append(attrs, attribute.Int64(attrUsageOutputTokens, v))
		}
		if v, ok := lookupCount(u, "total_tokens", "total_token_count"); ok {
			attrs = append(attrs, attribute.Int64(attrUsageTotalTokens, v))
		}
	default:
		if v, ok := fieldCount(usage, "PromptTokenCount"); ok {
			attrs = append(attrs, attribute.Int64(attrUsageInputTokens, v))
		}
		if v, ok := fieldCount(usage, "CandidatesTokenCount"); ok {
			attrs = append(attrs, attribute.Int64(attrUsageOutputTokens, v))
		}
		if v, ok := fieldCount(usage, "TotalTokenCount"); ok {
			attrs = append(attrs, attribute.Int64(attrUsageTotalTokens, v))
		}
	}

	return attrs
}

// lookupCount reads the first non-zero numeric value under the given keys.
func lookupCount(m map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		if raw, ok := m[key]; ok {
			if v, ok := asCount(raw); ok && v != 0 {
				return v, true
			}
		}
	}

	return 0, false
}

// fieldCount probes a struct (or pointer to struct) for an integer field by
// name. This mirrors optional-attribute access on duck-typed usage objects:
// a missing field is a valid state, not an error.
func fieldCount(obj any, name string) (int64, bool) {
	v := reflect.ValueOf(obj)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return 0, false
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return 0, false
	}
	field := v.FieldByName(name)
	if !field.IsValid() {
		return 0, false
	}

	return asCount(field.Interface())
}

// asCount coerces the numeric shapes a token count arrives in.
// JSON decoding yields float64, provider SDKs yield int variants.
func asCount(raw any) (int64, bool) {
	switch n := raw.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		return int64(n), true
	case float32:
		return int64(n), true
	default:
		return 0, false
	}
}

// sequenceLen returns the length of any slice or array value, 0 otherwise.
func sequenceLen(v any) int {
	if v == nil {
		return 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len()
	default:
		return 0
	}
}

// isPresent reports whether a metadata value is meaningfully present:
// non-nil and, for containers and strings, non-empty.
func isPresent(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.String:
		return rv.Len() > 0
	case reflect.Pointer:
		return !rv.IsNil()
	case reflect.Bool:
		return rv.Bool()
	default:
		return true
	}
}
