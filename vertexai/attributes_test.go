package vertexai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

// attrMap indexes a key-value list for assertion lookups.
func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value
	}

	return m
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestRequestAttributes_AlwaysPresent(t *testing.T) {
	client := &ChatClient{}

	m := attrMap(requestAttributes(client, nil, nil))

	assert.Equal(t, "chat", m[attrOperationName].AsString())
	assert.Equal(t, "vertex_ai", m[attrSystem].AsString())
	assert.Equal(t, int64(0), m[attrInputMessagesCount].AsInt64())
}

func TestRequestAttributes_ClientConfiguration(t *testing.T) {
	client := &ChatClient{
		ModelName:       "gemini-1.5-pro",
		Project:         "my-project",
		Location:        "us-central1",
		Temperature:     floatPtr(0.7),
		MaxOutputTokens: intPtr(1024),
		TopP:            floatPtr(0.95),
		TopK:            intPtr(40),
	}

	m := attrMap(requestAttributes(client, nil, nil))

	assert.Equal(t, "gemini-1.5-pro", m[attrRequestModel].AsString())
	assert.Equal(t, "my-project", m[attrRequestProject].AsString())
	assert.Equal(t, "us-central1", m[attrRequestLocation].AsString())
	assert.Equal(t, 0.7, m[attrRequestTemperature].AsFloat64())
	assert.Equal(t, int64(1024), m[attrRequestMaxTokens].AsInt64())
	assert.Equal(t, 0.95, m[attrRequestTopP].AsFloat64())
	assert.Equal(t, int64(40), m[attrRequestTopK].AsInt64())
}

func TestRequestAttributes_AbsentFieldsOmitted(t *testing.T) {
	m := attrMap(requestAttributes(&ChatClient{}, nil, nil))

	for _, key := range []string{
		attrRequestModel, attrRequestProject, attrRequestLocation,
		attrRequestTemperature, attrRequestMaxTokens, attrRequestTopP, attrRequestTopK,
		attrRequestToolsCount, attrSafetySettingsEnabled,
	} {
		_, ok := m[key]
		assert.False(t, ok, "expected %s to be omitted", key)
	}
}

func TestRequestAttributes_InputMessages(t *testing.T) {
	messages := []Message{
		{Type: "human", Content: "Hello"},
		{Type: "ai", Content: "Hi there"},
	}

	m := attrMap(requestAttributes(&ChatClient{}, messages, nil))

	assert.Equal(t, int64(2), m[attrInputMessagesCount].AsInt64())
	assert.JSONEq(t,
		`[{"role":"user","content":"Hello"},{"role":"assistant","content":"Hi there"}]`,
		m[attrInputMessages].AsString())
}

func TestRequestAttributes_ToolDeclarations(t *testing.T) {
	opts := &CallOptions{
		Tools: []map[string]any{
			{"function_declarations": []any{
				map[string]any{"name": "search"},
				map[string]any{"name": "lookup"},
			}},
			{"function": map[string]any{"name": "fetch"}},
			{"function": map[string]any{"description": "unnamed"}},
		},
	}

	m := attrMap(requestAttributes(&ChatClient{}, nil, opts))

	assert.Equal(t, int64(3), m[attrRequestToolsCount].AsInt64())
	assert.Equal(t, "search,lookup,fetch,unknown", m[attrRequestToolsNames].AsString())
}

func TestRequestAttributes_SafetySettings(t *testing.T) {
	client := &ChatClient{
		SafetySettings: map[string]string{"HARM_CATEGORY_HARASSMENT": "BLOCK_LOW_AND_ABOVE"},
	}

	m := attrMap(requestAttributes(client, nil, nil))

	assert.True(t, m[attrSafetySettingsEnabled].AsBool())
}

func TestResponseAttributes_UsageSynonyms(t *testing.T) {
	result := &ChatResult{Generations: []Generation{{Message: Message{
		Type:    "ai",
		Content: "answer",
		UsageMetadata: map[string]any{
			"prompt_token_count":     10,
			"candidates_token_count": 20,
			"total_token_count":      30,
		},
	}}}}

	m := attrMap(responseAttributes(result))

	assert.Equal(t, int64(10), m[attrUsageInputTokens].AsInt64())
	assert.Equal(t, int64(20), m[attrUsageOutputTokens].AsInt64())
	assert.Equal(t, int64(30), m[attrUsageTotalTokens].AsInt64())
}

func TestResponseAttributes_UsageCanonicalKeysPreferred(t *testing.T) {
	result := &ChatResult{Generations: []Generation{{Message: Message{
		Type: "ai",
		UsageMetadata: map[string]any{
			"input_tokens":       float64(5),
			"prompt_token_count": float64(99),
		},
	}}}}

	m := attrMap(responseAttributes(result))

	assert.Equal(t, int64(5), m[attrUsageInputTokens].AsInt64())
}

func TestResponseAttributes_UsageStructShape(t *testing.T) {
	result := &ChatResult{Generations: []Generation{{Message: Message{
		Type: "ai",
		UsageMetadata: &TokenUsage{
			PromptTokenCount:     7,
			CandidatesTokenCount: 11,
			TotalTokenCount:      18,
		},
	}}}}

	m := attrMap(responseAttributes(result))

	assert.Equal(t, int64(7), m[attrUsageInputTokens].AsInt64())
	assert.Equal(t, int64(11), m[attrUsageOutputTokens].AsInt64())
	assert.Equal(t, int64(18), m[attrUsageTotalTokens].AsInt64())
}

func TestResponseAttributes_NoUsageMetadata(t *testing.T) {
	result := &ChatResult{Generations: []Generation{{Message: Message{
		Type:    "ai",
		Content: "answer",
	}}}}

	m := attrMap(responseAttributes(result))

	_, ok := m[attrUsageInputTokens]
	assert.False(t, ok)
	assert.Contains(t, m, attrOutputMessages)
}

func TestResponseAttributes_OutputMessages(t *testing.T) {
	result := &ChatResult{Generations: []Generation{{Message: Message{
		Type:    "ai",
		Content: "the answer",
	}}}}

	m := attrMap(responseAttributes(result))

	assert.JSONEq(t, `[{"role":"assistant","content":"the answer"}]`, m[attrOutputMessages].AsString())
}

func TestResponseAttributes_ToolCalls(t *testing.T) {
	result := &ChatResult{Generations: []Generation{{Message: Message{
		Type: "ai",
		ToolCalls: []ToolCall{
			{ID: "c1", Name: "search", Args: map[string]any{"query": "test"}},
			{ID: "c2"},
		},
	}}}}

	m := attrMap(responseAttributes(result))

	assert.Equal(t, int64(2), m[attrResponseToolsCount].AsInt64())
	assert.Equal(t, "search,unknown", m[attrResponseToolsNames].AsString())
}

func TestResponseAttributes_ResponseMetadata(t *testing.T) {
	result := &ChatResult{Generations: []Generation{{Message: Message{
		Type:    "ai",
		Content: "answer",
		ResponseMetadata: map[string]any{
			"model_name":        "gemini-1.5-pro-001",
			"finish_reason":     "STOP",
			"safety_ratings":    []any{map[string]any{}, map[string]any{}},
			"citation_metadata": map[string]any{"citations": []any{"a"}},
		},
	}}}}

	m := attrMap(responseAttributes(result))

	assert.Equal(t, "gemini-1.5-pro-001", m[attrResponseModel].AsString())
	assert.Equal(t, "STOP", m[attrResponseFinishReasons].AsString())
	assert.Equal(t, int64(2), m[attrSafetyRatingsCount].AsInt64())
	assert.True(t, m[attrHasCitations].AsBool())
}

func TestResponseAttributes_EmptyCitationMetadataOmitted(t *testing.T) {
	result := &ChatResult{Generations: []Generation{{Message: Message{
		Type:             "ai",
		ResponseMetadata: map[string]any{"citation_metadata": map[string]any{}},
	}}}}

	m := attrMap(responseAttributes(result))

	_, ok := m[attrHasCitations]
	assert.False(t, ok)
}

func TestResponseAttributes_EmptyResult(t *testing.T) {
	assert.Empty(t, responseAttributes(nil))
	assert.Empty(t, responseAttributes(&ChatResult{}))
}

func TestResponseAttributes_OnlyFirstGeneration(t *testing.T) {
	result := &ChatResult{Generations: []Generation{
		{Message: Message{Type: "ai", Content: "first"}},
		{Message: Message{Type: "ai", Content: "second"}},
	}}

	m := attrMap(responseAttributes(result))

	require.Contains(t, m, attrOutputMessages)
	assert.Contains(t, m[attrOutputMessages].AsString(), "first")
	assert.NotContains(t, m[attrOutputMessages].AsString(), "second")
}
