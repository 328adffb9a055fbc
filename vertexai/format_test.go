package vertexai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessages_RoleMapping(t *testing.T) {
	tests := []struct {
		name     string
		msgType  string
		expected string
	}{
		{"human maps to user", "human", "user"},
		{"HumanMessage maps to user", "HumanMessage", "user"},
		{"user maps to user", "user", "user"},
		{"ai maps to assistant", "ai", "assistant"},
		{"AIMessage maps to assistant", "AIMessage", "assistant"},
		{"assistant maps to assistant", "assistant", "assistant"},
		{"system maps to system", "SystemMessage", "system"},
		{"tool maps to tool", "ToolMessage", "tool"},
		{"unrecognized maps to unknown", "weird", "unknown"},
		{"empty maps to unknown", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatted := FormatMessages([]Message{{Type: tt.msgType, Content: "hi"}})
			require.Len(t, formatted, 1)
			assert.Equal(t, tt.expected, formatted[0].Role)
		})
	}
}

func TestFormatMessages_StringContent(t *testing.T) {
	formatted := FormatMessages([]Message{{Type: "human", Content: "Hello, world"}})

	require.Len(t, formatted, 1)
	assert.Equal(t, "Hello, world", formatted[0].Content)
}

func TestFormatMessages_ListContentJoinsTextParts(t *testing.T) {
	formatted := FormatMessages([]Message{{
		Type: "human",
		Content: []any{
			map[string]any{"type": "text", "text": "Part 1"},
			map[string]any{"type": "text", "text": "Part 2"},
		},
	}})

	require.Len(t, formatted, 1)
	assert.Equal(t, "Part 1 Part 2", formatted[0].Content)
}

func TestFormatMessages_ListContentMixedParts(t *testing.T) {
	formatted := FormatMessages([]Message{{
		Type: "human",
		Content: []any{
			"bare string",
			map[string]any{"type": "text", "text": "typed part"},
			map[string]any{"type": "image_url", "url": "https://example.com/x.png"},
		},
	}})

	require.Len(t, formatted, 1)
	assert.Equal(t, "bare string typed part", formatted[0].Content)
}

func TestFormatMessages_UnexpectedContentYieldsEmpty(t *testing.T) {
	formatted := FormatMessages([]Message{{Type: "human", Content: 42}})

	require.Len(t, formatted, 1)
	assert.Equal(t, "", formatted[0].Content)
}

func TestFormatMessages_ToolCalls(t *testing.T) {
	formatted := FormatMessages([]Message{{
		Type:    "ai",
		Content: "",
		ToolCalls: []ToolCall{
			{ID: "call-1", Name: "search", Args: map[string]any{"query": "test"}},
		},
	}})

	require.Len(t, formatted, 1)
	require.Len(t, formatted[0].ToolCalls, 1)

	tc := formatted[0].ToolCalls[0]
	assert.Equal(t, "call-1", tc.ID)
	assert.Equal(t, "function", tc.Type)
	assert.Equal(t, "search", tc.Function.Name)
	assert.Equal(t, `{"query":"test"}`, tc.Function.Arguments)
}

func TestFormatMessages_EmptyToolArgs(t *testing.T) {
	formatted := FormatMessages([]Message{{
		Type:      "ai",
		ToolCalls: []ToolCall{{ID: "call-1", Name: "noop"}},
	}})

	require.Len(t, formatted[0].ToolCalls, 1)
	assert.Equal(t, "", formatted[0].ToolCalls[0].Function.Arguments)
}

func TestFormatMessages_ToolCallID(t *testing.T) {
	formatted := FormatMessages([]Message{{
		Type:       "tool",
		Content:    "result payload",
		ToolCallID: "call-1",
	}})

	require.Len(t, formatted, 1)
	assert.Equal(t, "tool", formatted[0].Role)
	assert.Equal(t, "call-1", formatted[0].ToolCallID)
}

func TestFormatMessages_PreservesOrderAndLength(t *testing.T) {
	messages := []Message{
		{Type: "system", Content: "be nice"},
		{Type: "human", Content: "hi"},
		{Type: "ai", Content: "hello"},
	}

	formatted := FormatMessages(messages)

	require.Len(t, formatted, len(messages))
	assert.Equal(t, "system", formatted[0].Role)
	assert.Equal(t, "user", formatted[1].Role)
	assert.Equal(t, "assistant", formatted[2].Role)
}

func TestFormatMessages_Empty(t *testing.T) {
	assert.Empty(t, FormatMessages(nil))
	assert.Empty(t, FormatMessages([]Message{}))
}
