package vertexai

import (
	"encoding/json"
	"strings"
)

// FormattedMessage is the normalized message record serialized into the
// gen_ai.input.messages / gen_ai.output.messages span attributes.
type FormattedMessage struct {
	Role       string              `json:"role"`
	Content    string              `json:"content"`
	ToolCalls  []FormattedToolCall `json:"tool_calls,omitempty"`
	ToolCallID string              `json:"tool_call_id,omitempty"`
}

// FormattedToolCall is the normalized tool-call record.
type FormattedToolCall struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Function FormattedFunction `json:"function"`
}

// FormattedFunction names the called function and carries its arguments as
// a JSON string, or the empty string when the call has no arguments.
type FormattedFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// FormatMessages normalizes messages into GenAI-convention records.
// The output preserves order and has the same length as the input.
func FormatMessages(messages []Message) []FormattedMessage {
	formatted := make([]FormattedMessage, 0, len(messages))
	for _, msg := range messages {
		fm := FormattedMessage{
			Role:       resolveRole(msg.Type),
			Content:    flattenContent(msg.Content),
			ToolCallID: msg.ToolCallID,
		}

		if len(msg.ToolCalls) > 0 {
			fm.ToolCalls = make([]FormattedToolCall, 0, len(msg.ToolCalls))
			for _, tc := range msg.ToolCalls {
				fm.ToolCalls = append(fm.ToolCalls, FormattedToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: FormattedFunction{
						Name:      tc.Name,
						Arguments: marshalArgs(tc.Args),
					},
				})
			}
		}

		formatted = append(formatted, fm)
	}

	return formatted
}

// resolveRole maps a message type tag to a GenAI role by case-insensitive
// substring match, checked in fixed order so a tag matching several
// keywords resolves to the earliest-listed role.
func resolveRole(typeTag string) string {
	tag := strings.ToLower(typeTag)
	switch {
	case strings.Contains(tag, "human"), strings.Contains(tag, "user"):
		return "user"
	case strings.Contains(tag, "ai"), strings.Contains(tag, "assistant"):
		return "assistant"
	case strings.Contains(tag, "system"):
		return "system"
	case strings.Contains(tag, "tool"):
		return "tool"
	default:
		return "unknown"
	}
}

// flattenContent extracts the text of a message content value. Part lists
// keep only bare strings and text-typed parts, space-joined in original
// order; anything else degrades to the empty string.
func flattenContent(content any) string {
	switch c := content.(type) {
	case string:
		return c
	case []any:
		var parts []string
		for _, part := range c {
			switch p := part.(type) {
			case string:
				parts = append(parts, p)
			case map[string]any:
				if t, _ := p["type"].(string); t == "text" {
					text, _ := p["text"].(string)
					parts = append(parts, text)
				}
			}
		}

		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// marshalArgs serializes a tool call's argument mapping, or returns the
// empty string when there are no arguments.
func marshalArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	data, err := json.Marshal(args)
	if err != nil {
		return ""
	}

	return string(data)
}
