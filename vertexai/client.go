package vertexai

import (
	"context"
)

// Message is a role-tagged content container exchanged with the model.
// The shapes are deliberately loose: message payloads vary across provider
// and framework versions, so optional fields may be absent and Content may
// be a plain string or a part list.
type Message struct {
	// Type is the message type tag, e.g. "HumanMessage", "ai",
	// "SystemMessage", "ToolMessage". Role resolution matches on
	// case-insensitive substrings; see FormatMessages.
	Type string

	// Content is either a plain string or a []any of parts, where each
	// part is a bare string or a map[string]any with "type": "text" and
	// a "text" value. Other part shapes are ignored during formatting.
	Content any

	// ToolCalls carries outbound tool invocations on assistant messages.
	ToolCalls []ToolCall

	// ToolCallID links an inbound tool-result message to the call that
	// produced it.
	ToolCallID string

	// UsageMetadata carries token counts on response messages: either a
	// map[string]any using GenAI keys (input_tokens, output_tokens,
	// total_tokens) or provider-native keys (prompt_token_count,
	// candidates_token_count, total_token_count), or a struct with
	// matching field names such as [TokenUsage].
	UsageMetadata any

	// ResponseMetadata carries provider response metadata on response
	// messages (model_name, finish_reason, safety_ratings,
	// citation_metadata).
	ResponseMetadata map[string]any
}

// ToolCall is a single outbound tool invocation requested by the model.
type ToolCall struct {
	ID   string
	Name string
	Args map[string]any
}

// TokenUsage is the struct-shaped usage metadata variant, mirroring the
// provider's native field names.
type TokenUsage struct {
	PromptTokenCount     int
	CandidatesTokenCount int
	TotalTokenCount      int
}

// Generation is one candidate produced by a generation call.
type Generation struct {
	Message Message
}

// ChatResult is the outcome of a generation call. Attribute extraction
// reads the first generation only.
type ChatResult struct {
	Generations []Generation
}

// CallOptions carries per-invocation parameters, forwarded untouched to the
// underlying client.
type CallOptions struct {
	// Stop lists stop sequences for this invocation.
	Stop []string

	// Tools carries provider tool declarations. Each entry either groups
	// several declarations under "function_declarations" or describes a
	// single "function"; both forms are unpacked for span attributes.
	Tools []map[string]any

	// Extra holds additional provider-specific parameters.
	Extra map[string]any
}

// GenerateFunc is the blocking generation entry point signature.
type GenerateFunc func(ctx context.Context, messages []Message, opts *CallOptions) (*ChatResult, error)

// AsyncGenerateFunc is the asynchronous generation entry point signature.
type AsyncGenerateFunc func(ctx context.Context, messages []Message, opts *CallOptions) *AsyncResult

// ChatClient is a handle to a Vertex AI chat model. The generation entry
// points are function-valued so that instrumentation can replace them on an
// already-constructed client; Generate and GenerateAsync dispatch through
// the current field values.
type ChatClient struct {
	ModelName string
	Project   string
	Location  string

	// Sampling parameters. Nil means the provider default; nil values
	// produce no span attribute.
	Temperature     *float64
	MaxOutputTokens *int
	TopP            *float64
	TopK            *int

	// SafetySettings maps harm categories to block thresholds. A
	// non-empty map flags safety filtering as enabled on request spans.
	SafetySettings map[string]string

	// GenerateFn is the blocking generation entry point.
	GenerateFn GenerateFunc

	// GenerateAsyncFn is the asynchronous counterpart. Nil when the
	// underlying client has no async surface; Wrap leaves it untouched
	// in that case.
	GenerateAsyncFn AsyncGenerateFunc
}

// Generate invokes the blocking generation entry point.
func (c *ChatClient) Generate(ctx context.Context, messages []Message, opts *CallOptions) (*ChatResult, error) {
	return c.GenerateFn(ctx, messages, opts)
}

// GenerateAsync invokes the asynchronous generation entry point.
// Callers must check GenerateAsyncFn for nil first, or know their client
// has an async surface.
func (c *ChatClient) GenerateAsync(ctx context.Context, messages []Message, opts *CallOptions) *AsyncResult {
	return c.GenerateAsyncFn(ctx, messages, opts)
}

// AsyncResult is a single-use handle to an in-flight generation.
type AsyncResult struct {
	done chan struct{}
	res  *ChatResult
	err  error
}

// Go runs fn in a new goroutine and returns a handle to its outcome.
func Go(fn func() (*ChatResult, error)) *AsyncResult {
	r := &AsyncResult{done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.res, r.err = fn()
	}()

	return r
}

// Wait blocks until the generation completes or ctx is canceled.
// It may be called multiple times; every call observes the same outcome.
func (r *AsyncResult) Wait(ctx context.Context) (*ChatResult, error) {
	select {
	case <-r.done:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
