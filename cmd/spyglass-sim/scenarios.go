package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	spyglass "github.com/spyglass-ai/spyglass-go"
	"github.com/spyglass-ai/spyglass-go/tools"
	"github.com/spyglass-ai/spyglass-go/vertexai"
)

// scenario is one synthetic workload that produces a complete trace.
type scenario struct {
	name string
	run  func(ctx context.Context) error
}

func allScenarios() []scenario {
	return []scenario{
		{name: "chat", run: runChat},
		{name: "tools", run: runTools},
		{name: "failure", run: runFailure},
		{name: "async", run: runAsync},
	}
}

var errSimulatedQuota = errors.New("simulated quota exceeded")

// newFakeClient builds a wrapped client whose generation function fabricates
// a plausible response after a short delay.
func newFakeClient(fail bool) *vertexai.ChatClient {
	temperature := 0.7
	maxTokens := 1024

	client := &vertexai.ChatClient{
		ModelName:       "gemini-1.5-pro",
		Project:         "spyglass-sim",
		Location:        "us-central1",
		Temperature:     &temperature,
		MaxOutputTokens: &maxTokens,
		GenerateFn: func(ctx context.Context, messages []vertexai.Message, opts *vertexai.CallOptions) (*vertexai.ChatResult, error) {
			simulateLatency(ctx)
			if fail {
				return nil, errSimulatedQuota
			}

			return fakeResult(messages), nil
		},
	}
	client.GenerateAsyncFn = func(ctx context.Context, messages []vertexai.Message, opts *vertexai.CallOptions) *vertexai.AsyncResult {
		return vertexai.Go(func() (*vertexai.ChatResult, error) {
			return client.GenerateFn(ctx, messages, opts)
		})
	}

	return vertexai.Wrap(client)
}

func simulateLatency(ctx context.Context) {
	delay := time.Duration(50+rand.IntN(200)) * time.Millisecond
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func fakeResult(messages []vertexai.Message) *vertexai.ChatResult {
	promptTokens := 10 + rand.IntN(100)
	outputTokens := 20 + rand.IntN(400)

	return &vertexai.ChatResult{Generations: []vertexai.Generation{{Message: vertexai.Message{
		Type:    "ai",
		Content: fmt.Sprintf("synthetic answer to %d messages", len(messages)),
		UsageMetadata: map[string]any{
			"prompt_token_count":     promptTokens,
			"candidates_token_count": outputTokens,
			"total_token_count":      promptTokens + outputTokens,
		},
		ResponseMetadata: map[string]any{
			"model_name":    "gemini-1.5-pro-001",
			"finish_reason": "STOP",
		},
	}}}}
}

func runChat(ctx context.Context) error {
	client := newFakeClient(false)

	_, err := client.Generate(ctx, []vertexai.Message{
		{Type: "system", Content: "You are a helpful assistant."},
		{Type: "human", Content: "Summarize the latest deployment status."},
	}, nil)

	return err
}

// runTools traces a full tool round-trip: the model requests a tool call,
// the tool executes under its own span, and the result feeds a second
// generation.
func runTools(ctx context.Context) error {
	return spyglass.TracedFunc("chat tool roundtrip", func(ctx context.Context) error {
		type statusInput struct {
			Service string `json:"service"`
		}
		statusTool, err := tools.NewFunc("get_status", "Look up service status",
			func(ctx context.Context, in statusInput) (string, error) {
				simulateLatency(ctx)

				return "all systems nominal for " + in.Service, nil
			})
		if err != nil {
			return err
		}
		traced := tools.Traced(statusTool)

		client := newFakeClient(false)
		opts := &vertexai.CallOptions{Tools: tools.Declarations(statusTool)}

		messages := []vertexai.Message{{Type: "human", Content: "Is the ingest service healthy?"}}
		if _, err := client.Generate(ctx, messages, opts); err != nil {
			return err
		}

		toolOutput, err := traced.Call(ctx, `{"service":"ingest"}`)
		if err != nil {
			return err
		}

		messages = append(messages,
			vertexai.Message{Type: "ai", ToolCalls: []vertexai.ToolCall{
				{ID: "call-1", Name: "get_status", Args: map[string]any{"service": "ingest"}},
			}},
			vertexai.Message{Type: "tool", Content: toolOutput, ToolCallID: "call-1"},
		)
		_, err = client.Generate(ctx, messages, opts)

		return err
	})(ctx)
}

func runFailure(ctx context.Context) error {
	client := newFakeClient(true)

	_, err := client.Generate(ctx, []vertexai.Message{
		{Type: "human", Content: "This one is destined to fail."},
	}, nil)
	if errors.Is(err, errSimulatedQuota) {
		// The failure is the point of the scenario.
		return nil
	}

	return err
}

func runAsync(ctx context.Context) error {
	client := newFakeClient(false)

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()

			messages := []vertexai.Message{{Type: "human", Content: fmt.Sprintf("async prompt %d", i)}}
			_, errs[i] = client.GenerateAsync(ctx, messages, nil).Wait(ctx)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}
