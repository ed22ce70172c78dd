package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts chat-completion providers that answer with JSON.
type Client interface {
	Complete(ctx context.Context, req ChatRequest) (json.RawMessage, error)
	Model() string
}

// ChatRequest is a single system + user exchange.
type ChatRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
	// JSON asks the provider for a JSON object response format.
	JSON bool
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is used when no provider is configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(context.Context, ChatRequest) (json.RawMessage, error) {
	return nil, ErrNotConfigured
}

func (PlaceholderClient) Model() string { return "none" }
