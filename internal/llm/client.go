// Package llm defines the completion client interface and the Gemini
// provider behind it. The agent only needs single-shot completions over a
// short conversation, so the interface is deliberately small.
package llm

import (
	"context"
	"time"
)

// Role constants for conversation turns. Gemini uses "model" where other
// providers say "assistant".
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the input to a Complete call.
type CompletionRequest struct {
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"maxTokens,omitempty"`
	Temperature *float64  `json:"temperature,omitempty"`
}

// CompletionResponse is the result of a completion.
type CompletionResponse struct {
	Content  string        `json:"content"`
	Model    string        `json:"model,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Client is the interface completion providers implement.
type Client interface {
	// Complete sends a request and returns the full response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g. "gemini").
	Name() string
}
