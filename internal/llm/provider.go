// Package llm wraps the chat-completion capability behind a small provider
// interface. Both OpenAI and Azure OpenAI REST backends are supported; the
// configuration object is injected, never read from process-global state.
package llm

import (
	"context"
	"fmt"

	"github.com/pantheonai/stackr/config"
)

// Message is one role-tagged entry in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request describes a single completion call. Tier selects a configured
// model (config.TierStandard or config.TierAdvanced).
type Request struct {
	Tier        string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Provider is the text-completion capability used by every pipeline stage.
type Provider interface {
	// Complete issues one chat completion and returns the first choice's
	// content verbatim.
	Complete(ctx context.Context, req Request) (string, error)
	// ModelName resolves a tier key to the configured model name.
	ModelName(tier string) string
}

// NewProvider creates a provider from configuration.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai", "azure":
		return newClient(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider type: %s", cfg.Provider)
	}
}
