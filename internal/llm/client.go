package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pantheonai/stackr/config"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// client talks to the OpenAI-compatible chat completions API over plain
// net/http. The azure flavor differs only in URL shape and auth header.
type client struct {
	cfg        config.LLMConfig
	httpClient *http.Client
}

func newClient(cfg config.LLMConfig) *client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatRequest struct {
	Model       string    `json:"model,omitempty"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ModelName resolves a tier key to the configured model name. Unknown tiers
// resolve to the empty string; Complete rejects them explicitly.
func (c *client) ModelName(tier string) string {
	return c.cfg.Models[tier].Name
}

// Complete implements Provider.
func (c *client) Complete(ctx context.Context, req Request) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("llm api key not configured")
	}
	model := c.ModelName(req.Tier)
	if model == "" {
		return "", fmt.Errorf("model tier %q not configured", req.Tier)
	}

	body := chatRequest{
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if c.cfg.Provider != "azure" {
		// Azure addresses the model via the deployment path instead.
		body.Model = model
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint, err := c.completionsURL(model)
	if err != nil {
		return "", err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.Provider == "azure" {
		httpReq.Header.Set("api-key", c.cfg.APIKey)
	} else {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("api returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("api returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

func (c *client) completionsURL(model string) (string, error) {
	if c.cfg.Provider == "azure" {
		if c.cfg.Endpoint == "" {
			return "", fmt.Errorf("azure endpoint not configured")
		}
		base := strings.TrimRight(c.cfg.Endpoint, "/")
		return fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
			base, url.PathEscape(model), url.QueryEscape(c.cfg.APIVersion)), nil
	}
	base := c.cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	return strings.TrimRight(base, "/") + "/chat/completions", nil
}
