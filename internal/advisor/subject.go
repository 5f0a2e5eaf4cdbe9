package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/llm"
	"github.com/pantheonai/stackr/internal/telemetry"
)

// SubjectExtractor compresses a goal into a 3-5 word topic phrase used only
// for routing. Whatever the model returns is taken as-is after trimming.
type SubjectExtractor struct {
	LLM       llm.Provider
	Telemetry *telemetry.Telemetry
}

// Extract runs one deterministic-leaning completion.
func (e *SubjectExtractor) Extract(ctx context.Context, goal string) (string, error) {
	start := time.Now()
	out, err := e.LLM.Complete(ctx, llm.Request{
		Tier: config.TierStandard,
		Messages: []llm.Message{
			{Role: "system", Content: "Summarize this into 3-5 words."},
			{Role: "user", Content: fmt.Sprintf("'%s'", goal)},
		},
		Temperature: 0,
		MaxTokens:   30,
	})
	e.Telemetry.RecordLLMCall("subject", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("extract subject: %w", err)
	}
	return strings.TrimSpace(out), nil
}
