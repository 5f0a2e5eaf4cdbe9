package advisor

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/llm"
	"github.com/pantheonai/stackr/internal/telemetry"
	"github.com/pantheonai/stackr/internal/tokens"
)

// Reviewer asks the model whether the plan logically serves the goal.
// The answer is free text, returned verbatim; no verdict is extracted.
type Reviewer struct {
	LLM       llm.Provider
	Telemetry *telemetry.Telemetry
	Logger    *log.Logger
}

// Review runs one completion and returns the notes.
func (r *Reviewer) Review(ctx context.Context, goal, planText string) (string, error) {
	messages := []llm.Message{
		{Role: "system", Content: "You are a financial reviewer. Check if the plan matches the user's goal logically."},
		{Role: "user", Content: fmt.Sprintf("Question: %s\nResponse: %s\nLogical? Explain briefly.", goal, planText)},
	}
	r.logTokenBudget(messages)

	start := time.Now()
	out, err := r.LLM.Complete(ctx, llm.Request{
		Tier:        config.TierStandard,
		Messages:    messages,
		Temperature: 0.4,
		MaxTokens:   400,
	})
	r.Telemetry.RecordLLMCall("review", time.Since(start), err)
	if err != nil {
		return "", fmt.Errorf("review plan: %w", err)
	}
	return out, nil
}

func (r *Reviewer) logTokenBudget(messages []llm.Message) {
	if r.Logger == nil {
		return
	}
	model := r.LLM.ModelName(config.TierStandard)
	total := 0
	for _, m := range messages {
		n, err := tokens.Estimate(m.Content, model)
		if err != nil {
			return
		}
		total += n
	}
	r.Telemetry.AddTokens(total)
	r.Logger.Printf("[INFO] Token usage for review: %d tokens (~$%.4f)", total, tokens.Cost(total))
}
