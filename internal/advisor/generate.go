package advisor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/llm"
	"github.com/pantheonai/stackr/internal/telemetry"
	"github.com/pantheonai/stackr/internal/tokens"
)

// searchTriggerKeywords mark subjects that need fresh web context.
var searchTriggerKeywords = []string{"best", "latest", "new", "today", "top", "compare", "current", "update"}

// NeedsWebContext reports whether the subject asks for up-to-date
// information. Case-insensitive substring match.
func NeedsWebContext(subject string) bool {
	s := strings.ToLower(subject)
	for _, kw := range searchTriggerKeywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// TierForSubject selects the model tier: subjects mentioning "complex" get
// the higher-capability tier. Independent of the retrieval trigger.
func TierForSubject(subject string) string {
	if strings.Contains(strings.ToLower(subject), "complex") {
		return config.TierAdvanced
	}
	return config.TierStandard
}

// PlanGenerator builds the role prompt and requests the JSON-shaped plan.
type PlanGenerator struct {
	LLM       llm.Provider
	Telemetry *telemetry.Telemetry
	Logger    *log.Logger

	// ContextCharLimit caps the aggregated web context embedded in the
	// prompt. Zero means the 4000-char default.
	ContextCharLimit int
}

const defaultContextCharLimit = 4000

// Generate issues one completion for the goal with optional aggregated web
// context, then parses the reply into a Plan. Malformed replies are not an
// error; the plan records them.
func (g *PlanGenerator) Generate(ctx context.Context, goal, aggregated, tier string) (Plan, error) {
	limit := g.ContextCharLimit
	if limit <= 0 {
		limit = defaultContextCharLimit
	}
	if len(aggregated) > limit {
		aggregated = aggregated[:limit]
	}

	rolePrompt := "You are Stackr, an expert credit card optimizer.\n\n" +
		"1. Tailor your plan to the user goal.\n" +
		"2. Use real rewards logic.\n" +
		"3. Format output in JSON:\n" +
		"  - card_plan\n  - spending_strategy\n  - redemption_plan\n" +
		"User Goal: " + goal + "\n\nContext:\n" + aggregated

	messages := []llm.Message{
		{Role: "system", Content: rolePrompt},
		{Role: "user", Content: goal},
	}
	g.logTokenBudget(tier, messages)

	start := time.Now()
	out, err := g.LLM.Complete(ctx, llm.Request{
		Tier:        tier,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   700,
	})
	g.Telemetry.RecordLLMCall("generate", time.Since(start), err)
	if err != nil {
		return Plan{}, fmt.Errorf("generate plan: %w", err)
	}
	return ParsePlan(out), nil
}

// logTokenBudget prints the estimated prompt size and cost. Informational
// only; estimation failures are ignored.
func (g *PlanGenerator) logTokenBudget(tier string, messages []llm.Message) {
	if g.Logger == nil {
		return
	}
	model := g.LLM.ModelName(tier)
	total := 0
	for _, m := range messages {
		n, err := tokens.Estimate(m.Content, model)
		if err != nil {
			return
		}
		total += n
	}
	g.Telemetry.AddTokens(total)
	g.Logger.Printf("[INFO] Estimated tokens for generation: %d (~$%.4f)", total, tokens.Cost(total))
}
