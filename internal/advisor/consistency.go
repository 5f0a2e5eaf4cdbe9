package advisor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/llm"
	"github.com/pantheonai/stackr/internal/telemetry"
)

const consistencySamples = 3

// ConsistencyChecker regenerates a strategy three times at high temperature
// and scores agreement by counting distinct outputs. Exact-string equality:
// textually different but equivalent plans count as disagreement, which is
// a known limit of the measure.
type ConsistencyChecker struct {
	LLM       llm.Provider
	Telemetry *telemetry.Telemetry
}

// Check returns 1.0 when all three samples are identical, 0.5 for two
// distinct outputs, 0.0 for three. The three calls are live and sequential.
func (c *ConsistencyChecker) Check(ctx context.Context, goal string) (float64, error) {
	messages := []llm.Message{
		{Role: "system", Content: "Generate a credit card strategy for this user goal."},
		{Role: "user", Content: goal},
	}

	distinct := make(map[string]struct{}, consistencySamples)
	for i := 0; i < consistencySamples; i++ {
		start := time.Now()
		out, err := c.LLM.Complete(ctx, llm.Request{
			Tier:        config.TierStandard,
			Messages:    messages,
			Temperature: 0.7,
			MaxTokens:   400,
		})
		c.Telemetry.RecordLLMCall("consistency", time.Since(start), err)
		if err != nil {
			return 0, fmt.Errorf("consistency sample %d: %w", i+1, err)
		}
		distinct[out] = struct{}{}
	}

	return ScoreDistinct(len(distinct)), nil
}

// ScoreDistinct maps a distinct-output count over three samples to the
// agreement score 1 - (d-1)/2, rounded to two decimals.
func ScoreDistinct(d int) float64 {
	score := 1.0 - float64(d-1)/2.0
	return math.Round(score*100) / 100
}
