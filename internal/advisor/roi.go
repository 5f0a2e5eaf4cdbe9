package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/llm"
	"github.com/pantheonai/stackr/internal/telemetry"
)

// ROIEstimator asks the model for an annual dollar value and parses the
// reply with a deliberately crude digit-strip heuristic. Parse failures
// return 0.0 rather than an error; silently wrong estimates are tolerated.
type ROIEstimator struct {
	LLM       llm.Provider
	Telemetry *telemetry.Telemetry
}

// Estimate returns the heuristic ROI for a plan. Only the completion call
// itself can fail; parsing cannot.
func (e *ROIEstimator) Estimate(ctx context.Context, planText string) (float64, error) {
	start := time.Now()
	out, err := e.LLM.Complete(ctx, llm.Request{
		Tier: config.TierStandard,
		Messages: []llm.Message{
			{Role: "system", Content: "You are an ROI analyst. Estimate annual value of this plan in dollars."},
			{Role: "user", Content: planText},
		},
		Temperature: 0.3,
		MaxTokens:   100,
	})
	e.Telemetry.RecordLLMCall("roi", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("estimate roi: %w", err)
	}
	return ParseDollars(out), nil
}

// ParseDollars keeps only decimal digits and periods from free text and
// parses the remainder as a float. Empty or ambiguous remainders (for
// example two periods from two sentences) yield 0.0.
func ParseDollars(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0.0
	}
	return v
}
