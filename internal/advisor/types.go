// Package advisor implements the credit-card optimization pipeline:
// subject extraction, conditional web retrieval, plan generation, and the
// scoring stages (ROI, self-consistency, reasoning review).
package advisor

import (
	"encoding/json"
	"strings"
)

// Plan is the generated card strategy. Raw always carries the model output
// verbatim; the named fields are populated only when the output parsed as
// the expected three-key JSON object. Malformed output is a recoverable
// outcome, not an error.
type Plan struct {
	CardPlan         string `json:"card_plan"`
	SpendingStrategy string `json:"spending_strategy"`
	RedemptionPlan   string `json:"redemption_plan"`
	Raw              string `json:"raw"`
	Malformed        bool   `json:"malformed,omitempty"`
}

// Result is the composite outcome of one orchestrated goal.
type Result struct {
	Plan             Plan    `json:"plan"`
	ROIEstimate      float64 `json:"roi_estimate"`
	ConsistencyScore float64 `json:"consistency_score"`
	ReviewNotes      string  `json:"review_notes"`
}

// ParsePlan interprets raw model output as the three-key plan object.
// Fields may come back as strings, arrays, or nested objects; non-string
// values are kept as compact JSON. Anything unparseable yields a malformed
// plan that still carries the raw text.
func ParsePlan(raw string) Plan {
	plan := Plan{Raw: raw}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(stripFences(raw)), &fields); err != nil {
		plan.Malformed = true
		return plan
	}
	var ok bool
	if plan.CardPlan, ok = fieldText(fields, "card_plan"); !ok {
		plan.Malformed = true
	}
	if plan.SpendingStrategy, ok = fieldText(fields, "spending_strategy"); !ok {
		plan.Malformed = true
	}
	if plan.RedemptionPlan, ok = fieldText(fields, "redemption_plan"); !ok {
		plan.Malformed = true
	}
	return plan
}

func fieldText(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

// stripFences removes a surrounding markdown code fence, which chat models
// routinely wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
