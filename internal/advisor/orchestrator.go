package advisor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/llm"
	"github.com/pantheonai/stackr/internal/search"
	"github.com/pantheonai/stackr/internal/store"
	"github.com/pantheonai/stackr/internal/telemetry"
	"github.com/pantheonai/stackr/internal/webfetch"
)

// ErrEmptyGoal rejects requests with nothing to optimize.
var ErrEmptyGoal = errors.New("goal must not be empty")

// Request is one orchestration invocation.
type Request struct {
	UserID string
	Goal   string
	// SkipReview drops the reasoning-review stage; the HTTP surface does
	// not return review notes.
	SkipReview bool
}

// Orchestrator sequences the pipeline: extract subject, conditionally
// retrieve web context, generate a plan, score it, persist the record.
// Strictly sequential, no retries.
type Orchestrator struct {
	cfg       *config.Config
	logger    *log.Logger
	telemetry *telemetry.Telemetry

	searcher search.Searcher
	fetcher  webfetch.Fetcher
	metrics  store.MetricsStore

	subject     *SubjectExtractor
	generator   *PlanGenerator
	roi         *ROIEstimator
	consistency *ConsistencyChecker
	reviewer    *Reviewer
}

// NewOrchestrator wires the pipeline from explicit collaborators.
func NewOrchestrator(cfg *config.Config, provider llm.Provider, searcher search.Searcher, fetcher webfetch.Fetcher, metrics store.MetricsStore, tele *telemetry.Telemetry, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(log.Writer(), "[ORCH] ", log.LstdFlags)
	}
	return &Orchestrator{
		cfg:       cfg,
		logger:    logger,
		telemetry: tele,
		searcher:  searcher,
		fetcher:   fetcher,
		metrics:   metrics,
		subject:   &SubjectExtractor{LLM: provider, Telemetry: tele},
		generator: &PlanGenerator{
			LLM:              provider,
			Telemetry:        tele,
			Logger:           logger,
			ContextCharLimit: cfg.Fetch.ContextCharLimit,
		},
		roi:         &ROIEstimator{LLM: provider, Telemetry: tele},
		consistency: &ConsistencyChecker{LLM: provider, Telemetry: tele},
		reviewer:    &Reviewer{LLM: provider, Telemetry: tele, Logger: logger},
	}
}

// Process runs one full cycle for a goal. Subject extraction, generation,
// consistency scoring and the final append abort the request on failure;
// fetch failures skip that source, ROI failures degrade to 0.0 and review
// failures degrade to a placeholder note.
func (o *Orchestrator) Process(ctx context.Context, req Request) (Result, error) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return Result{}, ErrEmptyGoal
	}
	o.logger.Printf("[INFO] Starting auto orchestration for goal: %s", goal)

	res, err := o.process(ctx, req.UserID, goal, req.SkipReview)
	if err != nil {
		o.telemetry.RecordOrchestration("error")
		return Result{}, err
	}
	o.telemetry.RecordOrchestration("ok")
	return res, nil
}

func (o *Orchestrator) process(ctx context.Context, userID, goal string, skipReview bool) (Result, error) {
	subject, err := o.subject.Extract(ctx, goal)
	if err != nil {
		return Result{}, err
	}
	o.logger.Printf("[INFO] Extracted subject: %s", subject)

	aggregated := ""
	if NeedsWebContext(subject) {
		aggregated, err = o.gatherContext(ctx, goal)
		if err != nil {
			return Result{}, err
		}
	} else {
		o.logger.Printf("[INFO] No web search needed, using empty context.")
	}

	tier := TierForSubject(subject)
	o.logger.Printf("[INFO] Selected model tier: %s (%s)", tier, o.generator.LLM.ModelName(tier))

	plan, err := o.generator.Generate(ctx, goal, aggregated, tier)
	if err != nil {
		return Result{}, err
	}
	if plan.Malformed {
		o.logger.Printf("[WARN] Plan output did not parse as the expected JSON object; passing raw text through")
	}

	roi, err := o.roi.Estimate(ctx, plan.Raw)
	if err != nil {
		// A failed call degrades the same way a failed parse does.
		o.logger.Printf("[WARN] ROI estimation failed, defaulting to 0.0: %v", err)
		roi = 0.0
	}

	consistency, err := o.consistency.Check(ctx, goal)
	if err != nil {
		return Result{}, err
	}

	notes := ""
	if !skipReview {
		notes, err = o.reviewer.Review(ctx, goal, plan.Raw)
		if err != nil {
			o.logger.Printf("[WARN] Review failed, continuing without notes: %v", err)
			notes = fmt.Sprintf("[review unavailable] %v", err)
		}
	}

	rec := store.Record{
		UserID:           userID,
		Goal:             goal,
		ROIEstimate:      roi,
		ConsistencyScore: consistency,
	}
	if err := o.metrics.Append(ctx, rec); err != nil {
		return Result{}, fmt.Errorf("log metrics: %w", err)
	}

	return Result{
		Plan:             plan,
		ROIEstimate:      roi,
		ConsistencyScore: consistency,
		ReviewNotes:      notes,
	}, nil
}

// gatherContext fetches each candidate URL sequentially and concatenates
// the successful extractions, each truncated to the page limit. Failed
// sources are logged and excluded.
func (o *Orchestrator) gatherContext(ctx context.Context, goal string) (string, error) {
	urls, err := o.searcher.Search(ctx, goal, o.cfg.Search.MaxResults)
	if err != nil {
		return "", fmt.Errorf("web search: %w", err)
	}
	o.logger.Printf("[INFO] Retrieved URLs from search: %v", urls)

	limit := o.cfg.Fetch.PageCharLimit
	if limit <= 0 {
		limit = 2000
	}
	var b strings.Builder
	for _, u := range urls {
		res := o.fetcher.Fetch(ctx, u)
		if res.Failed() {
			o.logger.Printf("%s", res.String())
			continue
		}
		text := res.Text
		if len(text) > limit {
			text = text[:limit]
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
