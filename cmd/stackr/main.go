package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/advisor"
	"github.com/pantheonai/stackr/internal/llm"
	"github.com/pantheonai/stackr/internal/search"
	"github.com/pantheonai/stackr/internal/store"
	"github.com/pantheonai/stackr/internal/telemetry"
	"github.com/pantheonai/stackr/internal/webfetch"
)

func main() {
	root := &cobra.Command{Use: "stackr", Short: "Credit card optimizer"}
	root.AddCommand(chatCMD(), serveCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// pipeline bundles the wired orchestrator with what the commands need to
// manage around it.
type pipeline struct {
	Orch      *advisor.Orchestrator
	Metrics   store.MetricsStore
	Telemetry *telemetry.Telemetry
}

// buildPipeline wires the orchestrator and its collaborators from config.
// The caller closes Metrics.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	provider, err := llm.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	metrics, err := store.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("init metrics store: %w", err)
	}

	var tele *telemetry.Telemetry
	if cfg.Telemetry.Enabled {
		tele = telemetry.New()
	}
	logger := log.New(log.Writer(), "[ORCH] ", log.LstdFlags)
	searcher := search.NewStatic(cfg.Search.URLs, log.New(log.Writer(), "[SEARCH] ", log.LstdFlags))
	fetcher := webfetch.NewHTTPFetcher(cfg.Fetch.Timeout)

	orch := advisor.NewOrchestrator(cfg, provider, searcher, fetcher, metrics, tele, logger)
	return &pipeline{Orch: orch, Metrics: metrics, Telemetry: tele}, nil
}
