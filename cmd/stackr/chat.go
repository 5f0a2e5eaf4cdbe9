package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/advisor"
)

func chatCMD() *cobra.Command {
	var cfgPath string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive credit card goal loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), cfg, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default searches . and ./config)")
	return cmd
}

// runChat drives the interactive loop. A failed turn prints the error and
// the loop keeps going; only wiring failures end the session.
func runChat(ctx context.Context, cfg *config.Config, in *os.File, out *os.File) error {
	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Metrics.Close()

	fmt.Fprintln(out, "Stackr - Credit Card Optimizer")
	fmt.Fprintln(out, "Type 'quit' to exit.")
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Enter your credit card goal: ")
		if !scanner.Scan() {
			break
		}
		goal := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(goal, "quit") {
			break
		}

		res, err := p.Orch.Process(ctx, advisor.Request{Goal: goal})
		if err != nil {
			fmt.Fprintf(out, "\n[ERROR] %v\n\n", err)
			continue
		}

		fmt.Fprintln(out, "\nGenerated Plan:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, res.Plan.Raw)
		fmt.Fprintf(out, "\nROI Estimate: $%v\n", res.ROIEstimate)
		fmt.Fprintf(out, "Consistency Score: %v\n", res.ConsistencyScore)
		fmt.Fprintf(out, "\nReview Notes:\n%s\n", res.ReviewNotes)
		fmt.Fprintln(out, "\n"+strings.Repeat("-", 80))
		fmt.Fprintln(out)
	}
	return scanner.Err()
}
