// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transform-engine/internal/orchestrator"
	"github.com/pdiddy/transform-engine/internal/panel"
	"github.com/pdiddy/transform-engine/internal/presets"
)

var batchCmd = &cobra.Command{
	Use:   "batch <preset> [panel-id...]",
	Short: "Run a preset across several panels concurrently",
	Long: `Batch runs one preset against every listed panel, or every stored panel
with --all. Panels run in parallel up to --limit (default from config:
orchestrator.concurrency); a failure on one panel does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func runBatch(cmd *cobra.Command, args []string) error {
	preset, err := presets.Parse(args[0])
	if err != nil {
		return err
	}
	all, _ := cmd.Flags().GetBool("all")
	limit, _ := cmd.Flags().GetInt("limit")
	panelIDs := args[1:]
	if len(panelIDs) == 0 && !all {
		return fmt.Errorf("panel IDs required: list them or pass --all")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if all {
		summaries, err := s.ListPanels(ctx)
		if err != nil {
			return err
		}
		panelIDs = panelIDs[:0]
		for _, ps := range summaries {
			panelIDs = append(panelIDs, ps.ID)
		}
	}

	ws := panel.NewWorkspace()
	for _, id := range panelIDs {
		p, err := s.LoadPanel(ctx, id)
		if err != nil {
			return err
		}
		if err := ws.Restore(p); err != nil {
			fmt.Fprintf(os.Stderr, "Skipping panel %s: %v\n", id, err)
		}
	}

	var jobs []orchestrator.Job
	for _, p := range ws.Panels() {
		pl, err := presets.NewPipeline(preset)
		if err != nil {
			return err
		}
		jobs = append(jobs, orchestrator.Job{Panel: p, Pipeline: pl})
	}
	if len(jobs) == 0 {
		fmt.Println("No panels to run.")
		return nil
	}

	orch, err := newOrchestrator(cmd, cfg, os.Stderr)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Running %s on %d panel(s)\n", preset, len(jobs))
	results := orch.RunConcurrent(ctx, jobs, limit)

	failed := 0
	for _, p := range ws.Panels() {
		if err := s.SavePanel(ctx, p); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-36s  %s\n", "Panel", "Pipeline", "Result")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, r := range results {
		result := "ok"
		if r.Err != nil {
			failed++
			result = r.Err.Error()
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-36s  %s\n", r.PanelID, r.PipelineID, result)
	}

	if failed > 0 {
		return fmt.Errorf("%d pipeline(s) failed", failed)
	}
	return nil
}

func init() {
	batchCmd.Flags().Bool("all", false, "run against every stored panel")
	batchCmd.Flags().Int("limit", 0, "maximum panels in flight (default from config)")
	addRunFlags(batchCmd)

	rootCmd.AddCommand(batchCmd)
}
