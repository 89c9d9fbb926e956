// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transform-engine/internal/presets"
)

var presetCmd = &cobra.Command{
	Use:   "preset",
	Short: "List, inspect and run pipeline presets",
}

// --- list subcommand ---

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the pipeline presets",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "%-18s  %-6s  %s\n", "Preset", "Stages", "Description")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
		for _, d := range presets.All() {
			fmt.Fprintf(os.Stdout, "%-18s  %-6d  %s\n", d.Preset, len(d.Templates), d.Description)
		}
	},
}

// --- show subcommand ---

var presetShowCmd = &cobra.Command{
	Use:   "show <preset>",
	Short: "Show the stages a preset expands into",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		preset, err := presets.Parse(args[0])
		if err != nil {
			return err
		}
		tmpls, err := presets.Templates(preset)
		if err != nil {
			return err
		}
		for i, t := range tmpls {
			fmt.Printf("%d. %s%s\n", i+1, t.Action, formatParams(t.Parameters))
		}
		return nil
	},
}

// --- run subcommand ---

var presetRunCmd = &cobra.Command{
	Use:   "run <panel-id> <preset>",
	Short: "Run a preset pipeline against a panel's document",
	Long: `Run expands the preset into a new pipeline on the panel and executes its
stages in order, each stage reading the previous stage's output. A failed
pipeline stays on the panel and can be continued with "pipeline resume".`,
	Args: cobra.ExactArgs(2),
	RunE: runPresetRun,
}

func runPresetRun(cmd *cobra.Command, args []string) error {
	preset, err := presets.Parse(args[1])
	if err != nil {
		return err
	}
	pl, err := presets.NewPipeline(preset)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx := context.Background()
	s, p, err := loadPanel(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	orch, err := newOrchestrator(cmd, cfg, os.Stderr)
	if err != nil {
		return err
	}

	runErr := orch.RunPipeline(ctx, pl, p)
	if err := s.SavePanel(ctx, p); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Pipeline %s stopped; resume with: transform-engine pipeline resume %s %s\n", pl.ID, p.ID(), pl.ID)
		return explain(runErr)
	}

	live, _ := p.Pipeline(pl.ID)
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return printOutput(live.Output, jsonOutput)
}

// formatParams renders parameters as " (k=v, ...)" in key order.
func formatParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + params[k]
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func init() {
	presetRunCmd.Flags().Bool("json", false, "output the final stage as JSON")
	addRunFlags(presetRunCmd)

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetShowCmd)
	presetCmd.AddCommand(presetRunCmd)
	rootCmd.AddCommand(presetCmd)
}
