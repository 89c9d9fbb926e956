// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transform-engine/internal/panel"
	"github.com/pdiddy/transform-engine/pkg/types"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Inspect, edit and resume pipelines on a panel",
}

// livePipeline returns the panel's pipeline with id, or an error naming both.
func livePipeline(p *panel.Panel, id string) (*types.TransformationPipeline, error) {
	pl, ok := p.Live(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s on panel %s", panel.ErrPipelineNotFound, id, p.ID())
	}
	return pl, nil
}

// --- show subcommand ---

var pipelineShowCmd = &cobra.Command{
	Use:   "show <panel-id> <pipeline-id>",
	Short: "Show the stages of a pipeline",
	Args:  cobra.ExactArgs(2),
	RunE:  runPipelineShow,
}

func runPipelineShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, p, err := loadPanel(context.Background(), cfg, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	pl, ok := p.Pipeline(args[1])
	if !ok {
		return fmt.Errorf("%w: %s on panel %s", panel.ErrPipelineNotFound, args[1], p.ID())
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(pl)
	}

	fmt.Printf("Pipeline: %s (%s)\n", pl.Name, pl.ID)
	fmt.Printf("Status:   %s, stage %d of %d\n", pl.Status(), pl.CurrentStageIndex+1, len(pl.Stages))
	if pl.Error != "" {
		fmt.Printf("Error:    %s\n", pl.Error)
	}
	fmt.Println()

	fmt.Fprintf(os.Stdout, "%-3s  %-16s  %-10s  %s\n", "#", "Action", "Status", "Output")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for i, st := range pl.Stages {
		out := strings.ReplaceAll(st.Output, "\n", " ")
		if st.Status == types.StageError {
			out = st.Error
		}
		fmt.Fprintf(os.Stdout, "%-3d  %-16s  %-10s  %s\n", i+1, st.Type, st.Status, truncate(out, 50))
	}

	if pl.Output != nil {
		printValidation(pl.Output.ValidationResults)
	}
	return nil
}

// --- resume subcommand ---

var pipelineResumeCmd = &cobra.Command{
	Use:   "resume <panel-id> <pipeline-id>",
	Short: "Continue a failed or interrupted pipeline",
	Long: `Resume re-runs a pipeline from its current stage. Completed stages are
kept; a failed stage is reset and attempted again with the output of the
stage before it, including any edits made with "pipeline edit".`,
	Args: cobra.ExactArgs(2),
	RunE: runPipelineResume,
}

func runPipelineResume(cmd *cobra.Command, args []string) error {
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

	pl, err := livePipeline(p, args[1])
	if err != nil {
		return err
	}
	if pl.IsComplete() {
		fmt.Fprintf(os.Stderr, "Pipeline %s is already complete\n", pl.ID)
		return nil
	}

	orch, err := newOrchestrator(cmd, cfg, os.Stderr)
	if err != nil {
		return err
	}

	runErr := orch.RunPipeline(ctx, pl, p)
	if err := s.SavePanel(ctx, p); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return explain(runErr)
	}

	done, _ := p.Pipeline(pl.ID)
	jsonOutput, _ := cmd.Flags().GetBool("json")
	return printOutput(done.Output, jsonOutput)
}

// --- edit subcommand ---

var pipelineEditCmd = &cobra.Command{
	Use:   "edit <panel-id> <pipeline-id>",
	Short: "Replace the output of a completed stage",
	Long: `Edit replaces a completed stage's output with text from --file or --text.
Later stages read the edited text when the pipeline is resumed.`,
	Args: cobra.ExactArgs(2),
	RunE: runPipelineEdit,
}

func runPipelineEdit(cmd *cobra.Command, args []string) error {
	stage, _ := cmd.Flags().GetInt("stage")
	text, _ := cmd.Flags().GetString("text")
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", file, err)
		}
		text = string(data)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("replacement text required: provide --file or --text")
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

	pl, err := livePipeline(p, args[1])
	if err != nil {
		return err
	}

	err = p.Mutate(pl, func(pl *types.TransformationPipeline) error {
		if stage < 1 || stage > len(pl.Stages) {
			return fmt.Errorf("stage %d out of range 1..%d", stage, len(pl.Stages))
		}
		return pl.Stages[stage-1].Edit(text)
	})
	if err != nil {
		return err
	}
	if err := s.SavePanel(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Edited stage %d of pipeline %s\n", stage, pl.ID)
	return nil
}

func init() {
	pipelineShowCmd.Flags().Bool("json", false, "output as JSON")

	pipelineResumeCmd.Flags().Bool("json", false, "output the final stage as JSON")
	addRunFlags(pipelineResumeCmd)

	pipelineEditCmd.Flags().Int("stage", 0, "stage number to edit, starting at 1")
	pipelineEditCmd.Flags().String("file", "", "file holding the replacement text")
	pipelineEditCmd.Flags().String("text", "", "replacement text")

	pipelineCmd.AddCommand(pipelineShowCmd)
	pipelineCmd.AddCommand(pipelineResumeCmd)
	pipelineCmd.AddCommand(pipelineEditCmd)
	rootCmd.AddCommand(pipelineCmd)
}
