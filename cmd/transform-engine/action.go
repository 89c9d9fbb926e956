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

	"github.com/pdiddy/transform-engine/internal/actions"
	"github.com/pdiddy/transform-engine/internal/validation"
	"github.com/pdiddy/transform-engine/pkg/types"
)

var actionCmd = &cobra.Command{
	Use:   "action",
	Short: "List and run single quick actions",
}

// --- list subcommand ---

var actionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the quick actions and their output formats",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "%-16s  %s\n", "Action", "Format")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 26))
		for _, a := range actions.NewCatalog().Actions() {
			fmt.Fprintf(os.Stdout, "%-16s  %s\n", a, a.DefaultFormat())
		}
	},
}

// --- run subcommand ---

var actionRunCmd = &cobra.Command{
	Use:   "run <panel-id> <action>",
	Short: "Run one quick action against a panel's document",
	Long: `Run executes a single quick action and records the result on the panel
as a completed one-stage pipeline. Parameters are passed with --param, for
example --param targetLanguage=ar --param maxLength=300.`,
	Args: cobra.ExactArgs(2),
	RunE: runActionRun,
}

func runActionRun(cmd *cobra.Command, args []string) error {
	action, err := types.ParseQuickAction(args[1])
	if err != nil {
		return err
	}
	params, _ := cmd.Flags().GetStringToString("param")

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

	out, runErr := orch.RunSingleAction(ctx, action, p, params)
	if err := s.SavePanel(ctx, p); err != nil {
		return errors.Join(runErr, err)
	}
	if runErr != nil {
		return explain(runErr)
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return printOutput(out, jsonOutput)
}

// printOutput writes the content to stdout and the validation summary to
// stderr, or the whole output as JSON.
func printOutput(out *types.TransformationOutput, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Println(out.Content)
	printValidation(out.ValidationResults)
	return nil
}

func printValidation(r types.ValidationResults) {
	fmt.Fprintf(os.Stderr, "\nValidation: deployable=%t localization=%t tone=%t citations=%.0f%% redaction=%s\n",
		validation.Deployable(r), r.LocalizationComplete, r.ToneCompliance, r.CitationCoverage*100, r.PrivacyRedaction)
	for _, e := range r.Errors {
		fmt.Fprintf(os.Stderr, "  error [%s] %s (%s)\n", e.Severity, e.Message, e.Location)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(os.Stderr, "  warning %s: %s\n", w.Message, w.Suggestion)
	}
}

func init() {
	actionRunCmd.Flags().StringToString("param", nil, "action parameter as key=value (repeatable)")
	actionRunCmd.Flags().Bool("json", false, "output as JSON")
	addRunFlags(actionRunCmd)

	actionCmd.AddCommand(actionListCmd)
	actionCmd.AddCommand(actionRunCmd)
	rootCmd.AddCommand(actionCmd)
}
