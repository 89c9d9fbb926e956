// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transform-engine/internal/store"
	"github.com/pdiddy/transform-engine/pkg/types"
)

var outputsCmd = &cobra.Command{
	Use:   "outputs",
	Short: "Search and export stored outputs",
}

// --- search subcommand ---

var outputsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over stored outputs",
	Long: `Search matches output content with SQLite full-text search and narrows
the results with --action, --panel and --deployable. Newest outputs first.`,
	RunE: runOutputsSearch,
}

func runOutputsSearch(cmd *cobra.Command, args []string) error {
	q, err := outputQueryFromFlags(cmd, args)
	if err != nil {
		return err
	}
	if q.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query, --action, --panel, or --deployable")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	results, err := s.SearchOutputs(context.Background(), q)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-16s  %-50s  %-20s  %s\n", "Rank", "Action", "Content", "Pipeline", "Deployable")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))
	for i, r := range results {
		content := strings.ReplaceAll(r.Content, "\n", " ")
		fmt.Fprintf(os.Stdout, "%-4d  %-16s  %-50s  %-20s  %t\n",
			i+1, r.Action, truncate(content, 50), truncate(r.PipelineName, 20), r.Deployable)
	}
	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
	return nil
}

func outputQueryFromFlags(cmd *cobra.Command, args []string) (store.OutputQuery, error) {
	var q store.OutputQuery
	if len(args) > 0 {
		q.Query = strings.Join(args, " ")
	}
	if a, _ := cmd.Flags().GetString("action"); a != "" {
		action, err := types.ParseQuickAction(a)
		if err != nil {
			return q, err
		}
		q.Action = action
	}
	q.PanelID, _ = cmd.Flags().GetString("panel")
	q.DeployableOnly, _ = cmd.Flags().GetBool("deployable")
	q.MaxResults, _ = cmd.Flags().GetInt("limit")
	return q, nil
}

// --- export subcommand ---

var outputsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export panels and their pipelines to YAML or JSON",
	Long: `Export writes every stored panel, or only --panel, with its document and
pipelines to <data-dir>/export.yaml or export.json.`,
	RunE: runOutputsExport,
}

func runOutputsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	panelID, _ := cmd.Flags().GetString("panel")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()
	var path string
	switch format {
	case "yaml":
		path, err = s.ExportYAML(ctx, panelID)
	case "json":
		path, err = s.ExportJSON(ctx, panelID)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Exported to %s\n", path)
	return nil
}

func init() {
	outputsSearchCmd.Flags().String("action", "", "filter by quick action")
	outputsSearchCmd.Flags().String("panel", "", "filter by panel ID")
	outputsSearchCmd.Flags().Bool("deployable", false, "only outputs that passed validation")
	outputsSearchCmd.Flags().Int("limit", 0, "maximum results (default from config)")
	outputsSearchCmd.Flags().Bool("json", false, "output as JSON")

	outputsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	outputsExportCmd.Flags().String("panel", "", "export a single panel")

	outputsCmd.AddCommand(outputsSearchCmd)
	outputsCmd.AddCommand(outputsExportCmd)
	rootCmd.AddCommand(outputsCmd)
}
