// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transform-engine/internal/ingest"
	"github.com/pdiddy/transform-engine/internal/panel"
	"github.com/pdiddy/transform-engine/internal/validation"
)

var panelCmd = &cobra.Command{
	Use:   "panel",
	Short: "Open, list, inspect and close document panels",
	Long: `A panel holds one document and every pipeline run against it. Open a
document to create its panel, then run actions and presets against the
panel ID.`,
}

// --- open subcommand ---

var panelOpenCmd = &cobra.Command{
	Use:   "open <file>",
	Short: "Ingest a document and create a panel for it",
	Long: `Open reads a document, converts it to text and records it as a new panel.
Text and Markdown files are read directly; PDF and Office documents are
converted by the markitdown container (requires docker or podman).`,
	Args: cobra.ExactArgs(1),
	RunE: runPanelOpen,
}

func runPanelOpen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if storeID, _ := cmd.Flags().GetString("store-id"); storeID != "" {
		cfg.Ingest.StoreID = storeID
	}

	ctx := context.Background()
	conv, err := converterFor(ctx, cfg.Ingest, args[0])
	if err != nil {
		return err
	}
	doc, err := ingest.Ingest(ctx, conv, args[0], cfg.Ingest)
	if err != nil {
		return err
	}
	if fileID, _ := cmd.Flags().GetString("file-id"); fileID != "" {
		doc.FileID = fileID
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	p := panel.New(doc)
	if err := s.SavePanel(ctx, p); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Opened %s (%s, %d chars)\n", doc.Title, doc.Language, len([]rune(doc.Text)))
	fmt.Println(p.ID())
	return nil
}

// --- list subcommand ---

var panelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored panels, most recently updated first",
	RunE:  runPanelList,
}

func runPanelList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	summaries, err := s.ListPanels(context.Background())
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No panels.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-36s  %-30s  %-4s  %-9s  %s\n", "Panel", "Title", "Lang", "Pipelines", "Updated")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, ps := range summaries {
		fmt.Fprintf(os.Stdout, "%-36s  %-30s  %-4s  %-9d  %s\n",
			ps.ID, truncate(ps.Title, 30), ps.Language, ps.Pipelines, ps.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// --- show subcommand ---

var panelShowCmd = &cobra.Command{
	Use:   "show <panel-id>",
	Short: "Show a panel's document and pipelines",
	Args:  cobra.ExactArgs(1),
	RunE:  runPanelShow,
}

func runPanelShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, p, err := loadPanel(context.Background(), cfg, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"id":         p.ID(),
			"document":   p.Document(),
			"last_error": p.Error(),
			"pipelines":  p.Pipelines(),
		})
	}

	doc := p.Document()
	fmt.Printf("Panel:    %s\n", p.ID())
	fmt.Printf("Document: %s (%s)\n", doc.Title, doc.Filename)
	fmt.Printf("Language: %s\n", doc.Language)
	fmt.Printf("File ID:  %s\n", doc.FileID)
	if msg := p.Error(); msg != "" {
		fmt.Printf("Error:    %s\n", msg)
	}
	fmt.Println()

	pipelines := p.Pipelines()
	if len(pipelines) == 0 {
		fmt.Println("No pipelines.")
		return nil
	}
	fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-8s  %-6s  %s\n", "Pipeline", "Name", "Status", "Stage", "Deployable")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, pl := range pipelines {
		deployable := "-"
		if pl.Output != nil {
			deployable = fmt.Sprintf("%t", validation.Deployable(pl.Output.ValidationResults))
		}
		fmt.Fprintf(os.Stdout, "%-36s  %-20s  %-8s  %d/%-4d  %s\n",
			pl.ID, truncate(pl.Name, 20), pl.Status(), pl.CurrentStageIndex+1, len(pl.Stages), deployable)
	}
	return nil
}

// --- close subcommand ---

var panelCloseCmd = &cobra.Command{
	Use:   "close <panel-id>",
	Short: "Delete a panel and everything run against it",
	Args:  cobra.ExactArgs(1),
	RunE:  runPanelClose,
}

func runPanelClose(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.DeletePanel(context.Background(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Closed panel %s\n", args[0])
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	panelOpenCmd.Flags().String("store-id", "", "query service store that indexes the document (default from config)")
	panelOpenCmd.Flags().String("file-id", "", "file identifier already assigned by the query service")
	panelShowCmd.Flags().Bool("json", false, "output as JSON")

	panelCmd.AddCommand(panelOpenCmd)
	panelCmd.AddCommand(panelListCmd)
	panelCmd.AddCommand(panelShowCmd)
	panelCmd.AddCommand(panelCloseCmd)
	rootCmd.AddCommand(panelCmd)
}
