// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transform-engine/internal/validation"
	"github.com/pdiddy/transform-engine/pkg/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <panel-id> <file>",
	Short: "Score a text file against a panel's document with the TTLINC rubric",
	Long: `Validate reads a hand-written or externally edited output and scores it
against the panel's source document: prohibited terms, locked glossary
terms, length ratio, citation coverage, tone and localization. Exits
non-zero when the output is not deployable.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[1], err)
	}
	quotes, _ := cmd.Flags().GetInt("quotes")
	redaction, _ := cmd.Flags().GetString("redaction")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	s, p, err := loadPanel(context.Background(), cfg, args[0])
	if err != nil {
		return err
	}
	defer s.Close()

	validator, err := newValidator(cmd, cfg)
	if err != nil {
		return err
	}
	entries, err := loadGlossary(cmd)
	if err != nil {
		return err
	}

	out := &types.TransformationOutput{
		Content:     string(content),
		Format:      types.FormatText,
		GeneratedAt: time.Now().UTC(),
	}
	for i := 0; i < quotes; i++ {
		out.Assets = append(out.Assets, types.ExtractedAsset{Type: types.AssetQuote})
	}

	results := validator.Validate(validation.Input{
		Output:    out,
		Source:    p.Document().Text,
		Glossary:  entries,
		Redaction: types.RedactionStatus(redaction),
	})

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		printValidation(results)
	}

	if !validation.Deployable(results) {
		return fmt.Errorf("output is not deployable")
	}
	return nil
}

func init() {
	validateCmd.Flags().Int("quotes", 0, "number of cited quotes backing the output")
	validateCmd.Flags().Bool("json", false, "output results as JSON")
	addRunFlags(validateCmd)

	rootCmd.AddCommand(validateCmd)
}
