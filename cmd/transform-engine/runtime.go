// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transform-engine/internal/container"
	"github.com/pdiddy/transform-engine/internal/glossary"
	"github.com/pdiddy/transform-engine/internal/ingest"
	"github.com/pdiddy/transform-engine/internal/orchestrator"
	"github.com/pdiddy/transform-engine/internal/panel"
	"github.com/pdiddy/transform-engine/internal/query"
	"github.com/pdiddy/transform-engine/internal/secrets"
	"github.com/pdiddy/transform-engine/internal/store"
	"github.com/pdiddy/transform-engine/internal/validation"
	"github.com/pdiddy/transform-engine/pkg/types"
)

// addRunFlags registers the flags shared by every command that executes
// transformations.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().String("glossary", "", "glossary YAML file with locked terminology")
	cmd.Flags().String("rubric", "", "validation rubric YAML file (default from config)")
	cmd.Flags().String("redaction", string(types.RedactionPending), "privacy redaction status to report: complete, partial, pending, notRequired")
}

// newValidator builds the validation engine from --rubric, falling back to
// the validation section of the configuration.
func newValidator(cmd *cobra.Command, cfg types.Config) (*validation.Engine, error) {
	rubricPath, _ := cmd.Flags().GetString("rubric")
	if rubricPath == "" {
		return validation.NewEngine(cfg.Validation), nil
	}
	rubric, err := validation.LoadRubric(rubricPath)
	if err != nil {
		return nil, err
	}
	e := validation.NewEngine(rubric)
	rc := e.Config()
	fmt.Fprintf(os.Stderr, "Rubric %s: %d prohibited terms, length ratio %.2f-%.2f, %d citations for full coverage\n",
		rubricPath, len(rc.ProhibitedTerms), rc.MinLengthRatio, rc.MaxLengthRatio, rc.CitationTarget)
	return e, nil
}

// loadGlossary reads the --glossary file, if any.
func loadGlossary(cmd *cobra.Command) ([]types.GlossaryEntry, error) {
	path, _ := cmd.Flags().GetString("glossary")
	entries, err := glossary.Load(path)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		fmt.Fprintf(os.Stderr, "Glossary %s: %d entries, %d locked\n", path, len(entries), len(glossary.Locked(entries)))
	}
	return entries, nil
}

// explain adds a next step to query failures the user can act on.
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case query.IsConfiguration(err):
		return fmt.Errorf("%w (set query.base_url and query.store_id in the config and the key in .secrets/%s)", err, secrets.KeyQueryAPI)
	case query.IsTransient(err):
		return fmt.Errorf("%w (transient; run the command again to retry)", err)
	}
	return err
}

// newOrchestrator wires the query service, validator, glossary and progress
// reporting into an orchestrator.
func newOrchestrator(cmd *cobra.Command, cfg types.Config, progress io.Writer) (*orchestrator.Orchestrator, error) {
	validator, err := newValidator(cmd, cfg)
	if err != nil {
		return nil, err
	}

	entries, err := loadGlossary(cmd)
	if err != nil {
		return nil, err
	}

	redaction, _ := cmd.Flags().GetString("redaction")

	return orchestrator.New(orchestrator.Runtime{
		Service:   query.NewHTTPService(cfg.Query),
		Validator: validator,
		Glossary:  entries,
		Redaction: types.RedactionStatus(redaction),
		Observer:  progressObserver(progress),
		Logger:    newLogger(cmd),
		Config:    cfg.Orchestrator,
	})
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// progressObserver prints one line per stage transition.
func progressObserver(w io.Writer) orchestrator.Observer {
	return orchestrator.ObserverFunc(func(e orchestrator.Event) {
		switch e.Kind {
		case orchestrator.EventPipelineStarted:
			fmt.Fprintf(w, "Running pipeline %s (%d stages)\n", e.PipelineID, len(e.Snapshot.Stages))
		case orchestrator.EventStageStarted:
			fmt.Fprintf(w, "  [%d] %s ...\n", e.StageIndex+1, e.Stage)
		case orchestrator.EventStageCompleted:
			fmt.Fprintf(w, "  [%d] %s done\n", e.StageIndex+1, e.Stage)
		case orchestrator.EventStageFailed, orchestrator.EventActionFailed:
			fmt.Fprintf(w, "  [%d] %s failed: %v\n", e.StageIndex+1, e.Stage, e.Err)
		}
	})
}

// openStore opens the run ledger in the configured data directory.
func openStore(cfg types.Config) (*store.Store, error) {
	return store.Open(cfg.Store)
}

// loadPanel opens the store and loads panel id from it. The caller closes
// the store.
func loadPanel(ctx context.Context, cfg types.Config, id string) (*store.Store, *panel.Panel, error) {
	s, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.LoadPanel(ctx, id)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, p, nil
}

// converterFor picks the converter for path. Text formats need none; other
// formats go through markitdown when a container runtime is available.
func converterFor(ctx context.Context, cfg types.IngestConfig, path string) (ingest.Converter, error) {
	if ingest.IsText(path) || cfg.Converter != "markitdown" {
		return nil, nil
	}

	rt, err := container.Detect(ctx)
	if err != nil {
		return nil, err
	}
	return ingest.NewMarkitdownConverter(ctx, rt)
}
