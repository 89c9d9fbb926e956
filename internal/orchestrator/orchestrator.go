// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrator executes quick actions and pipelines against a panel.
// Stages run strictly in order; a failed stage stops the pipeline and leaves
// later stages pending so a later run can resume from it.
package orchestrator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/transform-engine/internal/actions"
	"github.com/pdiddy/transform-engine/internal/panel"
	"github.com/pdiddy/transform-engine/internal/validation"
	"github.com/pdiddy/transform-engine/pkg/types"
)

// Orchestrator drives transformations for any number of panels.
type Orchestrator struct {
	rt Runtime
}

// New returns an orchestrator over rt. Missing optional dependencies get
// defaults; a query service is required.
func New(rt Runtime) (*Orchestrator, error) {
	if rt.Service == nil {
		return nil, ErrNoService
	}
	return &Orchestrator{rt: rt.withDefaults()}, nil
}

// RunSingleAction executes one quick action against the panel's document.
// On success the result is appended to the panel as a completed one-stage
// pipeline and returned. On failure the panel error is set and the pipeline
// list is left untouched.
func (o *Orchestrator) RunSingleAction(ctx context.Context, action types.QuickAction, p *panel.Panel, params map[string]string) (*types.TransformationOutput, error) {
	release, err := p.TryBeginRun()
	if err != nil {
		return nil, err
	}
	defer release()

	log := o.rt.Logger.With("panel_id", p.ID(), "action", string(action))
	log.InfoContext(ctx, "action started")

	out, err := o.execute(ctx, action, p.Document(), params, "")
	if err != nil {
		p.SetError(err.Error())
		log.WarnContext(ctx, "action failed", "error", err)
		o.publish(Event{Kind: EventActionFailed, PanelID: p.ID(), Stage: action, Err: err})
		return nil, err
	}

	stage := types.NewStage(action, params)
	if err := stage.Start(); err != nil {
		return nil, err
	}
	if err := stage.Complete(out.Content); err != nil {
		return nil, err
	}
	pl := types.NewPipeline(string(action), []types.TransformationStage{stage}, nil)
	pl.SetOutput(out)

	if err := p.AddPipeline(pl); err != nil {
		return nil, err
	}
	p.ClearError()

	snap, _ := p.Pipeline(pl.ID)
	log.InfoContext(ctx, "action completed", "pipeline_id", pl.ID, "citations", out.CountAssets(types.AssetQuote))
	o.publish(Event{Kind: EventActionCompleted, PanelID: p.ID(), PipelineID: pl.ID, Stage: action, Snapshot: snap})

	return out.Clone(), nil
}

// RunPipeline executes pl's stages in order on p, attaching pl to p first
// when it is not already there. The run starts at the pipeline's current
// stage: a stage left in error by an earlier run is retried and completed
// stages are skipped. The first failure stops the run with ErrStageFailed.
func (o *Orchestrator) RunPipeline(ctx context.Context, pl *types.TransformationPipeline, p *panel.Panel) error {
	if len(pl.Stages) == 0 {
		return ErrEmptyPipeline
	}

	release, err := p.TryBeginRun()
	if err != nil {
		return err
	}
	defer release()

	if err := attach(p, pl); err != nil {
		return err
	}

	log := o.rt.Logger.With("panel_id", p.ID(), "pipeline_id", pl.ID)
	doc := p.Document()

	var start int
	var previous string
	err = p.Mutate(pl, func(pl *types.TransformationPipeline) error {
		start = pl.CurrentStageIndex
		pl.Error = ""
		for i := start; i < len(pl.Stages); i++ {
			if pl.Stages[i].Status == types.StageError {
				if err := pl.Stages[i].Retry(); err != nil {
					return err
				}
			}
		}
		if start > 0 {
			previous = pl.Stages[start-1].Output
		}
		return nil
	})
	if err != nil {
		return err
	}
	p.ClearError()

	log.InfoContext(ctx, "pipeline started", "name", pl.Name, "stages", len(pl.Stages), "start", start)
	o.publish(Event{Kind: EventPipelineStarted, PanelID: p.ID(), PipelineID: pl.ID, StageIndex: start, Snapshot: o.snapshot(p, pl)})

	last := len(pl.Stages) - 1
	for i := start; i <= last; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			action  types.QuickAction
			params  map[string]string
			skipped bool
			snap    *types.TransformationPipeline
		)
		err := p.Mutate(pl, func(pl *types.TransformationPipeline) error {
			if err := pl.Advance(i); err != nil {
				return err
			}
			st := &pl.Stages[i]
			if st.Status == types.StageCompleted {
				skipped = true
				previous = st.Output
				return nil
			}
			if err := st.Start(); err != nil {
				return err
			}
			action, params = st.Type, st.Parameters
			snap = pl.Clone()
			return nil
		})
		if err != nil {
			return err
		}
		if skipped {
			log.DebugContext(ctx, "stage already completed", "stage", i)
			continue
		}

		stageLog := log.With("stage", i, "action", string(action))
		stageLog.InfoContext(ctx, "stage started")
		o.publish(Event{Kind: EventStageStarted, PanelID: p.ID(), PipelineID: pl.ID, StageIndex: i, Stage: action, Snapshot: snap})

		out, runErr := o.execute(ctx, action, doc, params, previous)
		if runErr != nil {
			msg := runErr.Error()
			err := p.Mutate(pl, func(pl *types.TransformationPipeline) error {
				pl.Error = msg
				return pl.Stages[i].Fail(msg)
			})
			if err != nil {
				return err
			}
			p.SetError(msg)

			stageLog.WarnContext(ctx, "stage failed", "error", runErr)
			o.publish(Event{Kind: EventStageFailed, PanelID: p.ID(), PipelineID: pl.ID, StageIndex: i, Stage: action, Err: runErr, Snapshot: o.snapshot(p, pl)})
			return fmt.Errorf("%w: stage %d (%s): %w", ErrStageFailed, i, action, runErr)
		}

		err = p.Mutate(pl, func(pl *types.TransformationPipeline) error {
			if err := pl.Stages[i].Complete(out.Content); err != nil {
				return err
			}
			pl.SetOutput(out)
			return nil
		})
		if err != nil {
			return err
		}
		previous = out.Content

		stageLog.InfoContext(ctx, "stage completed", "deployable", validation.Deployable(out.ValidationResults))
		o.publish(Event{Kind: EventStageCompleted, PanelID: p.ID(), PipelineID: pl.ID, StageIndex: i, Stage: action, Snapshot: o.snapshot(p, pl)})

		if i < last {
			if err := o.settle(ctx); err != nil {
				return err
			}
		}
	}

	log.InfoContext(ctx, "pipeline completed")
	o.publish(Event{Kind: EventPipelineCompleted, PanelID: p.ID(), PipelineID: pl.ID, StageIndex: last, Snapshot: o.snapshot(p, pl)})
	return nil
}

// attach makes pl the panel's live copy of its pipeline.
func attach(p *panel.Panel, pl *types.TransformationPipeline) error {
	live, ok := p.Live(pl.ID)
	switch {
	case !ok:
		return p.AddPipeline(pl)
	case live != pl:
		return p.ReplacePipeline(pl.ID, pl)
	}
	return nil
}

// execute builds the prompt, queries the service and wraps the answer.
func (o *Orchestrator) execute(ctx context.Context, action types.QuickAction, doc types.Document, params map[string]string, previous string) (*types.TransformationOutput, error) {
	prompt, err := o.rt.Catalog.Build(action, actions.PromptInput{
		Document:   doc,
		Parameters: params,
		Previous:   previous,
	})
	if err != nil {
		return nil, fmt.Errorf("building %s prompt: %w", action, err)
	}

	var fileIDs []string
	if doc.FileID != "" {
		fileIDs = []string{doc.FileID}
	}

	ans, err := o.rt.Service.Query(ctx, prompt, fileIDs, doc.StoreID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrQueryFailed, action, err)
	}

	out := &types.TransformationOutput{
		Content:     ans.Text,
		Format:      action.DefaultFormat(),
		Assets:      make([]types.ExtractedAsset, 0, len(ans.Citations)),
		GeneratedAt: time.Now().UTC(),
		Metadata: map[string]string{
			"action":         string(action),
			"document_id":    doc.ID,
			"language":       actions.TargetLanguage(action, doc, params),
			"citation_count": strconv.Itoa(len(ans.Citations)),
		},
	}
	for k, v := range params {
		out.Metadata["param."+k] = v
	}
	for _, c := range ans.Citations {
		out.Assets = append(out.Assets, types.ExtractedAsset{
			ID:         uuid.NewString(),
			Type:       types.AssetQuote,
			Content:    c.Excerpt,
			Source:     c.Source,
			PageNumber: c.PageNumber,
		})
	}

	out.ValidationResults = o.rt.Validator.Validate(validation.Input{
		Output:    out,
		Source:    doc.Text,
		Glossary:  o.rt.Glossary,
		Redaction: o.rt.Redaction,
	})
	return out, nil
}

func (o *Orchestrator) settle(ctx context.Context) error {
	t := time.NewTimer(o.rt.Config.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (o *Orchestrator) snapshot(p *panel.Panel, pl *types.TransformationPipeline) *types.TransformationPipeline {
	var snap *types.TransformationPipeline
	_ = p.Mutate(pl, func(pl *types.TransformationPipeline) error {
		snap = pl.Clone()
		return nil
	})
	return snap
}

func (o *Orchestrator) publish(e Event) {
	e.At = time.Now().UTC()
	o.rt.Observer.Publish(e)
}
