// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/transform-engine/internal/panel"
	"github.com/pdiddy/transform-engine/pkg/types"
)

// Job pairs a pipeline with the panel it runs on.
type Job struct {
	Panel    *panel.Panel
	Pipeline *types.TransformationPipeline
}

// JobResult is the outcome of one job, in the same position as its job.
type JobResult struct {
	PanelID    string
	PipelineID string
	Err        error
}

// RunConcurrent runs jobs with at most limit panels in flight. Jobs for the
// same panel run one after another in submission order. A failing job does
// not cancel the others. A limit of zero uses the configured concurrency.
func (o *Orchestrator) RunConcurrent(ctx context.Context, jobs []Job, limit int) []JobResult {
	if limit <= 0 {
		limit = o.rt.Config.Concurrency
	}

	var order []*panel.Panel
	byPanel := make(map[*panel.Panel][]int)
	for i, j := range jobs {
		if _, ok := byPanel[j.Panel]; !ok {
			order = append(order, j.Panel)
		}
		byPanel[j.Panel] = append(byPanel[j.Panel], i)
	}

	results := make([]JobResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(limit)

	for _, p := range order {
		p := p
		g.Go(func() error {
			for _, i := range byPanel[p] {
				pl := jobs[i].Pipeline
				results[i] = JobResult{
					PanelID:    p.ID(),
					PipelineID: pl.ID,
					Err:        o.RunPipeline(ctx, pl, p),
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	o.rt.Logger.InfoContext(ctx, "batch finished", "jobs", len(jobs), "panels", len(order), "failed", countFailed(results))
	return results
}

func countFailed(results []JobResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
