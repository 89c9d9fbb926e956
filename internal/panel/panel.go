// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package panel holds the per-document aggregate that owns pipelines.
// All mutations of a panel's pipeline list are serialized, and at most one
// pipeline run may be in flight per panel.
package panel

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/transform-engine/pkg/types"
)

var (
	ErrPipelineNotFound  = errors.New("pipeline not found")
	ErrDuplicatePipeline = errors.New("pipeline already on panel")
	ErrForeignPipeline   = errors.New("pipeline belongs to another panel")
	ErrPanelBusy         = errors.New("panel already has a pipeline in flight")
)

// Panel is the aggregate root for one uploaded document.
type Panel struct {
	id       string
	document types.Document

	mu           sync.Mutex
	pipelines    []*types.TransformationPipeline
	quickActions []types.QuickAction
	lastError    string

	running sync.Mutex
}

// New creates an empty panel for doc offering every quick action.
func New(doc types.Document) *Panel {
	return &Panel{
		id:           uuid.NewString(),
		document:     doc,
		quickActions: types.AllQuickActions(),
	}
}

// Restore rebuilds a panel from persisted state. Pipelines keep their order.
func Restore(id string, doc types.Document, pipelines []*types.TransformationPipeline, lastError string) *Panel {
	p := &Panel{
		id:           id,
		document:     doc,
		quickActions: types.AllQuickActions(),
		lastError:    lastError,
	}
	for _, pl := range pipelines {
		pl.PanelID = id
		p.pipelines = append(p.pipelines, pl)
	}
	return p
}

func (p *Panel) ID() string { return p.id }

func (p *Panel) Document() types.Document { return p.document }

// QuickActions returns the actions offered on this panel.
func (p *Panel) QuickActions() []types.QuickAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.quickActions)
}

// AddPipeline appends pl and assigns it to this panel.
func (p *Panel) AddPipeline(pl *types.TransformationPipeline) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pl.PanelID != "" && pl.PanelID != p.id {
		return fmt.Errorf("%w: %s is owned by %s", ErrForeignPipeline, pl.ID, pl.PanelID)
	}
	if p.indexOf(pl.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePipeline, pl.ID)
	}
	pl.PanelID = p.id
	p.pipelines = append(p.pipelines, pl)
	return nil
}

// ReplacePipeline swaps the pipeline with id for pl, keeping its position.
func (p *Panel) ReplacePipeline(id string, pl *types.TransformationPipeline) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, id)
	}
	if pl.PanelID != "" && pl.PanelID != p.id {
		return fmt.Errorf("%w: %s is owned by %s", ErrForeignPipeline, pl.ID, pl.PanelID)
	}
	if pl.ID != id && p.indexOf(pl.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicatePipeline, pl.ID)
	}
	pl.PanelID = p.id
	p.pipelines[i] = pl
	return nil
}

// RemovePipeline deletes the pipeline with id.
func (p *Panel) RemovePipeline(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPipelineNotFound, id)
	}
	p.pipelines = slices.Delete(p.pipelines, i, i+1)
	return nil
}

// Pipelines returns snapshots of the panel's pipelines in insertion order.
func (p *Panel) Pipelines() []*types.TransformationPipeline {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*types.TransformationPipeline, len(p.pipelines))
	for i, pl := range p.pipelines {
		out[i] = pl.Clone()
	}
	return out
}

// Pipeline returns a snapshot of the pipeline with id.
func (p *Panel) Pipeline(id string) (*types.TransformationPipeline, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return p.pipelines[i].Clone(), true
}

// Live returns the panel's own pipeline with id, for callers that drive it.
func (p *Panel) Live(id string) (*types.TransformationPipeline, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return p.pipelines[i], true
}

// Contains reports whether a pipeline with id is on the panel.
func (p *Panel) Contains(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.indexOf(id) >= 0
}

// Mutate applies fn to pl while holding the panel lock, so readers never
// observe a half-applied change.
func (p *Panel) Mutate(pl *types.TransformationPipeline, fn func(*types.TransformationPipeline) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return fn(pl)
}

// Error returns the panel's current error message, empty when none.
func (p *Panel) Error() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}

// SetError records msg as the panel's current error.
func (p *Panel) SetError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastError = msg
}

// ClearError removes the panel's current error.
func (p *Panel) ClearError() {
	p.SetError("")
}

// TryBeginRun claims the panel for one pipeline run. The returned func
// releases the claim.
func (p *Panel) TryBeginRun() (func(), error) {
	if !p.running.TryLock() {
		return nil, fmt.Errorf("%w: %s", ErrPanelBusy, p.id)
	}
	return p.running.Unlock, nil
}

func (p *Panel) indexOf(id string) int {
	return slices.IndexFunc(p.pipelines, func(pl *types.TransformationPipeline) bool {
		return pl.ID == id
	})
}
