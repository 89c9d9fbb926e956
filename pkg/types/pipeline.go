// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrInvalidTransition is returned when a stage status change is not allowed
	// from the stage's current status.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrNotEditable is returned when a user edit targets a stage that is not
	// editable or has no output yet.
	ErrNotEditable = errors.New("stage is not editable")

	// ErrStageIndex is returned when the current stage index would move out of
	// range or backwards.
	ErrStageIndex = errors.New("invalid stage index")
)

// StageStatus tracks a stage through execution.
type StageStatus string

const (
	StagePending    StageStatus = "pending"
	StageProcessing StageStatus = "processing"
	StageCompleted  StageStatus = "completed"
	StageError      StageStatus = "error"
)

// Terminal reports whether no further transition is allowed within a run.
func (s StageStatus) Terminal() bool {
	return s == StageCompleted || s == StageError
}

// PipelinePreset names a business scenario that expands into a fixed stage list.
type PipelinePreset string

// TransformationStage is one atomic step of a pipeline, bound to a single
// quick action.
type TransformationStage struct {
	ID         string            `json:"id" yaml:"id"`
	Type       QuickAction       `json:"type" yaml:"type"`
	Parameters map[string]string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Output     string            `json:"output,omitempty" yaml:"output,omitempty"`
	IsEditable bool              `json:"is_editable" yaml:"is_editable"`
	Status     StageStatus       `json:"status" yaml:"status"`

	// Error holds the failure reason when Status is StageError.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewStage returns a pending stage for action. The parameter map is copied.
func NewStage(action QuickAction, params map[string]string) TransformationStage {
	return TransformationStage{
		ID:         uuid.NewString(),
		Type:       action,
		Parameters: maps.Clone(params),
		IsEditable: true,
		Status:     StagePending,
	}
}

// Start moves the stage from pending to processing.
func (s *TransformationStage) Start() error {
	if s.Status != StagePending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StageProcessing)
	}
	s.Status = StageProcessing
	return nil
}

// Complete records the stage output and moves it to completed.
func (s *TransformationStage) Complete(output string) error {
	if s.Status != StageProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StageCompleted)
	}
	s.Output = output
	s.Error = ""
	s.Status = StageCompleted
	return nil
}

// Fail records the failure reason and moves the stage to error.
func (s *TransformationStage) Fail(reason string) error {
	if s.Status != StageProcessing {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StageError)
	}
	s.Error = reason
	s.Status = StageError
	return nil
}

// Retry returns a failed stage to pending so a new run can attempt it again.
// It is the only way out of the error status.
func (s *TransformationStage) Retry() error {
	if s.Status != StageError {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, StagePending)
	}
	s.Error = ""
	s.Status = StagePending
	return nil
}

// Edit replaces the output of a completed stage with user-supplied text.
func (s *TransformationStage) Edit(output string) error {
	if !s.IsEditable || s.Status != StageCompleted {
		return fmt.Errorf("%w: stage %s is %s", ErrNotEditable, s.ID, s.Status)
	}
	s.Output = output
	return nil
}

func (s TransformationStage) clone() TransformationStage {
	s.Parameters = maps.Clone(s.Parameters)
	return s
}

// PipelineStatus is a derived summary of a pipeline's progress.
type PipelineStatus string

const (
	PipelinePending  PipelineStatus = "pending"
	PipelineRunning  PipelineStatus = "running"
	PipelineFailed   PipelineStatus = "failed"
	PipelineComplete PipelineStatus = "complete"
)

// TransformationPipeline is an ordered sequence of stages producing one
// final output.
type TransformationPipeline struct {
	ID                string                `json:"id" yaml:"id"`
	PanelID           string                `json:"panel_id,omitempty" yaml:"panel_id,omitempty"`
	Name              string                `json:"name" yaml:"name"`
	Stages            []TransformationStage `json:"stages" yaml:"stages"`
	CurrentStageIndex int                   `json:"current_stage_index" yaml:"current_stage_index"`
	Output            *TransformationOutput `json:"output,omitempty" yaml:"output,omitempty"`
	Preset            *PipelinePreset       `json:"preset,omitempty" yaml:"preset,omitempty"`

	// Error is the failure reason of the most recent run, if it failed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NewPipeline creates a pipeline over stages. preset may be nil for
// ad hoc pipelines.
func NewPipeline(name string, stages []TransformationStage, preset *PipelinePreset) *TransformationPipeline {
	now := time.Now().UTC()
	p := &TransformationPipeline{
		ID:        uuid.NewString(),
		Name:      name,
		Stages:    stages,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if preset != nil {
		v := *preset
		p.Preset = &v
	}
	return p
}

// Advance moves the current stage index to i. The index never decreases and
// never leaves the stage range.
func (p *TransformationPipeline) Advance(i int) error {
	if i < 0 || i >= len(p.Stages) {
		return fmt.Errorf("%w: %d outside [0,%d)", ErrStageIndex, i, len(p.Stages))
	}
	if i < p.CurrentStageIndex {
		return fmt.Errorf("%w: %d before current %d", ErrStageIndex, i, p.CurrentStageIndex)
	}
	p.CurrentStageIndex = i
	p.touch()
	return nil
}

// SetOutput replaces the pipeline output wholesale.
func (p *TransformationPipeline) SetOutput(out *TransformationOutput) {
	p.Output = out
	p.touch()
}

// IsComplete reports whether the last stage has completed and an output has
// been recorded. A pipeline without stages is never complete.
func (p *TransformationPipeline) IsComplete() bool {
	n := len(p.Stages)
	if n == 0 || p.Output == nil {
		return false
	}
	return p.CurrentStageIndex == n-1 && p.Stages[n-1].Status == StageCompleted
}

// Status summarizes the pipeline for display.
func (p *TransformationPipeline) Status() PipelineStatus {
	if p.IsComplete() {
		return PipelineComplete
	}
	for _, s := range p.Stages {
		switch s.Status {
		case StageError:
			return PipelineFailed
		case StageProcessing:
			return PipelineRunning
		}
	}
	for _, s := range p.Stages {
		if s.Status == StageCompleted {
			return PipelineRunning
		}
	}
	return PipelinePending
}

// Current returns the stage at the current index, or nil for an empty pipeline.
func (p *TransformationPipeline) Current() *TransformationStage {
	if p.CurrentStageIndex < 0 || p.CurrentStageIndex >= len(p.Stages) {
		return nil
	}
	return &p.Stages[p.CurrentStageIndex]
}

// Clone returns a deep copy of the pipeline.
func (p *TransformationPipeline) Clone() *TransformationPipeline {
	c := *p
	c.Stages = make([]TransformationStage, len(p.Stages))
	for i, s := range p.Stages {
		c.Stages[i] = s.clone()
	}
	if p.Output != nil {
		c.Output = p.Output.Clone()
	}
	if p.Preset != nil {
		v := *p.Preset
		c.Preset = &v
	}
	return &c
}

func (p *TransformationPipeline) touch() {
	p.UpdatedAt = time.Now().UTC()
}
