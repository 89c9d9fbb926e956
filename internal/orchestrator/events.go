// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orchestrator

import (
	"time"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// EventKind identifies what happened during a run.
type EventKind string

const (
	EventActionCompleted   EventKind = "action_completed"
	EventActionFailed      EventKind = "action_failed"
	EventPipelineStarted   EventKind = "pipeline_started"
	EventStageStarted      EventKind = "stage_started"
	EventStageCompleted    EventKind = "stage_completed"
	EventStageFailed       EventKind = "stage_failed"
	EventPipelineCompleted EventKind = "pipeline_completed"
)

// Event reports progress of a single action or pipeline run. Snapshot is a
// deep copy taken when the event was raised and is safe to keep.
type Event struct {
	Kind       EventKind
	PanelID    string
	PipelineID string
	StageIndex int
	Stage      types.QuickAction
	Err        error
	Snapshot   *types.TransformationPipeline
	At         time.Time
}

// Observer receives events. Publish is called on the running goroutine and
// must not block for long.
type Observer interface {
	Publish(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) Publish(e Event) { f(e) }

// NopObserver discards every event.
type NopObserver struct{}

func (NopObserver) Publish(Event) {}

// ChannelObserver forwards events to a channel. When the channel is full the
// event is dropped.
type ChannelObserver chan Event

func (c ChannelObserver) Publish(e Event) {
	select {
	case c <- e:
	default:
	}
}
