// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transform-engine/pkg/types"
)

func newPipeline(name string) *types.TransformationPipeline {
	return types.NewPipeline(name, []types.TransformationStage{types.NewStage(types.ActionSummarize, nil)}, nil)
}

func names(pls []*types.TransformationPipeline) []string {
	var out []string
	for _, pl := range pls {
		out = append(out, pl.Name)
	}
	return out
}

func TestAddPipelineAppends(t *testing.T) {
	p := New(types.Document{ID: "doc"})
	a, b := newPipeline("a"), newPipeline("b")

	require.NoError(t, p.AddPipeline(a))
	require.NoError(t, p.AddPipeline(b))

	assert.Equal(t, []string{"a", "b"}, names(p.Pipelines()))
	assert.Equal(t, p.ID(), a.PanelID)
	require.ErrorIs(t, p.AddPipeline(a), ErrDuplicatePipeline)
}

func TestPipelineBelongsToOnePanel(t *testing.T) {
	first := New(types.Document{ID: "one"})
	second := New(types.Document{ID: "two"})
	pl := newPipeline("shared")

	require.NoError(t, first.AddPipeline(pl))
	require.ErrorIs(t, second.AddPipeline(pl), ErrForeignPipeline)
	assert.Empty(t, second.Pipelines())
}

func TestReplacePipelineKeepsPosition(t *testing.T) {
	p := New(types.Document{ID: "doc"})
	a, b, c := newPipeline("a"), newPipeline("b"), newPipeline("c")
	require.NoError(t, p.AddPipeline(a))
	require.NoError(t, p.AddPipeline(b))
	require.NoError(t, p.AddPipeline(c))

	replacement := newPipeline("b2")
	require.NoError(t, p.ReplacePipeline(b.ID, replacement))
	assert.Equal(t, []string{"a", "b2", "c"}, names(p.Pipelines()))

	require.ErrorIs(t, p.ReplacePipeline("missing", newPipeline("x")), ErrPipelineNotFound)
	require.ErrorIs(t, p.ReplacePipeline(a.ID, c), ErrDuplicatePipeline)
}

func TestRemovePipeline(t *testing.T) {
	p := New(types.Document{ID: "doc"})
	a, b := newPipeline("a"), newPipeline("b")
	require.NoError(t, p.AddPipeline(a))
	require.NoError(t, p.AddPipeline(b))

	require.NoError(t, p.RemovePipeline(a.ID))
	assert.Equal(t, []string{"b"}, names(p.Pipelines()))
	require.ErrorIs(t, p.RemovePipeline(a.ID), ErrPipelineNotFound)
}

func TestPipelinesAreSnapshots(t *testing.T) {
	p := New(types.Document{ID: "doc"})
	pl := newPipeline("a")
	require.NoError(t, p.AddPipeline(pl))

	snap := p.Pipelines()[0]
	snap.Name = "changed"
	snap.Stages[0].Status = types.StageError

	got, ok := p.Pipeline(pl.ID)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, types.StagePending, got.Stages[0].Status)

	live, ok := p.Live(pl.ID)
	require.True(t, ok)
	assert.Same(t, pl, live)
}

func TestTryBeginRunIsExclusive(t *testing.T) {
	p := New(types.Document{ID: "doc"})

	release, err := p.TryBeginRun()
	require.NoError(t, err)

	_, err = p.TryBeginRun()
	require.ErrorIs(t, err, ErrPanelBusy)

	release()
	release2, err := p.TryBeginRun()
	require.NoError(t, err)
	release2()
}

func TestPanelError(t *testing.T) {
	p := New(types.Document{ID: "doc"})
	assert.Empty(t, p.Error())
	p.SetError("query failed")
	assert.Equal(t, "query failed", p.Error())
	p.ClearError()
	assert.Empty(t, p.Error())
}

func TestRestoreKeepsOrderAndOwnership(t *testing.T) {
	a, b := newPipeline("a"), newPipeline("b")
	p := Restore("panel-1", types.Document{ID: "doc"}, []*types.TransformationPipeline{a, b}, "old error")

	assert.Equal(t, "panel-1", p.ID())
	assert.Equal(t, []string{"a", "b"}, names(p.Pipelines()))
	assert.Equal(t, "panel-1", b.PanelID)
	assert.Equal(t, "old error", p.Error())
	assert.Len(t, p.QuickActions(), 8)
}

func TestWorkspaceOnePanelPerDocument(t *testing.T) {
	w := NewWorkspace()
	doc := types.Document{ID: "doc-1"}

	p, err := w.Open(doc)
	require.NoError(t, err)

	_, err = w.Open(doc)
	require.ErrorIs(t, err, ErrDocumentOpen)

	got, ok := w.Panel("doc-1")
	require.True(t, ok)
	assert.Same(t, p, got)

	_, err = w.Open(types.Document{ID: "doc-2"})
	require.NoError(t, err)
	assert.Len(t, w.Panels(), 2)

	require.NoError(t, w.Close("doc-1"))
	require.ErrorIs(t, w.Close("doc-1"), ErrDocumentNotOpen)
	_, ok = w.Panel("doc-1")
	assert.False(t, ok)
	assert.Len(t, w.Panels(), 1)
}
