// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transform-engine/internal/orchestrator"
	"github.com/pdiddy/transform-engine/internal/query"
	"github.com/pdiddy/transform-engine/pkg/types"
)

func TestFormatParams(t *testing.T) {
	assert.Empty(t, formatParams(nil))
	assert.Equal(t, " (audience=executive, maxLength=1000)",
		formatParams(map[string]string{"maxLength": "1000", "audience": "executive"}))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "مرحبا ب...", truncate("مرحبا بكم في الخدمة", 10))
}

func TestOutputQueryFromFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "search"}
	cmd.Flags().String("action", "", "")
	cmd.Flags().String("panel", "", "")
	cmd.Flags().Bool("deployable", false, "")
	cmd.Flags().Int("limit", 0, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--action", "summarize", "--deployable", "--limit", "5"}))

	q, err := outputQueryFromFlags(cmd, []string{"water", "tariff"})
	require.NoError(t, err)
	assert.Equal(t, "water tariff", q.Query)
	assert.Equal(t, types.ActionSummarize, q.Action)
	assert.True(t, q.DeployableOnly)
	assert.Equal(t, 5, q.MaxResults)

	require.NoError(t, cmd.Flags().Set("action", "dance"))
	_, err = outputQueryFromFlags(cmd, nil)
	require.ErrorIs(t, err, types.ErrUnknownAction)
}

func TestProgressObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := progressObserver(&buf)

	pl := types.NewPipeline("brief", []types.TransformationStage{
		types.NewStage(types.ActionSummarize, nil),
		types.NewStage(types.ActionTranslate, nil),
	}, nil)

	obs.Publish(orchestrator.Event{Kind: orchestrator.EventPipelineStarted, PipelineID: pl.ID, Snapshot: pl})
	obs.Publish(orchestrator.Event{Kind: orchestrator.EventStageStarted, StageIndex: 0, Stage: types.ActionSummarize})
	obs.Publish(orchestrator.Event{Kind: orchestrator.EventStageCompleted, StageIndex: 0, Stage: types.ActionSummarize})
	obs.Publish(orchestrator.Event{Kind: orchestrator.EventStageFailed, StageIndex: 1, Stage: types.ActionTranslate, Err: errors.New("timeout")})
	obs.Publish(orchestrator.Event{Kind: orchestrator.EventPipelineCompleted})

	assert.Equal(t, "Running pipeline "+pl.ID+" (2 stages)\n"+
		"  [1] summarize ...\n"+
		"  [1] summarize done\n"+
		"  [2] translate failed: timeout\n", buf.String())
}

func TestExplain(t *testing.T) {
	assert.NoError(t, explain(nil))

	cfgErr := explain(fmt.Errorf("%w: %w", orchestrator.ErrQueryFailed, query.ErrNotConfigured))
	require.ErrorIs(t, cfgErr, query.ErrNotConfigured)
	assert.Contains(t, cfgErr.Error(), ".secrets/query-api-key")

	rateErr := explain(query.ErrRateLimited)
	require.ErrorIs(t, rateErr, query.ErrRateLimited)
	assert.Contains(t, rateErr.Error(), "transient")

	other := errors.New("boom")
	assert.Equal(t, other, explain(other))
}
