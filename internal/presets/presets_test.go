// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package presets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transform-engine/pkg/types"
)

func TestWhatsappBriefExpansion(t *testing.T) {
	stages, err := Expand(WhatsappBrief)
	require.NoError(t, err)
	require.Len(t, stages, 3)

	assert.Equal(t, types.ActionSummarize, stages[0].Type)
	assert.Equal(t, map[string]string{"maxLength": "500"}, stages[0].Parameters)
	assert.Equal(t, types.ActionTranslate, stages[1].Type)
	assert.Equal(t, map[string]string{"targetLanguage": "ar"}, stages[1].Parameters)
	assert.Equal(t, types.ActionSocialPost, stages[2].Type)
	assert.Equal(t, map[string]string{"platform": "whatsapp"}, stages[2].Parameters)
}

func TestEveryPresetExpandsInOrder(t *testing.T) {
	for _, def := range All() {
		t.Run(string(def.Preset), func(t *testing.T) {
			stages, err := Expand(def.Preset)
			require.NoError(t, err)
			require.NotEmpty(t, stages)
			require.Len(t, stages, len(def.Templates))

			ids := map[string]bool{}
			for i, s := range stages {
				assert.Equal(t, def.Templates[i].Action, s.Type)
				assert.Equal(t, def.Templates[i].Parameters, s.Parameters)
				assert.Equal(t, types.StagePending, s.Status)
				assert.True(t, s.Type.Valid())
				assert.False(t, ids[s.ID], "stage IDs must be unique")
				ids[s.ID] = true
			}
		})
	}
}

func TestExpandReturnsIndependentStages(t *testing.T) {
	first, err := Expand(WhatsappBrief)
	require.NoError(t, err)
	first[0].Parameters["maxLength"] = "1"

	second, err := Expand(WhatsappBrief)
	require.NoError(t, err)
	assert.Equal(t, "500", second[0].Parameters["maxLength"])
}

func TestNewPipelineFromPreset(t *testing.T) {
	p, err := NewPipeline(CitizenFAQ)
	require.NoError(t, err)

	assert.Equal(t, "citizenFAQ", p.Name)
	require.NotNil(t, p.Preset)
	assert.Equal(t, CitizenFAQ, *p.Preset)
	assert.Len(t, p.Stages, 2)
	assert.Equal(t, 0, p.CurrentStageIndex)
	assert.False(t, p.IsComplete())
}

func TestUnknownPreset(t *testing.T) {
	_, err := Expand("nope")
	require.ErrorIs(t, err, ErrUnknownPreset)

	_, err = Parse("nope")
	require.ErrorIs(t, err, ErrUnknownPreset)

	got, err := Parse("socialCampaign")
	require.NoError(t, err)
	assert.Equal(t, SocialCampaign, got)
}
