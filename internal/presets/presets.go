// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package presets maps named business scenarios to ordered quick action
// templates. A preset only seeds a new pipeline; it has no runtime state.
package presets

import (
	"errors"
	"fmt"
	"maps"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// ErrUnknownPreset is returned for a preset name not in the catalog.
var ErrUnknownPreset = errors.New("unknown pipeline preset")

const (
	WhatsappBrief     types.PipelinePreset = "whatsappBrief"
	ExecutiveBriefing types.PipelinePreset = "executiveBriefing"
	TrainingModule    types.PipelinePreset = "trainingModule"
	CitizenFAQ        types.PipelinePreset = "citizenFAQ"
	SocialCampaign    types.PipelinePreset = "socialCampaign"
	BilingualRelease  types.PipelinePreset = "bilingualRelease"
)

// Template is one stage of a preset before expansion.
type Template struct {
	Action     types.QuickAction
	Parameters map[string]string
}

// Definition describes a preset for listing.
type Definition struct {
	Preset      types.PipelinePreset
	Description string
	Templates   []Template
}

var catalog = []Definition{
	{
		Preset:      WhatsappBrief,
		Description: "Short Arabic brief ready to share on WhatsApp",
		Templates: []Template{
			{types.ActionSummarize, map[string]string{"maxLength": "500"}},
			{types.ActionTranslate, map[string]string{"targetLanguage": "ar"}},
			{types.ActionSocialPost, map[string]string{"platform": "whatsapp"}},
		},
	},
	{
		Preset:      ExecutiveBriefing,
		Description: "Executive summary and an eight-slide deck",
		Templates: []Template{
			{types.ActionSummarize, map[string]string{"maxLength": "1000", "audience": "executive"}},
			{types.ActionConvertToSlides, map[string]string{"slideCount": "8"}},
		},
	},
	{
		Preset:      TrainingModule,
		Description: "Slides, narration script and voiceover for staff training",
		Templates: []Template{
			{types.ActionSummarize, map[string]string{"maxLength": "1500"}},
			{types.ActionConvertToSlides, map[string]string{"slideCount": "12"}},
			{types.ActionGenerateScript, map[string]string{"durationMinutes": "5"}},
			{types.ActionVoiceover, map[string]string{"voice": "neutral"}},
		},
	},
	{
		Preset:      CitizenFAQ,
		Description: "Quoted facts turned into chatbot FAQ entries",
		Templates: []Template{
			{types.ActionExtractAssets, map[string]string{"assetType": "quote"}},
			{types.ActionChatbotSnippet, map[string]string{"style": "faq"}},
		},
	},
	{
		Preset:      SocialCampaign,
		Description: "Teaser summary with Twitter and LinkedIn posts",
		Templates: []Template{
			{types.ActionSummarize, map[string]string{"maxLength": "280"}},
			{types.ActionSocialPost, map[string]string{"platform": "twitter"}},
			{types.ActionSocialPost, map[string]string{"platform": "linkedin"}},
		},
	},
	{
		Preset:      BilingualRelease,
		Description: "Press release summary in English with supporting quotes",
		Templates: []Template{
			{types.ActionSummarize, map[string]string{"maxLength": "800"}},
			{types.ActionTranslate, map[string]string{"targetLanguage": "en"}},
			{types.ActionExtractAssets, map[string]string{"assetType": "quote"}},
		},
	},
}

// All returns every preset definition in catalog order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	for i, d := range catalog {
		out[i] = Definition{Preset: d.Preset, Description: d.Description, Templates: copyTemplates(d.Templates)}
	}
	return out
}

// Parse converts a name into a known preset.
func Parse(name string) (types.PipelinePreset, error) {
	p := types.PipelinePreset(name)
	if _, err := Templates(p); err != nil {
		return "", err
	}
	return p, nil
}

// Templates returns the ordered stage templates of preset.
func Templates(preset types.PipelinePreset) ([]Template, error) {
	for _, d := range catalog {
		if d.Preset == preset {
			return copyTemplates(d.Templates), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
}

// Expand builds a fresh pending stage for each template of preset, in order.
func Expand(preset types.PipelinePreset) ([]types.TransformationStage, error) {
	tmpls, err := Templates(preset)
	if err != nil {
		return nil, err
	}
	stages := make([]types.TransformationStage, len(tmpls))
	for i, t := range tmpls {
		stages[i] = types.NewStage(t.Action, t.Parameters)
	}
	return stages, nil
}

// NewPipeline expands preset into a new pipeline named after it.
func NewPipeline(preset types.PipelinePreset) (*types.TransformationPipeline, error) {
	stages, err := Expand(preset)
	if err != nil {
		return nil, err
	}
	return types.NewPipeline(string(preset), stages, &preset), nil
}

func copyTemplates(in []Template) []Template {
	out := make([]Template, len(in))
	for i, t := range in {
		out[i] = Template{Action: t.Action, Parameters: maps.Clone(t.Parameters)}
	}
	return out
}
