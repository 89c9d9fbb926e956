// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transform-engine/pkg/types"
)

func output(content string, quotes int) *types.TransformationOutput {
	o := &types.TransformationOutput{Content: content, Format: types.FormatText}
	for i := 0; i < quotes; i++ {
		o.Assets = append(o.Assets, types.ExtractedAsset{Type: types.AssetQuote, Content: "q"})
	}
	return o
}

func warningsContaining(r types.ValidationResults, substr string) []types.ValidationWarning {
	var out []types.ValidationWarning
	for _, w := range r.Warnings {
		if strings.Contains(w.Message, substr) {
			out = append(out, w)
		}
	}
	return out
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine(types.ValidationConfig{})
	assert.Equal(t, types.DefaultValidationConfig(), e.Config())

	e = NewEngine(types.ValidationConfig{ProhibitedTerms: []string{}, CitationTarget: 4})
	assert.Empty(t, e.Config().ProhibitedTerms)
	assert.Equal(t, 4, e.Config().CitationTarget)
}

func TestProhibitedTerms(t *testing.T) {
	content := "We GUARANTEE results. A guarantee is a Guarantee."
	r := NewEngine(types.ValidationConfig{}).Validate(Input{Output: output(content, 10), Source: content})

	require.Len(t, r.Errors, 1)
	assert.Equal(t, types.SeverityHigh, r.Errors[0].Severity)
	assert.Contains(t, r.Errors[0].Message, "guarantee")
	assert.Equal(t, "offset 3", r.Errors[0].Location)
	assert.False(t, Deployable(r))
}

func TestProhibitedTermsDistinct(t *testing.T) {
	content := "A miracle cure, proven and risk-free."
	r := NewEngine(types.ValidationConfig{}).Validate(Input{Output: output(content, 10), Source: content})

	require.Len(t, r.Errors, 4)
	for _, e := range r.Errors {
		assert.Equal(t, types.SeverityHigh, e.Severity)
	}
}

func TestProhibitedTermOffsetCountsRunes(t *testing.T) {
	content := "نتائج guarantee"
	r := NewEngine(types.ValidationConfig{}).Validate(Input{Output: output(content, 10), Source: content})

	require.Len(t, r.Errors, 1)
	assert.Equal(t, "offset 6", r.Errors[0].Location)
}

func TestCitationCoverage(t *testing.T) {
	tests := []struct {
		quotes   int
		want     float64
		wantWarn bool
	}{
		{0, 0, true},
		{5, 0.5, true},
		{10, 1, false},
		{25, 1, false},
	}

	e := NewEngine(types.ValidationConfig{})
	for _, tt := range tests {
		r := e.Validate(Input{Output: output("Body text.", tt.quotes)})
		assert.InDelta(t, tt.want, r.CitationCoverage, 1e-9, "quotes=%d", tt.quotes)
		assert.Equal(t, tt.wantWarn, len(warningsContaining(r, "Citation coverage")) == 1, "quotes=%d", tt.quotes)
	}

	assert.Zero(t, CitationCoverage(3, 0))
	assert.Zero(t, CitationCoverage(-1, 10))
}

func TestCitationCoverageIgnoresOtherAssets(t *testing.T) {
	o := output("Body text.", 2)
	o.Assets = append(o.Assets,
		types.ExtractedAsset{Type: types.AssetStatistic, Content: "40%"},
		types.ExtractedAsset{Type: types.AssetKeyTerm, Content: "aquifer"},
	)
	r := NewEngine(types.ValidationConfig{}).Validate(Input{Output: o})
	assert.InDelta(t, 0.2, r.CitationCoverage, 1e-9)
}

func TestLengthRatio(t *testing.T) {
	source := strings.Repeat("a", 100)
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"too short", strings.Repeat("b", 50), "Content length is 50% of the source"},
		{"too long", strings.Repeat("b", 200), "Content length is 200% of the source"},
		{"in range", strings.Repeat("b", 100), ""},
		{"at lower bound", strings.Repeat("b", 70), ""},
	}

	e := NewEngine(types.ValidationConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Validate(Input{Output: output(tt.content, 10), Source: source})
			got := warningsContaining(r, "Content length")
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Message)
			assert.Contains(t, got[0].Suggestion, "70%")
			assert.Contains(t, got[0].Suggestion, "150%")
		})
	}
}

func TestLengthRatioSkippedWithoutSource(t *testing.T) {
	r := NewEngine(types.ValidationConfig{}).Validate(Input{Output: output("short", 10)})
	assert.Empty(t, warningsContaining(r, "Content length"))
}

func TestLocalizationComplete(t *testing.T) {
	source := strings.Repeat("x", 100)
	tests := []struct {
		name    string
		content string
		source  string
		want    bool
	}{
		{"empty", "", source, false},
		{"whitespace", "  \n\t ", source, false},
		{"truncated", "tiny", source, false},
		{"substantive", strings.Repeat("y", 20), source, true},
		{"no source", "anything", "", true},
		{"arabic", strings.Repeat("م", 30), source, true},
	}

	e := NewEngine(types.ValidationConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := e.Validate(Input{Output: output(tt.content, 0), Source: tt.source})
			assert.Equal(t, tt.want, r.LocalizationComplete)
		})
	}
}

func TestTerminology(t *testing.T) {
	glossary := []types.GlossaryEntry{
		{SourceTerm: "water authority", TargetTerm: "هيئة المياه", IsLocked: true},
		{SourceTerm: "Ministry", TargetTerm: "Ministry of Energy", IsLocked: true},
		{SourceTerm: "tariff", TargetTerm: "تعرفة", IsLocked: false},
	}

	e := NewEngine(types.ValidationConfig{})

	r := e.Validate(Input{Output: output("The MINISTRY OF ENERGY announced new rules.", 10), Glossary: glossary})
	got := warningsContaining(r, "Locked glossary terms missing")
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "water authority → هيئة المياه")
	assert.NotContains(t, got[0].Message, "tariff")
	assert.NotContains(t, got[0].Message, "Ministry →")

	r = e.Validate(Input{Output: output("هيئة المياه and the Ministry of Energy agree.", 10), Glossary: glossary})
	assert.Empty(t, warningsContaining(r, "Locked glossary"))
}

func TestTone(t *testing.T) {
	tests := []struct {
		content string
		want    bool
	}{
		{"The council approved the plan.", true},
		{"The council approved the plan lol", false},
		{"Approved!!!", false},
		{"OMG the plan passed.", false},
		{"Lollipops were distributed.", true},
		{"Respond asap.", false},
	}

	e := NewEngine(types.ValidationConfig{})
	for _, tt := range tests {
		r := e.Validate(Input{Output: output(tt.content, 10)})
		assert.Equal(t, tt.want, r.ToneCompliance, tt.content)
		if !tt.want {
			assert.NotEmpty(t, warningsContaining(r, "Informal register"), tt.content)
		}
	}
}

func TestRedactionPassthrough(t *testing.T) {
	e := NewEngine(types.ValidationConfig{})

	r := e.Validate(Input{Output: output("text", 0)})
	assert.Equal(t, types.RedactionPending, r.PrivacyRedaction)

	r = e.Validate(Input{Output: output("text", 0), Redaction: types.RedactionPartial})
	assert.Equal(t, types.RedactionPartial, r.PrivacyRedaction)
}

func TestValidateNilOutput(t *testing.T) {
	r := NewEngine(types.ValidationConfig{}).Validate(Input{Source: "source text"})
	assert.False(t, r.LocalizationComplete)
	assert.Zero(t, r.CitationCoverage)
	assert.False(t, Deployable(r))
}

func TestDeployable(t *testing.T) {
	tests := []struct {
		name string
		r    types.ValidationResults
		want bool
	}{
		{"clean", types.ValidationResults{LocalizationComplete: true, ToneCompliance: true}, true},
		{"warnings only", types.ValidationResults{
			LocalizationComplete: true, ToneCompliance: true,
			Warnings: []types.ValidationWarning{{Message: "low coverage"}},
		}, true},
		{"error", types.ValidationResults{
			LocalizationComplete: true, ToneCompliance: true,
			Errors: []types.ValidationError{{Message: "bad", Severity: types.SeverityHigh}},
		}, false},
		{"incomplete", types.ValidationResults{ToneCompliance: true}, false},
		{"informal", types.ValidationResults{LocalizationComplete: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Deployable(tt.r))
		})
	}
}

func TestLoadRubric(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte("prohibited_terms:\n  - forbidden\ncitation_target: 5\n"), 0o644))

	cfg, err := LoadRubric(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"forbidden"}, cfg.ProhibitedTerms)
	assert.Equal(t, 5, cfg.CitationTarget)
	assert.InDelta(t, 0.7, cfg.MinLengthRatio, 1e-9)
	assert.Equal(t, types.DefaultValidationConfig().InformalMarkers, cfg.InformalMarkers)

	r := NewEngine(cfg).Validate(Input{Output: output("This is forbidden.", 5)})
	require.Len(t, r.Errors, 1)
	assert.InDelta(t, 1.0, r.CitationCoverage, 1e-9)
}

func TestLoadRubricErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadRubric(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("min_length_ratio: 2\nmax_length_ratio: 1\n"), 0o644))
	_, err = LoadRubric(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")

	cfg, err := LoadRubric("")
	require.NoError(t, err)
	assert.Equal(t, types.DefaultValidationConfig(), cfg)
}
