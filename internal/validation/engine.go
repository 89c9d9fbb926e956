// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validation scores transformation outputs against the TTLINC
// rubric: terminology, tone, language, intent, non-compliant wording and
// citations. Findings are returned as data, never as Go errors.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// Input is what one validation pass looks at.
type Input struct {
	// Output is the transformation result under review.
	Output *types.TransformationOutput

	// Source is the original document text, used for ratio checks.
	Source string

	// Glossary is the terminology in force.
	Glossary []types.GlossaryEntry

	// Redaction is reported by the redaction subsystem and copied through.
	Redaction types.RedactionStatus
}

// Engine applies the rubric.
type Engine struct {
	cfg types.ValidationConfig
}

// NewEngine returns an engine for cfg. Zero-valued numeric fields fall back
// to the defaults.
func NewEngine(cfg types.ValidationConfig) *Engine {
	def := types.DefaultValidationConfig()
	if cfg.MinLengthRatio <= 0 {
		cfg.MinLengthRatio = def.MinLengthRatio
	}
	if cfg.MaxLengthRatio <= 0 {
		cfg.MaxLengthRatio = def.MaxLengthRatio
	}
	if cfg.MinCompleteRatio <= 0 {
		cfg.MinCompleteRatio = def.MinCompleteRatio
	}
	if cfg.CitationTarget <= 0 {
		cfg.CitationTarget = def.CitationTarget
	}
	if cfg.CitationThreshold <= 0 {
		cfg.CitationThreshold = def.CitationThreshold
	}
	if cfg.ProhibitedTerms == nil {
		cfg.ProhibitedTerms = def.ProhibitedTerms
	}
	if cfg.InformalMarkers == nil {
		cfg.InformalMarkers = def.InformalMarkers
	}
	return &Engine{cfg: cfg}
}

// Config returns the rubric in effect.
func (e *Engine) Config() types.ValidationConfig { return e.cfg }

// Validate runs every rule against in and returns the combined results.
func (e *Engine) Validate(in Input) types.ValidationResults {
	var content string
	var quotes int
	if in.Output != nil {
		content = in.Output.Content
		quotes = in.Output.CountAssets(types.AssetQuote)
	}

	r := types.ValidationResults{
		PrivacyRedaction: in.Redaction,
		ToneCompliance:   true,
	}
	if r.PrivacyRedaction == "" {
		r.PrivacyRedaction = types.RedactionPending
	}

	r.LocalizationComplete = e.localizationComplete(content, in.Source)
	e.checkTerminology(&r, content, in.Glossary)
	e.checkProhibited(&r, content)
	e.checkLengthRatio(&r, content, in.Source)
	e.checkCitations(&r, quotes)
	e.checkTone(&r, content)

	return r
}

// Deployable reports whether results clear every mandatory check: no errors,
// a complete localization and compliant tone.
func Deployable(r types.ValidationResults) bool {
	return len(r.Errors) == 0 && r.LocalizationComplete && r.ToneCompliance
}

func (e *Engine) localizationComplete(content, source string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return false
	}
	srcLen := utf8.RuneCountInString(strings.TrimSpace(source))
	if srcLen == 0 {
		return true
	}
	return float64(utf8.RuneCountInString(trimmed)) >= e.cfg.MinCompleteRatio*float64(srcLen)
}

func (e *Engine) checkTerminology(r *types.ValidationResults, content string, glossary []types.GlossaryEntry) {
	lower := strings.ToLower(content)
	var missing []string
	for _, g := range glossary {
		if !g.IsLocked || g.TargetTerm == "" {
			continue
		}
		if !strings.Contains(lower, strings.ToLower(g.TargetTerm)) {
			missing = append(missing, fmt.Sprintf("%s → %s", g.SourceTerm, g.TargetTerm))
		}
	}
	if len(missing) == 0 {
		return
	}
	r.Warnings = append(r.Warnings, types.ValidationWarning{
		Message:    fmt.Sprintf("Locked glossary terms missing: %s", strings.Join(missing, ", ")),
		Suggestion: "Use the approved translation for each locked term",
	})
}

func (e *Engine) checkProhibited(r *types.ValidationResults, content string) {
	lower := strings.ToLower(content)
	seen := make(map[string]bool)
	for _, term := range e.cfg.ProhibitedTerms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true

		idx := strings.Index(lower, t)
		if idx < 0 {
			continue
		}
		r.Errors = append(r.Errors, types.ValidationError{
			Message:  fmt.Sprintf("Prohibited term %q found", t),
			Location: fmt.Sprintf("offset %d", utf8.RuneCountInString(lower[:idx])),
			Severity: types.SeverityHigh,
		})
	}
}

func (e *Engine) checkLengthRatio(r *types.ValidationResults, content, source string) {
	srcLen := utf8.RuneCountInString(source)
	if srcLen == 0 {
		return
	}
	ratio := float64(utf8.RuneCountInString(content)) / float64(srcLen)
	if ratio >= e.cfg.MinLengthRatio && ratio <= e.cfg.MaxLengthRatio {
		return
	}
	r.Warnings = append(r.Warnings, types.ValidationWarning{
		Message: fmt.Sprintf("Content length is %d%% of the source", int(math.Round(ratio*100))),
		Suggestion: fmt.Sprintf("Expected between %d%% and %d%%; check for omissions or additions",
			int(math.Round(e.cfg.MinLengthRatio*100)), int(math.Round(e.cfg.MaxLengthRatio*100))),
	})
}

// CitationCoverage returns min(quotes/target, 1) clamped to [0,1].
func CitationCoverage(quotes, target int) float64 {
	if target <= 0 || quotes <= 0 {
		return 0
	}
	return math.Min(float64(quotes)/float64(target), 1.0)
}

func (e *Engine) checkCitations(r *types.ValidationResults, quotes int) {
	r.CitationCoverage = CitationCoverage(quotes, e.cfg.CitationTarget)
	if r.CitationCoverage >= e.cfg.CitationThreshold {
		return
	}
	r.Warnings = append(r.Warnings, types.ValidationWarning{
		Message:    fmt.Sprintf("Citation coverage is %d%% (%d quotes)", int(math.Round(r.CitationCoverage*100)), quotes),
		Suggestion: fmt.Sprintf("Back key claims with at least %d quoted passages", int(math.Ceil(e.cfg.CitationThreshold*float64(e.cfg.CitationTarget)))),
	})
}

func (e *Engine) checkTone(r *types.ValidationResults, content string) {
	lower := strings.ToLower(content)
	for _, m := range e.cfg.InformalMarkers {
		marker := strings.ToLower(strings.TrimSpace(m))
		if marker == "" || !containsWord(lower, marker) {
			continue
		}
		r.ToneCompliance = false
		r.Warnings = append(r.Warnings, types.ValidationWarning{
			Message:    fmt.Sprintf("Informal register marker %q found", marker),
			Suggestion: "Rewrite in a formal, institutional tone",
		})
	}
}

// containsWord matches marker as a whole word when it starts and ends with
// letters, and as a plain substring otherwise ("!!!").
func containsWord(text, marker string) bool {
	first, _ := utf8.DecodeRuneInString(marker)
	last, _ := utf8.DecodeLastRuneInString(marker)
	if !isWordRune(first) || !isWordRune(last) {
		return strings.Contains(text, marker)
	}

	for start := 0; ; {
		idx := strings.Index(text[start:], marker)
		if idx < 0 {
			return false
		}
		i := start + idx
		j := i + len(marker)
		before, _ := utf8.DecodeLastRuneInString(text[:i])
		after, _ := utf8.DecodeRuneInString(text[j:])
		if (i == 0 || !isWordRune(before)) && (j == len(text) || !isWordRune(after)) {
			return true
		}
		start = i + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
