// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "slices"

// Severity ranks a validation error.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// RedactionStatus is reported by the redaction subsystem and carried through
// validation unchanged.
type RedactionStatus string

const (
	RedactionComplete    RedactionStatus = "complete"
	RedactionPartial     RedactionStatus = "partial"
	RedactionPending     RedactionStatus = "pending"
	RedactionNotRequired RedactionStatus = "notRequired"
)

// ValidationError is a finding that must be fixed before deployment.
type ValidationError struct {
	Message  string   `json:"message" yaml:"message"`
	Location string   `json:"location" yaml:"location"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// ValidationWarning is a finding that should be reviewed.
type ValidationWarning struct {
	Message    string `json:"message" yaml:"message"`
	Suggestion string `json:"suggestion" yaml:"suggestion"`
}

// ValidationResults holds the TTLINC rubric outcome for one output.
type ValidationResults struct {
	LocalizationComplete bool                `json:"localization_complete" yaml:"localization_complete"`
	CitationCoverage     float64             `json:"citation_coverage" yaml:"citation_coverage"`
	PrivacyRedaction     RedactionStatus     `json:"privacy_redaction" yaml:"privacy_redaction"`
	ToneCompliance       bool                `json:"tone_compliance" yaml:"tone_compliance"`
	Errors               []ValidationError   `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings             []ValidationWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Clone returns a copy that shares no slices with r.
func (r ValidationResults) Clone() ValidationResults {
	r.Errors = slices.Clone(r.Errors)
	r.Warnings = slices.Clone(r.Warnings)
	return r
}

// GlossaryEntry maps a source term to its required translation.
type GlossaryEntry struct {
	SourceTerm string `json:"source_term" yaml:"source_term"`
	TargetTerm string `json:"target_term" yaml:"target_term"`
	Context    string `json:"context,omitempty" yaml:"context,omitempty"`

	// IsLocked marks terms whose translation must appear verbatim.
	IsLocked bool `json:"is_locked" yaml:"is_locked"`
}
