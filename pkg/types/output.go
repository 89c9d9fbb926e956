// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"maps"
	"slices"
	"time"
)

// AssetType categorizes an asset extracted alongside a transformation output.
type AssetType string

const (
	AssetQuote     AssetType = "quote"
	AssetStatistic AssetType = "statistic"
	AssetKeyTerm   AssetType = "keyTerm"
)

// Citation is a source reference returned by the document query service.
type Citation struct {
	// Source names the cited file or section.
	Source string `json:"source" yaml:"source"`

	// PageNumber is the cited page, or 0 when unknown.
	PageNumber int `json:"page_number,omitempty" yaml:"page_number,omitempty"`

	// Excerpt is the quoted passage.
	Excerpt string `json:"excerpt" yaml:"excerpt"`
}

// ExtractedAsset is a reusable fragment tied to an output, such as a quote
// backing a claim.
type ExtractedAsset struct {
	ID         string    `json:"id" yaml:"id"`
	Type       AssetType `json:"type" yaml:"type"`
	Content    string    `json:"content" yaml:"content"`
	Source     string    `json:"source,omitempty" yaml:"source,omitempty"`
	PageNumber int       `json:"page_number,omitempty" yaml:"page_number,omitempty"`
}

// TransformationOutput is the result of one transformation. It is not
// modified after creation; later runs replace it.
type TransformationOutput struct {
	Content           string            `json:"content" yaml:"content"`
	Format            OutputFormat      `json:"format" yaml:"format"`
	Metadata          map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Assets            []ExtractedAsset  `json:"assets,omitempty" yaml:"assets,omitempty"`
	ValidationResults ValidationResults `json:"validation_results" yaml:"validation_results"`
	GeneratedAt       time.Time         `json:"generated_at" yaml:"generated_at"`
}

// CountAssets returns how many assets of type t the output carries.
func (o *TransformationOutput) CountAssets(t AssetType) int {
	n := 0
	for _, a := range o.Assets {
		if a.Type == t {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the output.
func (o *TransformationOutput) Clone() *TransformationOutput {
	c := *o
	c.Metadata = maps.Clone(o.Metadata)
	c.Assets = slices.Clone(o.Assets)
	c.ValidationResults = o.ValidationResults.Clone()
	return &c
}
