// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package actions maps each quick action to the prompt sent to the document
// query service. Builders are pure: the same input always yields the same
// prompt.
package actions

import (
	"bytes"
	"fmt"
	"slices"
	"text/template"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// PromptInput is everything a builder may draw on.
type PromptInput struct {
	// Document is the panel's source document.
	Document types.Document

	// Parameters are the stage parameters, e.g. maxLength or targetLanguage.
	Parameters map[string]string

	// Previous is the output of the preceding stage in a pipeline, empty for
	// the first stage and for single actions.
	Previous string
}

// Builder renders the prompt for one quick action.
type Builder func(in PromptInput) (string, error)

// Catalog is a registry of prompt builders keyed by quick action.
type Catalog struct {
	builders map[types.QuickAction]Builder
}

// NewCatalog returns a catalog with a builder for every quick action.
func NewCatalog() *Catalog {
	c := &Catalog{builders: make(map[types.QuickAction]Builder, len(defaultTemplates))}
	for action, tmpl := range defaultTemplates {
		c.builders[action] = templateBuilder(action, tmpl)
	}
	return c
}

// Register installs or replaces the builder for action.
func (c *Catalog) Register(action types.QuickAction, b Builder) {
	c.builders[action] = b
}

// Build renders the prompt for action.
func (c *Catalog) Build(action types.QuickAction, in PromptInput) (string, error) {
	b, ok := c.builders[action]
	if !ok {
		return "", fmt.Errorf("%w: %q", types.ErrUnknownAction, action)
	}
	return b(in)
}

// Actions lists the registered actions in display order.
func (c *Catalog) Actions() []types.QuickAction {
	var out []types.QuickAction
	for _, a := range types.AllQuickActions() {
		if _, ok := c.builders[a]; ok {
			out = append(out, a)
		}
	}
	var extra []types.QuickAction
	for a := range c.builders {
		extra = append(extra, a)
	}
	slices.Sort(extra)
	for _, a := range extra {
		if !a.Valid() {
			out = append(out, a)
		}
	}
	return out
}

// templateData is the value each prompt template is executed against.
type templateData struct {
	Title          string
	SourceLanguage string
	TargetLanguage string
	Params         map[string]string
	Previous       string
}

func templateBuilder(action types.QuickAction, tmpl *template.Template) Builder {
	return func(in PromptInput) (string, error) {
		data := templateData{
			Title:          in.Document.Title,
			SourceLanguage: languageName(sourceLanguage(in.Document)),
			TargetLanguage: languageName(outputLanguage(action, in)),
			Params:         in.Parameters,
			Previous:       in.Previous,
		}
		if data.Params == nil {
			data.Params = map[string]string{}
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", fmt.Errorf("rendering %s prompt: %w", action, err)
		}
		return buf.String(), nil
	}
}
