// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// ExportPanel is a panel with its document and every pipeline.
type ExportPanel struct {
	ID        string                          `json:"id" yaml:"id"`
	Document  types.Document                  `json:"document" yaml:"document"`
	LastError string                          `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	Pipelines []*types.TransformationPipeline `json:"pipelines" yaml:"pipelines"`
}

// ExportYAML writes the ledger, or a single panel when panelID is set, to
// dataDir/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, panelID string) (string, error) {
	panels, err := s.exportPanels(ctx, panelID)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(panels)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.dataDir, "export.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the ledger, or a single panel when panelID is set, to
// dataDir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, panelID string) (string, error) {
	panels, err := s.exportPanels(ctx, panelID)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(panels, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.dataDir, "export.json")
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportPanels(ctx context.Context, panelID string) ([]ExportPanel, error) {
	var ids []string
	if panelID != "" {
		ids = []string{panelID}
	} else {
		summaries, err := s.ListPanels(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing panels for export: %w", err)
		}
		for _, ps := range summaries {
			ids = append(ids, ps.ID)
		}
	}

	out := make([]ExportPanel, 0, len(ids))
	for _, id := range ids {
		p, err := s.LoadPanel(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, ExportPanel{
			ID:        p.ID(),
			Document:  p.Document(),
			LastError: p.Error(),
			Pipelines: p.Pipelines(),
		})
	}
	return out, nil
}
