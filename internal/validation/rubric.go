// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validation

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// LoadRubric reads a YAML rubric from path. Keys present in the file replace
// the built-in values; absent keys keep them. An empty path yields the
// built-in rubric.
func LoadRubric(path string) (types.ValidationConfig, error) {
	cfg := types.DefaultValidationConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return types.ValidationConfig{}, fmt.Errorf("reading rubric %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.ValidationConfig{}, fmt.Errorf("parsing rubric %s: %w", path, err)
	}
	if cfg.MinLengthRatio > cfg.MaxLengthRatio {
		return types.ValidationConfig{}, fmt.Errorf("rubric %s: min_length_ratio %.2f exceeds max_length_ratio %.2f",
			path, cfg.MinLengthRatio, cfg.MaxLengthRatio)
	}
	return cfg, nil
}
