// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package glossary loads the terminology list used by terminology checks.
package glossary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// ErrInvalidEntry indicates a glossary entry without a source or target term.
var ErrInvalidEntry = errors.New("invalid glossary entry")

// file is the on-disk layout of a glossary.
type file struct {
	Entries []types.GlossaryEntry `yaml:"entries"`
}

// Load reads glossary entries from a YAML file. A missing file yields an
// empty glossary. Terms are trimmed; an entry whose source or target is empty
// after trimming is rejected with ErrInvalidEntry.
func Load(path string) ([]types.GlossaryEntry, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading glossary %s: %w", path, err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing glossary %s: %w", path, err)
	}

	for i := range f.Entries {
		e := &f.Entries[i]
		e.SourceTerm = strings.TrimSpace(e.SourceTerm)
		e.TargetTerm = strings.TrimSpace(e.TargetTerm)
		if e.SourceTerm == "" || e.TargetTerm == "" {
			return nil, fmt.Errorf("%w: entry %d in %s", ErrInvalidEntry, i+1, path)
		}
	}
	return f.Entries, nil
}

// Locked returns the entries whose translation must appear verbatim.
func Locked(entries []types.GlossaryEntry) []types.GlossaryEntry {
	var out []types.GlossaryEntry
	for _, e := range entries {
		if e.IsLocked {
			out = append(out, e)
		}
	}
	return out
}
