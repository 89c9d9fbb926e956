// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/transform-engine/pkg/types"
)

// OutputQuery holds parameters for output searches.
type OutputQuery struct {
	// Query is a full-text search string.
	Query string

	// Action filters by the quick action that produced the output.
	Action types.QuickAction

	// PanelID filters by panel.
	PanelID string

	// DeployableOnly keeps outputs that passed validation.
	DeployableOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q OutputQuery) IsEmpty() bool {
	return q.Query == "" && q.Action == "" && q.PanelID == "" && !q.DeployableOnly
}

// OutputResult is one stored output with the pipeline it belongs to.
type OutputResult struct {
	PanelID      string             `json:"panel_id" yaml:"panel_id"`
	PipelineID   string             `json:"pipeline_id" yaml:"pipeline_id"`
	PipelineName string             `json:"pipeline_name" yaml:"pipeline_name"`
	Action       types.QuickAction  `json:"action" yaml:"action"`
	Format       types.OutputFormat `json:"format" yaml:"format"`
	Content      string             `json:"content" yaml:"content"`
	Deployable   bool               `json:"deployable" yaml:"deployable"`
	GeneratedAt  time.Time          `json:"generated_at" yaml:"generated_at"`
}

// SearchOutputs queries stored outputs with optional full-text search and
// filters. Results are newest first.
func (s *Store) SearchOutputs(ctx context.Context, q OutputQuery) ([]OutputResult, error) {
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT o.panel_id, o.pipeline_id, p.name, o.action, o.format, o.content,
			o.deployable, o.generated_at
		FROM outputs o
		JOIN pipelines p ON p.id = o.pipeline_id`)
	if q.Query != "" {
		qb.WriteString(` JOIN outputs_fts ON outputs_fts.docid = o.rowid WHERE outputs_fts MATCH ?`)
		args = append(args, q.Query)
	} else {
		qb.WriteString(` WHERE 1=1`)
	}

	if q.Action != "" {
		qb.WriteString(` AND o.action = ?`)
		args = append(args, string(q.Action))
	}
	if q.PanelID != "" {
		qb.WriteString(` AND o.panel_id = ?`)
		args = append(args, q.PanelID)
	}
	if q.DeployableOnly {
		qb.WriteString(` AND o.deployable = 1`)
	}

	qb.WriteString(` ORDER BY o.generated_at DESC, o.rowid DESC LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching outputs: %w", err)
	}
	defer rows.Close()

	var results []OutputResult
	for rows.Next() {
		var (
			r         OutputResult
			action    string
			format    string
			generated string
		)
		if err := rows.Scan(&r.PanelID, &r.PipelineID, &r.PipelineName, &action, &format,
			&r.Content, &r.Deployable, &generated); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Action = types.QuickAction(action)
		r.Format = types.OutputFormat(format)
		r.GeneratedAt, _ = time.Parse(timeFormat, generated)
		results = append(results, r)
	}
	return results, rows.Err()
}
