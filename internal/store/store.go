// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps a local ledger of panels, their pipelines and the
// outputs they produced, with full-text search over output content.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/transform-engine/internal/panel"
	"github.com/pdiddy/transform-engine/internal/validation"
	"github.com/pdiddy/transform-engine/pkg/types"
)

const (
	dbFile = "transform.db"

	// timeFormat has fixed width so stored timestamps sort as text.
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// ErrPanelNotFound is returned when no panel with the requested ID is stored.
var ErrPanelNotFound = errors.New("panel not found")

// Store manages the ledger SQLite database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
}

// Open opens or creates the ledger at dataDir/transform.db and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dataDir: dataDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS panels (
			id TEXT PRIMARY KEY,
			document_id TEXT NOT NULL,
			document TEXT NOT NULL,
			text TEXT,
			last_error TEXT,
			updated_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS pipelines (
			id TEXT PRIMARY KEY,
			panel_id TEXT NOT NULL REFERENCES panels(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			name TEXT,
			preset TEXT,
			status TEXT,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pipelines_panel ON pipelines(panel_id, position)`,
		`CREATE TABLE IF NOT EXISTS outputs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			pipeline_id TEXT NOT NULL UNIQUE REFERENCES pipelines(id) ON DELETE CASCADE,
			panel_id TEXT NOT NULL,
			action TEXT,
			format TEXT,
			content TEXT NOT NULL,
			deployable INTEGER NOT NULL,
			generated_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outputs_panel ON outputs(panel_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS4 external-content index kept in sync by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='outputs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE outputs_fts USING fts4(content="outputs", content)`,
		`CREATE TRIGGER outputs_bd BEFORE DELETE ON outputs BEGIN
			DELETE FROM outputs_fts WHERE docid = old.rowid;
		END`,
		`CREATE TRIGGER outputs_bu BEFORE UPDATE ON outputs BEGIN
			DELETE FROM outputs_fts WHERE docid = old.rowid;
		END`,
		`CREATE TRIGGER outputs_ai AFTER INSERT ON outputs BEGIN
			INSERT INTO outputs_fts(docid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER outputs_au AFTER UPDATE ON outputs BEGIN
			INSERT INTO outputs_fts(docid, content) VALUES (new.rowid, new.content);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// SavePanel writes p and all of its pipelines, replacing what was stored
// for it before.
func (s *Store) SavePanel(ctx context.Context, p *panel.Panel) error {
	doc := p.Document()
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO panels (id, document_id, document, text, last_error, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			document_id=excluded.document_id, document=excluded.document, text=excluded.text,
			last_error=excluded.last_error, updated_at=excluded.updated_at`,
		p.ID(), doc.ID, string(docJSON), doc.Text, p.Error(), time.Now().UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("upserting panel: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE panel_id = ?`, p.ID()); err != nil {
		return fmt.Errorf("deleting old outputs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pipelines WHERE panel_id = ?`, p.ID()); err != nil {
		return fmt.Errorf("deleting old pipelines: %w", err)
	}

	plStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pipelines (id, panel_id, position, name, preset, status, data) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing pipeline insert: %w", err)
	}
	defer plStmt.Close()

	outStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outputs (pipeline_id, panel_id, action, format, content, deployable, generated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing output insert: %w", err)
	}
	defer outStmt.Close()

	for i, pl := range p.Pipelines() {
		data, err := json.Marshal(pl)
		if err != nil {
			return fmt.Errorf("marshaling pipeline %s: %w", pl.ID, err)
		}
		var preset string
		if pl.Preset != nil {
			preset = string(*pl.Preset)
		}
		if _, err := plStmt.ExecContext(ctx, pl.ID, p.ID(), i, pl.Name, preset, string(pl.Status()), string(data)); err != nil {
			return fmt.Errorf("inserting pipeline %s: %w", pl.ID, err)
		}

		if pl.Output == nil {
			continue
		}
		out := pl.Output
		_, err = outStmt.ExecContext(ctx,
			pl.ID, p.ID(), out.Metadata["action"], string(out.Format), out.Content,
			validation.Deployable(out.ValidationResults), out.GeneratedAt.UTC().Format(timeFormat),
		)
		if err != nil {
			return fmt.Errorf("inserting output for %s: %w", pl.ID, err)
		}
	}

	return tx.Commit()
}

// LoadPanel rebuilds the panel with id and its pipelines in stored order.
func (s *Store) LoadPanel(ctx context.Context, id string) (*panel.Panel, error) {
	var (
		docJSON   string
		text      sql.NullString
		lastError sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT document, text, last_error FROM panels WHERE id = ?`, id,
	).Scan(&docJSON, &text, &lastError)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrPanelNotFound, id)
		}
		return nil, fmt.Errorf("looking up panel: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal([]byte(docJSON), &doc); err != nil {
		return nil, fmt.Errorf("decoding document of panel %s: %w", id, err)
	}
	doc.Text = text.String

	pipelines, err := s.loadPipelines(ctx, id)
	if err != nil {
		return nil, err
	}
	return panel.Restore(id, doc, pipelines, lastError.String), nil
}

func (s *Store) loadPipelines(ctx context.Context, panelID string) ([]*types.TransformationPipeline, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM pipelines WHERE panel_id = ? ORDER BY position`, panelID)
	if err != nil {
		return nil, fmt.Errorf("querying pipelines: %w", err)
	}
	defer rows.Close()

	var out []*types.TransformationPipeline
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning pipeline: %w", err)
		}
		var pl types.TransformationPipeline
		if err := json.Unmarshal([]byte(data), &pl); err != nil {
			return nil, fmt.Errorf("decoding pipeline: %w", err)
		}
		out = append(out, &pl)
	}
	return out, rows.Err()
}

// PanelSummary is one row of ListPanels.
type PanelSummary struct {
	ID        string    `json:"id" yaml:"id"`
	Document  string    `json:"document" yaml:"document"`
	Title     string    `json:"title" yaml:"title"`
	Language  string    `json:"language" yaml:"language"`
	Pipelines int       `json:"pipelines" yaml:"pipelines"`
	LastError string    `json:"last_error,omitempty" yaml:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// ListPanels returns every stored panel, most recently updated first.
func (s *Store) ListPanels(ctx context.Context) ([]PanelSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.document, p.last_error, p.updated_at,
			(SELECT count(*) FROM pipelines pl WHERE pl.panel_id = p.id)
		FROM panels p
		ORDER BY p.updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing panels: %w", err)
	}
	defer rows.Close()

	var out []PanelSummary
	for rows.Next() {
		var (
			ps        PanelSummary
			docJSON   string
			lastError sql.NullString
			updated   sql.NullString
		)
		if err := rows.Scan(&ps.ID, &docJSON, &lastError, &updated, &ps.Pipelines); err != nil {
			return nil, fmt.Errorf("scanning panel: %w", err)
		}
		var doc types.Document
		if err := json.Unmarshal([]byte(docJSON), &doc); err == nil {
			ps.Document = doc.Filename
			ps.Title = doc.Title
			ps.Language = doc.Language
		}
		ps.LastError = lastError.String
		if updated.Valid {
			ps.UpdatedAt, _ = time.Parse(timeFormat, updated.String)
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

// DeletePanel removes the panel with id together with its pipelines and outputs.
func (s *Store) DeletePanel(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM outputs WHERE panel_id = ?`, id); err != nil {
		return fmt.Errorf("deleting outputs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM pipelines WHERE panel_id = ?`, id); err != nil {
		return fmt.Errorf("deleting pipelines: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM panels WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting panel: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrPanelNotFound, id)
	}
	return tx.Commit()
}
