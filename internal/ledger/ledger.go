// Package ledger keeps a local DuckDB history of accepted submissions. It is
// not a draft store: nothing is written until the backend accepts an
// evaluation.
package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
)

//go:embed schema.sql
var schemaDDL string

// AreaScore is the stored per-area score.
type AreaScore struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Entry is one accepted submission.
type Entry struct {
	EntryID      string
	EvaluationID string
	LocationID   int64
	LocationName string
	Score        float64
	LocalScore   float64
	Passed       bool
	Answered     int
	Photos       int
	Areas        []AreaScore
	SubmittedAt  time.Time
}

// Ledger is an open history database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at path. ":memory:" opens a throwaway
// in-memory database.
func Open(ctx context.Context, path string) (*Ledger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ledger: path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ledger: create directory: %w", err)
		}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("ledger: open %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: ping %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: apply schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Record stores entry and returns its row id. A missing EntryID is generated.
func (l *Ledger) Record(ctx context.Context, entry Entry) (string, error) {
	if l == nil || l.db == nil {
		return "", errors.New("ledger: not open")
	}
	if strings.TrimSpace(entry.EvaluationID) == "" {
		return "", errors.New("ledger: evaluation id is required")
	}
	if entry.EntryID == "" {
		entry.EntryID = uuid.NewString()
	}
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now()
	}
	areas, err := json.Marshal(entry.Areas)
	if err != nil {
		return "", fmt.Errorf("ledger: encode area scores: %w", err)
	}
	_, err = l.db.ExecContext(ctx, `INSERT INTO submissions
		(entry_id, evaluation_id, location_id, location_name, score, local_score, passed, answered, photos, area_scores, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.EntryID, entry.EvaluationID, entry.LocationID, entry.LocationName,
		entry.Score, entry.LocalScore, entry.Passed, entry.Answered, entry.Photos,
		string(areas), entry.SubmittedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("ledger: insert submission: %w", err)
	}
	return entry.EntryID, nil
}

// List returns the most recent entries first. A non-positive limit returns all.
func (l *Ledger) List(ctx context.Context, limit int) ([]Entry, error) {
	if l == nil || l.db == nil {
		return nil, errors.New("ledger: not open")
	}
	query := `SELECT entry_id, evaluation_id, location_id, location_name, score, local_score, passed,
		answered, photos, area_scores, submitted_at
		FROM submissions ORDER BY submitted_at DESC, entry_id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ledger: list submissions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var areas sql.NullString
		if err := rows.Scan(
			&entry.EntryID, &entry.EvaluationID, &entry.LocationID, &entry.LocationName,
			&entry.Score, &entry.LocalScore, &entry.Passed, &entry.Answered, &entry.Photos,
			&areas, &entry.SubmittedAt,
		); err != nil {
			return nil, fmt.Errorf("ledger: scan submission: %w", err)
		}
		if areas.Valid && areas.String != "" && areas.String != "null" {
			if err := json.Unmarshal([]byte(areas.String), &entry.Areas); err != nil {
				return nil, fmt.Errorf("ledger: decode area scores: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// PassRate returns the share of recorded submissions that passed, and the
// number of submissions considered.
func (l *Ledger) PassRate(ctx context.Context) (float64, int, error) {
	if l == nil || l.db == nil {
		return 0, 0, errors.New("ledger: not open")
	}
	var total int
	var passed int
	err := l.db.QueryRowContext(ctx, `SELECT COUNT(*), COUNT(*) FILTER (WHERE passed) FROM submissions`).Scan(&total, &passed)
	if err != nil {
		return 0, 0, fmt.Errorf("ledger: pass rate: %w", err)
	}
	if total == 0 {
		return 0, 0, nil
	}
	return float64(passed) / float64(total), total, nil
}
