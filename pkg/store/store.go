// Package store keeps a history of analysis runs in SQLite.
package store

import (
	"context"
	"database/sql"
	"time"

	"curvetopia/pkg/pipeline"

	"github.com/google/uuid"
	"golang.org/x/xerrors"
	_ "modernc.org/sqlite"
)

// ErrUnknownRun is returned when a run id is not in the database.
var ErrUnknownRun = xerrors.New("unknown run")

var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		source      TEXT NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		path_count  INTEGER NOT NULL,
		completed   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS shapes (
		run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		path_index  INTEGER NOT NULL,
		label       TEXT NOT NULL,
		sides       INTEGER NOT NULL,
		rot_order   INTEGER NOT NULL,
		axis_count  INTEGER NOT NULL,
		completed   INTEGER NOT NULL,
		occluder    INTEGER NOT NULL,
		PRIMARY KEY (run_id, path_index)
	)`,
	`CREATE INDEX IF NOT EXISTS shapes_label ON shapes(label)`,
}

type Store struct {
	db *sql.DB
}

// Run describes one stored analysis run.
type Run struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Paths     int
	Completed int
}

// Shape is the stored summary of one path of a run.
type Shape struct {
	Index     int
	Label     string
	Sides     int
	Order     int
	Axes      int
	Completed bool
	Occluder  int
}

// Open opens (creating if needed) the database at path. Use ":memory:" for
// a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, xerrors.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, xerrors.Errorf("failed to ping database: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, xerrors.Errorf("failed to create schema: %w", err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores a report and returns the new run's id.
func (s *Store) SaveRun(ctx context.Context, source string, report pipeline.Report) (string, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", xerrors.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	completed := 0
	for _, c := range report.Completed {
		if c.Completed {
			completed++
		}
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, created_at, path_count, completed) VALUES (?, ?, ?, ?, ?)`,
		id, source, time.Now().UTC(), len(report.Results), completed)
	if err != nil {
		return "", xerrors.Errorf("insert run: %w", err)
	}

	insert, err := tx.PrepareContext(ctx,
		`INSERT INTO shapes (run_id, path_index, label, sides, rot_order, axis_count, completed, occluder)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", xerrors.Errorf("prepare shape insert: %w", err)
	}
	defer insert.Close()

	for i, r := range report.Results {
		done, occluder := false, -1
		if i < len(report.Completed) {
			done, occluder = report.Completed[i].Completed, report.Completed[i].Occluder
		}
		_, err := insert.ExecContext(ctx, id, i, r.Label.String(), r.Label.Sides,
			r.Symmetry.Order, len(r.Symmetry.Axes), done, occluder)
		if err != nil {
			return "", xerrors.Errorf("insert shape %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", xerrors.Errorf("commit run: %w", err)
	}
	return id, nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, created_at, path_count, completed FROM runs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, xerrors.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.CreatedAt, &r.Paths, &r.Completed); err != nil {
			return nil, xerrors.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Shapes returns the per-path rows of a run in path order.
func (s *Store) Shapes(ctx context.Context, runID string) ([]Shape, error) {
	if err := s.checkRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT path_index, label, sides, rot_order, axis_count, completed, occluder
		 FROM shapes WHERE run_id = ? ORDER BY path_index`, runID)
	if err != nil {
		return nil, xerrors.Errorf("query shapes: %w", err)
	}
	defer rows.Close()

	var shapes []Shape
	for rows.Next() {
		var sh Shape
		if err := rows.Scan(&sh.Index, &sh.Label, &sh.Sides, &sh.Order, &sh.Axes, &sh.Completed, &sh.Occluder); err != nil {
			return nil, xerrors.Errorf("scan shape: %w", err)
		}
		shapes = append(shapes, sh)
	}
	return shapes, rows.Err()
}

// LabelCounts tallies the labels of one run.
func (s *Store) LabelCounts(ctx context.Context, runID string) (map[string]int, error) {
	if err := s.checkRun(ctx, runID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, COUNT(*) FROM shapes WHERE run_id = ? GROUP BY label`, runID)
	if err != nil {
		return nil, xerrors.Errorf("query label counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, xerrors.Errorf("scan label count: %w", err)
		}
		counts[label] = n
	}
	return counts, rows.Err()
}

func (s *Store) checkRun(ctx context.Context, runID string) error {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE id = ?`, runID).Scan(&n)
	if err != nil {
		return xerrors.Errorf("look up run: %w", err)
	}
	if n == 0 {
		return xerrors.Errorf("run %q: %w", runID, ErrUnknownRun)
	}
	return nil
}
