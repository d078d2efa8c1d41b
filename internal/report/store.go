package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/hpmbench/internal/evaluator"
	_ "modernc.org/sqlite"
)

const schemaStmt = `
CREATE TABLE IF NOT EXISTS sweeps (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    started_at TEXT NOT NULL,
    finished_at TEXT NOT NULL,
    manifest TEXT NOT NULL,
    dimensions TEXT NOT NULL,
    total INTEGER NOT NULL,
    results INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sweep_id INTEGER NOT NULL REFERENCES sweeps(id),
    idx INTEGER NOT NULL,
    configuration TEXT NOT NULL,
    status TEXT NOT NULL,
    outcome TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    cause TEXT
);
CREATE TABLE IF NOT EXISTS metrics (
    run_id INTEGER NOT NULL REFERENCES runs(id),
    name TEXT NOT NULL,
    value TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_sweep ON runs(sweep_id, idx);
CREATE INDEX IF NOT EXISTS idx_metrics_run ON metrics(run_id);`

// SweepInfo describes the sweep a report belongs to.
type SweepInfo struct {
	Manifest string
	Started  time.Time
	Finished time.Time
}

// SweepSummary is one stored sweep.
type SweepSummary struct {
	ID         int64
	Started    time.Time
	Manifest   string
	Dimensions []string
	Total      int
	Results    int
}

// StoredRun is one stored configuration row.
type StoredRun struct {
	Index   int
	Line    string
	Status  string
	Outcome string
	Cause   string
	Metrics map[string]string
}

// Store keeps the history of sweeps in an on-disk SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens or creates the SQLite database at path.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("sqlite path cannot be empty")
	}
	dir := filepath.Dir(p)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, schemaStmt); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases database resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save stores the report as one sweep in a single transaction and returns
// the new sweep id.
func (s *Store) Save(ctx context.Context, info SweepInfo, rep *evaluator.Report) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	results, _ := rep.Counts()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO sweeps(started_at, finished_at, manifest, dimensions, total, results) VALUES(?, ?, ?, ?, ?, ?)`,
		formatTime(info.Started), formatTime(info.Finished), info.Manifest,
		strings.Join(rep.Dimensions, " "), len(rep.Rows), results,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sweep: %w", err)
	}
	sweepID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	insertRun, err := tx.PrepareContext(ctx,
		`INSERT INTO runs(sweep_id, idx, configuration, status, outcome, duration_ms, cause) VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare run insert: %w", err)
	}
	defer insertRun.Close()
	insertMetric, err := tx.PrepareContext(ctx, `INSERT INTO metrics(run_id, name, value) VALUES(?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare metric insert: %w", err)
	}
	defer insertMetric.Close()

	for _, row := range rep.Rows {
		var causeText sql.NullString
		if row.Cause != nil {
			causeText = sql.NullString{String: row.Cause.Error(), Valid: true}
		}
		res, err := insertRun.ExecContext(ctx, sweepID, row.Index, strings.Join(row.Values, " "),
			string(row.Status), string(row.Outcome), row.Duration.Milliseconds(), causeText)
		if err != nil {
			return 0, fmt.Errorf("insert run %d: %w", row.Index, err)
		}
		runID, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		for _, name := range rep.Metrics {
			value, ok := row.Metrics[name]
			if !ok {
				continue
			}
			if _, err := insertMetric.ExecContext(ctx, runID, name, value); err != nil {
				return 0, fmt.Errorf("insert metric %s of run %d: %w", name, row.Index, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sweep: %w", err)
	}
	return sweepID, nil
}

// Sweeps lists stored sweeps, newest first.
func (s *Store) Sweeps(ctx context.Context) ([]SweepSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, manifest, dimensions, total, results FROM sweeps ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SweepSummary
	for rows.Next() {
		var (
			sum     SweepSummary
			started string
			dims    string
		)
		if err := rows.Scan(&sum.ID, &started, &sum.Manifest, &dims, &sum.Total, &sum.Results); err != nil {
			return nil, err
		}
		sum.Started, _ = time.Parse(time.RFC3339Nano, started)
		sum.Dimensions = strings.Fields(dims)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Runs returns the stored rows of one sweep in manifest order.
func (s *Store) Runs(ctx context.Context, sweepID int64) ([]StoredRun, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.idx, r.configuration, r.status, r.outcome, COALESCE(r.cause, ''), m.name, m.value
FROM runs r LEFT JOIN metrics m ON m.run_id = r.id
WHERE r.sweep_id = ?
ORDER BY r.idx, r.id`, sweepID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		out    []StoredRun
		lastID int64 = -1
	)
	for rows.Next() {
		var (
			id          int64
			run         StoredRun
			name, value sql.NullString
		)
		if err := rows.Scan(&id, &run.Index, &run.Line, &run.Status, &run.Outcome, &run.Cause, &name, &value); err != nil {
			return nil, err
		}
		if id != lastID {
			out = append(out, run)
			lastID = id
		}
		if name.Valid {
			cur := &out[len(out)-1]
			if cur.Metrics == nil {
				cur.Metrics = make(map[string]string)
			}
			cur.Metrics[name.String] = value.String
		}
	}
	return out, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}
