// Package catalog keeps a SQLite record of documentation runs: which files
// were documented, which failed, and which warnings still need a human.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/fitsdoc/internal/fitsmeta"
)

// ErrNoRuns indicates an empty catalog.
var ErrNoRuns = errors.New("catalog has no runs")

// Status is the outcome recorded for one file.
type Status string

const (
	StatusDocumented Status = "documented"
	StatusWarning    Status = "warning"
	StatusUnchanged  Status = "unchanged"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// NeedsAttention reports whether a human has to look at the file.
func (s Status) NeedsAttention() bool {
	return s == StatusWarning || s == StatusFailed
}

// Run summarizes one invocation of the generator.
type Run struct {
	ID       string    `json:"id"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Files    int       `json:"files"`
	Failed   int       `json:"failed"`
	Warnings int       `json:"warnings"`
}

// FileRecord is the outcome for one input file in one run.
type FileRecord struct {
	RunID    string             `json:"run_id"`
	Path     string             `json:"path"`
	Output   string             `json:"output,omitempty"`
	Status   Status             `json:"status"`
	HDUs     int                `json:"hdus"`
	Size     int64              `json:"size"`
	Error    string             `json:"error,omitempty"`
	Warnings []fitsmeta.Warning `json:"warnings,omitempty"`
	Recorded time.Time          `json:"recorded"`
}

// Store is a SQLite backed catalog.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create catalog directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started INTEGER NOT NULL,
		finished INTEGER,
		files INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		warnings INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS documented_files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		path TEXT NOT NULL,
		output TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		hdus INTEGER NOT NULL DEFAULT 0,
		size INTEGER NOT NULL DEFAULT -1,
		error TEXT NOT NULL DEFAULT '',
		recorded INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_files_run ON documented_files(run_id);
	CREATE INDEX IF NOT EXISTS idx_files_path ON documented_files(path);
	CREATE TABLE IF NOT EXISTS warnings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file_id INTEGER NOT NULL REFERENCES documented_files(id),
		hdu INTEGER NOT NULL,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		message TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_warnings_file ON warnings(file_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context, runID string, started time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "INSERT INTO runs (id, started) VALUES (?, ?)", runID, started.UnixMilli())
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final counts of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE runs SET finished = ?, files = ?, failed = ?, warnings = ? WHERE id = ?",
		run.Finished.UnixMilli(), run.Files, run.Failed, run.Warnings, run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update run: unknown run %q", run.ID)
	}
	return nil
}

// RecordFile stores the outcome for one file together with its warnings.
func (s *Store) RecordFile(ctx context.Context, rec FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Recorded.IsZero() {
		rec.Recorded = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO documented_files (run_id, path, output, status, hdus, size, error, recorded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Path, rec.Output, string(rec.Status), rec.HDUs, rec.Size, rec.Error, rec.Recorded.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	fileID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("file id: %w", err)
	}

	for _, w := range rec.Warnings {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO warnings (file_id, hdu, name, code, message) VALUES (?, ?, ?, ?, ?)",
			fileID, w.HDU, w.Name, string(w.Code), w.Message,
		)
		if err != nil {
			return fmt.Errorf("insert warning: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LatestRun returns the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		run      Run
		started  int64
		finished sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, started, finished, files, failed, warnings FROM runs ORDER BY started DESC, rowid DESC LIMIT 1",
	).Scan(&run.ID, &started, &finished, &run.Files, &run.Failed, &run.Warnings)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNoRuns
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	run.Started = time.UnixMilli(started)
	if finished.Valid {
		run.Finished = time.UnixMilli(finished.Int64)
	}
	return run, nil
}

const fileColumns = "f.id, f.run_id, f.path, f.output, f.status, f.hdus, f.size, f.error, f.recorded"

// Files returns the records of one run in the order they were written.
func (s *Store) Files(ctx context.Context, runID string) ([]FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryFiles(ctx,
		"SELECT "+fileColumns+" FROM documented_files f WHERE f.run_id = ? ORDER BY f.id",
		runID,
	)
}

// NeedsAttention returns, for every path, its latest record when that
// record is a warning or a failure.
func (s *Store) NeedsAttention(ctx context.Context) ([]FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.queryFiles(ctx,
		`SELECT `+fileColumns+` FROM documented_files f
		 JOIN (SELECT path, MAX(id) AS id FROM documented_files GROUP BY path) latest ON latest.id = f.id
		 WHERE f.status IN (?, ?)
		 ORDER BY f.path`,
		string(StatusWarning), string(StatusFailed),
	)
}

func (s *Store) queryFiles(ctx context.Context, query string, args ...any) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}

	var (
		ids     []int64
		records []FileRecord
	)
	for rows.Next() {
		var (
			id       int64
			rec      FileRecord
			status   string
			recorded int64
		)
		if err := rows.Scan(&id, &rec.RunID, &rec.Path, &rec.Output, &status, &rec.HDUs, &rec.Size, &rec.Error, &recorded); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan file: %w", err)
		}
		rec.Status = Status(status)
		rec.Recorded = time.UnixMilli(recorded)
		ids = append(ids, id)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	_ = rows.Close()

	for i, id := range ids {
		warnings, err := s.warnings(ctx, id)
		if err != nil {
			return nil, err
		}
		records[i].Warnings = warnings
	}
	return records, nil
}

func (s *Store) warnings(ctx context.Context, fileID int64) ([]fitsmeta.Warning, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT hdu, name, code, message FROM warnings WHERE file_id = ? ORDER BY id", fileID)
	if err != nil {
		return nil, fmt.Errorf("query warnings: %w", err)
	}
	defer rows.Close()

	var out []fitsmeta.Warning
	for rows.Next() {
		var (
			w    fitsmeta.Warning
			code string
		)
		if err := rows.Scan(&w.HDU, &w.Name, &code, &w.Message); err != nil {
			return nil, fmt.Errorf("scan warning: %w", err)
		}
		w.Code = fitsmeta.WarningCode(code)
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
