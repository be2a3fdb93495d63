package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hyperjump/sift/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

// MemoryPath opens a private in-memory ledger.
const MemoryPath = ":memory:"

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	dsn := dbPath
	if dbPath != MemoryPath {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		// Batch workers record outcomes concurrently.
		dsn = "file:" + dbPath + "?_busy_timeout=5000"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		persona TEXT NOT NULL,
		task TEXT NOT NULL,
		input_dir TEXT,
		output_dir TEXT,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP,
		processed INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	CREATE TABLE IF NOT EXISTS document_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		document_id TEXT NOT NULL,
		document TEXT NOT NULL,
		status TEXT NOT NULL,
		sections INTEGER NOT NULL DEFAULT 0,
		ranked INTEGER NOT NULL DEFAULT 0,
		output_path TEXT,
		error_kind TEXT,
		error TEXT,
		processed_at TIMESTAMP NOT NULL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_results_run_id ON document_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_status ON document_results(status);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateRun inserts a run. StartedAt defaults to now.
func (s *SQLiteStorage) CreateRun(ctx context.Context, run *models.Run) error {
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, persona, task, input_dir, output_dir, started_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Persona, run.Task, run.InputDir, run.OutputDir, run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final counts of a run.
func (s *SQLiteStorage) FinishRun(ctx context.Context, id string, finishedAt time.Time, processed, failed int) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, processed = ?, failed = ? WHERE id = ?`,
		finishedAt, processed, failed, id,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

const runColumns = `id, persona, task, input_dir, output_dir, started_at, finished_at, processed, failed`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*models.Run, error) {
	var run models.Run
	var inputDir, outputDir sql.NullString
	var finished sql.NullTime
	if err := row.Scan(&run.ID, &run.Persona, &run.Task, &inputDir, &outputDir,
		&run.StartedAt, &finished, &run.Processed, &run.Failed); err != nil {
		return nil, err
	}
	run.InputDir = inputDir.String
	run.OutputDir = outputDir.String
	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return &run, nil
}

// GetRun returns a run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*models.Run, error) {
	run, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListRuns returns the most recent runs first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// RecordDocument inserts a document outcome and sets rec.ID.
func (s *SQLiteStorage) RecordDocument(ctx context.Context, rec *models.DocumentRecord) error {
	if rec.ProcessedAt.IsZero() {
		rec.ProcessedAt = time.Now().UTC()
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO document_results
		 (run_id, document_id, document, status, sections, ranked, output_path, error_kind, error, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.DocumentID, rec.Document, rec.Status, rec.Sections, rec.Ranked,
		rec.OutputPath, rec.ErrorKind, rec.Error, rec.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document result: %w", err)
	}
	rec.ID, _ = result.LastInsertId()
	return nil
}

// ListDocuments returns the outcomes of a run in the order they were recorded.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, runID string) ([]*models.DocumentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, document_id, document, status, sections, ranked,
		        output_path, error_kind, error, processed_at
		 FROM document_results WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*models.DocumentRecord
	for rows.Next() {
		var rec models.DocumentRecord
		var outputPath, errorKind, errText sql.NullString
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.DocumentID, &rec.Document, &rec.Status,
			&rec.Sections, &rec.Ranked, &outputPath, &errorKind, &errText, &rec.ProcessedAt); err != nil {
			return nil, err
		}
		rec.OutputPath = outputPath.String
		rec.ErrorKind = errorKind.String
		rec.Error = errText.String
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}

// CountRuns returns the number of runs.
func (s *SQLiteStorage) CountRuns(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n)
	return n, err
}

// CountDocuments returns the number of document outcomes with status, or all of them when status is empty.
func (s *SQLiteStorage) CountDocuments(ctx context.Context, status string) (int64, error) {
	var n int64
	var err error
	if status == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_results`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_results WHERE status = ?`, status).Scan(&n)
	}
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
