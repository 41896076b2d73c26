package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ecohotels-e2e/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("storage: not found")

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// A single connection keeps ":memory:" databases coherent.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			browser TEXT NOT NULL,
			base_url TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			scenario_id TEXT NOT NULL,
			suite TEXT NOT NULL,
			title TEXT NOT NULL,
			status TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			error TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id)`,
		`CREATE TABLE IF NOT EXISTS fixtures (
			name TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			captured_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			role TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			sealed_password BLOB,
			updated_at DATETIME NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateRun inserts a new run. StartedAt defaults to now.
func (db *DB) CreateRun(r *models.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	_, err := db.conn.Exec(
		"INSERT INTO runs (id, started_at, browser, base_url) VALUES (?, ?, ?, ?)",
		r.ID, r.StartedAt, r.Browser, r.BaseURL,
	)
	return err
}

// FinishRun stamps the finish time of a run.
func (db *DB) FinishRun(id string, finishedAt time.Time) error {
	res, err := db.conn.Exec("UPDATE runs SET finished_at = ? WHERE id = ?", finishedAt, id)
	if err != nil {
		return err
	}
	return expectRow(res)
}

// GetRun retrieves a run by ID.
func (db *DB) GetRun(id string) (*models.Run, error) {
	row := db.conn.QueryRow(
		"SELECT id, started_at, finished_at, browser, base_url FROM runs WHERE id = ?",
		id,
	)
	return scanRun(row)
}

// LatestRun retrieves the most recently started run.
func (db *DB) LatestRun() (*models.Run, error) {
	row := db.conn.QueryRow(
		"SELECT id, started_at, finished_at, browser, base_url FROM runs ORDER BY started_at DESC LIMIT 1",
	)
	return scanRun(row)
}

// ListRuns retrieves the most recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(
		"SELECT id, started_at, finished_at, browser, base_url FROM runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var r models.Run
	var finished sql.NullTime
	if err := s.Scan(&r.ID, &r.StartedAt, &finished, &r.Browser, &r.BaseURL); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if finished.Valid {
		t := finished.Time
		r.FinishedAt = &t
	}
	return &r, nil
}

// RecordResult inserts the outcome of one scenario.
func (db *DB) RecordResult(res *models.Result) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now()
	}
	out, err := db.conn.Exec(
		`INSERT INTO results (run_id, scenario_id, suite, title, status, duration_ms, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, res.ScenarioID, res.Suite, res.Title, string(res.Status),
		res.Duration.Milliseconds(), res.Error, res.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, err := out.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = id
	return nil
}

// ListResults retrieves all results of a run in recording order.
func (db *DB) ListResults(runID string) ([]models.Result, error) {
	return db.queryResults(
		`SELECT id, run_id, scenario_id, suite, title, status, duration_ms, error, created_at
		FROM results WHERE run_id = ? ORDER BY id`,
		runID,
	)
}

// ListFailures retrieves the failed results of a run.
func (db *DB) ListFailures(runID string) ([]models.Result, error) {
	return db.queryResults(
		`SELECT id, run_id, scenario_id, suite, title, status, duration_ms, error, created_at
		FROM results WHERE run_id = ? AND status = ? ORDER BY id`,
		runID, string(models.StatusFail),
	)
}

func (db *DB) queryResults(query string, args ...any) ([]models.Result, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []models.Result
	for rows.Next() {
		var r models.Result
		var status string
		var ms int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.ScenarioID, &r.Suite, &r.Title, &status, &ms, &r.Error, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Status = models.Status(status)
		r.Duration = time.Duration(ms) * time.Millisecond
		results = append(results, r)
	}
	return results, rows.Err()
}

// Summarize counts outcomes of a run.
func (db *DB) Summarize(runID string) (models.Summary, error) {
	s := models.Summary{RunID: runID}
	rows, err := db.conn.Query(
		"SELECT status, COUNT(*) FROM results WHERE run_id = ? GROUP BY status",
		runID,
	)
	if err != nil {
		return s, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return s, err
		}
		switch models.Status(status) {
		case models.StatusPass:
			s.Passed = n
		case models.StatusFail:
			s.Failed = n
		case models.StatusSkip:
			s.Skipped = n
		}
	}
	return s, rows.Err()
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
