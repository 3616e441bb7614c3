package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/marinecrawl/internal/model"
)

// FileName is the name of the history database file.
const FileName = "marinecrawl.db"

var (
	// ErrRunNotFound is returned when a run id does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrDatabaseNotFound is returned by Open when the database file is
	// missing and CreateIfNotExists is false.
	ErrDatabaseNotFound = errors.New("history database not found")
)

// HistoryDB stores run reports.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrDatabaseNotFound, dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close() //nolint:errcheck // open error takes precedence
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close() //nolint:errcheck // open error takes precedence
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return hdb, nil
}

// Path returns the database file path.
func (h *HistoryDB) Path() string {
	return h.dbPath
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}

func (h *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		cancelled INTEGER NOT NULL DEFAULT 0,
		total_records INTEGER NOT NULL DEFAULT 0,
		total_errors INTEGER NOT NULL DEFAULT 0,
		report_json TEXT
	);

	CREATE TABLE IF NOT EXISTS pass_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		pass TEXT NOT NULL,
		dataset TEXT NOT NULL,
		status TEXT NOT NULL,
		seeds INTEGER NOT NULL DEFAULT 0,
		pages INTEGER NOT NULL DEFAULT 0,
		records INTEGER NOT NULL DEFAULT 0,
		errors INTEGER NOT NULL DEFAULT 0,
		message TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_pass_results_run ON pass_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_pass_results_pass ON pass_results(pass);
	`
	_, err := h.db.ExecContext(context.Background(), schema)
	return err
}

// BeginRun inserts a run started at startedAt and returns its id.
func (h *HistoryDB) BeginRun(ctx context.Context, startedAt time.Time) (int64, error) {
	res, err := h.db.ExecContext(ctx,
		`INSERT INTO runs (started_at) VALUES (?)`,
		formatTimestamp(startedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return res.LastInsertId()
}

// SavePassResult stores the result of one pass of run runID.
func (h *HistoryDB) SavePassResult(ctx context.Context, runID int64, r model.PassResult) error {
	_, err := h.db.ExecContext(ctx, `
	INSERT INTO pass_results (run_id, pass, dataset, status, seeds, pages, records, errors, message, duration_ms)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, r.Pass, r.Dataset, string(r.Status), r.Seeds, r.Pages, r.Records, r.Errors,
		r.Message, r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert pass result: %w", err)
	}
	return nil
}

// FinishRun stores the outcome of run runID, including the full report
// as JSON.
func (h *HistoryDB) FinishRun(ctx context.Context, runID int64, report *model.RunReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}

	res, err := h.db.ExecContext(ctx, `
	UPDATE runs
	SET finished_at = ?, cancelled = ?, total_records = ?, total_errors = ?, report_json = ?
	WHERE id = ?`,
		formatTimestamp(report.FinishedAt), boolToInt(report.Cancelled), report.TotalRecords(),
		len(report.Errors), string(reportJSON), runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return nil
}

// RecordRun stores a finished report: the run, then each pass result.
// It returns the run id.
func (h *HistoryDB) RecordRun(ctx context.Context, report *model.RunReport) (int64, error) {
	runID, err := h.BeginRun(ctx, report.StartedAt)
	if err != nil {
		return 0, err
	}
	for _, p := range report.Passes {
		if err := h.SavePassResult(ctx, runID, p); err != nil {
			return runID, err
		}
	}
	if err := h.FinishRun(ctx, runID, report); err != nil {
		return runID, err
	}
	return runID, nil
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID           int64
	StartedAt    time.Time
	FinishedAt   time.Time
	Cancelled    bool
	TotalRecords int
	TotalErrors  int
}

// ListRuns returns the most recent runs first. limit <= 0 returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, started_at, COALESCE(finished_at, ''), cancelled, total_records, total_errors
	FROM runs
	ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var started, finished string
		if err := rows.Scan(&r.ID, &started, &finished, &r.Cancelled, &r.TotalRecords, &r.TotalErrors); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.StartedAt = parseTimestamp(started)
		r.FinishedAt = parseTimestamp(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRunReport returns the stored report of run runID.
func (h *HistoryDB) GetRunReport(ctx context.Context, runID int64) (*model.RunReport, error) {
	var reportJSON sql.NullString
	err := h.db.QueryRowContext(ctx, `SELECT report_json FROM runs WHERE id = ?`, runID).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	if !reportJSON.Valid {
		return nil, fmt.Errorf("%w: %d has not finished", ErrRunNotFound, runID)
	}

	var report model.RunReport
	if err := json.Unmarshal([]byte(reportJSON.String), &report); err != nil {
		return nil, fmt.Errorf("failed to deserialize report: %w", err)
	}
	return &report, nil
}

// PassHistory is a stored pass result with the run it belongs to.
type PassHistory struct {
	RunID     int64
	StartedAt time.Time
	Result    model.PassResult
}

// LatestPassResults returns the results of pass in the n most recent runs
// that executed it, most recent first.
func (h *HistoryDB) LatestPassResults(ctx context.Context, pass string, n int) ([]PassHistory, error) {
	rows, err := h.db.QueryContext(ctx, `
	SELECT p.run_id, r.started_at, p.pass, p.dataset, p.status, p.seeds, p.pages,
		p.records, p.errors, COALESCE(p.message, ''), p.duration_ms
	FROM pass_results p
	JOIN runs r ON r.id = p.run_id
	WHERE p.pass = ?
	ORDER BY p.run_id DESC
	LIMIT ?`, pass, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query pass results: %w", err)
	}
	defer rows.Close()

	var history []PassHistory
	for rows.Next() {
		var ph PassHistory
		var started, status string
		var durationMS int64
		r := &ph.Result
		if err := rows.Scan(&ph.RunID, &started, &r.Pass, &r.Dataset, &status, &r.Seeds, &r.Pages,
			&r.Records, &r.Errors, &r.Message, &durationMS); err != nil {
			return nil, fmt.Errorf("failed to scan pass result: %w", err)
		}
		ph.StartedAt = parseTimestamp(started)
		r.Status = model.PassStatus(status)
		r.Duration = time.Duration(durationMS) * time.Millisecond
		history = append(history, ph)
	}
	return history, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// formatTimestamp renders t as RFC3339 in UTC. The zero time is empty.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// parseTimestamp parses a stored timestamp. Unparsable or empty values
// give the zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
