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

	"github.com/AymanRbati/ExposedInraRecon/internal/model"
)

// FileName is the database file created inside the data directory.
const FileName = "recon.db"

// ErrRunNotFound is returned by GetRun for an unknown id.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB records completed runs.
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
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rwc"
	if !opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(context.Background()); err != nil {
		_ = db.Close()
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

func (h *HistoryDB) createTables(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		input_file TEXT NOT NULL,
		stage TEXT NOT NULL,
		started_at TEXT NOT NULL,
		finished_at TEXT,
		error TEXT,
		domains INTEGER NOT NULL DEFAULT 0,
		subdomains INTEGER NOT NULL DEFAULT 0,
		addresses INTEGER NOT NULL DEFAULT 0,
		scans INTEGER NOT NULL DEFAULT 0,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);

	CREATE TABLE IF NOT EXISTS run_subdomains (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		subdomain TEXT NOT NULL,
		PRIMARY KEY (run_id, subdomain)
	);

	CREATE TABLE IF NOT EXISTS run_addresses (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		address TEXT NOT NULL,
		family TEXT NOT NULL,
		PRIMARY KEY (run_id, address)
	);

	CREATE INDEX IF NOT EXISTS idx_addresses_address ON run_addresses(address);

	CREATE TABLE IF NOT EXISTS run_scans (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		address TEXT NOT NULL,
		exit_code INTEGER NOT NULL,
		output_bytes INTEGER NOT NULL,
		outcome TEXT NOT NULL,
		error TEXT,
		PRIMARY KEY (run_id, address)
	);
	`
	_, err := h.db.ExecContext(ctx, schema)
	return err
}

// RunMetadata is one row of the run listing.
type RunMetadata struct {
	ID         int64
	InputFile  string
	Stage      string
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
	Domains    int
	Subdomains int
	Addresses  int
	Scans      int
}

// SaveRun stores s in a single transaction and returns the new run id.
func (h *HistoryDB) SaveRun(ctx context.Context, s *model.Summary) (int64, error) {
	summaryJSON, err := json.Marshal(s)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() //nolint:errcheck // no-op after Commit

	var finished sql.NullString
	if !s.FinishedAt.IsZero() {
		finished = sql.NullString{String: formatTimestamp(s.FinishedAt), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (input_file, stage, started_at, finished_at, error,
		domains, subdomains, addresses, scans, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		s.InputFile,
		s.Stage.String(),
		formatTimestamp(s.StartedAt),
		finished,
		s.Error,
		s.Counts.Domains,
		s.Counts.Subdomains,
		len(s.Addresses),
		s.Counts.Scans,
		string(summaryJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, sub := range s.Subdomains {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_subdomains (run_id, subdomain) VALUES (?, ?)`, id, sub); err != nil {
			return 0, fmt.Errorf("failed to insert subdomain %s: %w", sub, err)
		}
	}

	for _, addr := range s.Addresses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_addresses (run_id, address, family) VALUES (?, ?, ?)`,
			id, addr, string(model.FamilyOf(addr))); err != nil {
			return 0, fmt.Errorf("failed to insert address %s: %w", addr, err)
		}
	}

	for _, scan := range s.Scans {
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO run_scans (run_id, address, exit_code, output_bytes, outcome, error)
		VALUES (?, ?, ?, ?, ?, ?)
		`, id, scan.Address, scan.ExitCode, scan.OutputSize, scan.Outcome.String(), scan.Error); err != nil {
			return 0, fmt.Errorf("failed to insert scan of %s: %w", scan.Address, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs first. A non-positive limit
// returns every run.
func (h *HistoryDB) ListRuns(ctx context.Context, limit int) ([]RunMetadata, error) {
	query := `
	SELECT id, input_file, stage, started_at, finished_at, error,
		domains, subdomains, addresses, scans
	FROM runs
	ORDER BY id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunMetadata
	for rows.Next() {
		var (
			meta               RunMetadata
			started            string
			finished, errorMsg sql.NullString
		)
		if err := rows.Scan(
			&meta.ID,
			&meta.InputFile,
			&meta.Stage,
			&started,
			&finished,
			&errorMsg,
			&meta.Domains,
			&meta.Subdomains,
			&meta.Addresses,
			&meta.Scans,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		meta.StartedAt = parseTimestamp(started)
		if finished.Valid {
			meta.FinishedAt = parseTimestamp(finished.String)
		}
		meta.Error = errorMsg.String
		runs = append(runs, meta)
	}
	return runs, rows.Err()
}

// GetRun returns the stored summary of run id.
func (h *HistoryDB) GetRun(ctx context.Context, id int64) (*model.Summary, error) {
	var summaryJSON string
	err := h.db.QueryRowContext(ctx, `SELECT summary_json FROM runs WHERE id = ?`, id).Scan(&summaryJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	var s model.Summary
	if err := json.Unmarshal([]byte(summaryJSON), &s); err != nil {
		return nil, fmt.Errorf("failed to parse run summary: %w", err)
	}
	return &s, nil
}

// RunsWithAddress returns the ids of runs that collected address, newest first.
func (h *HistoryDB) RunsWithAddress(ctx context.Context, address string) ([]int64, error) {
	rows, err := h.db.QueryContext(ctx,
		`SELECT run_id FROM run_addresses WHERE address = ? ORDER BY run_id DESC`, address)
	if err != nil {
		return nil, fmt.Errorf("failed to query address history: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// timestampFormats lists the formats SQLite may hand back, most specific first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp returns the zero time when no format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
