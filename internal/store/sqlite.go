package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/ingest"
)

// sqlitePragmas are applied to every pooled connection through the DSN.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// SQLite stores runs in a local database file.
type SQLite struct {
	db      *sql.DB
	path    string
	history int
}

// OpenSQLite opens or creates the database at cfg.SQLitePath and applies
// migrations.
func OpenSQLite(ctx context.Context, cfg config.StoreConfig) (*SQLite, error) {
	if cfg.SQLitePath == "" {
		return nil, errors.New("sqlite path is empty")
	}

	db, err := sql.Open("sqlite", sqliteDSN(cfg.SQLitePath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	s := &SQLite{db: db, path: cfg.SQLitePath, history: cfg.RunHistory}
	if err := s.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func sqliteDSN(path string) string {
	q := url.Values{}
	for _, p := range sqlitePragmas {
		q.Add("_pragma", p)
	}
	return "file:" + path + "?" + q.Encode()
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLite) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations("sqlite")
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = ?", m.version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

const sqliteRunColumns = `id, run_trigger, source, status, error, fetched_at,
    record_count, dropped, header_row, duration_ms`

// SaveRun writes the run and its records in one transaction, then prunes
// history beyond the configured limit.
func (s *SQLite) SaveRun(ctx context.Context, run Run, records []ingest.VideoRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO refresh_runs (`+sqliteRunColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(),
		run.Trigger,
		run.Source,
		run.Status,
		run.Error,
		run.FetchedAt.UTC().UnixMilli(),
		run.RecordCount,
		run.Dropped,
		run.HeaderRow,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(records) > 0 {
		if err := insertSQLiteRecords(ctx, tx, run.ID, records); err != nil {
			return err
		}
	}

	if err := s.prune(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}

func insertSQLiteRecords(ctx context.Context, tx *sql.Tx, runID uuid.UUID, records []ingest.VideoRecord) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(recordColumns)+2), ", ")
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_records (run_id, position, `+strings.Join(recordColumns, ", ")+`) VALUES (`+placeholders+`)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	id := runID.String()
	for i := range records {
		args := append([]any{id, i}, recordValues(&records[i])...)
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	return nil
}

// prune deletes runs beyond the newest s.history. History <= 0 keeps all.
func (s *SQLite) prune(ctx context.Context, tx *sql.Tx) error {
	if s.history <= 0 {
		return nil
	}

	const keep = `SELECT id FROM refresh_runs ORDER BY fetched_at DESC, rowid DESC LIMIT ?`
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_records WHERE run_id NOT IN (`+keep+`)`, s.history); err != nil {
		return fmt.Errorf("prune records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM refresh_runs WHERE id NOT IN (`+keep+`)`, s.history); err != nil {
		return fmt.Errorf("prune runs: %w", err)
	}
	return nil
}

// LatestRun returns the newest successful run with its records in sheet order.
func (s *SQLite) LatestRun(ctx context.Context) (*Run, []ingest.VideoRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+sqliteRunColumns+` FROM refresh_runs
        WHERE status = ? ORDER BY fetched_at DESC, rowid DESC LIMIT 1`,
		StatusSucceeded,
	)

	run, err := scanSQLiteRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+strings.Join(recordColumns, ", ")+` FROM run_records WHERE run_id = ? ORDER BY position`,
		run.ID.String(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records := make([]ingest.VideoRecord, 0, run.RecordCount)
	for rows.Next() {
		var rec ingest.VideoRecord
		if err := rows.Scan(recordDest(&rec)...); err != nil {
			return nil, nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate records: %w", err)
	}

	return run, records, nil
}

// ListRuns returns up to limit runs, newest first.
func (s *SQLite) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteRunColumns+` FROM refresh_runs ORDER BY fetched_at DESC, rowid DESC LIMIT ?`,
		listLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanSQLiteRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteRun(row rowScanner) (*Run, error) {
	var (
		run        Run
		id         string
		fetchedAt  int64
		durationMS int64
	)
	err := row.Scan(
		&id,
		&run.Trigger,
		&run.Source,
		&run.Status,
		&run.Error,
		&fetchedAt,
		&run.RecordCount,
		&run.Dropped,
		&run.HeaderRow,
		&durationMS,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse run id %q: %w", id, err)
	}
	run.FetchedAt = time.UnixMilli(fetchedAt).UTC()
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

// Reset deletes every run and record, returning the number of runs removed.
func (s *SQLite) Reset(ctx context.Context) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reset tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_records`); err != nil {
		return 0, fmt.Errorf("reset records: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM refresh_runs`)
	if err != nil {
		return 0, fmt.Errorf("reset runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reset runs: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reset tx: %w", err)
	}
	return n, nil
}
