package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/ingest"
)

// Postgres stores runs in PostgreSQL. Records are bulk loaded with COPY.
type Postgres struct {
	pool    *pgxpool.Pool
	history int
}

// OpenPostgres connects a pool sized from cfg, verifies it, and applies
// migrations.
func OpenPostgres(ctx context.Context, cfg config.StoreConfig) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Postgres{pool: pool, history: cfg.RunHistory}
	if err := s.applyMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the pool.
func (s *Postgres) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *Postgres) applyMigrations(ctx context.Context) error {
	migrations, err := loadMigrations("postgres")
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, "CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)"); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := tx.QueryRow(ctx, "SELECT COUNT(1) FROM schema_migrations WHERE version = $1", m.version).Scan(&count); err != nil {
			return fmt.Errorf("scan migration version: %w", err)
		}
		if count > 0 {
			continue
		}
		if _, err := tx.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.version, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
			return fmt.Errorf("record migration %s: %w", m.version, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}
	return nil
}

const pgRunColumns = `id, run_trigger, source, status, error, fetched_at,
    record_count, dropped, header_row, duration_ms`

// SaveRun inserts the run, COPYs its records and prunes old history in a
// single transaction.
func (s *Postgres) SaveRun(ctx context.Context, run Run, records []ingest.VideoRecord) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO refresh_runs (`+pgRunColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID,
		run.Trigger,
		run.Source,
		run.Status,
		run.Error,
		run.FetchedAt.UTC(),
		run.RecordCount,
		run.Dropped,
		run.HeaderRow,
		run.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(records) > 0 {
		columns := append([]string{"run_id", "position"}, recordColumns...)
		copied, err := tx.CopyFrom(ctx,
			pgx.Identifier{"run_records"},
			columns,
			pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
				return append([]any{run.ID, i}, recordValues(&records[i])...), nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy records: %w", err)
		}
		if int(copied) != len(records) {
			return fmt.Errorf("copy records: wrote %d of %d", copied, len(records))
		}
	}

	if s.history > 0 {
		if _, err := tx.Exec(ctx,
			`DELETE FROM refresh_runs WHERE id NOT IN (
                SELECT id FROM refresh_runs ORDER BY fetched_at DESC LIMIT $1)`,
			s.history,
		); err != nil {
			return fmt.Errorf("prune runs: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save tx: %w", err)
	}
	return nil
}

// LatestRun returns the newest successful run with its records in sheet order.
func (s *Postgres) LatestRun(ctx context.Context) (*Run, []ingest.VideoRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+pgRunColumns+` FROM refresh_runs
        WHERE status = $1 ORDER BY fetched_at DESC LIMIT 1`,
		StatusSucceeded,
	)

	run, err := scanPgRun(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+strings.Join(recordColumns, ", ")+` FROM run_records WHERE run_id = $1 ORDER BY position`,
		run.ID,
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
func (s *Postgres) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+pgRunColumns+` FROM refresh_runs ORDER BY fetched_at DESC LIMIT $1`,
		listLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanPgRun(rows)
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

func scanPgRun(row pgx.Row) (*Run, error) {
	var (
		run        Run
		durationMS int64
	)
	err := row.Scan(
		&run.ID,
		&run.Trigger,
		&run.Source,
		&run.Status,
		&run.Error,
		&run.FetchedAt,
		&run.RecordCount,
		&run.Dropped,
		&run.HeaderRow,
		&durationMS,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.FetchedAt = run.FetchedAt.UTC()
	return &run, nil
}

var _ Store = (*Postgres)(nil)
var _ Store = (*SQLite)(nil)
var _ Store = Nop{}

// Reset deletes every run and record, returning the number of runs removed.
func (s *Postgres) Reset(ctx context.Context) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin reset tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM run_records`); err != nil {
		return 0, fmt.Errorf("reset records: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM refresh_runs`)
	if err != nil {
		return 0, fmt.Errorf("reset runs: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit reset tx: %w", err)
	}
	return tag.RowsAffected(), nil
}
