// Package store persists refresh runs and the records they produced.
//
// Two backends implement [Store]: PostgreSQL through pgxpool and SQLite
// through modernc.org/sqlite. The "none" driver keeps nothing, which leaves
// the service running from memory only.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/ingest"
)

// ErrNotFound is returned by LatestRun when no successful run is stored.
var ErrNotFound = errors.New("no stored refresh run")

// Run status values.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Run is one refresh attempt.
type Run struct {
	ID          uuid.UUID     `json:"id"`
	Trigger     string        `json:"trigger"`
	Source      string        `json:"source"`
	FetchedAt   time.Time     `json:"fetched_at"`
	RecordCount int           `json:"record_count"`
	Dropped     int           `json:"dropped"`
	HeaderRow   int           `json:"header_row"`
	Duration    time.Duration `json:"-"`
	Status      string        `json:"status"`
	Error       string        `json:"error,omitempty"`
}

// MarshalJSON reports Duration in whole milliseconds.
func (r Run) MarshalJSON() ([]byte, error) {
	type plain Run
	return json.Marshal(struct {
		plain
		DurationMS int64 `json:"duration_ms"`
	}{plain(r), r.Duration.Milliseconds()})
}

// Store records refresh runs. Failed runs are saved without records.
type Store interface {
	SaveRun(ctx context.Context, run Run, records []ingest.VideoRecord) error
	// LatestRun returns the most recent successful run and its records.
	LatestRun(ctx context.Context) (*Run, []ingest.VideoRecord, error)
	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Open selects a backend from cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg)
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg)
	case config.DriverNone, "":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// Nop is a Store that keeps nothing.
type Nop struct{}

func (Nop) SaveRun(context.Context, Run, []ingest.VideoRecord) error { return nil }

func (Nop) LatestRun(context.Context) (*Run, []ingest.VideoRecord, error) {
	return nil, nil, ErrNotFound
}

func (Nop) ListRuns(context.Context, int) ([]Run, error) { return []Run{}, nil }

func (Nop) Close() error { return nil }

func (Nop) Reset(context.Context) (int64, error) { return 0, nil }

// DefaultListLimit applies when ListRuns is called with limit <= 0.
const DefaultListLimit = 50

func listLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
