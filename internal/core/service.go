package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/vidsheet/internal/ingest"
	"github.com/JonMunkholm/vidsheet/internal/metrics"
	"github.com/JonMunkholm/vidsheet/internal/source"
	"github.com/JonMunkholm/vidsheet/internal/store"
)

var (
	// ErrNoRecords is returned when a refresh parses zero valid records.
	// The previous snapshot is kept.
	ErrNoRecords = errors.New("no data records found in the source sheet")

	// ErrNoSnapshot is returned by Current before the first successful refresh.
	ErrNoSnapshot = errors.New("no snapshot available")
)

// Options configure a Service. Zero values use defaults.
type Options struct {
	Ingest ingest.Options

	// Location interprets LastDataUpdate values that carry no zone.
	Location *time.Location

	// PreviewConcurrency and PreviewWait size the preview limiter.
	PreviewConcurrency int
	PreviewWait        time.Duration

	// Metrics receives refresh outcomes; nil disables them.
	Metrics *metrics.Metrics
}

// Service owns the current snapshot and runs refreshes against the sheet.
type Service struct {
	fetcher  source.Fetcher
	store    store.Store
	parser   *ingest.Parser
	previews *Limiter
	loc      *time.Location
	metrics  *metrics.Metrics

	group singleflight.Group

	mu       sync.RWMutex
	snapshot *Snapshot

	now func() time.Time
}

// NewService creates a Service. A nil store keeps no history.
func NewService(fetcher source.Fetcher, st store.Store, opts Options) *Service {
	if st == nil {
		st = store.Nop{}
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Service{
		fetcher:  fetcher,
		store:    st,
		parser:   ingest.NewParser(opts.Ingest),
		previews: NewLimiter(opts.PreviewConcurrency, opts.PreviewWait),
		loc:      loc,
		metrics:  opts.Metrics,
		now:      time.Now,
	}
}

// Current returns the latest snapshot, or ErrNoSnapshot before the first
// successful refresh. The returned snapshot must not be modified.
func (s *Service) Current() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return s.snapshot, nil
}

// setSnapshot installs snap as current. The last refresh to finish wins.
func (s *Service) setSnapshot(snap *Snapshot) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()
}

// Warm restores the latest stored run as the current snapshot so the API
// can serve data before the first fetch completes. A store with no
// successful run is not an error.
func (s *Service) Warm(ctx context.Context) error {
	run, records, err := s.store.LatestRun(ctx)
	if errors.Is(err, store.ErrNotFound) {
		slog.Info("no stored snapshot to restore")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load latest run: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	snap := s.newSnapshot(run.ID, run.FetchedAt, records)
	snap.HeaderRow = run.HeaderRow
	snap.Dropped = run.Dropped
	snap.Restored = true

	s.mu.Lock()
	if s.snapshot == nil {
		s.snapshot = snap
	}
	s.mu.Unlock()

	slog.Info("restored snapshot from store",
		"run_id", run.ID,
		"fetched_at", run.FetchedAt,
		"records", len(records),
	)
	return nil
}

// Runs returns refresh history, newest first.
func (s *Service) Runs(ctx context.Context, limit int) ([]store.Run, error) {
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Source describes where refreshes read from.
func (s *Service) Source() string {
	return s.fetcher.Source()
}

// DrainPreviews waits for in-flight previews during shutdown.
func (s *Service) DrainPreviews(ctx context.Context) error {
	return s.previews.WaitForDrain(ctx)
}
