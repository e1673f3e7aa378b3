package core

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/vidsheet/internal/logging"
	"github.com/JonMunkholm/vidsheet/internal/store"
)

// Refresh triggers recorded in run history.
const (
	TriggerStartup   = "startup"
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// refreshKey is the singleflight key shared by all refreshes.
const refreshKey = "refresh"

// Refresh fetches and parses the sheet and installs the result as the
// current snapshot.
//
// Calls that overlap an in-flight refresh wait for it and share its result;
// the trigger of the first caller is the one recorded. The shared work is
// detached from the caller's cancellation so one caller giving up does not
// fail the others. A caller whose ctx ends stops waiting and gets ctx.Err().
func (s *Service) Refresh(ctx context.Context, trigger string) (*Snapshot, error) {
	work := context.WithoutCancel(ctx)

	ch := s.group.DoChan(refreshKey, func() (any, error) {
		return s.refresh(work, trigger)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) refresh(ctx context.Context, trigger string) (*Snapshot, error) {
	start := s.now()
	run := store.Run{
		ID:        uuid.New(),
		Trigger:   trigger,
		Source:    s.fetcher.Source(),
		FetchedAt: start.UTC(),
		Status:    store.StatusFailed,
	}

	log := logging.WithFields(ctx, "run_id", run.ID, "trigger", trigger)
	ctx = logging.WithLogger(ctx, log)
	log.Debug("refresh started", "source", run.Source)

	text, err := s.fetcher.Fetch(ctx)
	if err != nil {
		err = fmt.Errorf("fetch sheet: %w", err)
		s.recordFailure(ctx, run, start, err)
		return nil, err
	}

	result := s.parser.Parse(text)
	run.HeaderRow = result.HeaderRow
	run.Dropped = result.Dropped

	if len(result.Records) == 0 {
		log.Warn("refresh produced no records",
			"bytes", len(text),
			"rows_scanned", result.RowsScanned,
			"header_row", result.HeaderRow,
			"header", result.Header,
		)
		s.recordFailure(ctx, run, start, ErrNoRecords)
		return nil, ErrNoRecords
	}

	snap := s.newSnapshot(run.ID, run.FetchedAt, result.Records)
	snap.Header = result.Header
	snap.HeaderRow = result.HeaderRow
	snap.Dropped = result.Dropped
	s.setSnapshot(snap)

	run.Status = store.StatusSucceeded
	run.RecordCount = len(result.Records)
	run.Duration = s.now().Sub(start)

	s.metrics.ObserveRefresh(trigger, "", run.RecordCount, run.Dropped, run.Duration)

	// The snapshot is already live; a history write failure is logged only.
	if err := s.store.SaveRun(ctx, run, result.Records); err != nil {
		log.Error("failed to save refresh run", "error", err)
	}

	log.Info("refresh completed",
		"records", run.RecordCount,
		"dropped", run.Dropped,
		"header_row", run.HeaderRow,
		"last_data_update", snap.LastDataUpdateText,
		"duration_ms", run.Duration.Milliseconds(),
	)
	return snap, nil
}

// recordFailure saves a failed run without records.
func (s *Service) recordFailure(ctx context.Context, run store.Run, start time.Time, cause error) {
	log := logging.FromContext(ctx)

	run.Status = store.StatusFailed
	run.Error = cause.Error()
	run.Duration = s.now().Sub(start)

	code := MapError(cause).Code
	log.Error("refresh failed", "error", cause, "code", code, "duration_ms", run.Duration.Milliseconds())
	s.metrics.ObserveRefresh(run.Trigger, code, 0, run.Dropped, run.Duration)

	if err := s.store.SaveRun(ctx, run, nil); err != nil {
		log.Error("failed to save refresh run", "error", err)
	}
}
