// Package admin provides destructive maintenance operations on the run store.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/vidsheet/internal/store"
)

// ResetTimeout is the maximum duration for store reset operations.
const ResetTimeout = 30 * time.Second

// ErrResetUnsupported is returned for stores that cannot drop their history.
var ErrResetUnsupported = errors.New("store does not support reset")

// Resetter is implemented by stores that can delete all runs.
type Resetter interface {
	Reset(ctx context.Context) (int64, error)
}

// ResetAll deletes every stored run and its records, returning the number
// of runs removed. The served snapshot of a running server is unaffected
// until its next restart.
// This is a destructive operation - use with caution.
func ResetAll(ctx context.Context, st store.Store) (int64, error) {
	r, ok := st.(Resetter)
	if !ok {
		return 0, ErrResetUnsupported
	}

	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	n, err := r.Reset(ctx)
	if err != nil {
		return 0, fmt.Errorf("reset store: %w", err)
	}

	slog.Info("store reset", "runs_removed", n)
	return n, nil
}
