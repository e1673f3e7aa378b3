package admin

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/ingest"
	"github.com/JonMunkholm/vidsheet/internal/store"
)

func TestResetAll_SQLite(t *testing.T) {
	ctx := context.Background()
	st, err := store.OpenSQLite(ctx, config.StoreConfig{
		SQLitePath: filepath.Join(t.TempDir(), "reset.db"),
		RunHistory: 10,
	})
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer st.Close()

	for i := 0; i < 3; i++ {
		run := store.Run{
			ID:          uuid.New(),
			Trigger:     "manual",
			FetchedAt:   time.Now().Add(time.Duration(i) * time.Second),
			RecordCount: 1,
			Status:      store.StatusSucceeded,
		}
		if err := st.SaveRun(ctx, run, []ingest.VideoRecord{{VideoTitle: "A", VideoURL: "https://v/a"}}); err != nil {
			t.Fatalf("SaveRun() error = %v", err)
		}
	}

	n, err := ResetAll(ctx, st)
	if err != nil {
		t.Fatalf("ResetAll() error = %v", err)
	}
	if n != 3 {
		t.Errorf("runs removed = %d, want 3", n)
	}

	if _, _, err := st.LatestRun(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("LatestRun() after reset error = %v, want ErrNotFound", err)
	}
}

func TestResetAll_Nop(t *testing.T) {
	n, err := ResetAll(context.Background(), store.Nop{})
	if err != nil || n != 0 {
		t.Errorf("ResetAll(Nop) = %d, %v", n, err)
	}
}

func TestResetAll_Unsupported(t *testing.T) {
	// Embedding the interface hides Nop's Reset method.
	_, err := ResetAll(context.Background(), struct{ store.Store }{store.Nop{}})
	if !errors.Is(err, ErrResetUnsupported) {
		t.Errorf("err = %v, want ErrResetUnsupported", err)
	}
}
