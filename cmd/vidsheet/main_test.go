package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/vidsheet/internal/config"
	"github.com/JonMunkholm/vidsheet/internal/ingest"
	"github.com/JonMunkholm/vidsheet/internal/store"
)

const cliSheet = "Weekly export,,,\n" +
	"VideoTitle,ChannelName,VideoURL,Views,LastDataUpdate\n" +
	"First,Chan A,https://v/1,\"12,000\",2026-03-01 09:00\n" +
	"Second,Chan B,https://v/2,1500,2026-03-02 18:30\n" +
	"No link,Chan C,,99,2026-03-03 00:00\n"

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Fatalf("output missing %q:\n%s", substr, s)
	}
}

func writeSheet(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(cliSheet), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	return path
}

func TestParseCommand_Table(t *testing.T) {
	path := writeSheet(t)

	out, _, err := runCLI(t, "parse", path, "--limit", "1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	requireContains(t, out, "Header row:       1")
	requireContains(t, out, "Records:          2")
	requireContains(t, out, "Dropped rows:     1")
	requireContains(t, out, "First")
	requireContains(t, out, "Chan A")
	requireContains(t, out, "1 more records not shown")
	if strings.Contains(out, "Chan B") {
		t.Errorf("limit 1 should hide the second record:\n%s", out)
	}
}

func TestParseCommand_JSON(t *testing.T) {
	path := writeSheet(t)

	out, _, err := runCLI(t, "parse", path, "--json")
	if err != nil {
		t.Fatalf("parse --json: %v", err)
	}

	var report struct {
		Source    string               `json:"source"`
		Records   []ingest.VideoRecord `json:"records"`
		Dropped   int                  `json:"dropped"`
		HeaderRow int                  `json:"header_row"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if report.Source != "file:"+path {
		t.Errorf("source = %q", report.Source)
	}
	if len(report.Records) != 2 || report.Dropped != 1 || report.HeaderRow != 1 {
		t.Errorf("records=%d dropped=%d header_row=%d", len(report.Records), report.Dropped, report.HeaderRow)
	}
	if report.Records[1].Views != 1500 {
		t.Errorf("Views = %v, want 1500", report.Records[1].Views)
	}
}

func TestParseCommand_MissingFile(t *testing.T) {
	_, _, err := runCLI(t, "parse", filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFetchCommand(t *testing.T) {
	t.Setenv("SHEET_URL", "")
	t.Setenv("SOURCE_URL", "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(cliSheet))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "fetch", srv.URL+"/export.csv", "--limit", "0")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	requireContains(t, out, "Records:          2")
	requireContains(t, out, "Chan B")
}

func TestFetchCommand_NoURL(t *testing.T) {
	t.Setenv("SHEET_URL", "")
	t.Setenv("SOURCE_URL", "")

	_, _, err := runCLI(t, "fetch")
	if err == nil || !strings.Contains(err.Error(), "SHEET_URL") {
		t.Fatalf("err = %v, want mention of SHEET_URL", err)
	}
}

func TestFetchCommand_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, _, err := runCLI(t, "fetch", srv.URL)
	if err == nil || !strings.Contains(err.Error(), "fetch sheet") {
		t.Fatalf("err = %v, want fetch sheet error", err)
	}
}

func TestRunsCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	t.Setenv("STORE_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", dbPath)

	ctx := context.Background()
	st, err := store.Open(ctx, config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: dbPath, RunHistory: 10})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	run := store.Run{
		ID:          uuid.New(),
		Trigger:     "manual",
		Source:      "https://example.com/sheet.csv",
		FetchedAt:   time.Now().Add(-time.Hour),
		RecordCount: 1234,
		Duration:    250 * time.Millisecond,
		Status:      store.StatusSucceeded,
	}
	records := []ingest.VideoRecord{{VideoTitle: "First", VideoURL: "https://v/1"}}
	if err := st.SaveRun(ctx, run, records); err != nil {
		t.Fatalf("save run: %v", err)
	}
	st.Close()

	out, _, err := runCLI(t, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, run.ID.String()[:8])
	requireContains(t, out, "succeeded")
	requireContains(t, out, "1,234")
	requireContains(t, out, "1 hour ago")

	out, _, err = runCLI(t, "runs", "--json")
	if err != nil {
		t.Fatalf("runs --json: %v", err)
	}
	var runs []map[string]any
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0]["duration_ms"] != float64(250) {
		t.Errorf("runs = %v", runs)
	}
}

func TestRunsCommand_Empty(t *testing.T) {
	t.Setenv("STORE_DRIVER", config.DriverNone)

	out, _, err := runCLI(t, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No refresh runs recorded.")
}

func TestResetCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reset.db")
	t.Setenv("STORE_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", dbPath)

	ctx := context.Background()
	st, err := store.Open(ctx, config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: dbPath, RunHistory: 10})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for i := 0; i < 2; i++ {
		run := store.Run{ID: uuid.New(), Trigger: "manual", FetchedAt: time.Now(), Status: store.StatusFailed, Error: "boom"}
		if err := st.SaveRun(ctx, run, nil); err != nil {
			t.Fatalf("save run: %v", err)
		}
	}
	st.Close()

	// Declining leaves history alone.
	_, _, err = runCLIWithInput(t, "n\n", "reset")
	if !errors.Is(err, errResetCancelled) {
		t.Fatalf("reset with 'n' err = %v, want errResetCancelled", err)
	}

	out, _, err := runCLIWithInput(t, "y\n", "reset")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	requireContains(t, out, "Removed 2 refresh runs.")

	out, _, err = runCLI(t, "reset", "--yes", "--json")
	if err != nil {
		t.Fatalf("reset --yes: %v", err)
	}
	requireContains(t, out, `"runs_removed": 0`)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much longer title", 5, "much…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
