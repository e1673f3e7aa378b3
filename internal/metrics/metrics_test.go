package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// scrape returns the exposition text of m.
func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	return rec.Body.String()
}

func TestObserveRefresh(t *testing.T) {
	m := New()

	m.ObserveRefresh("scheduled", "", 42, 3, 250*time.Millisecond)
	m.ObserveRefresh("manual", "ING001", 0, 5, 10*time.Millisecond)

	out := scrape(t, m)
	for _, want := range []string{
		`vidsheet_refresh_total{code="OK",status="succeeded",trigger="scheduled"} 1`,
		`vidsheet_refresh_total{code="ING001",status="failed",trigger="manual"} 1`,
		"vidsheet_snapshot_records 42",
		"vidsheet_snapshot_dropped_rows 3",
		"vidsheet_refresh_duration_seconds_count 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("/api/videos", http.MethodGet, http.StatusOK, time.Millisecond)
	m.ObserveRequest("", http.MethodGet, http.StatusNotFound, time.Millisecond)

	out := scrape(t, m)
	for _, want := range []string{
		`vidsheet_http_requests_total{method="GET",route="/api/videos",status="200"} 1`,
		`vidsheet_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveRefresh("manual", "", 1, 0, time.Second)

	if strings.Contains(scrape(t, b), `trigger="manual"`) {
		t.Error("metrics leaked between registries")
	}
	if a.Registry() == b.Registry() {
		t.Error("registries are shared")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	// Should not panic
	m.ObserveRefresh("manual", "", 1, 0, time.Second)
	m.ObserveRequest("/", "GET", 200, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("nil handler status = %d, want 404", rec.Code)
	}
	if m.Registry() != nil {
		t.Error("nil Registry() should be nil")
	}
}
