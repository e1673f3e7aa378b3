package web

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/JonMunkholm/vidsheet/internal/core"
	"github.com/JonMunkholm/vidsheet/internal/logging"
)

// healthResponse reports liveness and whether records are being served.
type healthResponse struct {
	Status    string     `json:"status"`
	Source    string     `json:"source"`
	Ready     bool       `json:"ready"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Records   int        `json:"records"`
}

// refreshResponse summarizes a completed manual refresh.
type refreshResponse struct {
	RunID              string     `json:"run_id"`
	FetchedAt          time.Time  `json:"fetched_at"`
	Count              int        `json:"count"`
	Dropped            int        `json:"dropped"`
	HeaderRow          int        `json:"header_row"`
	LastDataUpdate     *time.Time `json:"last_data_update"`
	LastDataUpdateText string     `json:"last_data_update_text"`
}

// handleHealth always answers 200; Ready is false until the first snapshot.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Source: s.service.Source()}
	if snap, err := s.service.Current(); err == nil {
		resp.Ready = true
		resp.FetchedAt = &snap.FetchedAt
		resp.Records = snap.Count
	}
	writeJSON(w, resp)
}

// handleVideos serves the current snapshot.
func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Current()
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, snap)
}

// handleRefresh fetches the sheet now and reports the new snapshot.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := s.service.Refresh(r.Context(), core.TriggerManual)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, refreshResponse{
		RunID:              snap.RunID.String(),
		FetchedAt:          snap.FetchedAt,
		Count:              snap.Count,
		Dropped:            snap.Dropped,
		HeaderRow:          snap.HeaderRow,
		LastDataUpdate:     snap.LastDataUpdate,
		LastDataUpdateText: snap.LastDataUpdateText,
	})
}

// handlePreview parses the request body as sheet text without touching
// the served snapshot.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxPreviewSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logging.FromContext(r.Context()).Warn("preview body too large", "limit", tooLarge.Limit)
			writeErrorBody(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Error:   "Preview body is too large.",
				Message: "Preview body is too large.",
				Action:  "Send at most " + strconv.FormatInt(tooLarge.Limit, 10) + " bytes.",
				Code:    "REQ003",
			})
			return
		}
		respondError(w, r, err)
		return
	}

	result, err := s.service.Preview(r.Context(), string(body))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// handleRuns lists recent refresh runs, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 0)

	runs, err := s.service.Runs(r.Context(), limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"runs": runs, "count": len(runs)})
}

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}
