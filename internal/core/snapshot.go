package core

import (
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/vidsheet/internal/ingest"
)

// Snapshot is the record set produced by one successful refresh.
type Snapshot struct {
	RunID     uuid.UUID `json:"run_id"`
	FetchedAt time.Time `json:"fetched_at"`
	Count     int       `json:"count"`

	// LastDataUpdate is the newest parseable LastDataUpdate across records,
	// nil when none parse. LastDataUpdateText is its dashboard rendering.
	LastDataUpdate     *time.Time `json:"last_data_update"`
	LastDataUpdateText string     `json:"last_data_update_text"`

	Header    []string `json:"header,omitempty"`
	HeaderRow int      `json:"header_row"`
	Dropped   int      `json:"dropped"`

	// Restored marks a snapshot loaded from the store at startup.
	Restored bool `json:"restored,omitempty"`

	Records []ingest.VideoRecord `json:"records"`
}

func (s *Service) newSnapshot(runID uuid.UUID, fetchedAt time.Time, records []ingest.VideoRecord) *Snapshot {
	latest, ok := LatestDataUpdate(records, s.loc)

	snap := &Snapshot{
		RunID:              runID,
		FetchedAt:          fetchedAt,
		Count:              len(records),
		LastDataUpdateText: FormatDataUpdate(latest, ok),
		Records:            records,
	}
	if ok {
		snap.LastDataUpdate = &latest
	}
	return snap
}
