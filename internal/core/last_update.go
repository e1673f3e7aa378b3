package core

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/JonMunkholm/vidsheet/internal/ingest"
)

// noDataUpdate is shown when no record carries a parseable timestamp.
const noDataUpdate = "---"

// dataUpdateLayouts back up dateparse for shapes it reads inconsistently,
// including the header format written by FormatDataUpdate.
var dataUpdateLayouts = []string{
	"2006/01/02 03:04 PM",
	"2006-01-02 3:04 PM",
	"2006-01-02 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"January 2, 2006 15:04",
	"January 2, 2006 3:04 PM",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
}

// ParseDataUpdate parses a LastDataUpdate cell. An explicit zone or offset
// in the value wins; values without one are read in loc.
func ParseDataUpdate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if t, err := dateparse.ParseIn(value, loc); err == nil {
		return t, true
	}
	for _, layout := range dataUpdateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// LatestDataUpdate returns the newest parseable LastDataUpdate in records.
// Unparseable and empty values are ignored.
func LatestDataUpdate(records []ingest.VideoRecord, loc *time.Location) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for i := range records {
		t, ok := ParseDataUpdate(records[i].LastDataUpdate, loc)
		if ok && (!found || t.After(latest)) {
			latest, found = t, true
		}
	}
	return latest, found
}

// FormatDataUpdate renders t as "YYYY/MM/DD hh:mm AM", or "---" when ok
// is false.
func FormatDataUpdate(t time.Time, ok bool) string {
	if !ok {
		return noDataUpdate
	}
	return t.Format("2006/01/02 03:04 PM")
}
