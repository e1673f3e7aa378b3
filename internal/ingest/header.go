package ingest

import "strings"

// DefaultHeaderScanRows is how many leading rows are searched for the header.
const DefaultHeaderScanRows = 20

// DefaultHeaderMarkers are substrings that identify the header row once its
// cells are lower-cased and joined.
var DefaultHeaderMarkers = []string{"videotitle", "videourl"}

// Options holds the immutable configuration of a parse run.
type Options struct {
	// HeaderScanRows bounds the header search window (default: 20).
	HeaderScanRows int

	// HeaderMarkers are matched as substrings of the lower-cased, comma-joined row.
	HeaderMarkers []string
}

// DefaultOptions returns the options used by [Parse].
func DefaultOptions() Options {
	markers := make([]string, len(DefaultHeaderMarkers))
	copy(markers, DefaultHeaderMarkers)
	return Options{
		HeaderScanRows: DefaultHeaderScanRows,
		HeaderMarkers:  markers,
	}
}

// withDefaults fills zero-value fields.
func (o Options) withDefaults() Options {
	if o.HeaderScanRows <= 0 {
		o.HeaderScanRows = DefaultHeaderScanRows
	}
	if len(o.HeaderMarkers) == 0 {
		o.HeaderMarkers = DefaultHeaderMarkers
	}
	return o
}

// LocateHeader returns the index of the row to treat as the header.
//
// Only the first HeaderScanRows rows are considered. A row matches when its
// lower-cased, comma-joined text contains any marker; this is a substring
// match so padded or extended header names still qualify. With no match
// the first row is used.
func LocateHeader(rows []RawRow, opts Options) int {
	opts = opts.withDefaults()

	limit := min(len(rows), opts.HeaderScanRows)
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(rows[i], ","))
		for _, marker := range opts.HeaderMarkers {
			if marker != "" && strings.Contains(joined, marker) {
				return i
			}
		}
	}

	return 0
}
