package ingest

import "testing"

func TestLocateHeader(t *testing.T) {
	tests := []struct {
		name string
		rows []RawRow
		want int
	}{
		{
			name: "header on first row",
			rows: []RawRow{{"PublishDate", "VideoTitle"}, {"2026-01-01", "x"}},
			want: 0,
		},
		{
			name: "two blank rows above header",
			rows: []RawRow{{""}, {""}, {"PublishDate", "VideoTitle", "Views"}, {"d", "t", "1"}},
			want: 2,
		},
		{
			name: "banner row above header matched by url marker",
			rows: []RawRow{{"Weekly export"}, {"Title", "VideoURL"}, {"t", "u"}},
			want: 1,
		},
		{
			name: "marker matched case-insensitively",
			rows: []RawRow{{"banner"}, {"VIDEOTITLE"}},
			want: 1,
		},
		{
			name: "padded header name still matches",
			rows: []RawRow{{"x"}, {"MyVideoTitle2026"}},
			want: 1,
		},
		{
			name: "no marker defaults to first row",
			rows: []RawRow{{"a", "b"}, {"c", "d"}},
			want: 0,
		},
		{
			name: "spaced header name is not a marker match",
			rows: []RawRow{{"banner"}, {"Video Title", "Video Link"}},
			want: 0,
		},
		{
			name: "empty input",
			rows: nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LocateHeader(tt.rows, DefaultOptions()); got != tt.want {
				t.Errorf("LocateHeader() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLocateHeader_ScanWindow(t *testing.T) {
	rows := make([]RawRow, 0, 25)
	for i := 0; i < 22; i++ {
		rows = append(rows, RawRow{"banner"})
	}
	rows = append(rows, RawRow{"VideoTitle", "VideoURL"})

	if got := LocateHeader(rows, DefaultOptions()); got != 0 {
		t.Errorf("header beyond window: got %d, want 0", got)
	}

	opts := Options{HeaderScanRows: 30}
	if got := LocateHeader(rows, opts); got != 22 {
		t.Errorf("wider window: got %d, want 22", got)
	}
}

func TestLocateHeader_CustomMarkers(t *testing.T) {
	rows := []RawRow{{"banner"}, {"Clip Name", "Link"}}
	opts := Options{HeaderMarkers: []string{"clip name"}}

	if got := LocateHeader(rows, opts); got != 1 {
		t.Errorf("LocateHeader() = %d, want 1", got)
	}
}

func TestDefaultOptions_IsolatedCopy(t *testing.T) {
	opts := DefaultOptions()
	opts.HeaderMarkers[0] = "changed"

	if DefaultHeaderMarkers[0] != "videotitle" {
		t.Errorf("DefaultHeaderMarkers mutated through DefaultOptions: %q", DefaultHeaderMarkers[0])
	}
}
