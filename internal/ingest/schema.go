package ingest

import "strings"

// HeaderMap maps a normalized column name to its zero-based column index.
//
// When two header cells normalize to the same key the later column wins.
type HeaderMap map[string]int

// NormalizeHeader reduces a column name to its lookup key: trimmed,
// lower-cased, with everything except a-z and 0-9 removed. "Video Title",
// "video_title" and "VideoTitle " all become "videotitle".
func NormalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// NewHeaderMap builds a HeaderMap from the header row.
// Cells that normalize to an empty key are skipped.
func NewHeaderMap(header RawRow) HeaderMap {
	hm := make(HeaderMap, len(header))
	for i, cell := range header {
		key := NormalizeHeader(cell)
		if key == "" {
			continue
		}
		hm[key] = i
	}
	return hm
}

// Index returns the column for name, normalizing it the same way header
// cells were. ok is false when the sheet has no such column.
func (hm HeaderMap) Index(name string) (idx int, ok bool) {
	idx, ok = hm[NormalizeHeader(name)]
	return idx, ok
}

// Lookup returns the cell of row under the named column, and false when the
// column is absent or the row is too short to reach it.
func (hm HeaderMap) Lookup(row RawRow, name string) (string, bool) {
	idx, ok := hm.Index(name)
	if !ok || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}

// columnIndex is the resolved position of every canonical field; -1 marks a
// field the sheet does not carry.
type columnIndex [fieldCount]int

// resolveColumns maps each canonical field to its column once per run so row
// building is a plain array lookup.
func resolveColumns(hm HeaderMap) columnIndex {
	var cols columnIndex
	for _, spec := range fieldSpecs {
		if idx, ok := hm.Index(spec.Name); ok {
			cols[spec.Field] = idx
		} else {
			cols[spec.Field] = -1
		}
	}
	return cols
}

// cell returns the raw value for f, or "" when the column is missing or the
// row is ragged.
func (c *columnIndex) cell(row RawRow, f Field) string {
	idx := c[f]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
