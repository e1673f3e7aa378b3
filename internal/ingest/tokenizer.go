package ingest

// tokenizer.go splits CSV text into rows of raw fields.
//
// The scan is a two-state machine (quoted/unquoted) over the input bytes.
// Delimiters are all ASCII, so multi-byte UTF-8 sequences pass through the
// accumulator untouched.

import "strings"

// RawRow is one tokenized row: the unparsed field strings in column order.
type RawRow []string

// utf8BOM is the byte-order mark some spreadsheet exports prepend.
const utf8BOM = "\uFEFF"

// Tokenize converts CSV text into rows of raw fields.
//
// Quoted fields may contain commas, line breaks and doubled quotes ("").
// Malformed quoting never fails: an unterminated quote absorbs the rest of
// the input into the open field. Blank lines inside the text produce a row
// with a single empty field; an empty trailing line is dropped.
func Tokenize(text string) []RawRow {
	text = strings.TrimPrefix(text, utf8BOM)

	var (
		rows     []RawRow
		row      RawRow
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		rows = append(rows, row)
		row = nil
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes

		case c == ',' && !inQuotes:
			endField()

		case (c == '\r' || c == '\n') && !inQuotes:
			if c == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()

		default:
			field.WriteByte(c)
		}
	}

	if len(row) > 0 || field.Len() > 0 {
		endRow()
	}

	return rows
}
