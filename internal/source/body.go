package source

// body.go normalizes a fetched sheet body into clean UTF-8 text.
//
// Spreadsheet exports arrive with the usual artifacts:
//
//   - a byte-order mark (UTF-8, or UTF-16 from desktop spreadsheet tools)
//   - stray invalid UTF-8 bytes from hand-pasted cells
//   - occasionally a body far larger than any sheet should be
//
// ReadBody handles all three before the text reaches the ingest pipeline.

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrBodyTooLarge is returned when a body exceeds the configured limit.
var ErrBodyTooLarge = errors.New("sheet body too large")

// invalidUTF8Replacement stands in for undecodable bytes. A single ASCII byte
// keeps the text the same length class as the input.
const invalidUTF8Replacement = "?"

// countingReader tracks bytes read and fails once more than limit bytes
// have been consumed. A limit <= 0 disables the check.
type countingReader struct {
	reader    io.Reader
	limit     int64
	BytesRead int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	if r.limit > 0 && r.BytesRead >= r.limit {
		// Probe one byte past the limit to tell "exactly at limit" from "over".
		var probe [1]byte
		n, err := r.reader.Read(probe[:])
		if n > 0 {
			return 0, fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, r.limit)
		}
		return 0, err
	}

	if r.limit > 0 && int64(len(p)) > r.limit-r.BytesRead {
		p = p[:r.limit-r.BytesRead]
	}

	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// ReadBody reads r to the end and returns UTF-8 text with any byte-order
// mark removed. UTF-16 input announced by its BOM is transcoded; invalid
// UTF-8 sequences are replaced with '?'.
func ReadBody(r io.Reader, limit int64) (string, error) {
	counter := &countingReader{reader: r, limit: limit}

	decoded := transform.NewReader(counter, unicode.BOMOverride(transform.Nop))
	raw, err := io.ReadAll(decoded)
	if err != nil {
		return "", err
	}

	return strings.ToValidUTF8(string(raw), invalidUTF8Replacement), nil
}
