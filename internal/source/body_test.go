package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBody(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "a,b\n1,2\n", "a,b\n1,2\n"},
		{"utf8 bom", "\xEF\xBB\xBFa,b", "a,b"},
		{"utf16 le bom", "\xFF\xFEa\x00,\x00b\x00", "a,b"},
		{"utf16 be bom", "\xFE\xFF\x00a\x00,\x00b", "a,b"},
		{"invalid byte", "he\x80lo", "he?lo"},
		{"multibyte kept", "Café,東京", "Café,東京"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadBody(strings.NewReader(tt.input), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadBody_Limit(t *testing.T) {
	body := strings.Repeat("x", 100)

	got, err := ReadBody(strings.NewReader(body), 100)
	require.NoError(t, err, "exactly at limit is accepted")
	assert.Len(t, got, 100)

	_, err = ReadBody(strings.NewReader(body+"y"), 100)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBodyTooLarge))
}

func TestFileFetcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.csv")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFVideoTitle,VideoURL\nA,u\n"), 0o600))

	f := FileFetcher{Path: path}
	text, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "VideoTitle,VideoURL\nA,u\n", text)
	assert.Equal(t, "file:"+path, f.Source())

	_, err = FileFetcher{Path: filepath.Join(dir, "missing.csv")}.Fetch(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
