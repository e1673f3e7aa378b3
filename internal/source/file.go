package source

import (
	"context"
	"fmt"
	"os"
)

// FileFetcher reads a sheet export from the local filesystem.
type FileFetcher struct {
	Path        string
	MaxBodySize int64
}

// Fetch reads the whole file. The context is checked before opening only;
// local reads are not interruptible.
func (f FileFetcher) Fetch(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return "", fmt.Errorf("open sheet file: %w", err)
	}
	defer file.Close()

	text, err := ReadBody(file, f.MaxBodySize)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.Path, err)
	}
	return text, nil
}

// Source returns the file path.
func (f FileFetcher) Source() string {
	return "file:" + f.Path
}
