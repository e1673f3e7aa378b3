package core

import (
	"context"
	"errors"
	"strings"

	"github.com/JonMunkholm/vidsheet/internal/ingest"
)

// ErrEmptyPreview is returned when Preview receives blank text.
var ErrEmptyPreview = errors.New("empty preview body")

// Preview parses caller-supplied sheet text with the service's options.
// The current snapshot and run history are not touched.
func (s *Service) Preview(ctx context.Context, text string) (ingest.Result, error) {
	if strings.TrimSpace(text) == "" {
		return ingest.Result{}, ErrEmptyPreview
	}

	if err := s.previews.Acquire(ctx); err != nil {
		return ingest.Result{}, err
	}
	defer s.previews.Release()

	return s.parser.Parse(text), nil
}
