package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Fetcher retrieves the current sheet contents as text.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
	// Source describes where the text comes from, for run history.
	Source() string
}

var (
	// ErrBadStatus is wrapped by StatusError for any non-2xx response.
	ErrBadStatus = errors.New("unexpected response status")

	// ErrTooManyRedirects is returned when the redirect hop limit is exceeded.
	ErrTooManyRedirects = errors.New("too many redirects")
)

// StatusError reports a non-2xx response from the sheet host.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error { return ErrBadStatus }

// cacheBustParam is the query parameter appended to defeat CDN caching of
// published sheets.
const cacheBustParam = "t"

// Options configure an HTTPFetcher.
type Options struct {
	URL          string
	Timeout      time.Duration
	UserAgent    string
	MaxBodySize  int64
	MaxRedirects int
	CacheBust    bool
}

// HTTPFetcher downloads the sheet's CSV export over HTTP.
type HTTPFetcher struct {
	base   *url.URL
	opts   Options
	client *http.Client
	now    func() time.Time
}

// NewHTTPFetcher validates the URL and builds a fetcher with its own client.
func NewHTTPFetcher(opts Options) (*HTTPFetcher, error) {
	base, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse sheet url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("sheet url must be http or https, got %q", opts.URL)
	}

	return &HTTPFetcher{
		base: base,
		opts: opts,
		client: &http.Client{
			Timeout:       opts.Timeout,
			CheckRedirect: RedirectPolicy(opts.MaxRedirects),
		},
		now: time.Now,
	}, nil
}

// RedirectPolicy returns a CheckRedirect function that stops after maxHops
// redirects. When maxHops is <= 0 the http package default (10) applies.
func RedirectPolicy(maxHops int) func(*http.Request, []*http.Request) error {
	return func(_ *http.Request, via []*http.Request) error {
		limit := maxHops
		if limit <= 0 {
			limit = 10
		}
		if len(via) >= limit {
			return ErrTooManyRedirects
		}
		return nil
	}
}

// Source returns the configured URL without the cache-busting parameter.
func (f *HTTPFetcher) Source() string {
	return f.base.String()
}

// requestURL returns the URL for one fetch, with a fresh t=<unix millis>
// when cache busting is enabled. Existing query parameters are preserved.
func (f *HTTPFetcher) requestURL() string {
	if !f.opts.CacheBust {
		return f.base.String()
	}

	u := *f.base
	q := u.Query()
	q.Set(cacheBustParam, strconv.FormatInt(f.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}

// Fetch performs one GET and returns the normalized body text.
func (f *HTTPFetcher) Fetch(ctx context.Context) (string, error) {
	target := f.requestURL()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if f.opts.UserAgent != "" {
		req.Header.Set("User-Agent", f.opts.UserAgent)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.1")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: f.Source()}
	}

	text, err := ReadBody(resp.Body, f.opts.MaxBodySize)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}
	return text, nil
}
