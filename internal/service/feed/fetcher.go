package feed

import (
	"context"
	"io"
	"net/http"
	"time"

	apperrors "github.com/Taichi-iskw/yt-live/internal/errors"
)

// feeds are small; anything larger is not a YouTube feed
const maxFeedSize = 8 << 20

// Response is the status and body of a feed request
type Response struct {
	StatusCode int
	Body       []byte
}

// Fetcher performs the plain HTTP requests needed to read feeds
type Fetcher interface {
	// Get fetches url; non-2xx statuses are returned, not treated as errors
	Get(ctx context.Context, url string) (*Response, error)

	// Head returns the status code of a HEAD request to url
	Head(ctx context.Context, url string) (int, error)
}

type fetcher struct {
	http *http.Client
}

// NewFetcher creates a Fetcher with the given request timeout
func NewFetcher(timeout time.Duration) Fetcher {
	return NewFetcherWithClient(&http.Client{Timeout: timeout})
}

// NewFetcherWithClient creates a Fetcher with custom HTTP client (for testing)
func NewFetcherWithClient(hc *http.Client) Fetcher {
	return &fetcher{http: hc}
}

// Get fetches url and reads its body
func (f *fetcher) Get(ctx context.Context, url string) (*Response, error) {
	resp, err := f.do(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternal, "failed to read feed body")
	}

	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// Head returns the status code of url
func (f *fetcher) Head(ctx context.Context, url string) (int, error) {
	resp, err := f.do(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

func (f *fetcher) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInvalidArg, "failed to build feed request")
	}
	req.Header.Set("User-Agent", "yt-live/1.0")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternal, "feed request failed")
	}
	return resp, nil
}
