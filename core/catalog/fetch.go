package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"outscale-cost/internal/errors"
)

// Fetcher supplies the raw catalog stream. The retrieval is single-shot: a
// failure aborts the run, retry policy belongs to the caller.
type Fetcher interface {
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// HTTPFetcher retrieves the price sheet over HTTP.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher for the given price sheet URL.
func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Fetch opens the catalog stream. The caller owns the returned body.
func (f *HTTPFetcher) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, errors.Network("invalid catalog URL", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.Network("catalog unreachable", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, errors.Network(fmt.Sprintf("catalog fetch returned status %d", resp.StatusCode), nil)
	}
	return resp.Body, nil
}
