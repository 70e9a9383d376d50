package websearch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/kailas-cloud/convsearch/internal/domain"
	"github.com/kailas-cloud/convsearch/internal/metrics"
)

// Some sites serve stripped-down or blocked pages to unknown clients, so the
// fetcher identifies itself as a desktop browser.
const browserUserAgent = "Mozilla/5.0 (Windows NT 6.0; WOW64; rv:24.0) Gecko/20100101 Firefox/24.0"

// HTTPPageFetcher downloads a page and reduces it to visible text.
type HTTPPageFetcher struct {
	client *http.Client
}

func NewHTTPPageFetcher(client *http.Client) *HTTPPageFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPPageFetcher{client: client}
}

// FetchText downloads pageURL and returns its cleaned text content.
func (f *HTTPPageFetcher) FetchText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		metrics.PageFetchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("build page request: %w: %w", domain.ErrPageFetch, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		metrics.PageFetchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("page request: %w: %w", domain.ErrPageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.PageFetchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: status %d for %s", domain.ErrPageFetch, resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.PageFetchesTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("read page body: %w: %w", domain.ErrPageFetch, err)
	}

	metrics.PageFetchesTotal.WithLabelValues("success").Inc()
	return CleanText(body), nil
}
