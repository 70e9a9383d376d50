// Package websearch adapts a Bing-style web search API as a retrieval back
// end. Result order comes from the remote service; no re-ranking is done
// here, and the per-result score is a rank-derived placeholder.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/kailas-cloud/convsearch/internal/domain"
)

// DefaultEndpoint is the Bing Web Search v7 endpoint.
const DefaultEndpoint = "https://api.cognitive.microsoft.com/bing/v7.0/search"

const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

// PageFetcher turns a URL into cleaned page text.
type PageFetcher interface {
	FetchText(ctx context.Context, pageURL string) (string, error)
}

// Config holds the web search settings.
type Config struct {
	APIKey           string
	Endpoint         string       // defaults to DefaultEndpoint
	ResultsRequested int          // default 1; also bounded by what the API returns
	HTTPClient       *http.Client // defaults to http.DefaultClient
	Pages            PageFetcher  // defaults to an HTTPPageFetcher on HTTPClient
	Logger           *zap.Logger
}

// Retriever implements retrieval.Retriever over a remote web search API.
type Retriever struct {
	apiKey           string
	endpoint         string
	resultsRequested int
	client           *http.Client
	pages            PageFetcher
	logger           *zap.Logger
}

// searchResponse mirrors the relevant part of the API's JSON body.
type searchResponse struct {
	WebPages struct {
		Value []struct {
			URL     string `json:"url"`
			Name    string `json:"name"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

// New creates a web search retriever. The remote API enforces a
// transactions-per-second limit; this component does no throttling or backoff
// of its own, which the constructor warns about.
func New(cfg *Config) *Retriever {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	n := cfg.ResultsRequested
	if n <= 0 {
		n = 1
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	pages := cfg.Pages
	if pages == nil {
		pages = NewHTTPPageFetcher(client)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Warn("The web search API enforces a maximum number of transactions per second; callers must throttle themselves")

	return &Retriever{
		apiKey:           cfg.APIKey,
		endpoint:         endpoint,
		resultsRequested: n,
		client:           client,
		pages:            pages,
		logger:           logger,
	}
}

// Retrieve issues one search call and one page fetch per hit: 1+k outbound
// requests for k results. A non-success search status fails the call before
// any page fetch; a failed page fetch aborts the remaining assembly and
// discards pages already fetched. Scores are synthetic: N-i for the
// zero-based rank i, with N the configured result count.
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]domain.Document, error) {
	sr, err := r.search(ctx, query)
	if err != nil {
		return nil, err
	}

	hits := sr.WebPages.Value
	n := len(hits)
	if n > r.resultsRequested {
		n = r.resultsRequested
	}

	results := make([]domain.Document, 0, n)
	for i := 0; i < n; i++ {
		hit := hits[i]

		// The API snippet is only a teaser; the body is the cleaned
		// full-page text.
		text, err := r.pages.FetchText(ctx, hit.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch page %s: %w", hit.URL, err)
		}

		results = append(results, domain.Document{
			ID:    hit.URL,
			Title: hit.Name,
			Text:  text,
			Score: float64(r.resultsRequested - i),
		})
	}

	return results, nil
}

func (r *Retriever) search(ctx context.Context, query string) (*searchResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("textDecorations", "true")
	params.Set("textFormat", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set(subscriptionKeyHeader, r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w: %w", domain.ErrSearchAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, domain.NewSearchAPIError(resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w: %w", domain.ErrSearchAPI, err)
	}
	return &sr, nil
}
