// Package googlebooks searches the Google Books volumes API and normalizes
// results into canonical books.
package googlebooks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/mrlokans/booknotion/internal/apierrors"
	"github.com/mrlokans/booknotion/internal/entities"
)

const (
	serviceName = "google-books"

	defaultBaseURL = "https://www.googleapis.com/books/v1"
	defaultTimeout = 10 * time.Second

	maxResults = 40
	printType  = "books"
)

// Settings configures a Client. Nothing is read from the environment here.
type Settings struct {
	APIKey              string
	Language            string // already resolved, see ResolveLanguage
	EnableCoverEdgeCurl bool
	RequestsPerSecond   float64 // <= 0 disables pacing
	Timeout             time.Duration
}

// SearchOptions overrides per-call search parameters.
type SearchOptions struct {
	Language string
}

// Client fetches volumes from Google Books.
type Client struct {
	httpClient *http.Client
	baseURL    string
	settings   Settings
	normalizer *Normalizer
	limiter    *rate.Limiter
}

// NewClient creates a Google Books client.
func NewClient(settings Settings) *Client {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		settings:   settings,
		normalizer: NewNormalizer(settings.EnableCoverEdgeCurl),
		limiter:    newLimiter(settings.RequestsPerSecond),
	}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Limit(perSecond), 1)
}

// Search returns the books matching query. An empty query or an empty result
// set yields an empty slice and no error.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]entities.Book, error) {
	if query == "" {
		return []entities.Book{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.searchURL(query, opts), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apierrors.FromResponse(serviceName, resp)
	}

	var result volumesResponse
	if err := apierrors.DecodeJSON(serviceName, resp, &result); err != nil {
		return nil, err
	}

	if result.TotalItems == 0 || len(result.Items) == 0 {
		return []entities.Book{}, nil
	}

	infos := make([]VolumeInfo, len(result.Items))
	for i, item := range result.Items {
		infos[i] = item.VolumeInfo
	}
	return c.normalizer.NormalizeAll(infos), nil
}

func (c *Client) searchURL(query string, opts SearchOptions) string {
	lang := opts.Language
	if lang == "" {
		lang = c.settings.Language
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", printType)
	params.Set("langRestrict", lang)
	if c.settings.APIKey != "" {
		params.Set("key", c.settings.APIKey)
	}

	return fmt.Sprintf("%s/volumes?%s", c.baseURL, params.Encode())
}
