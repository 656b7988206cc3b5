// Package notion maps canonical books onto a Notion database whose columns are
// discovered at runtime, and creates pages through the Notion API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mrlokans/booknotion/internal/apierrors"
)

const (
	serviceName = "notion"

	defaultBaseURL    = "https://api.notion.com/v1"
	DefaultAPIVersion = "2022-06-28"
	defaultTimeout    = 30 * time.Second
)

// Config holds the credentials and target database for a Client.
type Config struct {
	APIKey     string
	DatabaseID string
	APIVersion string
	Timeout    time.Duration
}

// Validate reports a ConfigurationError when a required value is missing.
func (c Config) Validate() error {
	if c.APIKey == "" || c.DatabaseID == "" {
		return &apierrors.ConfigurationError{
			Message: "Notion API key or database ID is not configured",
		}
	}
	return nil
}

// Client talks to the Notion REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	databaseID string
	apiVersion string
}

// NewClient creates a Notion client. It fails with a ConfigurationError when
// the API key or database ID is empty.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
		databaseID: cfg.DatabaseID,
		apiVersion: version,
	}, nil
}

// DatabaseID returns the database pages are created in.
func (c *Client) DatabaseID() string {
	return c.databaseID
}

// FetchDatabase retrieves the configured database's schema.
func (c *Client) FetchDatabase(ctx context.Context) (*DatabaseSchema, error) {
	var schema DatabaseSchema
	if err := c.do(ctx, http.MethodGet, "/databases/"+url.PathEscape(c.databaseID), nil, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// CreatePage creates a page in the database named by the request's parent.
func (c *Client) CreatePage(ctx context.Context, page *PageRequest) (*PageResponse, error) {
	var created PageResponse
	if err := c.do(ctx, http.MethodPost, "/pages", page, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apierrors.FromResponse(serviceName, resp)
	}

	return apierrors.DecodeJSON(serviceName, resp, out)
}
