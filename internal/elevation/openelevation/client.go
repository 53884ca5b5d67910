// Package openelevation provides a client for the Open-Elevation API.
package openelevation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terrasense/terrasense/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the Open-Elevation API.
	DefaultBaseURL = "https://api.open-elevation.com/api/v1"

	// ProviderName identifies this provider.
	ProviderName = "open_elevation"
)

// ErrNoResults indicates the API returned no elevation results for the
// requested location.
var ErrNoResults = errors.New("no elevation results for location")

// ClientConfig holds configuration for the Open-Elevation client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 10s).
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an Open-Elevation API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new Open-Elevation client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		httpClient = resilience.NewClient(resilience.ClientConfig{
			Name:    ProviderName,
			Timeout: timeout,
		})
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// API response types (from Open-Elevation API).

type lookupResponse struct {
	Results []resultData `json:"results"`
}

type resultData struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Elevation returns the elevation in meters at the given coordinates.
func (c *Client) Elevation(ctx context.Context, lat, lon float64) (float64, error) {
	query := url.Values{}
	query.Set("locations", fmt.Sprintf("%f,%f", lat, lon))

	reqURL := c.baseURL + "/lookup?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch elevation: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d from lookup endpoint", resp.StatusCode)
	}

	var result lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode lookup response: %w", err)
	}
	if len(result.Results) == 0 {
		return 0, ErrNoResults
	}

	return result.Results[0].Elevation, nil
}
