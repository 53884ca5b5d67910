// Package nasapower provides a client for the NASA POWER daily climatology API.
package nasapower

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/terrasense/terrasense/internal/climate"
	"github.com/terrasense/terrasense/internal/provider/resilience"
)

const (
	// DefaultBaseURL is the base URL for the NASA POWER API.
	DefaultBaseURL = "https://power.larc.nasa.gov/api/temporal/daily/point"

	// ProviderName identifies this provider.
	ProviderName = "nasa_power"

	// Community selects the agroclimatology parameter set.
	Community = "AG"

	// Parameters are the daily series requested for land analysis:
	// temperature at 2m, bias-corrected precipitation, relative humidity
	// at 2m, wind speed at 2m, and all-sky surface shortwave irradiance.
	Parameters = "T2M,PRECTOTCORR,RH2M,WS2M,ALLSKY_SFC_SW_DWN"

	// dateFormat is the YYYYMMDD format the API uses for ranges and keys.
	dateFormat = "20060102"
)

// ClientConfig holds configuration for the NASA POWER client.
type ClientConfig struct {
	// BaseURL is the API base URL (defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (must implement HTTPDoer).
	// If nil, a default resilient client will be created.
	HTTPClient HTTPDoer

	// Timeout for individual API requests (default: 30s).
	// The daily endpoint assembles series server-side and is slow.
	Timeout time.Duration
}

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a NASA POWER API client.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new NASA POWER client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
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

// API response types (from NASA POWER API).

type pointResponse struct {
	Properties propertiesData `json:"properties"`
}

type propertiesData struct {
	// Parameter maps parameter name to date-keyed daily values.
	Parameter map[string]map[string]float64 `json:"parameter"`
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// History fetches daily climate series for a location and date range.
func (c *Client) History(ctx context.Context, lat, lon float64, start, end time.Time) (*climate.History, error) {
	query := url.Values{}
	query.Set("parameters", Parameters)
	query.Set("community", Community)
	query.Set("latitude", fmt.Sprintf("%f", lat))
	query.Set("longitude", fmt.Sprintf("%f", lon))
	query.Set("start", start.Format(dateFormat))
	query.Set("end", end.Format(dateFormat))
	query.Set("format", "JSON")

	reqURL := c.baseURL + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch climate history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from daily point endpoint", resp.StatusCode)
	}

	var result pointResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode climate response: %w", err)
	}

	return c.toHistory(&result)
}

// toHistory converts the API response to a domain History.
func (c *Client) toHistory(result *pointResponse) (*climate.History, error) {
	params := result.Properties.Parameter
	if len(params) == 0 {
		return nil, climate.ErrHistoryUnavailable
	}

	history := &climate.History{
		Temperature:    climate.NewSeries(params["T2M"]),
		Rainfall:       climate.NewSeries(params["PRECTOTCORR"]),
		Humidity:       climate.NewSeries(params["RH2M"]),
		WindSpeed:      climate.NewSeries(params["WS2M"]),
		SolarRadiation: climate.NewSeries(params["ALLSKY_SFC_SW_DWN"]),
		Source:         ProviderName,
		FetchedAt:      time.Now(),
	}

	if history.IsEmpty() {
		return nil, climate.ErrHistoryUnavailable
	}

	return history, nil
}
