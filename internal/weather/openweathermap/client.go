// Package openweathermap provides a client for the OpenWeatherMap current
// weather API.
package openweathermap

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/terrasense/terrasense/internal/provider/resilience"
	"github.com/terrasense/terrasense/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "openweathermap"

	// DefaultBaseURL is the OpenWeatherMap API base URL.
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
)

// ClientConfig holds configuration for the OpenWeatherMap client.
type ClientConfig struct {
	// APIKey is the OpenWeatherMap API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to OpenWeatherMap API).
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

// Client is an OpenWeatherMap API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
}

// NewClient creates a new OpenWeatherMap client.
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
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Current fetches current weather for a location.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	if c.apiKey == "" {
		return nil, weather.ErrMissingAPIKey
	}

	url := fmt.Sprintf("%s/weather?lat=%.6f&lon=%.6f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var owmResp currentWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return c.toSnapshot(lat, lon, &owmResp), nil
}

// toSnapshot converts an OpenWeatherMap response to the domain model.
func (c *Client) toSnapshot(lat, lon float64, resp *currentWeatherResponse) *weather.Snapshot {
	snapshot := &weather.Snapshot{
		Lat:          lat,
		Lon:          lon,
		Temperature:  round1(resp.Main.Temp),
		FeelsLike:    round1(resp.Main.FeelsLike),
		Humidity:     resp.Main.Humidity,
		Pressure:     resp.Main.Pressure,
		WindSpeed:    resp.Wind.Speed,
		CloudCover:   resp.Clouds.All,
		VisibilityKM: 10,
		Source:       ProviderName,
		FetchedAt:    time.Now(),
	}

	if resp.Main.FeelsLike == 0 {
		snapshot.FeelsLike = snapshot.Temperature
	}

	if len(resp.Weather) > 0 {
		snapshot.Description = resp.Weather[0].Description
	}

	if resp.Visibility != nil {
		snapshot.VisibilityKM = float64(*resp.Visibility) / 1000
	}

	if resp.Sys.Sunrise > 0 {
		snapshot.Sunrise = time.Unix(resp.Sys.Sunrise, 0)
	}
	if resp.Sys.Sunset > 0 {
		snapshot.Sunset = time.Unix(resp.Sys.Sunset, 0)
	}

	return snapshot
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// OpenWeatherMap API response structures.

type currentWeatherResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Visibility *int `json:"visibility"`
	Wind       struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
	Dt int64 `json:"dt"`
}
