package weather

import (
	"errors"
	"time"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrMissingAPIKey       = errors.New("weather api key not configured")
)

// Snapshot represents current weather conditions at a point.
type Snapshot struct {
	// Location coordinates
	Lat float64
	Lon float64

	// Temperature in Celsius, rounded to one decimal
	Temperature float64
	FeelsLike   float64

	// Humidity percentage (0-100)
	Humidity float64

	// Atmospheric pressure in hPa
	Pressure float64

	// Condition description, e.g. "scattered clouds", or "estimated" when
	// the snapshot comes from the coordinate fallback
	Description string

	// Wind speed in m/s
	WindSpeed float64

	// Cloud cover percentage (0-100)
	CloudCover float64

	// Visibility in kilometers
	VisibilityKM float64

	// Sun times for the location's current day
	Sunrise time.Time
	Sunset  time.Time

	// Estimated marks snapshots produced by the coordinate fallback
	// rather than a live provider.
	Estimated bool

	// Source names the provider, or "fallback".
	Source string

	// FetchedAt is when the snapshot was produced.
	FetchedAt time.Time
}
