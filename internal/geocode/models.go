package geocode

import "errors"

// Geocoding errors.
var (
	ErrNotFound            = errors.New("no geocoding result")
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Place is a geocoded location.
type Place struct {
	Lat         float64
	Lon         float64
	DisplayName string
}
