// Package geo provides geographic coordinate utilities: validation, display
// formatting, grid-cell bucketing, and great-circle distance.
package geo

import (
	"errors"
	"fmt"
	"math"
)

// Coordinate validation errors.
var (
	ErrLatitudeOutOfRange  = errors.New("latitude must be between -90 and 90")
	ErrLongitudeOutOfRange = errors.New("longitude must be between -180 and 180")
)

// earthRadiusKM is the mean Earth radius used for distance calculations.
const earthRadiusKM = 6371.0

// Coordinate represents a geographic point with latitude and longitude.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate checks that the coordinate is within valid geographic bounds.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return ErrLatitudeOutOfRange
	}
	if c.Lon < -180 || c.Lon > 180 {
		return ErrLongitudeOutOfRange
	}
	return nil
}

// String formats the coordinate as "lat, lon" with 4 decimal places.
// This is the display fallback when reverse geocoding is unavailable.
func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
}

// Valid reports whether lat and lon are within geographic bounds.
func Valid(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// CellKey buckets a coordinate into a grid cell of the given size in degrees.
// Points within the same cell share a key, which lets callers deduplicate
// fetches for nearby locations. A cellSize of 0.1 is roughly 11km at the
// equator.
func CellKey(lat, lon, cellSize float64) string {
	cellLat := math.Floor(lat/cellSize) * cellSize
	cellLon := math.Floor(lon/cellSize) * cellSize
	return fmt.Sprintf("%.2f:%.2f", cellLat, cellLon)
}

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(a, b Coordinate) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKM * math.Asin(math.Sqrt(h))
}
