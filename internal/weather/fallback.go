package weather

import (
	"math"
	"time"
)

// FallbackSource names snapshots produced by Estimate.
const FallbackSource = "fallback"

// Fallback temperature bounds in Celsius.
const (
	FallbackMinTemp = -20.0
	FallbackMaxTemp = 45.0
)

// Estimate produces a deterministic weather snapshot from coordinates alone.
// It is used whenever no live provider data is available, so analysis always
// has conditions to work with. Temperature falls off with latitude and is
// clamped to a realistic range; humidity varies with longitude inside and
// outside the tropics.
func Estimate(lat, lon float64) *Snapshot {
	absLat := math.Abs(lat)

	temp := 30 - absLat*0.6
	temp = math.Max(math.Min(temp, FallbackMaxTemp), FallbackMinTemp)

	var humidity float64
	if absLat < 23.5 {
		humidity = 70 + math.Mod(math.Abs(lon), 20)
	} else {
		humidity = 50 + math.Mod(math.Abs(lon), 30)
	}
	humidity = math.Trunc(humidity)

	now := time.Now()
	year, month, day := now.Date()
	sunrise := time.Date(year, month, day, 6, 0, 0, 0, now.Location())
	sunset := time.Date(year, month, day, 18, 0, 0, 0, now.Location())

	return &Snapshot{
		Lat:          lat,
		Lon:          lon,
		Temperature:  round1(temp),
		FeelsLike:    round1(temp + 2),
		Humidity:     humidity,
		Pressure:     1013,
		Description:  "estimated",
		WindSpeed:    0,
		CloudCover:   50,
		VisibilityKM: 10,
		Sunrise:      sunrise,
		Sunset:       sunset,
		Estimated:    true,
		Source:       FallbackSource,
		FetchedAt:    now,
	}
}

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
