// Package estimate derives land attributes from coordinates, elevation and
// climate readings. Every function is pure and deterministic: the same inputs
// always produce the same outputs, so identical coordinates always yield
// identical estimates.
package estimate

import "math"

// Zone is a climate zone classification.
type Zone string

// Climate zones ordered from the equator toward the poles.
const (
	ZoneEquatorial    Zone = "Equatorial"
	ZoneTropical      Zone = "Tropical"
	ZoneSubtropical   Zone = "Subtropical"
	ZoneWarmTemperate Zone = "Warm Temperate"
	ZoneCoolTemperate Zone = "Cool Temperate"
	ZoneSubpolar      Zone = "Subpolar"
	ZonePolar         Zone = "Polar"
)

// DegradationLevel classifies how degraded a piece of land is.
type DegradationLevel string

// Degradation levels from least to most degraded.
const (
	DegradationMinimal  DegradationLevel = "minimal"
	DegradationModerate DegradationLevel = "moderate"
	DegradationSevere   DegradationLevel = "severe"
	DegradationCritical DegradationLevel = "critical"
)

// FertilityLevel classifies soil fertility.
type FertilityLevel string

// Fertility levels.
const (
	FertilityHigh   FertilityLevel = "high"
	FertilityMedium FertilityLevel = "medium"
	FertilityLow    FertilityLevel = "low"
)

// HealthRating classifies vegetation health from NDVI.
type HealthRating string

// Vegetation health ratings from best to worst.
const (
	HealthExcellent HealthRating = "excellent"
	HealthGood      HealthRating = "good"
	HealthFair      HealthRating = "fair"
	HealthPoor      HealthRating = "poor"
	HealthCritical  HealthRating = "critical"
)

// RiskLevel classifies soil erosion risk.
type RiskLevel string

// Erosion risk levels from lowest to highest.
const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ClimateZone classifies a latitude into a climate zone. Temperate and
// subtropical bands split on temperature. Band boundaries are half-open on
// the upper side, so a latitude of exactly 66.5 is subpolar, not polar.
func ClimateZone(lat, temperature float64) Zone {
	absLat := math.Abs(lat)

	switch {
	case absLat > 66.5:
		return ZonePolar
	case absLat > 60:
		return ZoneSubpolar
	case absLat > 45:
		if temperature > 20 {
			return ZoneWarmTemperate
		}
		return ZoneCoolTemperate
	case absLat > 30:
		if temperature > 25 {
			return ZoneSubtropical
		}
		return ZoneWarmTemperate
	case absLat > 23.5:
		return ZoneTropical
	default:
		return ZoneEquatorial
	}
}

// SoilType estimates the dominant soil type. Elevation dominates the
// candidate set; below 1000m the latitude band selects it. The pick within
// the set is floor(|lon|) mod set size, so nearby longitudes rotate through
// the candidates without any randomness.
func SoilType(lat, lon, elevation float64) string {
	absLat := math.Abs(lat)

	var candidates []string
	switch {
	case elevation > 2000:
		candidates = []string{"Rocky", "Mountain Soil", "Thin Soil"}
	case elevation > 1000:
		candidates = []string{"Loamy", "Clay-Loam", "Sandy-Loam"}
	case absLat < 10:
		candidates = []string{"Laterite", "Tropical Red", "Alluvial"}
	case absLat < 30:
		candidates = []string{"Alluvial", "Loamy", "Red Soil"}
	case absLat < 50:
		candidates = []string{"Loamy", "Clay", "Podzol"}
	default:
		candidates = []string{"Tundra", "Permafrost", "Gleysol"}
	}

	return candidates[int(math.Abs(lon))%len(candidates)]
}

// basePH maps soil types to their typical pH before climate adjustment.
var basePH = map[string]float64{
	"Laterite":      5.5,
	"Tropical Red":  6.0,
	"Alluvial":      7.0,
	"Loamy":         6.5,
	"Clay":          7.2,
	"Sandy":         6.8,
	"Rocky":         7.5,
	"Mountain Soil": 6.3,
	"Podzol":        5.0,
	"Tundra":        5.5,
}

// SoilPH estimates soil pH from the soil type's base pH, shifted down 0.3
// for humid climates (leaching) and up 0.3 for arid ones (alkaline
// accumulation). Rounded to 1 decimal.
func SoilPH(soilType string, humidity float64) float64 {
	ph, ok := basePH[soilType]
	if !ok {
		ph = 6.5
	}

	if humidity > 70 {
		ph -= 0.3
	} else if humidity < 40 {
		ph += 0.3
	}

	return round1(ph)
}

// NDVI estimates the normalized difference vegetation index in [0, 1].
// The base value falls with absolute latitude, warm humid conditions raise
// it, cold or dry conditions lower it, and a longitude-derived term
// (|lon| mod 10)*0.02 - 0.1 adds local variation. When a recent temperature
// series is available, the latest reading running more than 2 degrees above
// or below the series mean biases the result by 0.03. Rounded to 2 decimals.
func NDVI(lat, lon, temperature, humidity float64, recentTemps []float64) float64 {
	absLat := math.Abs(lat)

	var base float64
	switch {
	case absLat < 10:
		base = 0.6
	case absLat < 23.5:
		base = 0.5
	case absLat < 35:
		base = 0.4
	case absLat < 50:
		base = 0.35
	default:
		base = 0.2
	}

	if temperature > 25 && humidity > 60 {
		base += 0.1
	} else if temperature < 10 || humidity < 30 {
		base -= 0.15
	}

	variation := math.Mod(math.Abs(lon), 10) * 0.02
	ndvi := clamp(base+variation-0.1, 0, 1)

	if len(recentTemps) > 0 {
		latest := recentTemps[len(recentTemps)-1]
		var sum float64
		for _, t := range recentTemps {
			sum += t
		}
		mean := sum / float64(len(recentTemps))

		if latest > mean+2 {
			ndvi = math.Min(1.0, ndvi+0.03)
		} else if latest < mean-2 {
			ndvi = math.Max(0.0, ndvi-0.03)
		}
	}

	return round2(ndvi)
}

// baseRainfall maps climate zones to typical annual rainfall in mm.
var baseRainfall = map[Zone]float64{
	ZoneEquatorial:    2500,
	ZoneTropical:      1800,
	ZoneSubtropical:   1000,
	ZoneWarmTemperate: 800,
	ZoneCoolTemperate: 700,
	ZoneSubpolar:      500,
	ZonePolar:         250,
}

// AnnualRainfall estimates annual rainfall in mm from the zone's base,
// scaled 1.3x for humid climates and 0.6x for arid ones, plus a
// longitude-derived coastal variation (|lon| mod 15)*20. Truncated to int.
func AnnualRainfall(zone Zone, humidity, lon float64) int {
	rainfall, ok := baseRainfall[zone]
	if !ok {
		rainfall = 800
	}

	if humidity > 70 {
		rainfall *= 1.3
	} else if humidity < 40 {
		rainfall *= 0.6
	}

	rainfall += math.Mod(math.Abs(lon), 15) * 20

	return int(rainfall)
}

// Degradation scores land degradation from vegetation cover, soil chemistry
// and scale. NDVI bands contribute 4 (below 0.2) down to 1 point, pH outside
// [5.0, 8.5] adds one, and areas over 100 hectares add one. A score of 5+
// is critical, 4 severe, 2-3 moderate, otherwise minimal.
func Degradation(ndvi, soilPH, areaHectares float64) DegradationLevel {
	var score int
	switch {
	case ndvi < 0.2:
		score = 4
	case ndvi < 0.35:
		score = 3
	case ndvi < 0.5:
		score = 2
	default:
		score = 1
	}

	if soilPH < 5.0 || soilPH > 8.5 {
		score++
	}
	if areaHectares > 100 {
		score++
	}

	switch {
	case score >= 5:
		return DegradationCritical
	case score >= 4:
		return DegradationSevere
	case score >= 2:
		return DegradationModerate
	default:
		return DegradationMinimal
	}
}

// Fertility classifies soil fertility from pH and vegetation cover. Near
// neutral pH with healthy vegetation is high, mildly acidic or alkaline soil
// with moderate vegetation is medium, everything else is low.
func Fertility(soilPH, ndvi float64) FertilityLevel {
	switch {
	case soilPH >= 6.0 && soilPH <= 7.5 && ndvi > 0.5:
		return FertilityHigh
	case (soilPH >= 5.5 && soilPH < 6.0 || soilPH > 7.5 && soilPH <= 8.0) && ndvi > 0.35:
		return FertilityMedium
	default:
		return FertilityLow
	}
}

// VegetationHealth rates vegetation from NDVI.
func VegetationHealth(ndvi float64) HealthRating {
	switch {
	case ndvi >= 0.6:
		return HealthExcellent
	case ndvi >= 0.4:
		return HealthGood
	case ndvi >= 0.2:
		return HealthFair
	case ndvi >= 0.1:
		return HealthPoor
	default:
		return HealthCritical
	}
}

// ErosionRisk scores erosion exposure from slope steepness in degrees,
// vegetation cover percentage and annual rainfall in mm. A score of 6+ is
// critical, 4-5 high, 2-3 medium, otherwise low.
func ErosionRisk(slope, vegetationCover, rainfall float64) RiskLevel {
	var score int

	switch {
	case slope > 30:
		score += 3
	case slope > 15:
		score += 2
	case slope > 5:
		score++
	}

	switch {
	case vegetationCover < 20:
		score += 3
	case vegetationCover < 40:
		score += 2
	case vegetationCover < 60:
		score++
	}

	switch {
	case rainfall > 1500:
		score += 2
	case rainfall > 1000:
		score++
	}

	switch {
	case score >= 6:
		return RiskCritical
	case score >= 4:
		return RiskHigh
	case score >= 2:
		return RiskMedium
	default:
		return RiskLow
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
