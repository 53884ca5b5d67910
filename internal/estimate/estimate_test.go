package estimate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terrasense/terrasense/internal/estimate"
)

func TestClimateZone(t *testing.T) {
	tests := []struct {
		name        string
		lat         float64
		temperature float64
		want        estimate.Zone
	}{
		{"equator", 0.5, 27, estimate.ZoneEquatorial},
		{"southern equatorial band", -9.9, 26, estimate.ZoneEquatorial},
		{"tropics", 24, 28, estimate.ZoneTropical},
		{"hot subtropics", 35, 28, estimate.ZoneSubtropical},
		{"mild subtropical latitude is warm temperate", 35, 22, estimate.ZoneWarmTemperate},
		{"hot mid latitude", 50, 22, estimate.ZoneWarmTemperate},
		{"cool mid latitude", 50, 15, estimate.ZoneCoolTemperate},
		{"subpolar", 63, 5, estimate.ZoneSubpolar},
		{"polar", 70, -5, estimate.ZonePolar},
		{"southern polar", -80, -20, estimate.ZonePolar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimate.ClimateZone(tt.lat, tt.temperature))
		})
	}
}

func TestClimateZone_BoundariesAreHalfOpen(t *testing.T) {
	// A latitude exactly on a band boundary belongs to the lower band.
	assert.Equal(t, estimate.ZoneSubpolar, estimate.ClimateZone(66.5, 0))
	assert.Equal(t, estimate.ZonePolar, estimate.ClimateZone(66.51, 0))
	assert.Equal(t, estimate.ZoneCoolTemperate, estimate.ClimateZone(60, 15))
	assert.Equal(t, estimate.ZoneSubpolar, estimate.ClimateZone(60.01, 15))
	assert.Equal(t, estimate.ZoneTropical, estimate.ClimateZone(23.51, 20))
	assert.Equal(t, estimate.ZoneEquatorial, estimate.ClimateZone(23.5, 20))
}

func TestSoilType_ElevationDominates(t *testing.T) {
	// High-altitude equatorial land classifies by elevation, not latitude.
	assert.Equal(t, "Rocky", estimate.SoilType(0.5, 0, 2500))
	assert.Equal(t, "Loamy", estimate.SoilType(0.5, 0, 1500))
	assert.Equal(t, "Laterite", estimate.SoilType(0.5, 0, 200))
}

func TestSoilType_LatitudeBands(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		want string
	}{
		{"equatorial", 5, 0, "Laterite"},
		{"mid latitude", 20, 0, "Alluvial"},
		{"temperate", 40, 0, "Loamy"},
		{"polar", 70, 0, "Tundra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimate.SoilType(tt.lat, tt.lon, 0))
		})
	}
}

func TestSoilType_LongitudeRotatesCandidates(t *testing.T) {
	// floor(|lon|) mod 3 walks the equatorial candidate set.
	assert.Equal(t, "Laterite", estimate.SoilType(5, 0.9, 0))
	assert.Equal(t, "Tropical Red", estimate.SoilType(5, 1.9, 0))
	assert.Equal(t, "Alluvial", estimate.SoilType(5, 35.2, 0))
	assert.Equal(t, "Alluvial", estimate.SoilType(5, -35.2, 0))
}

func TestSoilPH(t *testing.T) {
	tests := []struct {
		name     string
		soilType string
		humidity float64
		want     float64
	}{
		{"laterite neutral humidity", "Laterite", 50, 5.5},
		{"laterite leached by humid climate", "Laterite", 75, 5.2},
		{"clay in arid climate", "Clay", 30, 7.5},
		{"unknown type gets default base", "Sandy-Loam", 50, 6.5},
		{"podzol humid", "Podzol", 80, 4.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, estimate.SoilPH(tt.soilType, tt.humidity), 0.001)
		})
	}
}

func TestNDVI(t *testing.T) {
	tests := []struct {
		name        string
		lat         float64
		lon         float64
		temperature float64
		humidity    float64
		want        float64
	}{
		// base 0.6 + 0.1 warm humid + (34 mod 10)*0.02 - 0.1
		{"equatorial warm humid", 0.5, 34, 27, 75, 0.68},
		// base 0.2 - 0.15 cold dry + (10 mod 10)*0.02 - 0.1, clamped at 0
		{"polar cold dry clamps to zero", 75, -10, -5, 20, 0.0},
		// base 0.35, no adjustment, (5 mod 10)*0.02 - 0.1 = 0
		{"temperate neutral", 40, 5, 18, 50, 0.35},
		{"fractional longitude keeps fractional variation", 0.5, 3.5, 20, 50, 0.57},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimate.NDVI(tt.lat, tt.lon, tt.temperature, tt.humidity, nil)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestNDVI_RecentTemperatureBias(t *testing.T) {
	base := estimate.NDVI(0.5, 34, 27, 75, nil)

	warming := estimate.NDVI(0.5, 34, 27, 75, []float64{20, 20, 20, 26})
	assert.InDelta(t, base+0.03, warming, 0.001)

	cooling := estimate.NDVI(0.5, 34, 27, 75, []float64{26, 26, 26, 20})
	assert.InDelta(t, base-0.03, cooling, 0.001)

	// Readings within two degrees of the mean leave the estimate alone.
	steady := estimate.NDVI(0.5, 34, 27, 75, []float64{20, 20, 21})
	assert.InDelta(t, base, steady, 0.001)
}

func TestNDVI_AlwaysInUnitRange(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 3.7 {
		for lon := -180.0; lon <= 180; lon += 7.3 {
			for _, temp := range []float64{-30, 5, 20, 35} {
				for _, hum := range []float64{10, 50, 90} {
					got := estimate.NDVI(lat, lon, temp, hum, nil)
					assert.GreaterOrEqual(t, got, 0.0)
					assert.LessOrEqual(t, got, 1.0)
				}
			}
		}
	}
}

func TestNDVI_Deterministic(t *testing.T) {
	first := estimate.NDVI(1.0157, 35.0062, 24.5, 68, []float64{22, 23, 24})
	second := estimate.NDVI(1.0157, 35.0062, 24.5, 68, []float64{22, 23, 24})
	assert.Equal(t, first, second)
}

func TestAnnualRainfall(t *testing.T) {
	tests := []struct {
		name     string
		zone     estimate.Zone
		humidity float64
		lon      float64
		want     int
	}{
		// 2500 * 1.3 + (34 mod 15)*20
		{"humid equatorial", estimate.ZoneEquatorial, 75, 34, 3330},
		// 250 * 0.6 + (10 mod 15)*20
		{"arid polar", estimate.ZonePolar, 20, -10, 350},
		// 800 + (0 mod 15)*20
		{"neutral warm temperate", estimate.ZoneWarmTemperate, 50, 0, 800},
		{"unknown zone gets default base", estimate.Zone("Lunar"), 50, 0, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimate.AnnualRainfall(tt.zone, tt.humidity, tt.lon))
		})
	}
}

func TestDegradation(t *testing.T) {
	tests := []struct {
		name         string
		ndvi         float64
		soilPH       float64
		areaHectares float64
		want         estimate.DegradationLevel
	}{
		{"healthy land", 0.55, 7.0, 50, estimate.DegradationMinimal},
		{"thin vegetation", 0.45, 7.0, 50, estimate.DegradationModerate},
		{"sparse vegetation", 0.3, 7.0, 50, estimate.DegradationSevere},
		{"bare land", 0.15, 7.0, 50, estimate.DegradationSevere},
		{"bare land with acidic soil", 0.15, 4.8, 50, estimate.DegradationCritical},
		{"large healthy area", 0.55, 7.0, 150, estimate.DegradationModerate},
		{"sparse alkaline large area", 0.3, 9.0, 200, estimate.DegradationCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimate.Degradation(tt.ndvi, tt.soilPH, tt.areaHectares))
		})
	}
}

func TestFertility(t *testing.T) {
	tests := []struct {
		name   string
		soilPH float64
		ndvi   float64
		want   estimate.FertilityLevel
	}{
		{"neutral ph dense vegetation", 6.5, 0.6, estimate.FertilityHigh},
		{"mildly acidic moderate vegetation", 5.7, 0.4, estimate.FertilityMedium},
		{"mildly alkaline moderate vegetation", 7.8, 0.4, estimate.FertilityMedium},
		{"strongly acidic", 5.2, 0.6, estimate.FertilityLow},
		{"neutral ph sparse vegetation", 6.5, 0.3, estimate.FertilityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimate.Fertility(tt.soilPH, tt.ndvi))
		})
	}
}

func TestVegetationHealth(t *testing.T) {
	assert.Equal(t, estimate.HealthExcellent, estimate.VegetationHealth(0.6))
	assert.Equal(t, estimate.HealthGood, estimate.VegetationHealth(0.45))
	assert.Equal(t, estimate.HealthFair, estimate.VegetationHealth(0.25))
	assert.Equal(t, estimate.HealthPoor, estimate.VegetationHealth(0.1))
	assert.Equal(t, estimate.HealthCritical, estimate.VegetationHealth(0.05))
}

func TestErosionRisk(t *testing.T) {
	tests := []struct {
		name     string
		slope    float64
		cover    float64
		rainfall float64
		want     estimate.RiskLevel
	}{
		{"steep bare wet", 35, 10, 1600, estimate.RiskCritical},
		{"moderate slope thin cover", 20, 30, 800, estimate.RiskHigh},
		{"gentle slope partial cover", 10, 50, 800, estimate.RiskMedium},
		{"flat covered dry", 2, 80, 500, estimate.RiskLow},
		{"boundary values score nothing", 5, 60, 1000, estimate.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, estimate.ErosionRisk(tt.slope, tt.cover, tt.rainfall))
		})
	}
}

func TestEstimates_BoundedOverGlobe(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 5.1 {
		for lon := -180.0; lon <= 180; lon += 11.3 {
			soilType := estimate.SoilType(lat, lon, 0)
			ph := estimate.SoilPH(soilType, 50)
			assert.GreaterOrEqual(t, ph, 4.7)
			assert.LessOrEqual(t, ph, 7.8)

			zone := estimate.ClimateZone(lat, 20)
			rainfall := estimate.AnnualRainfall(zone, 50, lon)
			assert.GreaterOrEqual(t, rainfall, 150)
			assert.LessOrEqual(t, rainfall, 3530)
		}
	}
}
