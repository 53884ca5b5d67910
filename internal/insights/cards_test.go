package insights_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrasense/terrasense/internal/climate"
	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/insights"
	"github.com/terrasense/terrasense/internal/monitoring"
)

func findCard(cards []insights.Insight, title string) *insights.Insight {
	for i := range cards {
		if cards[i].Title == title {
			return &cards[i]
		}
	}
	return nil
}

func droughtHistory() *climate.History {
	return &climate.History{
		Temperature: climate.NewSeries(map[string]float64{
			"20250601": 32, "20250602": 33, "20250603": 34,
		}),
		Rainfall: climate.NewSeries(map[string]float64{
			"20250601": 10, "20250602": 20, "20250603": 30,
		}),
		Source: "nasa-power",
	}
}

func TestVegetationCards_NilTrend(t *testing.T) {
	assert.Empty(t, insights.VegetationCards(nil, droughtHistory()))
}

func TestVegetationCards_ExcellentHealth(t *testing.T) {
	trend := &insights.NDVITrend{Current: 0.72, Direction: insights.DirectionStable}

	cards := insights.VegetationCards(trend, nil)

	card := findCard(cards, "Excellent Vegetation Health")
	require.NotNil(t, card)
	assert.Equal(t, insights.KindPositive, card.Kind)
	assert.Equal(t, insights.CategoryVegetation, card.Category)
	assert.Equal(t, 92, card.Confidence)
	assert.Contains(t, card.Description, "0.72")
	assert.NotEmpty(t, card.Recommendations)
}

func TestVegetationCards_CriticalLoss(t *testing.T) {
	trend := &insights.NDVITrend{Current: 0.18, Direction: insights.DirectionStable}

	cards := insights.VegetationCards(trend, nil)

	card := findCard(cards, "Critical Vegetation Loss")
	require.NotNil(t, card)
	assert.Equal(t, insights.KindCritical, card.Kind)
	assert.Contains(t, card.Recommendations, "Conduct immediate site assessment")
}

func TestVegetationCards_RecoveryTrend(t *testing.T) {
	trend := &insights.NDVITrend{
		Current:       0.55,
		Previous:      0.40,
		ChangePercent: 37.5,
		Direction:     insights.DirectionImproving,
	}

	cards := insights.VegetationCards(trend, nil)

	card := findCard(cards, "Strong Recovery Trend")
	require.NotNil(t, card)
	assert.Equal(t, insights.KindPositive, card.Kind)
	assert.Equal(t, insights.CategoryTrend, card.Category)
	assert.Contains(t, card.Description, "37.5%")
}

func TestVegetationCards_DecliningTrend(t *testing.T) {
	trend := &insights.NDVITrend{
		Current:       0.40,
		Previous:      0.55,
		ChangePercent: -27.3,
		Direction:     insights.DirectionDeclining,
	}

	cards := insights.VegetationCards(trend, nil)

	card := findCard(cards, "Declining Vegetation Trend")
	require.NotNil(t, card)
	assert.Equal(t, insights.KindWarning, card.Kind)
	// The decline is reported as a positive magnitude.
	assert.Contains(t, card.Description, "27.3%")
}

func TestVegetationCards_SmallChangeNoTrendCard(t *testing.T) {
	trend := &insights.NDVITrend{
		Current:       0.46,
		Previous:      0.44,
		ChangePercent: 4.5,
		Direction:     insights.DirectionImproving,
	}

	cards := insights.VegetationCards(trend, nil)

	assert.Nil(t, findCard(cards, "Strong Recovery Trend"))
	assert.Nil(t, findCard(cards, "Declining Vegetation Trend"))
}

func TestVegetationCards_DroughtStress(t *testing.T) {
	trend := &insights.NDVITrend{Current: 0.45, Direction: insights.DirectionStable}

	cards := insights.VegetationCards(trend, droughtHistory())

	card := findCard(cards, "Drought Stress Detected")
	require.NotNil(t, card)
	assert.Equal(t, insights.KindWarning, card.Kind)
	assert.Equal(t, insights.CategoryClimate, card.Category)
	assert.Contains(t, card.Description, "60mm")
	assert.Contains(t, card.Recommendations, "Install rainwater harvesting systems")
}

func TestVegetationCards_NoDroughtWhenWet(t *testing.T) {
	history := droughtHistory()
	history.Rainfall = climate.NewSeries(map[string]float64{
		"20250601": 120, "20250602": 150, "20250603": 180,
	})
	trend := &insights.NDVITrend{Current: 0.45, Direction: insights.DirectionStable}

	cards := insights.VegetationCards(trend, history)

	assert.Nil(t, findCard(cards, "Drought Stress Detected"))
}

func TestVegetationCards_NoDroughtWithoutHistory(t *testing.T) {
	trend := &insights.NDVITrend{Current: 0.45, Direction: insights.DirectionStable}

	cards := insights.VegetationCards(trend, nil)

	assert.Empty(t, cards)
}

func TestSoilCards(t *testing.T) {
	tests := []struct {
		name      string
		sample    *monitoring.Sample
		wantTitle string
		wantKind  insights.Kind
	}{
		{
			name:      "low moisture",
			sample:    &monitoring.Sample{SoilMoisture: 12, SoilPH: 6.8, ErosionRisk: estimate.RiskLow},
			wantTitle: "Low Soil Moisture",
			wantKind:  insights.KindWarning,
		},
		{
			name:      "waterlogged",
			sample:    &monitoring.Sample{SoilMoisture: 88, SoilPH: 6.8, ErosionRisk: estimate.RiskLow},
			wantTitle: "High Soil Moisture",
			wantKind:  insights.KindInfo,
		},
		{
			name:      "acidic",
			sample:    &monitoring.Sample{SoilMoisture: 45, SoilPH: 4.9, ErosionRisk: estimate.RiskLow},
			wantTitle: "Acidic Soil Detected",
			wantKind:  insights.KindWarning,
		},
		{
			name:      "alkaline",
			sample:    &monitoring.Sample{SoilMoisture: 45, SoilPH: 8.9, ErosionRisk: estimate.RiskLow},
			wantTitle: "Alkaline Soil Detected",
			wantKind:  insights.KindWarning,
		},
		{
			name:      "high erosion",
			sample:    &monitoring.Sample{SoilMoisture: 45, SoilPH: 6.8, ErosionRisk: estimate.RiskHigh},
			wantTitle: "High Erosion Risk",
			wantKind:  insights.KindCritical,
		},
		{
			name:      "critical erosion",
			sample:    &monitoring.Sample{SoilMoisture: 45, SoilPH: 6.8, ErosionRisk: estimate.RiskCritical},
			wantTitle: "Critical Erosion Risk",
			wantKind:  insights.KindCritical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := insights.SoilCards(tt.sample)

			card := findCard(cards, tt.wantTitle)
			require.NotNil(t, card)
			assert.Equal(t, tt.wantKind, card.Kind)
			assert.Equal(t, insights.CategorySoil, card.Category)
			assert.NotEmpty(t, card.Recommendations)
		})
	}
}

func TestSoilCards_HealthySampleNoCards(t *testing.T) {
	sample := &monitoring.Sample{SoilMoisture: 45, SoilPH: 6.8, ErosionRisk: estimate.RiskLow}

	assert.Empty(t, insights.SoilCards(sample))
}

func TestSoilCards_NilSample(t *testing.T) {
	assert.Empty(t, insights.SoilCards(nil))
}

func TestSeasonalCards(t *testing.T) {
	tests := []struct {
		month     time.Month
		wantTitle string
	}{
		{time.March, "Optimal Planting Season"},
		{time.April, "Optimal Planting Season"},
		{time.May, "Optimal Planting Season"},
		{time.October, "Secondary Planting Window"},
		{time.November, "Secondary Planting Window"},
		{time.December, "Secondary Planting Window"},
		{time.January, "Dry Season Management"},
		{time.February, "Dry Season Management"},
	}

	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			cards := insights.SeasonalCards(tt.month)

			require.Len(t, cards, 1)
			assert.Equal(t, tt.wantTitle, cards[0].Title)
			assert.Equal(t, insights.CategorySeasonal, cards[0].Category)
		})
	}
}

func TestSeasonalCards_OffSeason(t *testing.T) {
	for _, month := range []time.Month{time.June, time.July, time.August, time.September} {
		assert.Nil(t, insights.SeasonalCards(month), month.String())
	}
}
