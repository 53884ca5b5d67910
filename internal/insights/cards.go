package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/terrasense/terrasense/internal/climate"
	"github.com/terrasense/terrasense/internal/estimate"
	"github.com/terrasense/terrasense/internal/monitoring"
)

// Drought detection thresholds over the recent climate window.
const (
	droughtRainfallMM   = 200
	droughtTemperatureC = 30
)

// VegetationCards builds vegetation health, trend and climate stress cards.
// Without a trend there is nothing to say about vegetation.
func VegetationCards(trend *NDVITrend, history *climate.History) []Insight {
	var cards []Insight

	if trend == nil {
		return cards
	}

	if trend.Current > 0.6 {
		cards = append(cards, Insight{
			Kind:        KindPositive,
			Category:    CategoryVegetation,
			Title:       "Excellent Vegetation Health",
			Description: fmt.Sprintf("Current NDVI of %.2f indicates dense, healthy vegetation cover. Your restoration efforts are showing strong results.", trend.Current),
			Confidence:  92,
			Recommendations: []string{
				"Continue current management practices",
				"Monitor for pest and disease",
				"Consider expanding restoration to adjacent areas",
			},
		})
	} else if trend.Current < 0.3 {
		cards = append(cards, Insight{
			Kind:        KindCritical,
			Category:    CategoryVegetation,
			Title:       "Critical Vegetation Loss",
			Description: fmt.Sprintf("NDVI of %.2f indicates severe vegetation stress or loss. Immediate intervention required.", trend.Current),
			Confidence:  88,
			Recommendations: []string{
				"Conduct immediate site assessment",
				"Implement emergency reforestation",
				"Apply soil conservation measures",
				"Consider drought-resistant species",
			},
		})
	}

	if trend.Direction == DirectionImproving && trend.ChangePercent > 10 {
		cards = append(cards, Insight{
			Kind:        KindPositive,
			Category:    CategoryTrend,
			Title:       "Strong Recovery Trend",
			Description: fmt.Sprintf("Vegetation index has improved by %.1f%% over the monitoring period. Ecosystem is recovering well.", trend.ChangePercent),
			Confidence:  85,
			Recommendations: []string{
				"Maintain current restoration activities",
				"Document successful practices",
				"Share learnings with community",
			},
		})
	} else if trend.Direction == DirectionDeclining && trend.ChangePercent < -10 {
		cards = append(cards, Insight{
			Kind:        KindWarning,
			Category:    CategoryTrend,
			Title:       "Declining Vegetation Trend",
			Description: fmt.Sprintf("Vegetation health has declined by %.1f%%. Investigation needed to identify causes.", -trend.ChangePercent),
			Confidence:  87,
			Recommendations: []string{
				"Investigate decline causes",
				"Increase monitoring frequency",
				"Review and adjust management plan",
				"Check for environmental stressors",
			},
		})
	}

	if !history.IsEmpty() {
		rainfall := history.RainfallSummary().Total
		avgTemp := history.TemperatureSummary().Avg

		if rainfall < droughtRainfallMM && avgTemp > droughtTemperatureC {
			cards = append(cards, Insight{
				Kind:        KindWarning,
				Category:    CategoryClimate,
				Title:       "Drought Stress Detected",
				Description: fmt.Sprintf("Low rainfall (%.0fmm) combined with high temperatures (%.1f°C) increasing drought risk.", rainfall, avgTemp),
				Confidence:  83,
				Recommendations: []string{
					"Implement water conservation techniques",
					"Install rainwater harvesting systems",
					"Use mulching to retain soil moisture",
					"Consider drought-resistant species",
				},
			})
		}
	}

	return cards
}

// SoilCards builds soil moisture, pH and erosion cards from the latest sample.
func SoilCards(latest *monitoring.Sample) []Insight {
	var cards []Insight

	if latest == nil {
		return cards
	}

	if latest.SoilMoisture < 20 {
		cards = append(cards, Insight{
			Kind:        KindWarning,
			Category:    CategorySoil,
			Title:       "Low Soil Moisture",
			Description: fmt.Sprintf("Soil moisture at %.1f%% is below optimal levels. Plants may experience water stress.", latest.SoilMoisture),
			Confidence:  85,
			Recommendations: []string{
				"Increase irrigation frequency",
				"Apply organic mulch",
				"Consider drip irrigation",
				"Monitor daily until moisture improves",
			},
		})
	} else if latest.SoilMoisture > 80 {
		cards = append(cards, Insight{
			Kind:        KindInfo,
			Category:    CategorySoil,
			Title:       "High Soil Moisture",
			Description: fmt.Sprintf("Soil moisture at %.1f%% is very high. Monitor for waterlogging or drainage issues.", latest.SoilMoisture),
			Confidence:  78,
			Recommendations: []string{
				"Check drainage systems",
				"Reduce irrigation if applicable",
				"Monitor for root diseases",
				"Consider drainage improvement",
			},
		})
	}

	if latest.SoilPH < 5.5 {
		cards = append(cards, Insight{
			Kind:        KindWarning,
			Category:    CategorySoil,
			Title:       "Acidic Soil Detected",
			Description: fmt.Sprintf("Soil pH of %.1f is too acidic. This may limit nutrient availability and plant growth.", latest.SoilPH),
			Confidence:  90,
			Recommendations: []string{
				"Apply agricultural lime",
				"Use wood ash amendments",
				"Choose acid-tolerant species",
				"Retest pH after amendments",
			},
		})
	} else if latest.SoilPH > 8.5 {
		cards = append(cards, Insight{
			Kind:        KindWarning,
			Category:    CategorySoil,
			Title:       "Alkaline Soil Detected",
			Description: fmt.Sprintf("Soil pH of %.1f is too alkaline. Iron and other nutrients may become unavailable.", latest.SoilPH),
			Confidence:  88,
			Recommendations: []string{
				"Apply sulfur or organic matter",
				"Use acidifying fertilizers",
				"Choose alkaline-tolerant species",
				"Monitor nutrient deficiencies",
			},
		})
	}

	if latest.ErosionRisk == estimate.RiskHigh || latest.ErosionRisk == estimate.RiskCritical {
		risk := string(latest.ErosionRisk)
		cards = append(cards, Insight{
			Kind:        KindCritical,
			Category:    CategorySoil,
			Title:       strings.ToUpper(risk[:1]) + risk[1:] + " Erosion Risk",
			Description: "Soil erosion risk is elevated. Immediate soil conservation measures recommended.",
			Confidence:  86,
			Recommendations: []string{
				"Implement contour farming",
				"Build terraces or bunds",
				"Plant cover crops",
				"Install erosion control structures",
				"Increase vegetation cover",
			},
		})
	}

	return cards
}

// SeasonalCards builds planting-calendar cards keyed to East African seasons.
func SeasonalCards(month time.Month) []Insight {
	switch month {
	case time.March, time.April, time.May: // long rains
		return []Insight{{
			Kind:        KindPositive,
			Category:    CategorySeasonal,
			Title:       "Optimal Planting Season",
			Description: "Long rains season is ideal for tree planting and establishing vegetation. Maximize restoration efforts now.",
			Confidence:  95,
			Recommendations: []string{
				"Accelerate tree planting activities",
				"Prepare seedlings in advance",
				"Focus on indigenous species",
				"Establish soil conservation structures",
				"Plan for 6-8 weeks of optimal conditions",
			},
		}}
	case time.October, time.November, time.December: // short rains
		return []Insight{{
			Kind:        KindPositive,
			Category:    CategorySeasonal,
			Title:       "Secondary Planting Window",
			Description: "Short rains provide another opportunity for planting. Focus on hardy species.",
			Confidence:  85,
			Recommendations: []string{
				"Plant drought-resistant species",
				"Supplement with irrigation if needed",
				"Apply mulch for moisture retention",
				"Monitor seedling establishment closely",
			},
		}}
	case time.January, time.February: // dry season
		return []Insight{{
			Kind:        KindInfo,
			Category:    CategorySeasonal,
			Title:       "Dry Season Management",
			Description: "Dry season requires careful water management and protection of established vegetation.",
			Confidence:  88,
			Recommendations: []string{
				"Focus on watering established plants",
				"Apply mulch to conserve moisture",
				"Avoid planting new seedlings",
				"Monitor for drought stress",
				"Prepare for next planting season",
			},
		}}
	default:
		return nil
	}
}
