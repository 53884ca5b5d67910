package estimate

import "math"

// maxPicks caps crop and tree recommendations at the first five catalog
// entries. Catalog order is the ranking.
const maxPicks = 5

// Sentinel recommendations for zones missing from the catalogs.
const (
	ConsultAgronomist = "Consult local agronomist"
	ConsultForester   = "Consult local forester"
)

// Recommendation is a restoration plan derived from land analysis results.
type Recommendation struct {
	Crops            []string
	Trees            []string
	Techniques       []string
	TimelineMonths   int
	BudgetPerHectare float64
}

var cropCatalog = map[Zone][]string{
	ZoneEquatorial:    {"Rice", "Bananas", "Cassava", "Yams", "Cocoa", "Coffee"},
	ZoneTropical:      {"Maize", "Beans", "Cassava", "Sweet Potato", "Millet", "Sorghum"},
	ZoneSubtropical:   {"Wheat", "Maize", "Citrus", "Grapes", "Cotton", "Rice"},
	ZoneWarmTemperate: {"Wheat", "Barley", "Potato", "Apple", "Cherry", "Corn"},
	ZoneCoolTemperate: {"Oats", "Barley", "Potato", "Cabbage", "Berries", "Rye"},
	ZoneSubpolar:      {"Barley", "Potato", "Root Vegetables", "Hardy Grasses"},
	ZonePolar:         {"Hardy Grasses", "Moss"},
}

var treeCatalog = map[Zone][]string{
	ZoneEquatorial:    {"Mahogany", "Teak", "Rubber", "Oil Palm", "Bamboo"},
	ZoneTropical:      {"Acacia", "Neem", "Mango", "Moringa", "Grevillea", "Eucalyptus"},
	ZoneSubtropical:   {"Oak", "Citrus", "Olive", "Pine", "Cypress"},
	ZoneWarmTemperate: {"Oak", "Maple", "Ash", "Pine", "Walnut"},
	ZoneCoolTemperate: {"Spruce", "Fir", "Birch", "Alder", "Larch"},
	ZoneSubpolar:      {"Birch", "Willow", "Alder", "Hardy Conifers"},
	ZonePolar:         {"Dwarf Willow", "Arctic Birch"},
}

var techniqueCatalog = map[DegradationLevel][]string{
	DegradationMinimal: {
		"Regular mulching and organic matter addition",
		"Crop rotation practices",
		"Water conservation techniques",
		"Integrated pest management",
	},
	DegradationModerate: {
		"Contour farming and terracing",
		"Agroforestry integration",
		"Soil amendment with compost",
		"Cover cropping",
		"Erosion control structures",
	},
	DegradationSevere: {
		"Intensive afforestation program",
		"Deep tillage and soil loosening",
		"Gabion and stone wall construction",
		"Watershed management systems",
		"Biochar application",
		"Pioneer species planting",
	},
	DegradationCritical: {
		"Emergency restoration protocols",
		"Comprehensive soil remediation",
		"Mechanical intervention (ripping, subsoiling)",
		"Intensive irrigation system installation",
		"Rock dam and check dam construction",
		"Fast-growing pioneer species",
		"Professional consultation required",
	},
}

var timelineMonths = map[DegradationLevel]int{
	DegradationMinimal:  12,
	DegradationModerate: 24,
	DegradationSevere:   36,
	DegradationCritical: 48,
}

// baseBudgetPerHectare is in KES.
var baseBudgetPerHectare = map[DegradationLevel]float64{
	DegradationMinimal:  50000,
	DegradationModerate: 150000,
	DegradationSevere:   350000,
	DegradationCritical: 700000,
}

// Recommend builds a restoration plan. Crops and trees come from the
// zone-keyed catalogs, adjusted for soil pH and truncated to the first five
// entries. Techniques, timeline and budget are keyed by degradation level,
// with a 1.5x irrigation surcharge on the budget when annual rainfall runs
// below 600mm. Unknown zones get professional-consultation sentinels instead
// of an error.
func Recommend(zone Zone, soilType string, soilPH float64, level DegradationLevel, annualRainfall int) Recommendation {
	crops, ok := cropCatalog[zone]
	if ok {
		crops = adjustCropsForPH(crops, soilPH)
	} else {
		crops = []string{ConsultAgronomist}
	}

	trees, ok := treeCatalog[zone]
	if ok {
		trees = adjustTreesForPH(trees, soilPH)
	} else {
		trees = []string{ConsultForester}
	}

	timeline, ok := timelineMonths[level]
	if !ok {
		timeline = 24
	}

	budget, ok := baseBudgetPerHectare[level]
	if !ok {
		budget = 100000
	}
	if annualRainfall < 600 {
		budget *= 1.5
	}

	return Recommendation{
		Crops:            firstN(crops, maxPicks),
		Trees:            firstN(trees, maxPicks),
		Techniques:       techniqueCatalog[level],
		TimelineMonths:   timeline,
		BudgetPerHectare: math.Round(budget*100) / 100,
	}
}

// adjustCropsForPH swaps acid-sensitive grains for acid-tolerant berries in
// strongly acidic soil.
func adjustCropsForPH(crops []string, soilPH float64) []string {
	if soilPH >= 5.5 {
		return crops
	}

	adjusted := make([]string, 0, len(crops)+2)
	for _, crop := range crops {
		if crop == "Wheat" || crop == "Barley" {
			continue
		}
		adjusted = append(adjusted, crop)
	}
	return append(adjusted, "Blueberries", "Cranberries")
}

// adjustTreesForPH adds an alkaline-tolerant tree to zones that lack one
// when the soil runs alkaline.
func adjustTreesForPH(trees []string, soilPH float64) []string {
	if soilPH <= 7.5 {
		return trees
	}

	for _, tree := range trees {
		if tree == "Olive" {
			return trees
		}
	}

	adjusted := make([]string, 0, len(trees)+1)
	adjusted = append(adjusted, trees...)
	return append(adjusted, "Date Palm")
}

func firstN(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}
