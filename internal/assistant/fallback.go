package assistant

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ndviPattern extracts an NDVI reading from a context summary such as
// "Current project: Mara (reforestation) | NDVI: 0.45 (good)".
var ndviPattern = regexp.MustCompile(`ndvi:\s*([\d.]+)`)

// FallbackReply produces a deterministic rule-based reply when no generation
// model is available. Rules match message keywords in priority order; the
// NDVI rule reads the value embedded in the context summary, and the planting
// rule keys off the month (East African rain seasons).
func FallbackReply(message, contextInfo string, now time.Time) string {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "ndvi") || strings.Contains(lower, "vegetation"):
		return ndviReply(contextInfo)
	case strings.Contains(lower, "soil"):
		return soilReply(lower)
	case containsAny(lower, "plant", "season", "when", "timing"):
		return plantingReply(now)
	case containsAny(lower, "restore", "technique", "how", "improve", "help"):
		return restorationReply
	case containsAny(lower, "data", "interpret", "understand", "mean", "explain"):
		return dataReply
	case containsAny(lower, "hello", "hi", "hey", "greet"):
		return greetingReply(contextInfo)
	case strings.Contains(lower, "thank"):
		return thanksReply
	default:
		return defaultReply
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// ndviReply tiers the advice by the project's current NDVI when the context
// carries one, and explains the scale otherwise.
func ndviReply(contextInfo string) string {
	match := ndviPattern.FindStringSubmatch(strings.ToLower(contextInfo))
	if match != nil {
		if ndvi, err := strconv.ParseFloat(match[1], 64); err == nil {
			switch {
			case ndvi > 0.6:
				return fmt.Sprintf("Great news! Your NDVI is %.2f, indicating excellent vegetation health. Your restoration efforts are showing strong results. Continue with current management practices and monitor for any pest or disease issues.", ndvi)
			case ndvi > 0.4:
				return fmt.Sprintf("Your NDVI is %.2f, showing good vegetation cover. To improve further, consider: 1) Increasing organic matter through composting, 2) Implementing better water management, 3) Adding nitrogen-fixing cover crops.", ndvi)
			case ndvi > 0.2:
				return fmt.Sprintf("Your NDVI is %.2f, indicating fair vegetation health. Action needed: 1) Implement cover cropping, 2) Apply organic mulch 5-10cm thick, 3) Test and amend soil pH, 4) Ensure adequate irrigation.", ndvi)
			default:
				return fmt.Sprintf("ALERT: Your NDVI is %.2f, showing critical vegetation stress. Immediate actions: 1) Increase irrigation frequency, 2) Add organic matter and compost, 3) Consider replanting with drought-resistant species, 4) Consult with an agronomist.", ndvi)
			}
		}
	}

	return `NDVI (Normalized Difference Vegetation Index) is a key indicator of vegetation health.

Scale interpretation:
* 0.6 to 1.0 = Excellent (dense, healthy vegetation)
* 0.4 to 0.6 = Good (moderate, healthy cover)
* 0.2 to 0.4 = Fair (sparse or stressed vegetation)
* Below 0.2 = Poor/Critical (severe stress or bare soil)

Higher values indicate healthier, denser vegetation. Select a project to see your specific NDVI analysis and recommendations.`
}

func soilReply(lowerMessage string) string {
	if strings.Contains(lowerMessage, "moisture") {
		return `Soil moisture is critical for plant growth and restoration success.

Optimal ranges:
* 40-60% = Ideal for most crops and restoration species
* 30-40% = Acceptable but may need supplemental irrigation
* Below 30% = Plants experiencing water stress
* Above 70% = Risk of waterlogging and root diseases

Improvement strategies:
1. Apply 5-10cm organic mulch to retain moisture
2. Install drip irrigation systems for efficiency
3. Add compost to improve water-holding capacity
4. Plant deep-rooted cover crops
5. Create swales and berms to capture runoff`
	}

	return `Soil health is the foundation of successful land restoration.

Key indicators:
* pH level: 6.0-7.5 optimal for most species
* Organic matter: Target 3-5% or higher
* Moisture: 40-60% for active growth
* Structure: Good aggregation, drainage, and aeration
* Nutrients: Adequate N, P, K levels

Improvement plan:
1. Test soil (pH, nutrients, organic matter)
2. Add compost or well-rotted manure (2-4 tons/hectare)
3. Use cover crops (legumes fix nitrogen)
4. Minimize soil disturbance and tillage
5. Apply organic mulch (conserves moisture, adds nutrients)
6. Monitor progress with annual testing`
}

// plantingReply keys the advice off the month: long rains March-May, short
// rains October-December, dry season otherwise.
func plantingReply(now time.Time) string {
	switch now.Month() {
	case time.March, time.April, time.May:
		return `OPTIMAL PLANTING SEASON: Long Rains (March-May)

This is the best time for planting!

Recommended actions:
* Plant indigenous tree species now
* Establish soil conservation structures (terraces, bunds)
* Maximize seedling establishment
* Prepare for 6-8 weeks of optimal growing conditions
* Priority species: Acacia, Grevillea, Neem, indigenous fruits

Success tips:
1. Plant at start of rains (not during heavy downpours)
2. Dig holes 60x60x60cm, fill with topsoil + compost
3. Space trees 3-4 meters apart
4. Stake tall seedlings
5. Apply mulch around base (keep clear of stem)`

	case time.October, time.November, time.December:
		return `SECONDARY PLANTING WINDOW: Short Rains (October-December)

Good for hardy, drought-resistant species.

Recommended species:
* Acacia varieties
* Grevillea robusta
* Moringa oleifera
* Drought-adapted indigenous species

Best practices:
1. Focus on drought-resistant varieties
2. Prepare irrigation backup
3. Apply thick mulch (10cm) for moisture retention
4. Monitor seedlings closely (short rains less reliable)
5. Water daily for first 2 weeks if rains insufficient

This window is shorter and less predictable than long rains.`

	default:
		return `CURRENT STATUS: Dry Season

Not recommended for planting new seedlings.

Focus activities:
* Maintain and water established plants
* Prepare planting sites for next season
* Build soil conservation structures
* Source quality seedlings
* Test and amend soil
* Clear invasive species
* Plan restoration strategy

Next planting windows:
* Primary: March-May (Long Rains) - best
* Secondary: October-December (Short Rains) - good

Use this time to prepare thoroughly for successful planting when rains arrive.`
	}
}

const restorationReply = `COMPREHENSIVE RESTORATION STRATEGIES

1. SOIL CONSERVATION
   * Build contour terraces on slopes over 15%
   * Establish grass strips along contours
   * Plant cover crops (legumes, grasses)
   * Apply mulch (5-10cm) to prevent erosion
   * Create stone bunds or gabions

2. WATER MANAGEMENT
   * Install rainwater harvesting (tanks, ponds)
   * Dig infiltration ditches along contours
   * Create swales to slow runoff
   * Use drip irrigation for efficiency
   * Implement zai pits in degraded areas

3. VEGETATION ESTABLISHMENT
   * Use indigenous species (adapted to local conditions)
   * Mix trees, shrubs, and grasses
   * Plant in suitable seasons (March-May best)
   * Space appropriately (3-4m for trees)
   * Succession planting (pioneer species first)

4. MONITORING & ADAPTATION
   * Track NDVI monthly
   * Monitor soil health quarterly
   * Measure tree growth and survival
   * Record rainfall and weather
   * Adjust strategies based on data

What specific aspect would you like to explore in detail?`

const dataReply = `DATA INTERPRETATION GUIDE

Key metrics I monitor:

VEGETATION HEALTH (NDVI)
* Measures photosynthetic activity
* 0.6+ = Excellent restoration progress
* 0.4-0.6 = Good, on track
* 0.2-0.4 = Fair, needs intervention
* Below 0.2 = Critical, immediate action

SOIL METRICS
* Moisture: 40-60% optimal
* pH: 6.0-7.5 for most species
* Organic matter: Target 3-5%
* Erosion risk: Monitor after heavy rains

CLIMATE DATA
* Temperature: Affects growth rates
* Rainfall: Critical for establishment
* Humidity: Influences disease risk
* Solar radiation: Drives photosynthesis

TRENDS TO WATCH
* Improving NDVI = Restoration working
* Declining NDVI = Investigate causes
* Seasonal patterns = Normal variation
* Extreme events = May require intervention

Share your specific data for detailed analysis and recommendations!`

func greetingReply(contextInfo string) string {
	projectNote := ""
	if contextInfo != "" {
		projectNote = "\n\nI can see you're working on a project. I can help analyze its data and provide specific recommendations!"
	}

	return fmt.Sprintf(`Hello! I'm your land restoration assistant.

I can help you with:
* Vegetation health analysis (NDVI interpretation)
* Soil health assessment and management
* Climate pattern analysis and seasonal planning
* Data interpretation and trend analysis
* Restoration technique recommendations
* Species selection guidance%s

What would you like to know about your restoration project?`, projectNote)
}

const thanksReply = "You're welcome! I'm here to support your restoration efforts. Feel free to ask anything about your projects, data, or best practices. Together we can restore degraded lands!"

const defaultReply = `I'm your land restoration assistant!

I can help with:
* VEGETATION: Analyze NDVI data, interpret trends, diagnose issues
* SOIL: Assess health, recommend amendments, improve fertility
* CLIMATE: Understand patterns, plan seasonal activities
* DATA: Interpret metrics, identify trends, track progress
* TECHNIQUES: Suggest strategies, select species, optimize methods

Popular questions:
* "What is my current NDVI?"
* "When should I plant?"
* "How can I improve soil health?"
* "What do my monitoring metrics mean?"
* "What restoration techniques work best?"

Select a project, then ask me anything specific about your data or restoration needs!`
