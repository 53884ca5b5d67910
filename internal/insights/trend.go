package insights

import (
	"math"
	"time"

	"github.com/terrasense/terrasense/internal/monitoring"
)

// Slope threshold below which a regression counts as stable.
const slopeThreshold = 0.01

// TrendDirection classifies a series by the slope of a simple linear
// regression over its index. Series shorter than two points are stable.
func TrendDirection(values []float64) Direction {
	if len(values) < 2 {
		return DirectionStable
	}

	n := len(values)
	var xMean, yMean float64
	for i, v := range values {
		xMean += float64(i)
		yMean += v
	}
	xMean /= float64(n)
	yMean /= float64(n)

	var numerator, denominator float64
	for i, v := range values {
		dx := float64(i) - xMean
		numerator += dx * (v - yMean)
		denominator += dx * dx
	}

	if denominator == 0 {
		return DirectionStable
	}

	slope := numerator / denominator
	switch {
	case slope > slopeThreshold:
		return DirectionImproving
	case slope < -slopeThreshold:
		return DirectionDeclining
	default:
		return DirectionStable
	}
}

// NDVITrendFrom summarizes the vegetation index across samples ordered oldest
// first. Returns nil when fewer than two samples exist, since a single point
// has no direction.
func NDVITrendFrom(samples []*monitoring.Sample) *NDVITrend {
	if len(samples) < 2 {
		return nil
	}

	values := make([]float64, len(samples))
	dates := make([]time.Time, len(samples))
	for i, s := range samples {
		values[i] = s.NDVI
		dates[i] = s.RecordedAt
	}

	current := values[len(values)-1]
	previous := values[0]

	trend := &NDVITrend{
		Current:   current,
		Previous:  previous,
		Change:    current - previous,
		Direction: TrendDirection(values),
		Values:    values,
		Dates:     dates,
		Avg:       mean(values),
	}
	if previous > 0 {
		trend.ChangePercent = (current - previous) / previous * 100
	}
	trend.Volatility = stddev(values, trend.Avg)

	return trend
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, mean float64) float64 {
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
