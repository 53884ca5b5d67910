package climate

import (
	"errors"
	"sort"
	"time"
)

// Climate errors.
var (
	ErrHistoryUnavailable  = errors.New("climate history unavailable")
	ErrProviderUnavailable = errors.New("climate provider unavailable")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
)

// Series is a date-keyed sequence of daily readings in ascending date order.
// Dates use the YYYYMMDD format of the upstream daily endpoints.
type Series struct {
	Dates  []string
	Values []float64
}

// NewSeries builds a Series from a date-keyed map. Upstream responses carry
// daily values as JSON objects with no ordering guarantee, so keys are sorted
// ascending here; Current always refers to the latest date.
func NewSeries(byDate map[string]float64) Series {
	if len(byDate) == 0 {
		return Series{}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	values := make([]float64, len(dates))
	for i, d := range dates {
		values[i] = byDate[d]
	}

	return Series{Dates: dates, Values: values}
}

// IsEmpty reports whether the series has no readings.
func (s Series) IsEmpty() bool {
	return len(s.Values) == 0
}

// Current returns the reading for the latest date, or 0 if empty.
func (s Series) Current() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Values[len(s.Values)-1]
}

// Avg returns the mean of all readings, or 0 if empty.
func (s Series) Avg() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	return s.Total() / float64(len(s.Values))
}

// Min returns the smallest reading, or 0 if empty.
func (s Series) Min() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	min := s.Values[0]
	for _, v := range s.Values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest reading, or 0 if empty.
func (s Series) Max() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	max := s.Values[0]
	for _, v := range s.Values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Total returns the sum of all readings.
func (s Series) Total() float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v
	}
	return sum
}

// CountAbove returns the number of readings strictly above the threshold.
func (s Series) CountAbove(threshold float64) int {
	count := 0
	for _, v := range s.Values {
		if v > threshold {
			count++
		}
	}
	return count
}

// History holds the daily climate series for a location over a window.
// All series are chronologically ordered; aggregate accessors derive their
// "current" value from the latest date.
type History struct {
	// Daily series, aligned on the temperature series dates.
	Temperature    Series // °C at 2m
	Rainfall       Series // mm/day, bias-corrected precipitation
	Humidity       Series // % relative humidity at 2m
	WindSpeed      Series // m/s at 2m
	SolarRadiation Series // kWh/m²/day, all-sky surface shortwave

	// Source names the provider the history came from.
	Source string

	// FetchedAt is when the history was retrieved.
	FetchedAt time.Time
}

// IsEmpty reports whether the history carries no usable readings.
func (h *History) IsEmpty() bool {
	return h == nil || h.Temperature.IsEmpty()
}

// TemperatureStats summarizes the temperature series.
type TemperatureStats struct {
	Avg     float64
	Min     float64
	Max     float64
	Current float64
}

// RainfallStats summarizes the rainfall series.
type RainfallStats struct {
	Total        float64
	AvgDaily     float64
	DaysWithRain int
}

// HumidityStats summarizes the humidity series.
type HumidityStats struct {
	Avg     float64
	Current float64
}

// TemperatureSummary returns aggregate temperature statistics.
func (h *History) TemperatureSummary() TemperatureStats {
	return TemperatureStats{
		Avg:     h.Temperature.Avg(),
		Min:     h.Temperature.Min(),
		Max:     h.Temperature.Max(),
		Current: h.Temperature.Current(),
	}
}

// RainfallSummary returns aggregate rainfall statistics.
func (h *History) RainfallSummary() RainfallStats {
	return RainfallStats{
		Total:        h.Rainfall.Total(),
		AvgDaily:     h.Rainfall.Avg(),
		DaysWithRain: h.Rainfall.CountAbove(0),
	}
}

// HumiditySummary returns aggregate humidity statistics.
func (h *History) HumiditySummary() HumidityStats {
	return HumidityStats{
		Avg:     h.Humidity.Avg(),
		Current: h.Humidity.Current(),
	}
}

// AvgWindSpeed returns the mean wind speed over the window.
func (h *History) AvgWindSpeed() float64 {
	return h.WindSpeed.Avg()
}

// AvgSolarRadiation returns the mean solar radiation over the window.
func (h *History) AvgSolarRadiation() float64 {
	return h.SolarRadiation.Avg()
}
