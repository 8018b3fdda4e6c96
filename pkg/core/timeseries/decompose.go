package timeseries

import (
	"math"

	"erp_analytics/pkg/core/calc"
)

const (
	seasonLength    = 12
	minDecomposeLen = seasonLength + 1
	fullQualityLen  = 2 * seasonLength
)

// Data quality flags of a decomposition.
const (
	QualitySufficient = "sufficient"
	QualityLimited    = "limited"
)

// Component is one month of a decomposition. Months at either end that the
// centered moving average cannot reach have HasTrend false and zero trend
// and residual.
type Component struct {
	Month    string  `json:"month"`
	Original float64 `json:"original"`
	Trend    float64 `json:"trend"`
	Seasonal float64 `json:"seasonal"`
	Residual float64 `json:"residual"`
	HasTrend bool    `json:"has_trend"`
}

// Decomposition is the additive decomposition of a monthly series.
type Decomposition struct {
	Components       []Component           `json:"components"`
	SeasonalFactors  [seasonLength]float64 `json:"seasonal_factors"` // January first, sums to zero
	SeasonalStrength float64               `json:"seasonal_strength"`
	TrendDirection   string                `json:"trend_direction"` // up, down or flat
	PeakMonth        int                   `json:"peak_month"`
	TroughMonth      int                   `json:"trough_month"`
	DataQuality      string                `json:"data_quality"`
}

// centeredMA is the 2x12 moving average: a 13-point window with half weights
// at both ends, defined for indexes 6..n-7.
func centeredMA(values []float64) ([]float64, []bool) {
	n := len(values)
	trend := make([]float64, n)
	ok := make([]bool, n)
	half := seasonLength / 2
	for i := half; i < n-half; i++ {
		sum := 0.5*values[i-half] + 0.5*values[i+half]
		for j := i - half + 1; j < i+half; j++ {
			sum += values[j]
		}
		trend[i] = sum / seasonLength
		ok[i] = true
	}
	return trend, ok
}

// DecomposeTimeSeries splits points into trend, seasonal and residual.
// Seasonal factors are the per-calendar-month mean of original minus trend,
// shifted to sum to zero. It returns false for fewer than 13 months;
// fewer than 24 months are flagged as limited quality.
func DecomposeTimeSeries(points []Point) (*Decomposition, bool) {
	if len(points) < minDecomposeLen {
		return nil, false
	}
	values := Values(points)
	trend, hasTrend := centeredMA(values)

	var sums [seasonLength]float64
	var counts [seasonLength]int
	for i, p := range points {
		cm := calc.CalendarMonth(p.Month)
		if !hasTrend[i] || cm == 0 {
			continue
		}
		sums[cm-1] += values[i] - trend[i]
		counts[cm-1]++
	}

	d := &Decomposition{DataQuality: QualitySufficient}
	if len(points) < fullQualityLen {
		d.DataQuality = QualityLimited
	}
	var raw [seasonLength]float64
	for m := range raw {
		if counts[m] > 0 {
			raw[m] = sums[m] / float64(counts[m])
		}
	}
	mean := calc.Mean(raw[:])
	for m := range raw {
		d.SeasonalFactors[m] = raw[m] - mean
	}

	var detrended, residuals []float64
	d.Components = make([]Component, len(points))
	for i, p := range points {
		c := Component{Month: p.Month, Original: values[i]}
		if cm := calc.CalendarMonth(p.Month); cm > 0 {
			c.Seasonal = d.SeasonalFactors[cm-1]
		}
		if hasTrend[i] {
			c.HasTrend = true
			c.Trend = trend[i]
			c.Residual = values[i] - trend[i] - c.Seasonal
			detrended = append(detrended, values[i]-trend[i])
			residuals = append(residuals, c.Residual)
		}
		d.Components[i] = c
	}

	if v := calc.Variance(detrended); v > 0 {
		d.SeasonalStrength = math.Max(0, 1-calc.Variance(residuals)/v)
	}
	d.TrendDirection = trendDirection(trend, hasTrend)

	peak, trough := 0, 0
	for m := 1; m < seasonLength; m++ {
		if d.SeasonalFactors[m] > d.SeasonalFactors[peak] {
			peak = m
		}
		if d.SeasonalFactors[m] < d.SeasonalFactors[trough] {
			trough = m
		}
	}
	d.PeakMonth, d.TroughMonth = peak+1, trough+1
	return d, true
}

// trendDirection compares the first and last defined trend values; changes
// within 2% are flat.
func trendDirection(trend []float64, ok []bool) string {
	first, last := -1, -1
	for i := range trend {
		if !ok[i] {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 || first == last {
		return "flat"
	}
	g := calc.GrowthRate(trend[last], trend[first])
	switch {
	case g > 2:
		return "up"
	case g < -2:
		return "down"
	default:
		return "flat"
	}
}
