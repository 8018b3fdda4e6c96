// Package timeseries decomposes monthly series into trend, seasonal and
// residual components and flags outlying months with the IQR method.
package timeseries

import (
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// Point is one month of a series.
type Point struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// MonthlySeries sums value per extracted month. Records with an unreadable
// date are dropped. Months missing between the first and last month are
// filled with zero so the series is contiguous.
func MonthlySeries[T any](records []T, date func(T) string, value func(T) float64) []Point {
	totals := map[string]float64{}
	for _, r := range records {
		m := calc.ExtractMonth(date(r))
		if m == "" {
			continue
		}
		totals[m] += value(r)
	}
	if len(totals) == 0 {
		return nil
	}
	months := calc.SortedKeys(totals)
	first, last := months[0], months[len(months)-1]
	n := calc.MonthsBetween(first, last) + 1
	out := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		m := calc.ShiftMonth(first, i)
		out = append(out, Point{Month: m, Value: totals[m]})
	}
	return out
}

// SalesSeries is the monthly book-amount sales series.
func SalesSeries(sales []models.SalesRecord) []Point {
	return MonthlySeries(sales,
		func(s models.SalesRecord) string { return s.SalesDate },
		func(s models.SalesRecord) float64 { return s.BookAmount })
}

// Values extracts the values in order.
func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}
