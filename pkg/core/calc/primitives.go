// Package calc provides the aggregation primitives shared by every analytics
// calculator: grouping, exact summation, guarded ratios, month extraction and
// record filters. Every function here is pure and never mutates its inputs.
package calc

import (
	"math"
	"sort"
	"strings"

	"erp_analytics/pkg/models"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// UnclassifiedLabel buckets records whose dimension key is empty so totals
// still reconcile with the un-grouped sum.
const UnclassifiedLabel = "(미분류)"

// =============================================================================
// GROUPING
// =============================================================================

// GroupBy groups items by key. Empty keys are bucketed under
// UnclassifiedLabel.
func GroupBy[T any](items []T, key func(T) string) map[string][]T {
	return lo.GroupBy(items, func(item T) string {
		return KeyOrUnclassified(key(item))
	})
}

// KeyOrUnclassified trims k and substitutes UnclassifiedLabel when empty.
func KeyOrUnclassified(k string) string {
	k = strings.TrimSpace(k)
	if k == "" {
		return UnclassifiedLabel
	}
	return k
}

// SortedKeys returns the map keys in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

// UniqueKeys returns the distinct non-empty keys in first-seen order.
func UniqueKeys[T any](items []T, key func(T) string) []string {
	keys := lo.FilterMap(items, func(item T, _ int) (string, bool) {
		k := strings.TrimSpace(key(item))
		return k, k != ""
	})
	return lo.Uniq(keys)
}

// =============================================================================
// SUMMATION
// =============================================================================

// SumBy sums a numeric field. Accumulation runs in decimal so long KRW
// columns do not drift.
func SumBy[T any](items []T, value func(T) float64) float64 {
	total := decimal.Zero
	for _, item := range items {
		v := value(item)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// SumPlanActual sums a plan/actual cell field across records. Diff is
// recomputed from the sums rather than accumulated.
func SumPlanActual[T any](items []T, cell func(T) models.PlanActualDiff) models.PlanActualDiff {
	plan := SumBy(items, func(t T) float64 { return cell(t).Plan })
	actual := SumBy(items, func(t T) float64 { return cell(t).Actual })
	return models.NewPAD(plan, actual)
}

// SumByKey groups and sums in one pass, returning key -> total.
func SumByKey[T any](items []T, key func(T) string, value func(T) float64) map[string]float64 {
	groups := GroupBy(items, key)
	out := make(map[string]float64, len(groups))
	for k, g := range groups {
		out[k] = SumBy(g, value)
	}
	return out
}

// WeightedAverageMargin returns sum(profit) / sum(sales) * 100, which weights
// each item's margin by its sales. Returns 0 when sales sum to zero.
func WeightedAverageMargin[T any](items []T, sales, profit func(T) float64) float64 {
	return SafePercent(SumBy(items, profit), SumBy(items, sales))
}

// =============================================================================
// GUARDED ARITHMETIC
// =============================================================================

// SafeDiv returns numerator / denominator, or 0 when the denominator is zero
// or the result is not finite.
func SafeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	r := numerator / denominator
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

// SafePercent returns numerator / denominator * 100 with SafeDiv's guard.
func SafePercent(numerator, denominator float64) float64 {
	return SafeDiv(numerator, denominator) * 100
}

// GrowthRate returns (current - prior) / |prior| * 100, 0 when prior is 0.
func GrowthRate(current, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (current - prior) / math.Abs(prior) * 100
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(int32(places)).InexactFloat64()
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return SumBy(values, func(v float64) float64 { return v }) / float64(len(values))
}

// Variance returns the population variance, 0 for fewer than one value.
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := Mean(values)
	var ss float64
	for _, v := range values {
		ss += (v - m) * (v - m)
	}
	return ss / float64(len(values))
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}
