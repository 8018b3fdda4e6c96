// Package benchmark compares the dashboard ratios with industry averages and
// rolls them into a single 0-100 score.
package benchmark

import (
	"errors"
	"math"

	"erp_analytics/pkg/core/calc"
)

// Metric names.
const (
	GrossMargin        = "gross_margin"
	OperatingMargin    = "operating_margin"
	CollectionRate     = "collection_rate"
	DSO                = "dso"
	SalesGrowth        = "sales_growth"
	PlanAchievement    = "plan_achievement"
	ContributionMargin = "contribution_margin"
)

// ErrEmptyBenchmark is returned when there is nothing to score against.
var ErrEmptyBenchmark = errors.New("benchmark set is empty")

// Benchmark is one industry reference value.
type Benchmark struct {
	Metric        string  `yaml:"metric" json:"metric"`
	Label         string  `yaml:"label" json:"label"`
	Industry      float64 `yaml:"industry" json:"industry"`
	LowerIsBetter bool    `yaml:"lower_is_better" json:"lower_is_better"`
}

// DefaultIndustry holds the domestic manufacturing/distribution averages
// used when no override is configured.
var DefaultIndustry = []Benchmark{
	{Metric: GrossMargin, Label: "매출총이익률", Industry: 20},
	{Metric: OperatingMargin, Label: "영업이익률", Industry: 5},
	{Metric: CollectionRate, Label: "수금률", Industry: 95},
	{Metric: DSO, Label: "DSO", Industry: 60, LowerIsBetter: true},
	{Metric: SalesGrowth, Label: "매출성장률", Industry: 5},
	{Metric: PlanAchievement, Label: "계획달성률", Industry: 100},
	{Metric: ContributionMargin, Label: "공헌이익률", Industry: 30},
}

// Position of a metric relative to the industry value.
type Position string

const (
	Above Position = "above"
	At    Position = "at"
	Below Position = "below"
)

// Tolerance is the relative band, in percent of the industry value, that
// counts as at the benchmark.
const Tolerance = 5.0

var positionPoints = map[Position]float64{Above: 100, At: 50, Below: 0}

// MetricResult is the comparison of one metric.
type MetricResult struct {
	Metric   string   `json:"metric"`
	Label    string   `json:"label"`
	Value    float64  `json:"value"`
	Industry float64  `json:"industry"`
	Gap      float64  `json:"gap"` // value - industry, sign flipped when lower is better
	Position Position `json:"position"`
}

// Result is the full benchmark comparison.
type Result struct {
	Metrics []MetricResult `json:"metrics"`
	Score   float64        `json:"score"`
	Grade   string         `json:"grade"`
}

// Classify places value against the industry reference. Values within
// Tolerance percent of the reference are At.
func Classify(value float64, b Benchmark) Position {
	band := math.Abs(b.Industry) * Tolerance / 100
	diff := value - b.Industry
	if b.LowerIsBetter {
		diff = -diff
	}
	switch {
	case math.Abs(diff) <= band:
		return At
	case diff > 0:
		return Above
	default:
		return Below
	}
}

// Score compares every benchmark that has a finite value in values. The
// score is the mean of 100 (above), 50 (at) and 0 (below) points.
func Score(values map[string]float64, industry []Benchmark) (Result, error) {
	if len(industry) == 0 {
		return Result{}, ErrEmptyBenchmark
	}
	var r Result
	var points []float64
	for _, b := range industry {
		v, ok := values[b.Metric]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		gap := v - b.Industry
		if b.LowerIsBetter {
			gap = -gap
		}
		pos := Classify(v, b)
		r.Metrics = append(r.Metrics, MetricResult{
			Metric:   b.Metric,
			Label:    b.Label,
			Value:    v,
			Industry: b.Industry,
			Gap:      gap,
			Position: pos,
		})
		points = append(points, positionPoints[pos])
	}
	r.Score = calc.Round(calc.Mean(points), 1)
	r.Grade = GradeFor(r.Score)
	return r, nil
}

// GradeFor maps a score onto a letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 80:
		return "A"
	case score >= 60:
		return "B"
	case score >= 40:
		return "C"
	default:
		return "D"
	}
}
