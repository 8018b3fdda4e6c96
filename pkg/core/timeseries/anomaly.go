package timeseries

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/core/utils"
	"erp_analytics/pkg/models"
)

// DefaultIQRMultiplier is the classic Tukey fence multiplier.
const DefaultIQRMultiplier = 1.5

// Direction tells which fence an anomaly crossed.
type Direction string

const (
	DirectionUpper Direction = "upper"
	DirectionLower Direction = "lower"
)

// Anomaly is one month outside the fences.
type Anomaly struct {
	Month     string    `json:"month"`
	Value     float64   `json:"value"`
	Direction Direction `json:"direction"`
	Deviation float64   `json:"deviation"` // distance past the crossed fence
}

// AnomalyReport is the outcome of an IQR scan.
type AnomalyReport struct {
	Q1          float64   `json:"q1"`
	Q3          float64   `json:"q3"`
	IQR         float64   `json:"iqr"`
	LowerFence  float64   `json:"lower_fence"`
	UpperFence  float64   `json:"upper_fence"`
	Anomalies   []Anomaly `json:"anomalies"`
	Total       int       `json:"total"`
	AnomalyRate float64   `json:"anomaly_rate"`
}

// DetectAnomalies flags points outside Q1 - k*IQR and Q3 + k*IQR. The
// quartiles are read at indexes floor(n*0.25) and floor(n*0.75) of the
// sorted values, without interpolation. k <= 0 means the default 1.5.
func DetectAnomalies(points []Point, k float64) AnomalyReport {
	if k <= 0 {
		k = DefaultIQRMultiplier
	}
	r := AnomalyReport{Total: len(points)}
	if len(points) == 0 {
		return r
	}
	sorted := sortedCopy(Values(points))
	n := len(sorted)
	r.Q1 = sorted[int(math.Floor(float64(n)*0.25))]
	r.Q3 = sorted[int(math.Floor(float64(n)*0.75))]
	r.IQR = r.Q3 - r.Q1
	r.LowerFence = r.Q1 - k*r.IQR
	r.UpperFence = r.Q3 + k*r.IQR

	for _, p := range points {
		switch {
		case p.Value > r.UpperFence:
			r.Anomalies = append(r.Anomalies, Anomaly{Month: p.Month, Value: p.Value, Direction: DirectionUpper, Deviation: p.Value - r.UpperFence})
		case p.Value < r.LowerFence:
			r.Anomalies = append(r.Anomalies, Anomaly{Month: p.Month, Value: p.Value, Direction: DirectionLower, Deviation: r.LowerFence - p.Value})
		}
	}
	r.AnomalyRate = calc.SafePercent(float64(len(r.Anomalies)), float64(n))
	return r
}

// =============================================================================
// ENHANCED
// =============================================================================

// Severity of an enhanced anomaly, by distance from the mean in standard
// deviations.
type Severity string

const (
	SeverityCritical Severity = "critical" // >= 3 sigma
	SeverityHigh     Severity = "high"     // >= 2 sigma
	SeverityMedium   Severity = "medium"
)

// CustomerSwing is one customer's contribution to a month's change.
type CustomerSwing struct {
	Customer string  `json:"customer"`
	Amount   float64 `json:"amount"`
	Previous float64 `json:"previous"`
	Change   float64 `json:"change"`
	Share    float64 `json:"share"` // of the month's total change
}

// EnhancedAnomaly adds context to an anomaly.
type EnhancedAnomaly struct {
	Anomaly
	MoMChange    float64         `json:"mom_change"`
	Sigma        float64         `json:"sigma"`
	Severity     Severity        `json:"severity"`
	TopCustomers []CustomerSwing `json:"top_customers"`
	Description  string          `json:"description"`
}

const topSwingCustomers = 5

// DetectAnomaliesEnhanced runs DetectAnomalies on the monthly sales series
// and explains each flagged month with its month-over-month change, sigma
// severity and the five customers that moved the most.
func DetectAnomaliesEnhanced(sales []models.SalesRecord, k float64) []EnhancedAnomaly {
	series := SalesSeries(sales)
	report := DetectAnomalies(series, k)
	if len(report.Anomalies) == 0 {
		return nil
	}

	values := Values(series)
	mean, std := calc.Mean(values), calc.StdDev(values)
	index := make(map[string]int, len(series))
	for i, p := range series {
		index[p.Month] = i
	}
	byMonth := customerTotalsByMonth(sales)

	out := make([]EnhancedAnomaly, 0, len(report.Anomalies))
	for _, a := range report.Anomalies {
		e := EnhancedAnomaly{Anomaly: a}
		i := index[a.Month]
		prevMonth := ""
		if i > 0 {
			prevMonth = series[i-1].Month
			e.MoMChange = calc.GrowthRate(a.Value, series[i-1].Value)
		}
		e.Sigma = calc.SafeDiv(math.Abs(a.Value-mean), std)
		e.Severity = severityFor(e.Sigma)
		e.TopCustomers = topSwings(byMonth[a.Month], byMonth[prevMonth])
		e.Description = describe(e)
		out = append(out, e)
	}
	return out
}

func severityFor(sigma float64) Severity {
	switch {
	case sigma >= 3:
		return SeverityCritical
	case sigma >= 2:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}

func customerTotalsByMonth(sales []models.SalesRecord) map[string]map[string]float64 {
	out := map[string]map[string]float64{}
	for _, s := range sales {
		m := calc.ExtractMonth(s.SalesDate)
		if m == "" {
			continue
		}
		name := s.CustomerName
		if name == "" {
			name = s.CustomerCode
		}
		name = calc.KeyOrUnclassified(name)
		if out[m] == nil {
			out[m] = map[string]float64{}
		}
		out[m][name] += s.BookAmount
	}
	return out
}

func topSwings(current, previous map[string]float64) []CustomerSwing {
	names := map[string]struct{}{}
	for n := range current {
		names[n] = struct{}{}
	}
	for n := range previous {
		names[n] = struct{}{}
	}
	var totalChange float64
	swings := make([]CustomerSwing, 0, len(names))
	for n := range names {
		s := CustomerSwing{Customer: n, Amount: current[n], Previous: previous[n]}
		s.Change = s.Amount - s.Previous
		totalChange += s.Change
		swings = append(swings, s)
	}
	sort.Slice(swings, func(i, j int) bool {
		ai, aj := math.Abs(swings[i].Change), math.Abs(swings[j].Change)
		if ai != aj {
			return ai > aj
		}
		return swings[i].Customer < swings[j].Customer
	})
	if len(swings) > topSwingCustomers {
		swings = swings[:topSwingCustomers]
	}
	for i := range swings {
		swings[i].Share = calc.SafePercent(swings[i].Change, totalChange)
	}
	return swings
}

func describe(e EnhancedAnomaly) string {
	var b strings.Builder
	verb := "급증"
	if e.Direction == DirectionLower {
		verb = "급감"
	}
	fmt.Fprintf(&b, "%s 매출이 %s원으로 %s했습니다", e.Month, utils.FormatNumber(e.Value), verb)
	if e.MoMChange != 0 {
		fmt.Fprintf(&b, " (전월 대비 %s)", utils.FormatSignedPercent(e.MoMChange))
	}
	fmt.Fprintf(&b, ". 평균에서 %.1fσ 벗어난 수준입니다.", e.Sigma)
	if len(e.TopCustomers) > 0 {
		parts := make([]string, 0, len(e.TopCustomers))
		for _, c := range e.TopCustomers {
			if c.Change == 0 {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s(%s)", c.Customer, utils.FormatSignedNumber(c.Change)))
		}
		if len(parts) > 0 {
			fmt.Fprintf(&b, " 주요 변동 거래처: %s", strings.Join(parts, ", "))
		}
	}
	return b.String()
}
