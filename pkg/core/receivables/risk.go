// Package receivables analyses the receivables aging report: per-customer
// risk grading, aging distribution, credit-limit utilization and bad-debt
// provisioning.
package receivables

import (
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// RiskGrade is the terminal state of the risk grading.
type RiskGrade string

const (
	RiskLow    RiskGrade = "low"
	RiskMedium RiskGrade = "medium"
	RiskHigh   RiskGrade = "high"
)

// RiskThresholds configures the grading. The overdue window starts at
// Month3 (61-90 days), following the SAP FI-AR 90-day convention.
type RiskThresholds struct {
	HighRatio    float64 `yaml:"high_ratio" json:"high_ratio"`
	HighAmount   float64 `yaml:"high_amount" json:"high_amount"`
	MediumRatio  float64 `yaml:"medium_ratio" json:"medium_ratio"`
	MediumAmount float64 `yaml:"medium_amount" json:"medium_amount"`
}

// DefaultRiskThresholds are the canonical grading thresholds.
var DefaultRiskThresholds = RiskThresholds{
	HighRatio:    0.5,
	HighAmount:   100_000_000,
	MediumRatio:  0.2,
	MediumAmount: 50_000_000,
}

// RiskAssessment is the graded view of one aging record.
type RiskAssessment struct {
	Org           string    `json:"org"`
	Salesperson   string    `json:"salesperson"`
	CustomerCode  string    `json:"customer_code"`
	CustomerName  string    `json:"customer_name"`
	Total         float64   `json:"total"`
	OverdueAmount float64   `json:"overdue_amount"`
	OverdueRatio  float64   `json:"overdue_ratio"`
	RiskScore     float64   `json:"risk_score"`
	Grade         RiskGrade `json:"grade"`
}

// OverdueAmount sums the 61-day-and-older buckets (Month3..Month6 plus
// Overdue) in book currency.
func OverdueAmount(r models.ReceivableAgingRecord) float64 {
	return r.Month3.BookAmount + r.Month4.BookAmount + r.Month5.BookAmount +
		r.Month6.BookAmount + r.Overdue.BookAmount
}

// GradeRisk grades one record with the default thresholds.
func GradeRisk(r models.ReceivableAgingRecord) RiskGrade {
	return GradeRiskWith(r, DefaultRiskThresholds)
}

// GradeRiskWith grades one record:
//   - total == 0 -> low, whatever the buckets hold
//   - overdue ratio > HighRatio or overdue amount > HighAmount -> high
//   - overdue ratio > MediumRatio or overdue amount > MediumAmount -> medium
//   - otherwise low
func GradeRiskWith(r models.ReceivableAgingRecord, th RiskThresholds) RiskGrade {
	total := r.Total.BookAmount
	if total == 0 {
		return RiskLow
	}
	overdue := OverdueAmount(r)
	ratio := overdue / total

	switch {
	case ratio > th.HighRatio || overdue > th.HighAmount:
		return RiskHigh
	case ratio > th.MediumRatio || overdue > th.MediumAmount:
		return RiskMedium
	default:
		return RiskLow
	}
}

// AssessRisk builds the full assessment of one record.
func AssessRisk(r models.ReceivableAgingRecord, th RiskThresholds) RiskAssessment {
	overdue := OverdueAmount(r)
	return RiskAssessment{
		Org:           r.Org,
		Salesperson:   r.Salesperson,
		CustomerCode:  r.CustomerCode,
		CustomerName:  r.CustomerName,
		Total:         r.Total.BookAmount,
		OverdueAmount: overdue,
		OverdueRatio:  calc.SafeDiv(overdue, r.Total.BookAmount),
		RiskScore:     RiskScore(r),
		Grade:         GradeRiskWith(r, th),
	}
}

// AssessRiskAll grades every record, riskiest first (grade, then overdue
// amount descending).
func AssessRiskAll(records []models.ReceivableAgingRecord, th RiskThresholds) []RiskAssessment {
	out := make([]RiskAssessment, 0, len(records))
	for _, r := range records {
		out = append(out, AssessRisk(r, th))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if gradeRank(out[i].Grade) != gradeRank(out[j].Grade) {
			return gradeRank(out[i].Grade) > gradeRank(out[j].Grade)
		}
		return out[i].OverdueAmount > out[j].OverdueAmount
	})
	return out
}

func gradeRank(g RiskGrade) int {
	switch g {
	case RiskHigh:
		return 2
	case RiskMedium:
		return 1
	default:
		return 0
	}
}

// RiskDistributionRow counts records and amounts per grade.
type RiskDistributionRow struct {
	Grade  RiskGrade `json:"grade"`
	Count  int       `json:"count"`
	Amount float64   `json:"amount"`
	Share  float64   `json:"share"` // % of total receivables
}

// RiskDistribution summarises assessments by grade in high, medium, low
// order. All three grades are always present.
func RiskDistribution(assessments []RiskAssessment) []RiskDistributionRow {
	rows := []RiskDistributionRow{{Grade: RiskHigh}, {Grade: RiskMedium}, {Grade: RiskLow}}
	idx := map[RiskGrade]int{RiskHigh: 0, RiskMedium: 1, RiskLow: 2}
	var total float64
	for _, a := range assessments {
		i := idx[a.Grade]
		rows[i].Count++
		rows[i].Amount += a.Total
		total += a.Total
	}
	for i := range rows {
		rows[i].Share = calc.SafePercent(rows[i].Amount, total)
	}
	return rows
}

// bucketRiskWeights scores each bucket from 0 (current) to 100 (past due
// beyond six months).
var bucketRiskWeights = [7]float64{0, 10, 30, 50, 70, 85, 100}

// RiskScore converts the aging profile into a 0-100 score: the
// amount-weighted average of bucket weights. Zero totals score 0.
func RiskScore(r models.ReceivableAgingRecord) float64 {
	buckets := r.Buckets()
	var weighted, sum float64
	for i, b := range buckets {
		weighted += b.BookAmount * bucketRiskWeights[i]
		sum += b.BookAmount
	}
	if sum <= 0 {
		return 0
	}
	return min(100, max(0, weighted/sum))
}

// RiskScoreByOrg aggregates the aging records per org and scores the
// combined profile.
func RiskScoreByOrg(records []models.ReceivableAgingRecord) map[string]float64 {
	groups := calc.GroupBy(records, func(r models.ReceivableAgingRecord) string { return r.Org })
	out := make(map[string]float64, len(groups))
	for org, rows := range groups {
		out[org] = RiskScore(combine(rows))
	}
	return out
}

func combine(rows []models.ReceivableAgingRecord) models.ReceivableAgingRecord {
	var c models.ReceivableAgingRecord
	add := func(dst *models.AgingAmount, src models.AgingAmount) {
		dst.BookAmount += src.BookAmount
		dst.ShipmentAmount += src.ShipmentAmount
		dst.TransactionAmount += src.TransactionAmount
	}
	for _, r := range rows {
		add(&c.Month1, r.Month1)
		add(&c.Month2, r.Month2)
		add(&c.Month3, r.Month3)
		add(&c.Month4, r.Month4)
		add(&c.Month5, r.Month5)
		add(&c.Month6, r.Month6)
		add(&c.Overdue, r.Overdue)
		add(&c.Total, r.Total)
	}
	return c
}
