package receivables

import (
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// BucketLabels names the seven aging buckets in record order.
var BucketLabels = [7]string{"0-30일", "31-60일", "61-90일", "91-120일", "121-150일", "151-180일", "180일 초과"}

// AgingBucketSummary is one bar of the aging distribution.
type AgingBucketSummary struct {
	Bucket string  `json:"bucket"`
	Amount float64 `json:"amount"`
	Share  float64 `json:"share"`
}

// CalcAgingSummary sums every bucket across records. Shares are relative to
// the sum of the totals column.
func CalcAgingSummary(records []models.ReceivableAgingRecord) []AgingBucketSummary {
	var sums [7]float64
	for _, r := range records {
		for i, b := range r.Buckets() {
			sums[i] += b.BookAmount
		}
	}
	total := calc.SumBy(records, func(r models.ReceivableAgingRecord) float64 { return r.Total.BookAmount })

	out := make([]AgingBucketSummary, len(BucketLabels))
	for i, label := range BucketLabels {
		out[i] = AgingBucketSummary{
			Bucket: label,
			Amount: sums[i],
			Share:  calc.SafePercent(sums[i], total),
		}
	}
	return out
}

// =============================================================================
// CREDIT UTILIZATION
// =============================================================================

// CreditStatus classifies utilization against the credit limit.
type CreditStatus string

const (
	CreditNormal  CreditStatus = "normal"
	CreditWarning CreditStatus = "warning"
	CreditDanger  CreditStatus = "danger"
)

// CreditUtilization is one customer's exposure against its limit.
type CreditUtilization struct {
	CustomerCode string       `json:"customer_code"`
	CustomerName string       `json:"customer_name"`
	Receivables  float64      `json:"receivables"`
	CreditLimit  float64      `json:"credit_limit"`
	Utilization  float64      `json:"utilization"` // %
	Status       CreditStatus `json:"status"`
}

// ClassifyCredit maps a utilization % onto its status: < 80 normal,
// 80 up to 100 warning, >= 100 danger.
func ClassifyCredit(utilization float64) CreditStatus {
	switch {
	case utilization >= 100:
		return CreditDanger
	case utilization >= 80:
		return CreditWarning
	default:
		return CreditNormal
	}
}

// CalcCreditUtilization groups receivables by customer and compares the
// summed total against the customer's credit limit. Customers without a
// positive limit are skipped. A customer appearing on several rows carries
// the same limit on each, so the largest one is used rather than a sum.
func CalcCreditUtilization(records []models.ReceivableAgingRecord) []CreditUtilization {
	groups := calc.GroupBy(records, models.ReceivableAgingRecord.CustomerKey)

	out := make([]CreditUtilization, 0, len(groups))
	for _, rows := range groups {
		var limit float64
		for _, r := range rows {
			limit = max(limit, r.CreditLimit)
		}
		if limit <= 0 {
			continue
		}
		receivables := calc.SumBy(rows, func(r models.ReceivableAgingRecord) float64 { return r.Total.BookAmount })
		util := receivables / limit * 100
		out = append(out, CreditUtilization{
			CustomerCode: rows[0].CustomerCode,
			CustomerName: rows[0].CustomerName,
			Receivables:  receivables,
			CreditLimit:  limit,
			Utilization:  util,
			Status:       ClassifyCredit(util),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Utilization != out[j].Utilization {
			return out[i].Utilization > out[j].Utilization
		}
		return out[i].CustomerCode < out[j].CustomerCode
	})
	return out
}

// =============================================================================
// LONG-TERM RECEIVABLES / PROVISIONING
// =============================================================================

// ProvisionRates are the bad-debt reserve rates per aging bucket.
type ProvisionRates struct {
	Month4  float64 `yaml:"month4" json:"month4"`
	Month5  float64 `yaml:"month5" json:"month5"`
	Month6  float64 `yaml:"month6" json:"month6"`
	Overdue float64 `yaml:"overdue" json:"overdue"`
}

// DefaultProvisionRates: 1% / 5% / 10% / 50%.
var DefaultProvisionRates = ProvisionRates{Month4: 0.01, Month5: 0.05, Month6: 0.10, Overdue: 0.50}

// LongTermRow is the long-term exposure of one org.
type LongTermRow struct {
	Org           string  `json:"org"`
	Total         float64 `json:"total"`
	LongTerm      float64 `json:"long_term"` // Month6 + Overdue
	LongTermRatio float64 `json:"long_term_ratio"`
	Provision     float64 `json:"provision"`
}

// LongTermSummary aggregates long-term receivables and the estimated
// bad-debt reserve.
type LongTermSummary struct {
	Total         float64       `json:"total"`
	LongTerm      float64       `json:"long_term"`
	LongTermRatio float64       `json:"long_term_ratio"` // %
	Provision     float64       `json:"provision"`
	ProvisionRate float64       `json:"provision_rate"` // % of total
	ByOrg         []LongTermRow `json:"by_org"`
}

// Provision estimates the reserve for one record.
func Provision(r models.ReceivableAgingRecord, rates ProvisionRates) float64 {
	return r.Month4.BookAmount*rates.Month4 +
		r.Month5.BookAmount*rates.Month5 +
		r.Month6.BookAmount*rates.Month6 +
		r.Overdue.BookAmount*rates.Overdue
}

// CalcLongTermReceivables computes the long-term ratio
// (Month6+Overdue)/Total and the provisioning estimate, overall and per org
// (largest long-term exposure first).
func CalcLongTermReceivables(records []models.ReceivableAgingRecord, rates ProvisionRates) LongTermSummary {
	build := func(org string, rows []models.ReceivableAgingRecord) LongTermRow {
		row := LongTermRow{Org: org}
		for _, r := range rows {
			row.Total += r.Total.BookAmount
			row.LongTerm += r.Month6.BookAmount + r.Overdue.BookAmount
			row.Provision += Provision(r, rates)
		}
		row.LongTermRatio = calc.SafePercent(row.LongTerm, row.Total)
		return row
	}

	all := build("", records)
	summary := LongTermSummary{
		Total:         all.Total,
		LongTerm:      all.LongTerm,
		LongTermRatio: all.LongTermRatio,
		Provision:     all.Provision,
		ProvisionRate: calc.SafePercent(all.Provision, all.Total),
	}

	groups := calc.GroupBy(records, func(r models.ReceivableAgingRecord) string { return r.Org })
	for _, org := range calc.SortedKeys(groups) {
		summary.ByOrg = append(summary.ByOrg, build(org, groups[org]))
	}
	sort.SliceStable(summary.ByOrg, func(i, j int) bool {
		return summary.ByOrg[i].LongTerm > summary.ByOrg[j].LongTerm
	})
	return summary
}
