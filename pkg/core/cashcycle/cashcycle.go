// Package cashcycle derives working-capital cycle metrics: days sales
// outstanding, an estimated days payable outstanding, and the cash
// conversion cycle. DIO is omitted since no inventory ledger is uploaded.
package cashcycle

import (
	"math"
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// Status grades a cycle metric.
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusFair      Status = "fair"
	StatusPoor      Status = "poor"
)

// daysPerMonth converts monthly sales into a daily rate.
const daysPerMonth = 30

// DSOMetric is the DSO of one organization.
type DSOMetric struct {
	Org             string  `json:"org"`
	DSO             float64 `json:"dso"`
	Receivables     float64 `json:"receivables"`
	AvgMonthlySales float64 `json:"avg_monthly_sales"`
	Months          int     `json:"months"`
	Status          Status  `json:"status"`
}

// CCCMetric is the cash conversion cycle of one organization.
type CCCMetric struct {
	Org       string  `json:"org"`
	DSO       float64 `json:"dso"`
	DPO       float64 `json:"dpo"`
	CCC       float64 `json:"ccc"`
	Status    Status  `json:"status"`
	DPOSource string  `json:"dpo_source"` // matched org team, or "" for the aggregate estimate
}

// CalcDSO returns round(receivables / avgMonthlySales * 30). When average
// sales are not positive the DSO is unmeasurable: +Inf if anything is
// outstanding, otherwise 0.
func CalcDSO(receivables, avgMonthlySales float64) float64 {
	if avgMonthlySales <= 0 {
		if receivables > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return math.Round(receivables / avgMonthlySales * daysPerMonth)
}

// ClassifyDSO: < 30 excellent, < 45 good, <= 60 fair, otherwise poor.
func ClassifyDSO(dso float64) Status {
	switch {
	case dso < 30:
		return StatusExcellent
	case dso < 45:
		return StatusGood
	case dso <= 60:
		return StatusFair
	default:
		return StatusPoor
	}
}

// ClassifyCCC: < 0 excellent, < 30 good, <= 60 fair, otherwise poor.
func ClassifyCCC(ccc float64) Status {
	switch {
	case ccc < 0:
		return StatusExcellent
	case ccc < 30:
		return StatusGood
	case ccc <= 60:
		return StatusFair
	default:
		return StatusPoor
	}
}

// AvgMonthlySales returns the mean of monthly summed sales over the months
// present, and the number of months. Undated rows are ignored.
func AvgMonthlySales(sales []models.SalesRecord) (float64, int) {
	monthly := make(map[string]float64)
	for _, s := range sales {
		month := calc.ExtractMonth(s.SalesDate)
		if month == "" {
			continue
		}
		monthly[month] += s.BookAmount
	}
	if len(monthly) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range monthly {
		sum += v
	}
	return sum / float64(len(monthly)), len(monthly)
}

// CalcDSOByOrg computes DSO for every org in the aging report. Orgs whose
// DSO is not finite are dropped. Results are sorted by DSO descending.
func CalcDSOByOrg(aging []models.ReceivableAgingRecord, sales []models.SalesRecord) []DSOMetric {
	receivables := calc.SumByKey(aging,
		func(r models.ReceivableAgingRecord) string { return r.Org },
		func(r models.ReceivableAgingRecord) float64 { return r.Total.BookAmount })
	salesByOrg := calc.GroupBy(sales, func(s models.SalesRecord) string { return s.Org })

	out := make([]DSOMetric, 0, len(receivables))
	for _, org := range calc.SortedKeys(receivables) {
		avg, months := AvgMonthlySales(salesByOrg[org])
		dso := CalcDSO(receivables[org], avg)
		if math.IsInf(dso, 0) || math.IsNaN(dso) {
			continue
		}
		out = append(out, DSOMetric{
			Org:             org,
			DSO:             dso,
			Receivables:     receivables[org],
			AvgMonthlySales: avg,
			Months:          months,
			Status:          ClassifyDSO(dso),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DSO > out[j].DSO })
	return out
}

// CalcOverallDSO computes the DSO of the whole filtered dataset. The second
// return value is false when the DSO is unmeasurable.
func CalcOverallDSO(aging []models.ReceivableAgingRecord, sales []models.SalesRecord) (float64, bool) {
	receivables := calc.SumBy(aging, func(r models.ReceivableAgingRecord) float64 { return r.Total.BookAmount })
	avg, _ := AvgMonthlySales(sales)
	dso := CalcDSO(receivables, avg)
	if math.IsInf(dso, 0) || math.IsNaN(dso) {
		return 0, false
	}
	return dso, true
}

// =============================================================================
// DPO ESTIMATE
// =============================================================================

// EstimateDPO maps the cost-of-goods ratio onto a payment-terms estimate:
// ratio >= 0.8 -> 45 days, >= 0.6 -> 35 days, otherwise 30 days. There is
// no payables ledger, so the three tiers are the whole model.
func EstimateDPO(cogs, revenue float64) float64 {
	ratio := calc.SafeDiv(cogs, revenue)
	switch {
	case ratio >= 0.8:
		return 45
	case ratio >= 0.6:
		return 35
	default:
		return 30
	}
}

// teamDPO estimates DPO for a set of team contribution rows using variable
// cost as the cost-of-goods proxy.
func teamDPO(rows []models.TeamContributionRecord) float64 {
	cogs := calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.VariableCost().Actual })
	revenue := calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.Sales.Actual })
	return EstimateDPO(cogs, revenue)
}

// CalcCCC combines DSO and DPO for one org.
func CalcCCC(org string, dso, dpo float64) CCCMetric {
	ccc := dso - dpo
	return CCCMetric{Org: org, DSO: dso, DPO: dpo, CCC: ccc, Status: ClassifyCCC(ccc)}
}

// CalcCCCByOrg computes the cash conversion cycle per org. The DPO of an
// org comes from the team contribution rows of the matching org team:
// exact name first, then containment in either direction. Orgs with no
// matching team fall back to the estimate over all teams.
func CalcCCCByOrg(aging []models.ReceivableAgingRecord, sales []models.SalesRecord, team []models.TeamContributionRecord) []CCCMetric {
	dsos := CalcDSOByOrg(aging, sales)
	teams := calc.GroupBy(team, func(r models.TeamContributionRecord) string { return r.OrgTeam })
	teamNames := calc.SortedKeys(teams)
	fallback := teamDPO(team)

	out := make([]CCCMetric, 0, len(dsos))
	for _, d := range dsos {
		dpo := fallback
		source := ""
		if name, ok := matchTeam(d.Org, teamNames); ok {
			dpo = teamDPO(teams[name])
			source = name
		}
		m := CalcCCC(d.Org, d.DSO, dpo)
		m.DPOSource = source
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CCC > out[j].CCC })
	return out
}

func matchTeam(org string, teamNames []string) (string, bool) {
	for _, name := range teamNames {
		if name == org {
			return name, true
		}
	}
	for _, name := range teamNames {
		if calc.MatchOrg(org, name) {
			return name, true
		}
	}
	return "", false
}
