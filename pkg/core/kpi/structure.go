package kpi

import (
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// CostStructureRow breaks one org's sales into cost layers.
type CostStructureRow struct {
	Org         string  `json:"org"`
	Sales       float64 `json:"sales"`
	COGSRate    float64 `json:"cogs_rate"`
	SGARate     float64 `json:"sga_rate"`
	OPRate      float64 `json:"op_rate"`
	GrossMargin float64 `json:"gross_margin"`
}

// CalcCostStructure returns the COGS / SG&A / operating-profit shares of
// actual sales per org, largest org first.
func CalcCostStructure(orgProfit []models.OrgProfitRecord) []CostStructureRow {
	groups := calc.GroupBy(orgProfit, func(r models.OrgProfitRecord) string { return r.Org })
	out := make([]CostStructureRow, 0, len(groups))
	for org, rows := range groups {
		sales := calc.SumBy(rows, func(r models.OrgProfitRecord) float64 { return r.Sales.Actual })
		cogs := calc.SumBy(rows, func(r models.OrgProfitRecord) float64 { return r.CostOfGoods.Actual })
		sga := calc.SumBy(rows, func(r models.OrgProfitRecord) float64 { return r.SGA.Actual })
		op := calc.SumBy(rows, func(r models.OrgProfitRecord) float64 { return r.OperatingProfit.Actual })
		gp := calc.SumBy(rows, func(r models.OrgProfitRecord) float64 { return r.GrossProfit.Actual })
		out = append(out, CostStructureRow{
			Org:         org,
			Sales:       sales,
			COGSRate:    calc.SafePercent(cogs, sales),
			SGARate:     calc.SafePercent(sga, sales),
			OPRate:      calc.SafePercent(op, sales),
			GrossMargin: calc.SafePercent(gp, sales),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		return out[i].Org < out[j].Org
	})
	return out
}

// =============================================================================
// PLAN VS ACTUAL HEATMAP
// =============================================================================

// HeatLevel bands an achievement rate.
type HeatLevel string

const (
	HeatExceeded HeatLevel = "exceeded" // >= 100
	HeatNear     HeatLevel = "near"     // >= 90
	HeatBelow    HeatLevel = "below"    // >= 70
	HeatCritical HeatLevel = "critical" // < 70
	HeatNoPlan   HeatLevel = "no_plan"
)

// HeatmapCell is one org x metric cell.
type HeatmapCell struct {
	Org         string    `json:"org"`
	Metric      string    `json:"metric"`
	Plan        float64   `json:"plan"`
	Actual      float64   `json:"actual"`
	Achievement float64   `json:"achievement"`
	Level       HeatLevel `json:"level"`
}

type heatMetric struct {
	name string
	cell func(models.OrgProfitRecord) models.PlanActualDiff
	// cost metrics achieve when actual stays under plan
	cost bool
}

var heatMetrics = []heatMetric{
	{"sales", func(r models.OrgProfitRecord) models.PlanActualDiff { return r.Sales }, false},
	{"gross_profit", func(r models.OrgProfitRecord) models.PlanActualDiff { return r.GrossProfit }, false},
	{"sga", func(r models.OrgProfitRecord) models.PlanActualDiff { return r.SGA }, true},
	{"operating_profit", func(r models.OrgProfitRecord) models.PlanActualDiff { return r.OperatingProfit }, false},
	{"contribution_margin", func(r models.OrgProfitRecord) models.PlanActualDiff { return r.ContributionMargin }, false},
}

// HeatmapMetrics lists the metric column order of the heatmap.
func HeatmapMetrics() []string {
	out := make([]string, len(heatMetrics))
	for i, m := range heatMetrics {
		out[i] = m.name
	}
	return out
}

// ClassifyAchievement bands an achievement rate.
func ClassifyAchievement(rate float64) HeatLevel {
	switch {
	case rate >= 100:
		return HeatExceeded
	case rate >= 90:
		return HeatNear
	case rate >= 70:
		return HeatBelow
	default:
		return HeatCritical
	}
}

// CalcPlanActualHeatmap builds the org x metric grid, orgs sorted by name.
// Rows with no plan are marked HeatNoPlan. Cost metrics use plan/actual so
// that underspending reads as achievement.
func CalcPlanActualHeatmap(orgProfit []models.OrgProfitRecord) []HeatmapCell {
	groups := calc.GroupBy(orgProfit, func(r models.OrgProfitRecord) string { return r.Org })
	var out []HeatmapCell
	for _, org := range calc.SortedKeys(groups) {
		rows := groups[org]
		for _, m := range heatMetrics {
			cell := calc.SumPlanActual(rows, m.cell)
			hc := HeatmapCell{Org: org, Metric: m.name, Plan: cell.Plan, Actual: cell.Actual}
			if cell.Plan == 0 {
				hc.Level = HeatNoPlan
				out = append(out, hc)
				continue
			}
			if m.cost {
				hc.Achievement = calc.SafePercent(cell.Plan, cell.Actual)
			} else {
				hc.Achievement = cell.AchievementRate()
			}
			hc.Level = ClassifyAchievement(hc.Achievement)
			out = append(out, hc)
		}
	}
	return out
}
