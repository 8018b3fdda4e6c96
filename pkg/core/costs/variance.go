// Package costs analyses the team contribution cost lines: plan/actual
// variance per item, per-team cost breakdowns, the variable/fixed split and
// cost-structure profiling of products and salespeople.
//
// The source reports carry two subtotal rows next to the 17 independent
// items. Subtotals are reported separately and never enter item totals.
package costs

import (
	"math"
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// ItemVariance is the plan/actual comparison of one cost item.
type ItemVariance struct {
	Item        models.CostItem `json:"item"`
	Label       string          `json:"label"`
	Plan        float64         `json:"plan"`
	Actual      float64         `json:"actual"`
	Variance    float64         `json:"variance"`     // actual - plan
	VariancePct float64         `json:"variance_pct"` // variance / |plan| * 100
	OverBudget  bool            `json:"over_budget"`
	Variable    bool            `json:"variable"`
}

// CostVarianceSummary holds item variances plus totals over independent
// items only.
type CostVarianceSummary struct {
	Items           []ItemVariance `json:"items"`
	Subtotals       []ItemVariance `json:"subtotals"`
	TotalPlan       float64        `json:"total_plan"`
	TotalActual     float64        `json:"total_actual"`
	TotalVariance   float64        `json:"total_variance"`
	OverBudgetCount int            `json:"over_budget_count"`
}

// VariancePercent returns variance / |plan| * 100, 0 without a plan.
func VariancePercent(plan, actual float64) float64 {
	if plan == 0 {
		return 0
	}
	return (actual - plan) / math.Abs(plan) * 100
}

func itemVariance(item models.CostItem, cell models.PlanActualDiff) ItemVariance {
	return ItemVariance{
		Item:        item,
		Label:       item.Label(),
		Plan:        cell.Plan,
		Actual:      cell.Actual,
		Variance:    cell.Variance(),
		VariancePct: VariancePercent(cell.Plan, cell.Actual),
		OverBudget:  cell.Actual > cell.Plan,
		Variable:    item.IsVariable(),
	}
}

// CalcCostVariance sums each cost item across team rows and compares plan
// with actual. Items are ordered by absolute variance, largest first.
func CalcCostVariance(team []models.TeamContributionRecord) CostVarianceSummary {
	var s CostVarianceSummary
	for _, item := range models.IndependentCostItems() {
		cell := calc.SumPlanActual(team, func(r models.TeamContributionRecord) models.PlanActualDiff { return r.Cost(item) })
		if cell.Plan == 0 && cell.Actual == 0 {
			continue
		}
		v := itemVariance(item, cell)
		s.Items = append(s.Items, v)
		s.TotalPlan += v.Plan
		s.TotalActual += v.Actual
		if v.OverBudget {
			s.OverBudgetCount++
		}
	}
	s.TotalVariance = s.TotalActual - s.TotalPlan

	for _, item := range []models.CostItem{models.CostVariableTotal, models.CostFixedTotal} {
		cell := calc.SumPlanActual(team, func(r models.TeamContributionRecord) models.PlanActualDiff { return r.Cost(item) })
		s.Subtotals = append(s.Subtotals, itemVariance(item, cell))
	}

	sort.SliceStable(s.Items, func(i, j int) bool {
		return math.Abs(s.Items[i].Variance) > math.Abs(s.Items[j].Variance)
	})
	return s
}

// =============================================================================
// PER-TEAM BREAKDOWN
// =============================================================================

// TeamCost is the item cost breakdown of one org team.
type TeamCost struct {
	OrgTeam     string         `json:"org_team"`
	Sales       float64        `json:"sales"`
	Items       []ItemVariance `json:"items"`
	TotalActual float64        `json:"total_actual"`
	CostRate    float64        `json:"cost_rate"` // total actual / sales * 100
	TopItem     string         `json:"top_item"`
}

// CalcItemCostByOrgTeam breaks costs down per org team, teams ordered by
// total actual cost.
func CalcItemCostByOrgTeam(team []models.TeamContributionRecord) []TeamCost {
	groups := calc.GroupBy(team, func(r models.TeamContributionRecord) string { return r.OrgTeam })
	out := make([]TeamCost, 0, len(groups))
	for name, rows := range groups {
		tc := TeamCost{
			OrgTeam: name,
			Sales:   calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.Sales.Actual }),
		}
		var top float64
		for _, item := range models.IndependentCostItems() {
			cell := calc.SumPlanActual(rows, func(r models.TeamContributionRecord) models.PlanActualDiff { return r.Cost(item) })
			if cell.Plan == 0 && cell.Actual == 0 {
				continue
			}
			tc.Items = append(tc.Items, itemVariance(item, cell))
			tc.TotalActual += cell.Actual
			if cell.Actual > top {
				top = cell.Actual
				tc.TopItem = item.Label()
			}
		}
		tc.CostRate = calc.SafePercent(tc.TotalActual, tc.Sales)
		out = append(out, tc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalActual != out[j].TotalActual {
			return out[i].TotalActual > out[j].TotalActual
		}
		return out[i].OrgTeam < out[j].OrgTeam
	})
	return out
}

// CostSplit is the variable/fixed decomposition of one org team.
type CostSplit struct {
	OrgTeam            string  `json:"org_team"`
	Sales              float64 `json:"sales"`
	Variable           float64 `json:"variable"`
	Fixed              float64 `json:"fixed"`
	VariableRatio      float64 `json:"variable_ratio"` // variable / (variable + fixed) * 100
	ContributionProfit float64 `json:"contribution_profit"`
	ContributionMargin float64 `json:"contribution_margin"`
}

// CalcVariableFixedSplit uses the subtotal rows when present and falls back
// to summing the items when they are blank.
func CalcVariableFixedSplit(team []models.TeamContributionRecord) []CostSplit {
	groups := calc.GroupBy(team, func(r models.TeamContributionRecord) string { return r.OrgTeam })
	out := make([]CostSplit, 0, len(groups))
	for _, name := range calc.SortedKeys(groups) {
		rows := groups[name]
		sales := calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.Sales.Actual })
		variable := calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.VariableCost().Actual })
		fixed := calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.FixedCost().Actual })
		out = append(out, CostSplit{
			OrgTeam:            name,
			Sales:              sales,
			Variable:           variable,
			Fixed:              fixed,
			VariableRatio:      calc.SafePercent(variable, variable+fixed),
			ContributionProfit: sales - variable,
			ContributionMargin: calc.SafePercent(sales-variable, sales),
		})
	}
	return out
}
