// Package kpi computes the headline dashboard figures: overview KPIs, monthly
// trends, period comparison, org ranking, cost structure and the plan-vs-actual
// heatmap.
package kpi

import (
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// Overview is the KPI card row of the dashboard.
type Overview struct {
	TotalSales       float64 `json:"total_sales"`
	TotalOrders      float64 `json:"total_orders"`
	TotalCollections float64 `json:"total_collections"`
	CollectionRate   float64 `json:"collection_rate"`
	CustomerCount    int     `json:"customer_count"`
	ProductCount     int     `json:"product_count"`

	SalesPlan       float64 `json:"sales_plan"`
	SalesActual     float64 `json:"sales_actual"`
	PlanAchievement float64 `json:"plan_achievement"`

	GrossProfit        float64 `json:"gross_profit"`
	GrossMargin        float64 `json:"gross_margin"`
	OperatingProfit    float64 `json:"operating_profit"`
	OperatingMargin    float64 `json:"operating_margin"`
	ContributionMargin float64 `json:"contribution_margin"`

	// CostEfficiency is planned cost / actual cost * 100: above 100 means the
	// org spent less than planned.
	CostEfficiency float64 `json:"cost_efficiency"`
}

// CalcOverview aggregates the KPI cards from filtered records. Profit
// figures come from the org profit report; volume figures from the
// transactional files.
func CalcOverview(sales []models.SalesRecord, orders []models.OrderRecord, collections []models.CollectionRecord, orgProfit []models.OrgProfitRecord) Overview {
	o := Overview{
		TotalSales:       calc.SumBy(sales, func(s models.SalesRecord) float64 { return s.BookAmount }),
		TotalOrders:      calc.SumBy(orders, func(r models.OrderRecord) float64 { return r.BookAmount }),
		TotalCollections: calc.SumBy(collections, func(c models.CollectionRecord) float64 { return c.BookAmount }),
		CustomerCount:    len(calc.UniqueKeys(sales, func(s models.SalesRecord) string { return s.CustomerCode })),
		ProductCount:     len(calc.UniqueKeys(sales, func(s models.SalesRecord) string { return s.ProductCode })),
	}
	o.CollectionRate = calc.SafePercent(o.TotalCollections, o.TotalSales)

	salesCell := calc.SumPlanActual(orgProfit, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.Sales })
	gp := calc.SumPlanActual(orgProfit, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.GrossProfit })
	op := calc.SumPlanActual(orgProfit, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.OperatingProfit })
	cm := calc.SumPlanActual(orgProfit, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.ContributionMargin })
	cogs := calc.SumPlanActual(orgProfit, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.CostOfGoods })
	sga := calc.SumPlanActual(orgProfit, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.SGA })

	o.SalesPlan = salesCell.Plan
	o.SalesActual = salesCell.Actual
	o.PlanAchievement = salesCell.AchievementRate()
	o.GrossProfit = gp.Actual
	o.GrossMargin = calc.SafePercent(gp.Actual, salesCell.Actual)
	o.OperatingProfit = op.Actual
	o.OperatingMargin = calc.SafePercent(op.Actual, salesCell.Actual)
	o.ContributionMargin = calc.SafePercent(cm.Actual, salesCell.Actual)
	o.CostEfficiency = CostEfficiency(cogs.Plan+sga.Plan, cogs.Actual+sga.Actual)
	return o
}

// CostEfficiency returns plannedCost / actualCost * 100, 0 when nothing was
// spent.
func CostEfficiency(plannedCost, actualCost float64) float64 {
	return calc.SafePercent(plannedCost, actualCost)
}

// =============================================================================
// TRENDS
// =============================================================================

// TrendPoint is one month of the headline trend chart.
type TrendPoint struct {
	Month          string  `json:"month"`
	Sales          float64 `json:"sales"`
	Orders         float64 `json:"orders"`
	Collections    float64 `json:"collections"`
	SalesGrowth    float64 `json:"sales_growth"` // MoM %
	CollectionRate float64 `json:"collection_rate"`
}

// CalcMonthlyTrend returns month-ordered totals with month-over-month sales
// growth. The first month's growth is 0.
func CalcMonthlyTrend(sales []models.SalesRecord, orders []models.OrderRecord, collections []models.CollectionRecord) []TrendPoint {
	points := map[string]*TrendPoint{}
	at := func(month string) *TrendPoint {
		p, ok := points[month]
		if !ok {
			p = &TrendPoint{Month: month}
			points[month] = p
		}
		return p
	}
	for _, s := range sales {
		if m := calc.ExtractMonth(s.SalesDate); m != "" {
			at(m).Sales += s.BookAmount
		}
	}
	for _, o := range orders {
		if m := calc.ExtractMonth(o.OrderDate); m != "" {
			at(m).Orders += o.BookAmount
		}
	}
	for _, c := range collections {
		if m := calc.ExtractMonth(c.CollectionDate); m != "" {
			at(m).Collections += c.BookAmount
		}
	}

	out := make([]TrendPoint, 0, len(points))
	for _, month := range calc.SortedKeys(points) {
		p := *points[month]
		p.CollectionRate = calc.SafePercent(p.Collections, p.Sales)
		if n := len(out); n > 0 {
			p.SalesGrowth = calc.GrowthRate(p.Sales, out[n-1].Sales)
		}
		out = append(out, p)
	}
	return out
}

// PeriodComparison compares a metric between two periods.
type PeriodComparison struct {
	Metric     string  `json:"metric"`
	Current    float64 `json:"current"`
	Previous   float64 `json:"previous"`
	Change     float64 `json:"change"`
	ChangeRate float64 `json:"change_rate"`
}

// ComparePeriods compares sales, orders and collections between the
// current range and the comparison range. Records are filtered by month
// only; org filtering is the caller's job.
func ComparePeriods(sales []models.SalesRecord, orders []models.OrderRecord, collections []models.CollectionRecord, current, previous models.DateRange) []PeriodComparison {
	salesDate := func(s models.SalesRecord) string { return s.SalesDate }
	orderDate := func(o models.OrderRecord) string { return o.OrderDate }
	collDate := func(c models.CollectionRecord) string { return c.CollectionDate }

	build := func(metric string, cur, prev float64) PeriodComparison {
		return PeriodComparison{
			Metric:     metric,
			Current:    cur,
			Previous:   prev,
			Change:     cur - prev,
			ChangeRate: calc.GrowthRate(cur, prev),
		}
	}

	salesAmt := func(s models.SalesRecord) float64 { return s.BookAmount }
	orderAmt := func(o models.OrderRecord) float64 { return o.BookAmount }
	collAmt := func(c models.CollectionRecord) float64 { return c.BookAmount }

	return []PeriodComparison{
		build("sales",
			calc.SumBy(calc.FilterByDateRange(sales, current, salesDate), salesAmt),
			calc.SumBy(calc.FilterByDateRange(sales, previous, salesDate), salesAmt)),
		build("orders",
			calc.SumBy(calc.FilterByDateRange(orders, current, orderDate), orderAmt),
			calc.SumBy(calc.FilterByDateRange(orders, previous, orderDate), orderAmt)),
		build("collections",
			calc.SumBy(calc.FilterByDateRange(collections, current, collDate), collAmt),
			calc.SumBy(calc.FilterByDateRange(collections, previous, collDate), collAmt)),
	}
}

// =============================================================================
// RANKINGS
// =============================================================================

// OrgRank is one row of the org ranking table.
type OrgRank struct {
	Rank            int     `json:"rank"`
	Org             string  `json:"org"`
	Sales           float64 `json:"sales"`
	OperatingProfit float64 `json:"operating_profit"`
	OperatingMargin float64 `json:"operating_margin"`
	GrossMargin     float64 `json:"gross_margin"`
	Achievement     float64 `json:"achievement"`
}

// CalcOrgRanking ranks orgs by actual operating profit, ties broken by
// sales.
func CalcOrgRanking(orgProfit []models.OrgProfitRecord) []OrgRank {
	groups := calc.GroupBy(orgProfit, func(r models.OrgProfitRecord) string { return r.Org })
	out := make([]OrgRank, 0, len(groups))
	for org, rows := range groups {
		s := calc.SumPlanActual(rows, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.Sales })
		gp := calc.SumPlanActual(rows, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.GrossProfit })
		op := calc.SumPlanActual(rows, func(r models.OrgProfitRecord) models.PlanActualDiff { return r.OperatingProfit })
		out = append(out, OrgRank{
			Org:             org,
			Sales:           s.Actual,
			OperatingProfit: op.Actual,
			OperatingMargin: calc.SafePercent(op.Actual, s.Actual),
			GrossMargin:     calc.SafePercent(gp.Actual, s.Actual),
			Achievement:     s.AchievementRate(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OperatingProfit != out[j].OperatingProfit {
			return out[i].OperatingProfit > out[j].OperatingProfit
		}
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		return out[i].Org < out[j].Org
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// SalespersonRank is one row of the salesperson leaderboard.
type SalespersonRank struct {
	Rank          int     `json:"rank"`
	Salesperson   string  `json:"salesperson"`
	Org           string  `json:"org"`
	Sales         float64 `json:"sales"`
	CustomerCount int     `json:"customer_count"`
	Share         float64 `json:"share"`
}

// CalcSalespersonRanking ranks salespeople by billed sales.
func CalcSalespersonRanking(sales []models.SalesRecord) []SalespersonRank {
	total := calc.SumBy(sales, func(s models.SalesRecord) float64 { return s.BookAmount })
	groups := calc.GroupBy(sales, func(s models.SalesRecord) string { return s.Salesperson })
	out := make([]SalespersonRank, 0, len(groups))
	for person, rows := range groups {
		amount := calc.SumBy(rows, func(s models.SalesRecord) float64 { return s.BookAmount })
		out = append(out, SalespersonRank{
			Salesperson:   person,
			Org:           rows[0].Org,
			Sales:         amount,
			CustomerCount: len(calc.UniqueKeys(rows, func(s models.SalesRecord) string { return s.CustomerCode })),
			Share:         calc.SafePercent(amount, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		return out[i].Salesperson < out[j].Salesperson
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
