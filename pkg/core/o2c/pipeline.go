// Package o2c computes the order-to-cash pipeline: how much ordered volume
// converts into billed sales and how much of that is collected.
package o2c

import (
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// Stage names, in pipeline order.
const (
	StageOrder       = "수주"
	StageSales       = "매출전환"
	StageCollection  = "수금완료"
	StageOutstanding = "미수잔액"
)

// PipelineStage is one bar of the O2C funnel. Percentage is relative to the
// first (order) stage.
type PipelineStage struct {
	Stage      string  `json:"stage"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// MonthlyConversion is one month of the O2C time series.
type MonthlyConversion struct {
	Month          string  `json:"month"`
	Orders         float64 `json:"orders"`
	Sales          float64 `json:"sales"`
	Collections    float64 `json:"collections"`
	ConversionRate float64 `json:"conversion_rate"`
	CollectionRate float64 `json:"collection_rate"`
}

// Summary condenses the pipeline into headline ratios.
type Summary struct {
	TotalOrders      float64 `json:"total_orders"`
	TotalSales       float64 `json:"total_sales"`
	TotalCollections float64 `json:"total_collections"`
	Outstanding      float64 `json:"outstanding"`
	OrderBacklog     float64 `json:"order_backlog"`
	ConversionRate   float64 `json:"conversion_rate"`
	CollectionRate   float64 `json:"collection_rate"`
}

func orderAmount(r models.OrderRecord) float64           { return r.BookAmount }
func salesAmount(r models.SalesRecord) float64           { return r.BookAmount }
func collectionAmount(r models.CollectionRecord) float64 { return r.BookAmount }

// CalcPipeline builds the four-stage funnel from already filtered records.
// Outstanding is max(0, sales - collections).
func CalcPipeline(orders []models.OrderRecord, sales []models.SalesRecord, collections []models.CollectionRecord) []PipelineStage {
	totalOrders := calc.SumBy(orders, orderAmount)
	totalSales := calc.SumBy(sales, salesAmount)
	totalCollections := calc.SumBy(collections, collectionAmount)
	outstanding := max(0, totalSales-totalCollections)

	stages := []PipelineStage{
		{Stage: StageOrder, Amount: totalOrders, Count: len(orders)},
		{Stage: StageSales, Amount: totalSales, Count: len(sales)},
		{Stage: StageCollection, Amount: totalCollections, Count: len(collections)},
		{Stage: StageOutstanding, Amount: outstanding},
	}

	base := stages[0].Amount
	for i := range stages {
		stages[i].Percentage = calc.SafePercent(stages[i].Amount, base)
	}
	return stages
}

// CalcMonthlyConversion groups each record set by extracted month and
// derives conversion (sales/orders) and collection (collections/sales)
// rates. Records whose date cannot be parsed are skipped.
func CalcMonthlyConversion(orders []models.OrderRecord, sales []models.SalesRecord, collections []models.CollectionRecord) []MonthlyConversion {
	byMonth := make(map[string]*MonthlyConversion)
	get := func(month string) *MonthlyConversion {
		m, ok := byMonth[month]
		if !ok {
			m = &MonthlyConversion{Month: month}
			byMonth[month] = m
		}
		return m
	}

	for month, total := range monthlyTotals(orders, func(r models.OrderRecord) string { return r.OrderDate }, orderAmount) {
		get(month).Orders = total
	}
	for month, total := range monthlyTotals(sales, func(r models.SalesRecord) string { return r.SalesDate }, salesAmount) {
		get(month).Sales = total
	}
	for month, total := range monthlyTotals(collections, func(r models.CollectionRecord) string { return r.CollectionDate }, collectionAmount) {
		get(month).Collections = total
	}

	out := make([]MonthlyConversion, 0, len(byMonth))
	for _, m := range byMonth {
		m.ConversionRate = calc.SafePercent(m.Sales, m.Orders)
		m.CollectionRate = calc.SafePercent(m.Collections, m.Sales)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CalcSummary returns the overall conversion and collection ratios plus the
// order backlog not yet billed.
func CalcSummary(orders []models.OrderRecord, sales []models.SalesRecord, collections []models.CollectionRecord) Summary {
	s := Summary{
		TotalOrders:      calc.SumBy(orders, orderAmount),
		TotalSales:       calc.SumBy(sales, salesAmount),
		TotalCollections: calc.SumBy(collections, collectionAmount),
	}
	s.Outstanding = max(0, s.TotalSales-s.TotalCollections)
	s.OrderBacklog = max(0, s.TotalOrders-s.TotalSales)
	s.ConversionRate = calc.SafePercent(s.TotalSales, s.TotalOrders)
	s.CollectionRate = calc.SafePercent(s.TotalCollections, s.TotalSales)
	return s
}

func monthlyTotals[T any](records []T, date func(T) string, amount func(T) float64) map[string]float64 {
	totals := make(map[string]float64)
	for _, r := range records {
		month := calc.ExtractMonth(date(r))
		if month == "" {
			continue
		}
		totals[month] += amount(r)
	}
	return totals
}
