package pareto

import (
	"erp_analytics/pkg/models"
)

// CustomerABC grades customers by billed sales.
func CustomerABC(sales []models.SalesRecord, c Cutoffs) []Item {
	inputs := make([]Input, 0, len(sales))
	for _, s := range sales {
		key := s.CustomerCode
		if key == "" {
			key = s.CustomerName
		}
		inputs = append(inputs, Input{Key: key, Name: s.CustomerName, Value: s.BookAmount})
	}
	return Classify(inputs, c)
}

// ProductABC grades products by sales with the margin penalty applied on
// gross profit.
func ProductABC(items []models.ItemProfit, c Cutoffs) []Item {
	inputs := make([]Input, 0, len(items))
	for _, it := range items {
		key := it.ProductCode
		if key == "" {
			key = it.ProductName
		}
		inputs = append(inputs, Input{
			Key:    key,
			Name:   it.ProductLabel(),
			Value:  it.Sales,
			Profit: it.GrossProfit,
		})
	}
	return ClassifyWithMargin(inputs, c)
}

// CustomerProfitABC grades customers from the profit extracts, again with the
// margin penalty.
func CustomerProfitABC(items []models.ItemProfit, c Cutoffs) []Item {
	inputs := make([]Input, 0, len(items))
	for _, it := range items {
		key := it.CustomerCode
		if key == "" {
			key = it.CustomerName
		}
		inputs = append(inputs, Input{
			Key:    key,
			Name:   it.CustomerLabel(),
			Value:  it.Sales,
			Profit: it.GrossProfit,
		})
	}
	return ClassifyWithMargin(inputs, c)
}

// CostDriverABC grades the independent cost items by actual spend across all
// team rows. Subtotal rows never enter the ranking.
func CostDriverABC(team []models.TeamContributionRecord, c Cutoffs) []Item {
	var inputs []Input
	for _, r := range team {
		for _, item := range models.IndependentCostItems() {
			cell := r.Cost(item)
			if cell.Actual == 0 {
				continue
			}
			inputs = append(inputs, Input{Key: string(item), Name: item.Label(), Value: cell.Actual})
		}
	}
	return Classify(inputs, c)
}
