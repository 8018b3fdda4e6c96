package models

// CostItem identifies one line of the team contribution cost breakdown.
type CostItem string

// Variable cost items.
const (
	CostRawMaterial    CostItem = "raw_material"    // 원재료비
	CostSubMaterial    CostItem = "sub_material"    // 부재료비
	CostPurchasedGoods CostItem = "purchased_goods" // 상품매입비
	CostOutsourcing    CostItem = "outsourcing"     // 외주가공비
	CostFreight        CostItem = "freight"         // 운반비
	CostCommission     CostItem = "commission"      // 지급수수료
	CostPromotion      CostItem = "sales_promotion" // 판매촉진비
	CostPackaging      CostItem = "packaging"       // 포장비
	CostVariableLabor  CostItem = "variable_labor"  // 변동인건비
)

// Fixed cost items.
const (
	CostFixedLabor    CostItem = "fixed_labor"    // 고정인건비
	CostDepreciation  CostItem = "depreciation"   // 감가상각비
	CostRent          CostItem = "rent"           // 임차료
	CostRepairs       CostItem = "repairs"        // 수선비
	CostUtilities     CostItem = "utilities"      // 수도광열비
	CostInsurance     CostItem = "insurance"      // 보험료
	CostTravel        CostItem = "travel"         // 여비교통비
	CostOtherOverhead CostItem = "other_overhead" // 기타경비
)

// Subtotal rows. They restate the sums of the items above and must never
// be added to item-level totals.
const (
	CostVariableTotal CostItem = "variable_total" // 변동비계
	CostFixedTotal    CostItem = "fixed_total"    // 고정비계
)

// VariableCostItems lists the independent variable cost lines.
var VariableCostItems = []CostItem{
	CostRawMaterial, CostSubMaterial, CostPurchasedGoods, CostOutsourcing,
	CostFreight, CostCommission, CostPromotion, CostPackaging, CostVariableLabor,
}

// FixedCostItems lists the independent fixed cost lines.
var FixedCostItems = []CostItem{
	CostFixedLabor, CostDepreciation, CostRent, CostRepairs,
	CostUtilities, CostInsurance, CostTravel, CostOtherOverhead,
}

// IndependentCostItems returns the 17 non-subtotal items, variable first.
func IndependentCostItems() []CostItem {
	out := make([]CostItem, 0, len(VariableCostItems)+len(FixedCostItems))
	out = append(out, VariableCostItems...)
	return append(out, FixedCostItems...)
}

var costItemLabels = map[CostItem]string{
	CostRawMaterial:    "원재료비",
	CostSubMaterial:    "부재료비",
	CostPurchasedGoods: "상품매입비",
	CostOutsourcing:    "외주가공비",
	CostFreight:        "운반비",
	CostCommission:     "지급수수료",
	CostPromotion:      "판매촉진비",
	CostPackaging:      "포장비",
	CostVariableLabor:  "변동인건비",
	CostFixedLabor:     "고정인건비",
	CostDepreciation:   "감가상각비",
	CostRent:           "임차료",
	CostRepairs:        "수선비",
	CostUtilities:      "수도광열비",
	CostInsurance:      "보험료",
	CostTravel:         "여비교통비",
	CostOtherOverhead:  "기타경비",
	CostVariableTotal:  "변동비계",
	CostFixedTotal:     "고정비계",
}

// Label returns the Korean report label of the item.
func (c CostItem) Label() string {
	if l, ok := costItemLabels[c]; ok {
		return l
	}
	return string(c)
}

// IsSubtotal reports whether the item is a subtotal row.
func (c CostItem) IsSubtotal() bool {
	return c == CostVariableTotal || c == CostFixedTotal
}

// IsVariable reports whether the item is an independent variable cost.
func (c CostItem) IsVariable() bool {
	for _, v := range VariableCostItems {
		if v == c {
			return true
		}
	}
	return false
}

// CostItemByLabel resolves a report label back to its item.
func CostItemByLabel(label string) (CostItem, bool) {
	for item, l := range costItemLabels {
		if l == label {
			return item, true
		}
	}
	return "", false
}

// Cost returns the cell for item, reading subtotal rows from their
// dedicated fields.
func (r TeamContributionRecord) Cost(item CostItem) PlanActualDiff {
	switch item {
	case CostVariableTotal:
		return r.VariableCostTotal
	case CostFixedTotal:
		return r.FixedCostTotal
	}
	return r.CostItems[string(item)]
}

// VariableCost returns the variable cost subtotal, summing the independent
// items when the subtotal row is absent.
func (r TeamContributionRecord) VariableCost() PlanActualDiff {
	if r.VariableCostTotal.Plan != 0 || r.VariableCostTotal.Actual != 0 {
		return r.VariableCostTotal
	}
	var sum PlanActualDiff
	for _, item := range VariableCostItems {
		sum = sum.Add(r.Cost(item))
	}
	return sum
}

// FixedCost returns the fixed cost subtotal with the same fallback.
func (r TeamContributionRecord) FixedCost() PlanActualDiff {
	if r.FixedCostTotal.Plan != 0 || r.FixedCostTotal.Actual != 0 {
		return r.FixedCostTotal
	}
	var sum PlanActualDiff
	for _, item := range FixedCostItems {
		sum = sum.Add(r.Cost(item))
	}
	return sum
}
