package models

// ItemSource discriminates where an ItemProfit row came from.
type ItemSource int

const (
	SourceCustomerItem ItemSource = iota + 1
	SourceProfitability
)

func (s ItemSource) String() string {
	switch s {
	case SourceCustomerItem:
		return "customer_item"
	case SourceProfitability:
		return "profitability"
	default:
		return "unknown"
	}
}

// ItemProfit is the canonical product/customer profit row. Both detail
// extracts are normalized into this shape before entering the core, so no
// calculator needs to probe which fields a record happens to carry.
type ItemProfit struct {
	Source       ItemSource `json:"source"`
	Org          string     `json:"org"`
	Salesperson  string     `json:"salesperson"`
	CustomerCode string     `json:"customer_code"`
	CustomerName string     `json:"customer_name"`
	ProductCode  string     `json:"product_code"`
	ProductName  string     `json:"product_name"`
	ProductGroup string     `json:"product_group"`
	Sales        float64    `json:"sales"`
	CostOfGoods  float64    `json:"cost_of_goods"`
	GrossProfit  float64    `json:"gross_profit"`
	SGA          float64    `json:"sga"`
	Operating    float64    `json:"operating_profit"`

	// Cost buckets, only populated from profitability rows.
	RawMaterial    float64 `json:"raw_material"`
	PurchasedGoods float64 `json:"purchased_goods"`
	Labor          float64 `json:"labor"`
	Facility       float64 `json:"facility"`
	Outsourcing    float64 `json:"outsourcing"`
	Logistics      float64 `json:"logistics"`
	General        float64 `json:"general"`
}

// CustomerLabel returns the display name for the customer, falling back to
// the code.
func (i ItemProfit) CustomerLabel() string {
	if i.CustomerName != "" {
		return i.CustomerName
	}
	return i.CustomerCode
}

// ProductLabel returns the display name for the product, falling back to
// the code.
func (i ItemProfit) ProductLabel() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return i.ProductCode
}

// NormalizeCustomerItem converts customer x item detail rows.
func NormalizeCustomerItem(records []CustomerItemDetailRecord) []ItemProfit {
	out := make([]ItemProfit, 0, len(records))
	for _, r := range records {
		out = append(out, ItemProfit{
			Source:       SourceCustomerItem,
			Org:          r.Org,
			Salesperson:  r.Salesperson,
			CustomerCode: r.CustomerCode,
			CustomerName: r.CustomerName,
			ProductCode:  r.ProductCode,
			ProductName:  r.ProductName,
			Sales:        r.Sales,
			CostOfGoods:  r.CostOfGoods,
			GrossProfit:  r.GrossProfit,
			Operating:    r.GrossProfit,
		})
	}
	return out
}

// NormalizeProfitability converts profitability analysis rows using the
// actual column of every cell.
func NormalizeProfitability(records []ProfitabilityAnalysisRecord) []ItemProfit {
	out := make([]ItemProfit, 0, len(records))
	for _, r := range records {
		out = append(out, ItemProfit{
			Source:         SourceProfitability,
			Org:            r.Org,
			Salesperson:    r.Salesperson,
			CustomerCode:   r.CustomerCode,
			CustomerName:   r.CustomerName,
			ProductCode:    r.ProductCode,
			ProductName:    r.ProductName,
			ProductGroup:   r.ProductGroup,
			Sales:          r.Sales.Actual,
			CostOfGoods:    r.CostOfGoods.Actual,
			GrossProfit:    r.GrossProfit.Actual,
			SGA:            r.SGA.Actual,
			Operating:      r.OperatingProfit.Actual,
			RawMaterial:    r.RawMaterial.Actual,
			PurchasedGoods: r.PurchasedGoods.Actual,
			Labor:          r.Labor.Actual,
			Facility:       r.Facility.Actual,
			Outsourcing:    r.Outsourcing.Actual,
			Logistics:      r.Logistics.Actual,
			General:        r.General.Actual,
		})
	}
	return out
}
