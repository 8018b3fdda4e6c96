package models

// Dataset is the full set of uploaded records one dashboard is computed
// from. Each slice is replaced wholesale when its file is re-uploaded.
type Dataset struct {
	Sales            []SalesRecord                 `json:"sales"`
	Orders           []OrderRecord                 `json:"orders"`
	Collections      []CollectionRecord            `json:"collections"`
	Aging            []ReceivableAgingRecord       `json:"aging"`
	OrgProfit        []OrgProfitRecord             `json:"org_profit"`
	TeamContribution []TeamContributionRecord      `json:"team_contribution"`
	Profitability    []ProfitabilityAnalysisRecord `json:"profitability"`
	CustomerItems    []CustomerItemDetailRecord    `json:"customer_items"`
}

// ItemSource picks the item-level extract a build reads. Both extracts are
// views of the same sales, so only one is used: profitability when it was
// uploaded, else the customer item detail. Zero means neither is present.
func (d Dataset) ItemSource() ItemSource {
	switch {
	case len(d.Profitability) > 0:
		return SourceProfitability
	case len(d.CustomerItems) > 0:
		return SourceCustomerItem
	default:
		return 0
	}
}

// Items returns the canonical item-profit rows of the source chosen by
// ItemSource.
func (d Dataset) Items() []ItemProfit {
	switch d.ItemSource() {
	case SourceProfitability:
		return NormalizeProfitability(d.Profitability)
	case SourceCustomerItem:
		return NormalizeCustomerItem(d.CustomerItems)
	default:
		return nil
	}
}

// Orgs lists the distinct organization names across all sources, in first
// seen order.
func (d Dataset) Orgs() []string {
	seen := map[string]bool{}
	var out []string
	add := func(org string) {
		if org != "" && !seen[org] {
			seen[org] = true
			out = append(out, org)
		}
	}
	for _, r := range d.OrgProfit {
		add(r.Org)
	}
	for _, r := range d.Sales {
		add(r.Org)
	}
	for _, r := range d.Orders {
		add(r.Org)
	}
	for _, r := range d.Collections {
		add(r.Org)
	}
	for _, r := range d.Aging {
		add(r.Org)
	}
	return out
}
