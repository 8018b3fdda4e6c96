// Package models defines the normalized record shapes handed to the analytics
// core by the ingestion layer. Records are read-only once built.
package models

// =============================================================================
// PLAN / ACTUAL CELL
// =============================================================================

// PlanActualDiff is the atomic financial cell of every ERP summary report.
// Diff is carried as supplied by the source and may be stale; calculators
// read Plan and Actual only.
type PlanActualDiff struct {
	Plan   float64 `json:"plan"`
	Actual float64 `json:"actual"`
	Diff   float64 `json:"diff"`
}

// NewPAD builds a cell with Diff recomputed from plan and actual.
func NewPAD(plan, actual float64) PlanActualDiff {
	return PlanActualDiff{Plan: plan, Actual: actual, Diff: actual - plan}
}

// Variance returns Actual - Plan, ignoring the supplied Diff.
func (p PlanActualDiff) Variance() float64 {
	return p.Actual - p.Plan
}

// AchievementRate returns Actual / Plan * 100, or 0 when Plan is zero.
func (p PlanActualDiff) AchievementRate() float64 {
	if p.Plan == 0 {
		return 0
	}
	return p.Actual / p.Plan * 100
}

// Add returns the cell-wise sum of two cells.
func (p PlanActualDiff) Add(o PlanActualDiff) PlanActualDiff {
	return PlanActualDiff{
		Plan:   p.Plan + o.Plan,
		Actual: p.Actual + o.Actual,
		Diff:   p.Diff + o.Diff,
	}
}

// =============================================================================
// TRANSACTIONAL RECORDS
// =============================================================================

// SalesRecord is one billed sales line. Dates are kept as the raw string the
// source provided (ISO, slash, compact or Excel serial).
type SalesRecord struct {
	SalesDate         string  `json:"sales_date"`
	Org               string  `json:"org"`
	OrgTeam           string  `json:"org_team"`
	Salesperson       string  `json:"salesperson"`
	CustomerCode      string  `json:"customer_code"`
	CustomerName      string  `json:"customer_name"`
	ProductCode       string  `json:"product_code"`
	ProductName       string  `json:"product_name"`
	ProductGroup      string  `json:"product_group"`
	Quantity          float64 `json:"quantity"`
	Currency          string  `json:"currency"`
	ExchangeRate      float64 `json:"exchange_rate"`
	TransactionAmount float64 `json:"transaction_amount"`
	BookAmount        float64 `json:"book_amount"` // KRW
}

// OrderRecord is one received order line.
type OrderRecord struct {
	OrderDate         string  `json:"order_date"`
	OrderNo           string  `json:"order_no"`
	Org               string  `json:"org"`
	Salesperson       string  `json:"salesperson"`
	CustomerCode      string  `json:"customer_code"`
	CustomerName      string  `json:"customer_name"`
	ProductCode       string  `json:"product_code"`
	ProductName       string  `json:"product_name"`
	Quantity          float64 `json:"quantity"`
	Currency          string  `json:"currency"`
	TransactionAmount float64 `json:"transaction_amount"`
	BookAmount        float64 `json:"book_amount"`
}

// CollectionRecord is one cash receipt against customer receivables.
type CollectionRecord struct {
	CollectionDate    string  `json:"collection_date"`
	Org               string  `json:"org"`
	Salesperson       string  `json:"salesperson"`
	CustomerCode      string  `json:"customer_code"`
	CustomerName      string  `json:"customer_name"`
	CollectionType    string  `json:"collection_type"`
	Currency          string  `json:"currency"`
	TransactionAmount float64 `json:"transaction_amount"`
	BookAmount        float64 `json:"book_amount"`
}

// =============================================================================
// RECEIVABLES AGING
// =============================================================================

// AgingAmount holds the three amount views of an aging bucket.
type AgingAmount struct {
	ShipmentAmount    float64 `json:"shipment_amount"`
	BookAmount        float64 `json:"book_amount"`
	TransactionAmount float64 `json:"transaction_amount"`
}

// ReceivableAgingRecord combines the aging buckets of one
// (org, salesperson, customer) row. Month1 covers 0-30 days, Month2 31-60,
// Month3 61-90 and so on; Overdue holds everything past Month6.
type ReceivableAgingRecord struct {
	Org          string      `json:"org"`
	Salesperson  string      `json:"salesperson"`
	CustomerCode string      `json:"customer_code"`
	CustomerName string      `json:"customer_name"`
	Currency     string      `json:"currency"`
	Month1       AgingAmount `json:"month1"`
	Month2       AgingAmount `json:"month2"`
	Month3       AgingAmount `json:"month3"`
	Month4       AgingAmount `json:"month4"`
	Month5       AgingAmount `json:"month5"`
	Month6       AgingAmount `json:"month6"`
	Overdue      AgingAmount `json:"overdue"`
	Total        AgingAmount `json:"total"`
	CreditLimit  float64     `json:"credit_limit,omitempty"`
}

// Buckets returns the seven aging buckets oldest-last, Overdue included.
func (r ReceivableAgingRecord) Buckets() []AgingAmount {
	return []AgingAmount{r.Month1, r.Month2, r.Month3, r.Month4, r.Month5, r.Month6, r.Overdue}
}

// CustomerKey returns the customer code, falling back to the name.
func (r ReceivableAgingRecord) CustomerKey() string {
	if r.CustomerCode != "" {
		return r.CustomerCode
	}
	return r.CustomerName
}

// =============================================================================
// HIERARCHICAL PROFIT SUMMARIES
// =============================================================================

// OrgProfitRecord is one organization row of the org profit report.
type OrgProfitRecord struct {
	Org                 string         `json:"org"`
	Sales               PlanActualDiff `json:"sales"`
	CostOfGoods         PlanActualDiff `json:"cost_of_goods"`
	GrossProfit         PlanActualDiff `json:"gross_profit"`
	SGA                 PlanActualDiff `json:"sga"`
	OperatingProfit     PlanActualDiff `json:"operating_profit"`
	ContributionMargin  PlanActualDiff `json:"contribution_margin"`
	GrossMarginRate     PlanActualDiff `json:"gross_margin_rate"`
	OperatingMarginRate PlanActualDiff `json:"operating_margin_rate"`
}

// TeamContributionRecord is one org-team / salesperson row of the team
// contribution report. CostItems holds the 17 independent cost lines;
// VariableCostTotal and FixedCostTotal are the source's subtotal rows.
type TeamContributionRecord struct {
	OrgTeam            string                    `json:"org_team"`
	Salesperson        string                    `json:"salesperson"`
	Sales              PlanActualDiff            `json:"sales"`
	CostItems          map[string]PlanActualDiff `json:"cost_items"`
	VariableCostTotal  PlanActualDiff            `json:"variable_cost_total"`
	FixedCostTotal     PlanActualDiff            `json:"fixed_cost_total"`
	ContributionProfit PlanActualDiff            `json:"contribution_profit"`
	OperatingProfit    PlanActualDiff            `json:"operating_profit"`
	Extra              map[string]PlanActualDiff `json:"extra,omitempty"`
}

// ProfitabilityAnalysisRecord is one row of the product/customer
// profitability extract.
type ProfitabilityAnalysisRecord struct {
	Org             string         `json:"org"`
	Salesperson     string         `json:"salesperson"`
	CustomerCode    string         `json:"customer_code"`
	CustomerName    string         `json:"customer_name"`
	ProductCode     string         `json:"product_code"`
	ProductName     string         `json:"product_name"`
	ProductGroup    string         `json:"product_group"`
	Sales           PlanActualDiff `json:"sales"`
	CostOfGoods     PlanActualDiff `json:"cost_of_goods"`
	GrossProfit     PlanActualDiff `json:"gross_profit"`
	SGA             PlanActualDiff `json:"sga"`
	OperatingProfit PlanActualDiff `json:"operating_profit"`
	RawMaterial     PlanActualDiff `json:"raw_material"`
	PurchasedGoods  PlanActualDiff `json:"purchased_goods"`
	Labor           PlanActualDiff `json:"labor"`
	Facility        PlanActualDiff `json:"facility"`
	Outsourcing     PlanActualDiff `json:"outsourcing"`
	Logistics       PlanActualDiff `json:"logistics"`
	General         PlanActualDiff `json:"general"`
}

// CustomerItemDetailRecord is the customer x item detail extract. It carries
// names only for some rows; codes are always present.
type CustomerItemDetailRecord struct {
	Org          string  `json:"org"`
	Salesperson  string  `json:"salesperson"`
	CustomerCode string  `json:"customer_code"`
	CustomerName string  `json:"customer_name"`
	ProductCode  string  `json:"product_code"`
	ProductName  string  `json:"product_name"`
	Sales        float64 `json:"sales"`
	CostOfGoods  float64 `json:"cost_of_goods"`
	GrossProfit  float64 `json:"gross_profit"`
}

// =============================================================================
// FILTERS
// =============================================================================

// DateRange is an inclusive month-granularity range ("YYYY-MM").
// Empty bounds are open.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// IsZero reports whether both bounds are open.
func (d DateRange) IsZero() bool {
	return d.From == "" && d.To == ""
}

// Filter is the UI filter state applied before calculators run.
type Filter struct {
	Orgs       []string  `json:"orgs"`
	Range      DateRange `json:"range"`
	Comparison DateRange `json:"comparison"`
}
