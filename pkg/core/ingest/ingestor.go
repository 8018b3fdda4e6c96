package ingest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/core/utils"
	"erp_analytics/pkg/models"
)

// Kind names an upload type.
type Kind string

const (
	KindSales            Kind = "sales"
	KindOrders           Kind = "orders"
	KindCollections      Kind = "collections"
	KindAging            Kind = "aging"
	KindOrgProfit        Kind = "org_profit"
	KindTeamContribution Kind = "team_contribution"
	KindProfitability    Kind = "profitability"
	KindCustomerItems    Kind = "customer_items"
)

// Kinds lists every upload type.
var Kinds = []Kind{
	KindSales, KindOrders, KindCollections, KindAging,
	KindOrgProfit, KindTeamContribution, KindProfitability, KindCustomerItems,
}

// ParseKind validates an upload type name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

var (
	// ErrUnknownKind is returned for an unrecognized upload type.
	ErrUnknownKind = errors.New("unknown upload kind")
	// ErrMissingColumn is returned when a required column is absent.
	ErrMissingColumn = errors.New("required column missing")
)

// =============================================================================
// RESULT / RECONCILIATION
// =============================================================================

// CheckStatus grades a reconciliation checkpoint.
type CheckStatus string

const (
	CheckMatch      CheckStatus = "match"
	CheckImmaterial CheckStatus = "immaterial"
	CheckMismatch   CheckStatus = "mismatch"
)

// reconcileTolerance is the relative difference, in percent, still treated
// as immaterial.
const reconcileTolerance = 0.05

// Checkpoint compares a total row printed in the report with the sum of the
// parsed detail rows.
type Checkpoint struct {
	Name       string      `json:"name"`
	Reported   float64     `json:"reported"`
	Calculated float64     `json:"calculated"`
	Variance   float64     `json:"variance"`
	Status     CheckStatus `json:"status"`
}

// Reconcile builds one checkpoint per reported total that has a calculated
// counterpart, ordered by name.
func Reconcile(calculated, reported map[string]float64) []Checkpoint {
	var out []Checkpoint
	for _, name := range calc.SortedKeys(reported) {
		calcVal, ok := calculated[name]
		if !ok {
			continue
		}
		rep := reported[name]
		cp := Checkpoint{Name: name, Reported: rep, Calculated: calcVal, Variance: calcVal - rep, Status: CheckMatch}
		if math.Abs(cp.Variance) > 0.5 {
			cp.Status = CheckImmaterial
			if pct := math.Abs(calc.SafePercent(cp.Variance, rep)); rep == 0 || pct > reconcileTolerance {
				cp.Status = CheckMismatch
			}
		}
		out = append(out, cp)
	}
	return out
}

// Result summarizes one parsed upload.
type Result struct {
	Kind            Kind         `json:"kind"`
	Sheet           string       `json:"sheet,omitempty"`
	Rows            int          `json:"rows"`
	SkippedTotals   int          `json:"skipped_totals"`
	Warnings        []string     `json:"warnings"`
	DroppedWarnings int          `json:"dropped_warnings"`
	Checks          []Checkpoint `json:"checks,omitempty"`
}

// =============================================================================
// DISPATCH
// =============================================================================

// Parse maps t onto records of the given kind and stores them in ds,
// replacing that kind's previous records. Unreadable cells become 0 or ""
// with a warning; only a missing required column is an error.
func Parse(kind Kind, t *Table, ds *models.Dataset) (Result, error) {
	res := Result{Kind: kind, Sheet: t.Sheet}
	w := &Warnings{}
	p := &parser{cols: newColumns(t.Headers), t: t, w: w, calculated: map[string]float64{}, reported: map[string]float64{}}

	var err error
	switch kind {
	case KindSales:
		ds.Sales, err = p.sales()
		res.Rows = len(ds.Sales)
	case KindOrders:
		ds.Orders, err = p.orders()
		res.Rows = len(ds.Orders)
	case KindCollections:
		ds.Collections, err = p.collections()
		res.Rows = len(ds.Collections)
	case KindAging:
		ds.Aging, err = p.aging()
		res.Rows = len(ds.Aging)
	case KindOrgProfit:
		ds.OrgProfit, err = p.orgProfit()
		res.Rows = len(ds.OrgProfit)
	case KindTeamContribution:
		ds.TeamContribution, err = p.teamContribution()
		res.Rows = len(ds.TeamContribution)
	case KindProfitability:
		ds.Profitability, err = p.profitability()
		res.Rows = len(ds.Profitability)
	case KindCustomerItems:
		ds.CustomerItems, err = p.customerItems()
		res.Rows = len(ds.CustomerItems)
	default:
		return res, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if err != nil {
		return res, fmt.Errorf("parse %s: %w", kind, err)
	}
	res.SkippedTotals = p.skipped
	res.Warnings = w.List()
	res.DroppedWarnings = w.Dropped()
	res.Checks = Reconcile(p.calculated, p.reported)
	return res, nil
}

// parser holds the state of one Parse call.
type parser struct {
	cols       *columns
	t          *Table
	w          *Warnings
	skipped    int
	calculated map[string]float64
	reported   map[string]float64
}

func (p *parser) require(name string, aliases []string) (int, error) {
	i := p.cols.find(aliases)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s (one of %s)", ErrMissingColumn, name, strings.Join(aliases, ", "))
	}
	return i, nil
}

// rows yields the data rows, dropping total rows. dims are the dimension
// columns, top level first. A row is a total when its first non-empty
// dimension carries a total label, or a subtotal when a lower one does.
// Grand totals ("합계", not "소계") are handed to onTotal.
func (p *parser) rows(dims []int, onTotal func(rowReader)) []rowReader {
	var out []rowReader
	for i, cells := range p.t.Rows {
		r := rowReader{cells: cells, line: i + 1, headers: p.t.Headers, w: p.w}
		first, total := true, false
		for _, d := range dims {
			v := r.str(d)
			if v == "" {
				continue
			}
			if isTotalLabel(v) {
				total = true
				if first && !isSubtotalLabel(v) && onTotal != nil {
					onTotal(r)
				}
				break
			}
			first = false
		}
		if total {
			p.skipped++
			continue
		}
		out = append(out, r)
	}
	return out
}

// fillDown restores hierarchical dimension columns; levels holds column
// groups from the top level down and may contain -1 for absent columns.
func (p *parser) fillDown(levels ...[]int) {
	var clean [][]int
	for _, lvl := range levels {
		var cols []int
		for _, c := range lvl {
			if c >= 0 {
				cols = append(cols, c)
			}
		}
		if len(cols) > 0 {
			clean = append(clean, cols)
		}
	}
	if len(clean) > 0 {
		p.t.Rows = calc.FillDown(p.t.Rows, clean)
	}
}

// =============================================================================
// TRANSACTIONAL REPORTS
// =============================================================================

type dims struct {
	org, team, salesperson, custCode, custName, prodCode, prodName, prodGroup int
}

func (p *parser) dims() dims {
	return dims{
		org:         p.cols.find(aliasOrg),
		team:        p.cols.find(aliasOrgTeam),
		salesperson: p.cols.find(aliasSalesperson),
		custCode:    p.cols.find(aliasCustomerCode),
		custName:    p.cols.find(aliasCustomerName),
		prodCode:    p.cols.find(aliasProductCode),
		prodName:    p.cols.find(aliasProductName),
		prodGroup:   p.cols.find(aliasProductGroup),
	}
}

// bookAmount resolves the KRW amount: the book column when present, else
// transaction amount times rate, else the transaction amount itself.
func bookAmount(r rowReader, book, tx, rate int) float64 {
	if book >= 0 {
		return r.num(book)
	}
	t := r.num(tx)
	if fx := r.num(rate); rate >= 0 && fx > 0 {
		return t * fx
	}
	return t
}

func (p *parser) amountColumns(book []string) (bookCol, txCol, rateCol int, err error) {
	txCol = p.cols.find(aliasTxAmount)
	rateCol = p.cols.find(aliasRate)
	bookCol = p.cols.find(book)
	if bookCol < 0 && txCol < 0 {
		return 0, 0, 0, fmt.Errorf("%w: amount (one of %s)", ErrMissingColumn, strings.Join(book, ", "))
	}
	return bookCol, txCol, rateCol, nil
}

func (p *parser) sales() ([]models.SalesRecord, error) {
	date, err := p.require("date", aliasSalesDate)
	if err != nil {
		return nil, err
	}
	book, tx, rate, err := p.amountColumns(aliasSalesBook)
	if err != nil {
		return nil, err
	}
	d := p.dims()
	qty, cur := p.cols.find(aliasQuantity), p.cols.find(aliasCurrency)

	var out []models.SalesRecord
	for _, r := range p.rows([]int{date, d.org, d.custName, d.custCode}, func(r rowReader) {
		p.reported["book_amount"] += bookAmount(r, book, tx, rate)
	}) {
		rec := models.SalesRecord{
			SalesDate:         r.str(date),
			Org:               r.str(d.org),
			OrgTeam:           r.str(d.team),
			Salesperson:       r.str(d.salesperson),
			CustomerCode:      r.str(d.custCode),
			CustomerName:      r.str(d.custName),
			ProductCode:       r.str(d.prodCode),
			ProductName:       r.str(d.prodName),
			ProductGroup:      r.str(d.prodGroup),
			Quantity:          r.num(qty),
			Currency:          r.str(cur),
			ExchangeRate:      r.num(rate),
			TransactionAmount: r.num(tx),
			BookAmount:        bookAmount(r, book, tx, rate),
		}
		if tx < 0 {
			rec.TransactionAmount = rec.BookAmount
		}
		p.warnDate(r, rec.SalesDate)
		p.calculated["book_amount"] += rec.BookAmount
		out = append(out, rec)
	}
	return out, nil
}

func (p *parser) orders() ([]models.OrderRecord, error) {
	date, err := p.require("date", aliasOrderDate)
	if err != nil {
		return nil, err
	}
	book, tx, rate, err := p.amountColumns(aliasOrderBook)
	if err != nil {
		return nil, err
	}
	d := p.dims()
	no, qty, cur := p.cols.find(aliasOrderNo), p.cols.find(aliasQuantity), p.cols.find(aliasCurrency)

	var out []models.OrderRecord
	for _, r := range p.rows([]int{date, d.org, d.custName, d.custCode}, func(r rowReader) {
		p.reported["book_amount"] += bookAmount(r, book, tx, rate)
	}) {
		rec := models.OrderRecord{
			OrderDate:         r.str(date),
			OrderNo:           r.str(no),
			Org:               r.str(d.org),
			Salesperson:       r.str(d.salesperson),
			CustomerCode:      r.str(d.custCode),
			CustomerName:      r.str(d.custName),
			ProductCode:       r.str(d.prodCode),
			ProductName:       r.str(d.prodName),
			Quantity:          r.num(qty),
			Currency:          r.str(cur),
			TransactionAmount: r.num(tx),
			BookAmount:        bookAmount(r, book, tx, rate),
		}
		if tx < 0 {
			rec.TransactionAmount = rec.BookAmount
		}
		p.warnDate(r, rec.OrderDate)
		p.calculated["book_amount"] += rec.BookAmount
		out = append(out, rec)
	}
	return out, nil
}

func (p *parser) collections() ([]models.CollectionRecord, error) {
	date, err := p.require("date", aliasCollectionDate)
	if err != nil {
		return nil, err
	}
	book, tx, rate, err := p.amountColumns(aliasCollectionBook)
	if err != nil {
		return nil, err
	}
	d := p.dims()
	typ, cur := p.cols.find(aliasCollectionType), p.cols.find(aliasCurrency)

	var out []models.CollectionRecord
	for _, r := range p.rows([]int{date, d.org, d.custName, d.custCode}, func(r rowReader) {
		p.reported["book_amount"] += bookAmount(r, book, tx, rate)
	}) {
		rec := models.CollectionRecord{
			CollectionDate:    r.str(date),
			Org:               r.str(d.org),
			Salesperson:       r.str(d.salesperson),
			CustomerCode:      r.str(d.custCode),
			CustomerName:      r.str(d.custName),
			CollectionType:    r.str(typ),
			Currency:          r.str(cur),
			TransactionAmount: r.num(tx),
			BookAmount:        bookAmount(r, book, tx, rate),
		}
		if tx < 0 {
			rec.TransactionAmount = rec.BookAmount
		}
		p.warnDate(r, rec.CollectionDate)
		p.calculated["book_amount"] += rec.BookAmount
		out = append(out, rec)
	}
	return out, nil
}

func (p *parser) warnDate(r rowReader, raw string) {
	if calc.ExtractMonth(raw) == "" {
		p.w.Addf("%d행: 날짜 %q를 인식할 수 없어 기간 필터에서 제외됩니다", r.line, raw)
	}
}

// =============================================================================
// AGING
// =============================================================================

var agingBuckets = []struct {
	name    string
	aliases []string
}{
	{"month1", []string{"1개월", "30일이내", "0~30일"}},
	{"month2", []string{"2개월", "31~60일"}},
	{"month3", []string{"3개월", "61~90일"}},
	{"month4", []string{"4개월", "91~120일"}},
	{"month5", []string{"5개월", "121~150일"}},
	{"month6", []string{"6개월", "151~180일"}},
	{"overdue", []string{"6개월초과", "기간초과", "180일초과", "장기"}},
	{"total", []string{"채권합계", "총채권", "채권잔액", "잔액", "합계"}},
}

type agingCols struct{ shipment, book, tx int }

func (p *parser) agingBucket(aliases []string) agingCols {
	c := agingCols{
		shipment: p.cols.find(suffixedAll(aliases, "출하금액")),
		book:     p.cols.find(suffixedAll(aliases, "장부금액")),
		tx:       p.cols.find(suffixedAll(aliases, "거래금액")),
	}
	if c.book < 0 {
		c.book = p.cols.find(aliases)
	}
	return c
}

func suffixedAll(aliases []string, suffix string) []string {
	out := make([]string, len(aliases))
	for i, a := range aliases {
		out[i] = a + suffix
	}
	return out
}

func (r rowReader) aging(c agingCols) models.AgingAmount {
	a := models.AgingAmount{
		ShipmentAmount:    r.num(c.shipment),
		BookAmount:        r.num(c.book),
		TransactionAmount: r.num(c.tx),
	}
	if c.tx < 0 {
		a.TransactionAmount = a.BookAmount
	}
	return a
}

func (p *parser) aging() ([]models.ReceivableAgingRecord, error) {
	d := p.dims()
	if d.custCode < 0 && d.custName < 0 {
		return nil, fmt.Errorf("%w: customer (one of %s)", ErrMissingColumn, strings.Join(aliasCustomerName, ", "))
	}
	buckets := make(map[string]agingCols, len(agingBuckets))
	present := 0
	for _, b := range agingBuckets {
		buckets[b.name] = p.agingBucket(b.aliases)
		if buckets[b.name].book >= 0 {
			present++
		}
	}
	if present == 0 {
		return nil, fmt.Errorf("%w: aging buckets (1개월 .. 6개월, 기간초과)", ErrMissingColumn)
	}
	cur, limit := p.cols.find(aliasCurrency), p.cols.find(aliasCreditLimit)
	p.fillDown([]int{d.org}, []int{d.salesperson})

	var out []models.ReceivableAgingRecord
	for _, r := range p.rows([]int{d.org, d.salesperson, d.custName, d.custCode}, func(r rowReader) {
		p.reported["total"] += r.aging(buckets["total"]).BookAmount
	}) {
		rec := models.ReceivableAgingRecord{
			Org:          r.str(d.org),
			Salesperson:  r.str(d.salesperson),
			CustomerCode: r.str(d.custCode),
			CustomerName: r.str(d.custName),
			Currency:     r.str(cur),
			Month1:       r.aging(buckets["month1"]),
			Month2:       r.aging(buckets["month2"]),
			Month3:       r.aging(buckets["month3"]),
			Month4:       r.aging(buckets["month4"]),
			Month5:       r.aging(buckets["month5"]),
			Month6:       r.aging(buckets["month6"]),
			Overdue:      r.aging(buckets["overdue"]),
			Total:        r.aging(buckets["total"]),
			CreditLimit:  r.num(limit),
		}
		var sum models.AgingAmount
		for _, b := range rec.Buckets() {
			sum.ShipmentAmount += b.ShipmentAmount
			sum.BookAmount += b.BookAmount
			sum.TransactionAmount += b.TransactionAmount
		}
		if buckets["total"].book < 0 {
			rec.Total = sum
		} else if math.Abs(rec.Total.BookAmount-sum.BookAmount) > 1 {
			p.w.Addf("%d행 %s: 합계 %s와 구간 합 %s가 다릅니다", r.line, rec.CustomerKey(),
				utils.FormatNumber(rec.Total.BookAmount), utils.FormatNumber(sum.BookAmount))
		}
		p.calculated["total"] += rec.Total.BookAmount
		out = append(out, rec)
	}
	return out, nil
}

// =============================================================================
// PLAN / ACTUAL SUMMARY REPORTS
// =============================================================================

func (p *parser) orgProfit() ([]models.OrgProfitRecord, error) {
	org, err := p.require("org", aliasOrg)
	if err != nil {
		return nil, err
	}
	sales := p.cols.findPAD(metricSales)
	if !sales.found() {
		return nil, fmt.Errorf("%w: 매출액 계획/실적", ErrMissingColumn)
	}
	cogs := p.cols.findPAD(metricCOGS)
	gp := p.cols.findPAD(metricGrossProfit)
	sga := p.cols.findPAD(metricSGA)
	op := p.cols.findPAD(metricOperatingProfit)
	cm := p.cols.findPAD(metricContribution)
	gm := p.cols.findPAD(metricGrossMargin)
	om := p.cols.findPAD(metricOperatingMargin)

	var out []models.OrgProfitRecord
	for _, r := range p.rows([]int{org}, func(r rowReader) {
		p.reported["sales_actual"] += r.pad(sales).Actual
	}) {
		if r.str(org) == "" {
			p.w.Addf("%d행: 조직명이 없어 건너뜁니다", r.line)
			continue
		}
		rec := models.OrgProfitRecord{
			Org:                 r.str(org),
			Sales:               r.pad(sales),
			CostOfGoods:         r.pad(cogs),
			GrossProfit:         r.pad(gp),
			SGA:                 r.pad(sga),
			OperatingProfit:     r.pad(op),
			ContributionMargin:  r.pad(cm),
			GrossMarginRate:     r.pad(gm),
			OperatingMarginRate: r.pad(om),
		}
		p.calculated["sales_actual"] += rec.Sales.Actual
		out = append(out, rec)
	}
	return out, nil
}

func (p *parser) teamContribution() ([]models.TeamContributionRecord, error) {
	team, err := p.require("org team", append(append([]string{}, aliasOrgTeam...), aliasOrg...))
	if err != nil {
		return nil, err
	}
	person := p.cols.find(aliasSalesperson)
	sales := p.cols.findPAD(metricSales)
	if !sales.found() {
		return nil, fmt.Errorf("%w: 매출액 계획/실적", ErrMissingColumn)
	}
	items := map[models.CostItem]padCols{}
	for _, item := range models.IndependentCostItems() {
		if c := p.cols.findPAD([]string{item.Label()}); c.found() {
			items[item] = c
		}
	}
	varTotal := p.cols.findPAD([]string{models.CostVariableTotal.Label(), "변동비합계", "변동비"})
	fixTotal := p.cols.findPAD([]string{models.CostFixedTotal.Label(), "고정비합계", "고정비"})
	contrib := p.cols.findPAD(metricContribution)
	op := p.cols.findPAD(metricOperatingProfit)
	extra := p.cols.unusedMetrics()
	p.fillDown([]int{team}, []int{person})

	var out []models.TeamContributionRecord
	for _, r := range p.rows([]int{team, person}, func(r rowReader) {
		p.reported["sales_actual"] += r.pad(sales).Actual
	}) {
		rec := models.TeamContributionRecord{
			OrgTeam:            r.str(team),
			Salesperson:        r.str(person),
			Sales:              r.pad(sales),
			CostItems:          make(map[string]models.PlanActualDiff, len(items)),
			VariableCostTotal:  r.pad(varTotal),
			FixedCostTotal:     r.pad(fixTotal),
			ContributionProfit: r.pad(contrib),
			OperatingProfit:    r.pad(op),
		}
		for item, c := range items {
			rec.CostItems[string(item)] = r.pad(c)
		}
		if len(extra) > 0 {
			rec.Extra = make(map[string]models.PlanActualDiff, len(extra))
			for name, c := range extra {
				rec.Extra[name] = r.pad(c)
			}
		}
		p.calculated["sales_actual"] += rec.Sales.Actual
		out = append(out, rec)
	}
	return out, nil
}

func (p *parser) profitability() ([]models.ProfitabilityAnalysisRecord, error) {
	d := p.dims()
	sales := p.cols.findPAD(metricSales)
	if !sales.found() {
		return nil, fmt.Errorf("%w: 매출액", ErrMissingColumn)
	}
	cogs := p.cols.findPAD(metricCOGS)
	gp := p.cols.findPAD(metricGrossProfit)
	sga := p.cols.findPAD(metricSGA)
	op := p.cols.findPAD(metricOperatingProfit)
	raw := p.cols.findPAD(metricRawMaterial)
	purchased := p.cols.findPAD(metricPurchasedGoods)
	labor := p.cols.findPAD(metricLabor)
	facility := p.cols.findPAD(metricFacility)
	outsourcing := p.cols.findPAD(metricOutsourcing)
	logistics := p.cols.findPAD(metricLogistics)
	general := p.cols.findPAD(metricGeneral)
	p.fillDown([]int{d.org}, []int{d.salesperson}, []int{d.custCode, d.custName})

	var out []models.ProfitabilityAnalysisRecord
	for _, r := range p.rows([]int{d.org, d.salesperson, d.custName, d.prodName}, func(r rowReader) {
		p.reported["sales_actual"] += r.pad(sales).Actual
	}) {
		rec := models.ProfitabilityAnalysisRecord{
			Org:             r.str(d.org),
			Salesperson:     r.str(d.salesperson),
			CustomerCode:    r.str(d.custCode),
			CustomerName:    r.str(d.custName),
			ProductCode:     r.str(d.prodCode),
			ProductName:     r.str(d.prodName),
			ProductGroup:    r.str(d.prodGroup),
			Sales:           r.pad(sales),
			CostOfGoods:     r.pad(cogs),
			GrossProfit:     r.pad(gp),
			SGA:             r.pad(sga),
			OperatingProfit: r.pad(op),
			RawMaterial:     r.pad(raw),
			PurchasedGoods:  r.pad(purchased),
			Labor:           r.pad(labor),
			Facility:        r.pad(facility),
			Outsourcing:     r.pad(outsourcing),
			Logistics:       r.pad(logistics),
			General:         r.pad(general),
		}
		if !gp.found() {
			rec.GrossProfit = models.NewPAD(rec.Sales.Plan-rec.CostOfGoods.Plan, rec.Sales.Actual-rec.CostOfGoods.Actual)
		}
		p.calculated["sales_actual"] += rec.Sales.Actual
		out = append(out, rec)
	}
	return out, nil
}

func (p *parser) customerItems() ([]models.CustomerItemDetailRecord, error) {
	d := p.dims()
	if d.custCode < 0 && d.custName < 0 {
		return nil, fmt.Errorf("%w: customer (one of %s)", ErrMissingColumn, strings.Join(aliasCustomerCode, ", "))
	}
	sales, err := p.require("sales", metricSales)
	if err != nil {
		return nil, err
	}
	cogs, gp := p.cols.find(metricCOGS), p.cols.find(metricGrossProfit)
	p.fillDown([]int{d.org}, []int{d.salesperson}, []int{d.custCode, d.custName})

	var out []models.CustomerItemDetailRecord
	for _, r := range p.rows([]int{d.org, d.custCode, d.custName}, func(r rowReader) {
		p.reported["sales"] += r.num(sales)
	}) {
		rec := models.CustomerItemDetailRecord{
			Org:          r.str(d.org),
			Salesperson:  r.str(d.salesperson),
			CustomerCode: r.str(d.custCode),
			CustomerName: r.str(d.custName),
			ProductCode:  r.str(d.prodCode),
			ProductName:  r.str(d.prodName),
			Sales:        r.num(sales),
			CostOfGoods:  r.num(cogs),
		}
		rec.GrossProfit = rec.Sales - rec.CostOfGoods
		if gp >= 0 {
			rec.GrossProfit = r.num(gp)
		}
		p.calculated["sales"] += rec.Sales
		out = append(out, rec)
	}
	return out, nil
}
