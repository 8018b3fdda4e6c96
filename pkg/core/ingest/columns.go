package ingest

import (
	"fmt"
	"strings"

	"erp_analytics/pkg/models"
)

// Column header aliases, matched after normalizeHeader. Earlier aliases win.
var (
	aliasOrg          = []string{"영업조직", "조직", "사업부", "부서", "org"}
	aliasOrgTeam      = []string{"영업조직팀", "영업팀", "조직팀", "팀", "team"}
	aliasSalesperson  = []string{"영업사원", "영업담당자", "영업담당", "담당자", "사원명", "salesperson"}
	aliasCustomerCode = []string{"거래처코드", "고객코드", "매출처코드", "판매처코드", "customercode"}
	aliasCustomerName = []string{"거래처명", "거래처", "고객명", "매출처명", "매출처", "판매처", "customer"}
	aliasProductCode  = []string{"품목코드", "제품코드", "자재코드", "자재", "productcode"}
	aliasProductName  = []string{"품목명", "제품명", "자재명", "자재내역", "product"}
	aliasProductGroup = []string{"품목그룹", "제품군", "제품그룹", "품목군"}
	aliasQuantity     = []string{"수량", "판매수량", "매출수량", "수주수량", "quantity"}
	aliasCurrency     = []string{"통화", "거래통화", "currency"}
	aliasRate         = []string{"환율", "exchangerate"}
	aliasTxAmount     = []string{"거래금액", "거래통화금액", "외화금액", "판매금액거래통화"}
	aliasCreditLimit  = []string{"여신한도", "신용한도", "한도", "creditlimit"}

	aliasSalesDate      = []string{"매출일자", "매출일", "전표일자", "청구일", "일자", "billingdate", "date"}
	aliasSalesBook      = []string{"장부금액", "원화금액", "매출액", "매출금액", "공급가액", "금액", "amount"}
	aliasOrderDate      = []string{"수주일자", "수주일", "주문일자", "오더일자", "일자", "date"}
	aliasOrderNo        = []string{"수주번호", "주문번호", "오더번호", "판매오더"}
	aliasOrderBook      = []string{"장부금액", "원화금액", "수주금액", "수주액", "금액", "amount"}
	aliasCollectionDate = []string{"수금일자", "수금일", "입금일자", "입금일", "일자", "date"}
	aliasCollectionType = []string{"수금유형", "수금구분", "입금유형", "결제수단"}
	aliasCollectionBook = []string{"장부금액", "원화금액", "수금액", "수금금액", "입금액", "금액", "amount"}

	metricSales           = []string{"매출액", "매출", "sales"}
	metricCOGS            = []string{"매출원가", "원가", "cogs"}
	metricGrossProfit     = []string{"매출총이익", "총이익", "grossprofit"}
	metricSGA             = []string{"판매관리비", "판관비", "판매비와관리비", "sga"}
	metricOperatingProfit = []string{"영업이익", "operatingprofit"}
	metricContribution    = []string{"공헌이익", "contributionmargin"}
	metricGrossMargin     = []string{"매출총이익률", "총이익률"}
	metricOperatingMargin = []string{"영업이익률"}
	metricRawMaterial     = []string{"원재료비", "재료비"}
	metricPurchasedGoods  = []string{"상품매입비", "상품원가", "상품비"}
	metricLabor           = []string{"노무비", "인건비"}
	metricFacility        = []string{"설비비", "감가상각비", "제조경비"}
	metricOutsourcing     = []string{"외주가공비", "외주비"}
	metricLogistics       = []string{"물류비", "운반비"}
	metricGeneral         = []string{"일반관리비", "기타비용", "기타"}
)

var (
	planSuffixes   = []string{"계획", "목표", "plan"}
	actualSuffixes = []string{"실적", "actual"}
	diffSuffixes   = []string{"차이", "증감", "diff"}
)

// columns resolves header aliases to column indexes.
type columns struct {
	headers []string
	index   map[string]int // normalized header -> first column
	used    map[int]bool
}

func newColumns(headers []string) *columns {
	c := &columns{headers: headers, index: map[string]int{}, used: map[int]bool{}}
	for i, h := range headers {
		n := normalizeHeader(h)
		if _, dup := c.index[n]; n != "" && !dup {
			c.index[n] = i
		}
	}
	return c
}

// find returns the column of the first alias present, or -1.
func (c *columns) find(aliases []string) int {
	for _, a := range aliases {
		if i, ok := c.index[normalizeHeader(a)]; ok {
			c.used[i] = true
			return i
		}
	}
	return -1
}

// padCols locates the plan, actual and diff columns of one metric. bare is
// a suffix-less column read as actual when no actual column exists.
type padCols struct {
	plan, actual, diff, bare int
}

func (p padCols) found() bool {
	return p.plan >= 0 || p.actual >= 0 || p.bare >= 0
}

func (c *columns) findPAD(metric []string) padCols {
	for _, m := range metric {
		p := padCols{
			plan:   c.find(suffixed(m, planSuffixes)),
			actual: c.find(suffixed(m, actualSuffixes)),
			diff:   c.find(suffixed(m, diffSuffixes)),
			bare:   -1,
		}
		if p.actual < 0 {
			p.bare = c.find([]string{m})
		}
		if p.found() {
			return p
		}
	}
	return padCols{plan: -1, actual: -1, diff: -1, bare: -1}
}

func suffixed(metric string, suffixes []string) []string {
	out := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		out = append(out, metric+s)
	}
	return out
}

// unusedMetrics lists metric names whose plan or actual column nothing
// consumed, mapped to their columns.
func (c *columns) unusedMetrics() map[string]padCols {
	out := map[string]padCols{}
	for i, h := range c.headers {
		if c.used[i] {
			continue
		}
		n := normalizeHeader(h)
		for _, s := range append(append([]string{}, planSuffixes...), actualSuffixes...) {
			base, ok := strings.CutSuffix(n, s)
			if !ok || base == "" {
				continue
			}
			if _, seen := out[base]; !seen {
				out[base] = c.findPAD([]string{base})
			}
		}
	}
	return out
}

// =============================================================================
// ROW ACCESS
// =============================================================================

// MaxWarnings caps the warnings kept per upload.
const MaxWarnings = 50

// Warnings collects per-row data problems up to MaxWarnings and counts the
// rest.
type Warnings struct {
	list    []string
	dropped int
}

// Addf records one warning.
func (w *Warnings) Addf(format string, args ...any) {
	if len(w.list) >= MaxWarnings {
		w.dropped++
		return
	}
	w.list = append(w.list, fmt.Sprintf(format, args...))
}

// List returns the kept warnings.
func (w *Warnings) List() []string { return w.list }

// Dropped returns how many warnings exceeded the cap.
func (w *Warnings) Dropped() int { return w.dropped }

type rowReader struct {
	cells   []string
	line    int
	headers []string
	w       *Warnings
}

func (r rowReader) str(col int) string {
	if col < 0 || col >= len(r.cells) {
		return ""
	}
	return r.cells[col]
}

func (r rowReader) num(col int) float64 {
	if col < 0 || col >= len(r.cells) {
		return 0
	}
	v, ok := ParseNumber(r.cells[col])
	if !ok {
		r.w.Addf("%d행 %s: 숫자가 아닌 값 %q를 0으로 처리했습니다", r.line, r.headers[col], r.cells[col])
	}
	return v
}

func (r rowReader) pad(p padCols) models.PlanActualDiff {
	plan := r.num(p.plan)
	actual := r.num(p.actual)
	if p.actual < 0 {
		actual = r.num(p.bare)
	}
	if p.diff < 0 {
		return models.NewPAD(plan, actual)
	}
	return models.PlanActualDiff{Plan: plan, Actual: actual, Diff: r.num(p.diff)}
}
