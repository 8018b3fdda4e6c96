// Package insight turns calculator outputs into short diagnostic messages
// and assembles them into a prioritised report.
//
// Every rule looks at one metric and is independent of the others, so the
// order of the generated list carries no meaning. Callers that display the
// list sort it with SortBySeverity.
package insight

import (
	"fmt"
	"sort"
	"strings"

	"erp_analytics/pkg/core/benchmark"
	"erp_analytics/pkg/core/costs"
	"erp_analytics/pkg/core/kpi"
	"erp_analytics/pkg/core/o2c"
	"erp_analytics/pkg/core/profitability"
	"erp_analytics/pkg/core/receivables"
	"erp_analytics/pkg/core/timeseries"
	"erp_analytics/pkg/core/utils"

	"github.com/google/uuid"
)

// Severity of an insight.
type Severity string

const (
	Critical Severity = "critical"
	Warning  Severity = "warning"
	Positive Severity = "positive"
	Neutral  Severity = "neutral"
)

// Category is the fixed insight taxonomy.
type Category string

const (
	CategorySales       Category = "sales"
	CategoryCollection  Category = "collection"
	CategoryProfit      Category = "profit"
	CategoryOrders      Category = "orders"
	CategoryReceivables Category = "receivables"
)

// Categories lists the taxonomy in report order.
var Categories = []Category{CategorySales, CategoryProfit, CategoryOrders, CategoryCollection, CategoryReceivables}

// Label returns the Korean section title of a category.
func (c Category) Label() string {
	switch c {
	case CategorySales:
		return "매출"
	case CategoryProfit:
		return "수익성"
	case CategoryOrders:
		return "수주"
	case CategoryCollection:
		return "수금"
	case CategoryReceivables:
		return "채권"
	default:
		return string(c)
	}
}

// Insight is one diagnostic message.
type Insight struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Value    *float64 `json:"value,omitempty"`
}

// Input bundles the calculator outputs the rules read. Zero-valued parts
// simply produce no insights.
type Input struct {
	Overview     kpi.Overview
	Trend        []kpi.TrendPoint
	Pipeline     o2c.Summary
	Risk         []receivables.RiskDistributionRow
	LongTerm     receivables.LongTermSummary
	Credit       []receivables.CreditUtilization
	DSO          float64
	DSOMeasured  bool
	Quadrants    []profitability.QuadrantPoint
	CostVariance costs.CostVarianceSummary
	Anomalies    []timeseries.EnhancedAnomaly
	Benchmark    *benchmark.Result
}

// namespace seeds deterministic insight IDs.
var namespace = uuid.MustParse("6f1c2a8e-3b7d-4c55-9a0e-2d4b8f1e7c30")

func newInsight(rule, key string, sev Severity, cat Category, title, msg string, value float64) Insight {
	v := value
	return Insight{
		ID:       uuid.NewSHA1(namespace, []byte(rule+"|"+key)).String(),
		Severity: sev,
		Category: cat,
		Title:    title,
		Message:  msg,
		Value:    &v,
	}
}

type rule func(Input) []Insight

var rules = []rule{
	planAchievementRule,
	salesGrowthRule,
	operatingMarginRule,
	costVarianceRule,
	quadrantRule,
	orderConversionRule,
	collectionRateRule,
	dsoRule,
	highRiskRule,
	longTermRule,
	creditRule,
	anomalyRule,
	benchmarkRule,
}

// Generate evaluates every rule.
func Generate(in Input) []Insight {
	var out []Insight
	for _, r := range rules {
		out = append(out, r(in)...)
	}
	return out
}

var severityRank = map[Severity]int{Critical: 0, Warning: 1, Positive: 2, Neutral: 3}

// SortBySeverity orders insights critical first, keeping rule order within
// a severity.
func SortBySeverity(insights []Insight) []Insight {
	out := append([]Insight(nil), insights...)
	sort.SliceStable(out, func(i, j int) bool {
		return severityRank[out[i].Severity] < severityRank[out[j].Severity]
	})
	return out
}

// =============================================================================
// SALES / PROFIT
// =============================================================================

func planAchievementRule(in Input) []Insight {
	o := in.Overview
	if o.SalesPlan <= 0 {
		return nil
	}
	rate := o.PlanAchievement
	msg := fmt.Sprintf("매출 실적 %s원, 계획 대비 달성률 %s입니다.", utils.FormatNumber(o.SalesActual), utils.FormatPercent(rate))
	switch {
	case rate >= 100:
		return []Insight{newInsight("plan", "", Positive, CategorySales, "매출 계획 초과 달성", msg, rate)}
	case rate < 70:
		return []Insight{newInsight("plan", "", Critical, CategorySales, "매출 계획 크게 미달", msg, rate)}
	case rate < 90:
		return []Insight{newInsight("plan", "", Warning, CategorySales, "매출 계획 미달", msg, rate)}
	}
	return nil
}

func salesGrowthRule(in Input) []Insight {
	if len(in.Trend) < 2 {
		return nil
	}
	last := in.Trend[len(in.Trend)-1]
	g := last.SalesGrowth
	msg := fmt.Sprintf("%s 매출이 전월 대비 %s 변동했습니다.", last.Month, utils.FormatSignedPercent(g))
	switch {
	case g >= 10:
		return []Insight{newInsight("growth", last.Month, Positive, CategorySales, "매출 성장세", msg, g)}
	case g <= -20:
		return []Insight{newInsight("growth", last.Month, Critical, CategorySales, "매출 급감", msg, g)}
	case g <= -10:
		return []Insight{newInsight("growth", last.Month, Warning, CategorySales, "매출 감소", msg, g)}
	}
	return nil
}

func operatingMarginRule(in Input) []Insight {
	o := in.Overview
	if o.SalesActual == 0 {
		return nil
	}
	m := o.OperatingMargin
	msg := fmt.Sprintf("영업이익 %s원, 영업이익률 %s입니다.", utils.FormatNumber(o.OperatingProfit), utils.FormatPercent(m))
	switch {
	case m < 0:
		return []Insight{newInsight("op_margin", "", Critical, CategoryProfit, "영업 적자", msg, m)}
	case m < 3:
		return []Insight{newInsight("op_margin", "", Warning, CategoryProfit, "낮은 영업이익률", msg, m)}
	case m >= 10:
		return []Insight{newInsight("op_margin", "", Positive, CategoryProfit, "우수한 영업이익률", msg, m)}
	}
	return nil
}

func costVarianceRule(in Input) []Insight {
	cv := in.CostVariance
	if cv.TotalPlan == 0 {
		return nil
	}
	pct := costs.VariancePercent(cv.TotalPlan, cv.TotalActual)
	if pct <= 5 {
		return nil
	}
	msg := fmt.Sprintf("비용 실적이 계획을 %s원(%s) 초과했습니다. 초과 항목 %d개.",
		utils.FormatNumber(cv.TotalVariance), utils.FormatSignedPercent(pct), cv.OverBudgetCount)
	if len(cv.Items) > 0 && cv.Items[0].Variance > 0 {
		msg += fmt.Sprintf(" 최대 초과 항목은 %s입니다.", cv.Items[0].Label)
	}
	sev := Warning
	if pct > 15 {
		sev = Critical
	}
	return []Insight{newInsight("cost_variance", "", sev, CategoryProfit, "비용 계획 초과", msg, pct)}
}

func quadrantRule(in Input) []Insight {
	var out []Insight
	var dogs, stars []string
	for _, p := range in.Quadrants {
		switch p.Quadrant {
		case profitability.QuadrantDog:
			dogs = append(dogs, p.Org)
		case profitability.QuadrantStar:
			stars = append(stars, p.Org)
		}
	}
	if len(dogs) > 0 {
		msg := fmt.Sprintf("수익성과 채권 위험이 모두 취약한 조직: %s.", joinNames(dogs, "곳"))
		out = append(out, newInsight("quadrant", "dog", Warning, CategoryProfit, "구조 개선 필요 조직", msg, float64(len(dogs))))
	}
	if len(stars) > 0 {
		msg := fmt.Sprintf("수익성과 채권 건전성이 모두 양호한 조직: %s.", joinNames(stars, "곳"))
		out = append(out, newInsight("quadrant", "star", Positive, CategoryProfit, "우수 조직", msg, float64(len(stars))))
	}
	return out
}

// =============================================================================
// ORDERS / COLLECTION / RECEIVABLES
// =============================================================================

func orderConversionRule(in Input) []Insight {
	p := in.Pipeline
	if p.TotalOrders <= 0 {
		return nil
	}
	r := p.ConversionRate
	msg := fmt.Sprintf("수주 %s원 중 %s가 매출로 전환되었습니다. 미전환 잔량 %s원.",
		utils.FormatNumber(p.TotalOrders), utils.FormatPercent(r), utils.FormatNumber(p.OrderBacklog))
	switch {
	case r < 70:
		return []Insight{newInsight("conversion", "", Warning, CategoryOrders, "수주 매출전환 지연", msg, r)}
	case r >= 90:
		return []Insight{newInsight("conversion", "", Positive, CategoryOrders, "원활한 수주 전환", msg, r)}
	}
	return []Insight{newInsight("conversion", "", Neutral, CategoryOrders, "수주 전환 현황", msg, r)}
}

func collectionRateRule(in Input) []Insight {
	o := in.Overview
	if o.TotalSales <= 0 {
		return nil
	}
	r := o.CollectionRate
	msg := fmt.Sprintf("매출 %s원 대비 수금 %s원, 수금률 %s입니다.",
		utils.FormatNumber(o.TotalSales), utils.FormatNumber(o.TotalCollections), utils.FormatPercent(r))
	switch {
	case r < 80:
		return []Insight{newInsight("collection", "", Critical, CategoryCollection, "수금률 저조", msg, r)}
	case r < 90:
		return []Insight{newInsight("collection", "", Warning, CategoryCollection, "수금률 주의", msg, r)}
	case r >= 95:
		return []Insight{newInsight("collection", "", Positive, CategoryCollection, "양호한 수금률", msg, r)}
	}
	return nil
}

func dsoRule(in Input) []Insight {
	if !in.DSOMeasured {
		return nil
	}
	d := in.DSO
	msg := fmt.Sprintf("매출채권 회수기간(DSO)이 %s입니다.", utils.FormatDays(d))
	switch {
	case d > 90:
		return []Insight{newInsight("dso", "", Critical, CategoryCollection, "채권 회수 장기화", msg, d)}
	case d > 60:
		return []Insight{newInsight("dso", "", Warning, CategoryCollection, "채권 회수 지연", msg, d)}
	case d < 30:
		return []Insight{newInsight("dso", "", Positive, CategoryCollection, "빠른 채권 회수", msg, d)}
	}
	return nil
}

func highRiskRule(in Input) []Insight {
	for _, row := range in.Risk {
		if row.Grade != receivables.RiskHigh || row.Count == 0 {
			continue
		}
		msg := fmt.Sprintf("고위험 거래처 %d곳, 채권 %s원(전체의 %s)입니다.", row.Count, utils.FormatNumber(row.Amount), utils.FormatPercent(row.Share))
		switch {
		case row.Share >= 20:
			return []Insight{newInsight("high_risk", "", Critical, CategoryReceivables, "고위험 채권 비중 과다", msg, row.Share)}
		case row.Share >= 10:
			return []Insight{newInsight("high_risk", "", Warning, CategoryReceivables, "고위험 채권 증가", msg, row.Share)}
		}
		return []Insight{newInsight("high_risk", "", Neutral, CategoryReceivables, "고위험 채권 현황", msg, row.Share)}
	}
	return nil
}

func longTermRule(in Input) []Insight {
	lt := in.LongTerm
	if lt.Total <= 0 {
		return nil
	}
	r := lt.LongTermRatio
	msg := fmt.Sprintf("장기 채권(151일 이상) %s원, 비중 %s. 예상 대손충당금 %s원.",
		utils.FormatNumber(lt.LongTerm), utils.FormatPercent(r), utils.FormatNumber(lt.Provision))
	switch {
	case r >= 20:
		return []Insight{newInsight("long_term", "", Critical, CategoryReceivables, "장기 채권 과다", msg, r)}
	case r >= 10:
		return []Insight{newInsight("long_term", "", Warning, CategoryReceivables, "장기 채권 주의", msg, r)}
	}
	if lt.Provision > 0 {
		return []Insight{newInsight("long_term", "", Neutral, CategoryReceivables, "대손충당금 추정", msg, lt.Provision)}
	}
	return nil
}

func creditRule(in Input) []Insight {
	var danger []string
	for _, c := range in.Credit {
		if c.Status == receivables.CreditDanger {
			name := c.CustomerName
			if name == "" {
				name = c.CustomerCode
			}
			danger = append(danger, name)
		}
	}
	if len(danger) == 0 {
		return nil
	}
	msg := fmt.Sprintf("여신 한도를 초과한 거래처 %d곳: %s.", len(danger), joinNames(danger, "곳"))
	sev := Warning
	if len(danger) >= 3 {
		sev = Critical
	}
	return []Insight{newInsight("credit", "", sev, CategoryReceivables, "여신 한도 초과", msg, float64(len(danger)))}
}

func anomalyRule(in Input) []Insight {
	var out []Insight
	for _, a := range in.Anomalies {
		sev := Neutral
		switch a.Severity {
		case timeseries.SeverityCritical:
			sev = Critical
		case timeseries.SeverityHigh:
			sev = Warning
		}
		title := "매출 이상 급증"
		if a.Direction == timeseries.DirectionLower {
			title = "매출 이상 급감"
		}
		out = append(out, newInsight("anomaly", a.Month, sev, CategorySales, title, a.Description, a.Value))
	}
	return out
}

func benchmarkRule(in Input) []Insight {
	b := in.Benchmark
	if b == nil || len(b.Metrics) == 0 {
		return nil
	}
	var below []string
	for _, m := range b.Metrics {
		if m.Position == benchmark.Below {
			below = append(below, m.Label)
		}
	}
	msg := fmt.Sprintf("업종 평균 대비 종합 점수 %.1f점(%s등급).", b.Score, b.Grade)
	if len(below) > 0 {
		msg += fmt.Sprintf(" 평균 미달 지표: %s.", joinNames(below, "개"))
	}
	switch {
	case b.Score >= 80:
		return []Insight{newInsight("benchmark", "", Positive, CategoryProfit, "업종 평균 상회", msg, b.Score)}
	case b.Score < 40:
		return []Insight{newInsight("benchmark", "", Warning, CategoryProfit, "업종 평균 하회", msg, b.Score)}
	}
	return []Insight{newInsight("benchmark", "", Neutral, CategoryProfit, "업종 비교", msg, b.Score)}
}

// joinNames lists up to five names and counts the rest with the given
// counter word ("곳" for organizations and customers, "개" for metrics).
func joinNames(names []string, counter string) string {
	const shown = 5
	if len(names) <= shown {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s 외 %d%s", strings.Join(names[:shown], ", "), len(names)-shown, counter)
}
