// Package profitability combines profit figures with receivables risk and
// runs scenario analysis: the profit x risk quadrant, what-if scenarios,
// price x volume sensitivity grids and break-even points.
package profitability

import (
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/core/receivables"
	"erp_analytics/pkg/models"
)

// Quadrant labels a profit x risk position.
type Quadrant string

const (
	QuadrantStar         Quadrant = "star"          // margin high, risk low
	QuadrantCashCow      Quadrant = "cash_cow"      // margin high, risk high
	QuadrantProblemChild Quadrant = "problem_child" // margin low, risk low
	QuadrantDog          Quadrant = "dog"           // margin low, risk high
)

// ReferenceLines split the matrix. A point on a line belongs to the high
// side of it.
type ReferenceLines struct {
	Margin float64 `yaml:"margin" json:"margin"`
	Risk   float64 `yaml:"risk" json:"risk"`
}

// DefaultReferenceLines: 5% operating margin, risk score 40.
var DefaultReferenceLines = ReferenceLines{Margin: 5, Risk: 40}

var recommendations = map[Quadrant]string{
	QuadrantStar:         "수익성과 채권 건전성이 모두 양호합니다. 현재 전략을 유지하고 투자를 확대하세요.",
	QuadrantCashCow:      "수익성은 높지만 채권 위험이 큽니다. 장기 미수 채권 회수와 여신 한도 관리를 강화하세요.",
	QuadrantProblemChild: "채권은 안정적이지만 수익성이 낮습니다. 가격 정책과 원가 구조를 재검토하세요.",
	QuadrantDog:          "수익성과 채권 건전성이 모두 취약합니다. 사업 구조조정 또는 거래 조건 재협상이 필요합니다.",
}

// Recommendation returns the action text of a quadrant.
func (q Quadrant) Recommendation() string {
	return recommendations[q]
}

// QuadrantPoint is one org on the matrix.
type QuadrantPoint struct {
	Org             string   `json:"org"`
	Sales           float64  `json:"sales"`
	OperatingProfit float64  `json:"operating_profit"`
	OperatingMargin float64  `json:"operating_margin"`
	RiskScore       float64  `json:"risk_score"`
	Receivables     float64  `json:"receivables"`
	Quadrant        Quadrant `json:"quadrant"`
	Recommendation  string   `json:"recommendation"`
}

// ClassifyQuadrant places a margin/risk pair.
func ClassifyQuadrant(margin, risk float64, lines ReferenceLines) Quadrant {
	highMargin := margin >= lines.Margin
	highRisk := risk >= lines.Risk
	switch {
	case highMargin && !highRisk:
		return QuadrantStar
	case highMargin && highRisk:
		return QuadrantCashCow
	case !highMargin && !highRisk:
		return QuadrantProblemChild
	default:
		return QuadrantDog
	}
}

// CalcProfitRiskMatrix joins org profit with the aging risk score of the
// same org. Aging orgs are matched exactly first, then by containment; an
// org without aging data scores 0 risk. Points are ordered by sales.
func CalcProfitRiskMatrix(orgProfit []models.OrgProfitRecord, aging []models.ReceivableAgingRecord, lines ReferenceLines) []QuadrantPoint {
	scores := receivables.RiskScoreByOrg(aging)
	balances := calc.SumByKey(aging, func(r models.ReceivableAgingRecord) string { return r.Org },
		func(r models.ReceivableAgingRecord) float64 { return r.Total.BookAmount })

	groups := calc.GroupBy(orgProfit, func(r models.OrgProfitRecord) string { return r.Org })
	out := make([]QuadrantPoint, 0, len(groups))
	for org, rows := range groups {
		sales := calc.SumBy(rows, func(r models.OrgProfitRecord) float64 { return r.Sales.Actual })
		op := calc.SumBy(rows, func(r models.OrgProfitRecord) float64 { return r.OperatingProfit.Actual })

		p := QuadrantPoint{
			Org:             org,
			Sales:           sales,
			OperatingProfit: op,
			OperatingMargin: calc.SafePercent(op, sales),
		}
		if key, ok := lookupOrg(org, scores); ok {
			p.RiskScore = scores[key]
			p.Receivables = balances[key]
		}
		p.Quadrant = ClassifyQuadrant(p.OperatingMargin, p.RiskScore, lines)
		p.Recommendation = p.Quadrant.Recommendation()
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		return out[i].Org < out[j].Org
	})
	return out
}

func lookupOrg(org string, scores map[string]float64) (string, bool) {
	if _, ok := scores[org]; ok {
		return org, true
	}
	for _, key := range calc.SortedKeys(scores) {
		if calc.MatchOrg(org, key) {
			return key, true
		}
	}
	return "", false
}

// QuadrantSummary counts points per quadrant.
type QuadrantSummary struct {
	Quadrant Quadrant `json:"quadrant"`
	Count    int      `json:"count"`
	Sales    float64  `json:"sales"`
	Orgs     []string `json:"orgs"`
}

// SummarizeQuadrants groups points in star, cash cow, problem child, dog
// order.
func SummarizeQuadrants(points []QuadrantPoint) []QuadrantSummary {
	order := []Quadrant{QuadrantStar, QuadrantCashCow, QuadrantProblemChild, QuadrantDog}
	out := make([]QuadrantSummary, len(order))
	for i, q := range order {
		out[i].Quadrant = q
		for _, p := range points {
			if p.Quadrant == q {
				out[i].Count++
				out[i].Sales += p.Sales
				out[i].Orgs = append(out[i].Orgs, p.Org)
			}
		}
	}
	return out
}
