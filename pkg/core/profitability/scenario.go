package profitability

import (
	"errors"
	"fmt"
	"math"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// ErrInvalidGrid is returned for a sensitivity grid that cannot be walked.
var ErrInvalidGrid = errors.New("invalid sensitivity grid")

// maxGridAxis caps the points per axis.
const maxGridAxis = 41

// Figures is a profit-and-loss snapshot.
type Figures struct {
	Sales           float64 `json:"sales"`
	COGS            float64 `json:"cogs"`
	GrossProfit     float64 `json:"gross_profit"`
	SGA             float64 `json:"sga"`
	OperatingProfit float64 `json:"operating_profit"`
	GrossMargin     float64 `json:"gross_margin"`
	OperatingMargin float64 `json:"operating_margin"`
}

// BaseFigures sums the actual columns of the org profit report. Profit lines
// are taken as reported, not rederived from sales and costs.
func BaseFigures(orgProfit []models.OrgProfitRecord) Figures {
	f := Figures{
		Sales:           calc.SumBy(orgProfit, func(r models.OrgProfitRecord) float64 { return r.Sales.Actual }),
		COGS:            calc.SumBy(orgProfit, func(r models.OrgProfitRecord) float64 { return r.CostOfGoods.Actual }),
		GrossProfit:     calc.SumBy(orgProfit, func(r models.OrgProfitRecord) float64 { return r.GrossProfit.Actual }),
		SGA:             calc.SumBy(orgProfit, func(r models.OrgProfitRecord) float64 { return r.SGA.Actual }),
		OperatingProfit: calc.SumBy(orgProfit, func(r models.OrgProfitRecord) float64 { return r.OperatingProfit.Actual }),
	}
	return f.withMargins()
}

func (f Figures) withMargins() Figures {
	f.GrossMargin = calc.SafePercent(f.GrossProfit, f.Sales)
	f.OperatingMargin = calc.SafePercent(f.OperatingProfit, f.Sales)
	return f
}

// =============================================================================
// WHAT-IF
// =============================================================================

// Scenario holds the what-if levers. Zero values leave the base unchanged.
type Scenario struct {
	SalesChangePct    float64 `json:"sales_change_pct"`
	CostRateChangePts float64 `json:"cost_rate_change_pts"` // COGS / sales, percentage points
	SGAChangePct      float64 `json:"sga_change_pct"`
}

// IsZero reports whether every lever is at zero.
func (s Scenario) IsZero() bool {
	return s == Scenario{}
}

// WhatIfResult compares base and scenario figures.
type WhatIfResult struct {
	Scenario    Scenario `json:"scenario"`
	Base        Figures  `json:"base"`
	Result      Figures  `json:"result"`
	Delta       Figures  `json:"delta"`
	OPChangePct float64  `json:"op_change_pct"` // relative to |base OP|
}

// CalcWhatIfScenario applies the levers to base. COGS follows sales at the
// base cost rate and then shifts by CostRateChangePts of the new sales. SG&A
// moves by its own percentage. Profit lines move by the deltas of their
// inputs, so a zero scenario reproduces base exactly.
//
// Result OP is base OP + ΔSales − ΔCOGS − ΔSG&A rather than S' − C' − SG&A'.
// The two agree when base OP equals Sales − COGS − SG&A. A reported base that
// also carries other operating lines keeps them unchanged in the result.
func CalcWhatIfScenario(base Figures, s Scenario) WhatIfResult {
	salesFactor := 1 + s.SalesChangePct/100

	r := Figures{}
	r.Sales = base.Sales * salesFactor
	r.COGS = base.COGS*salesFactor + r.Sales*s.CostRateChangePts/100
	r.SGA = base.SGA * (1 + s.SGAChangePct/100)

	dSales := r.Sales - base.Sales
	dCOGS := r.COGS - base.COGS
	dSGA := r.SGA - base.SGA
	r.GrossProfit = base.GrossProfit + dSales - dCOGS
	r.OperatingProfit = base.OperatingProfit + dSales - dCOGS - dSGA
	r = r.withMargins()

	return WhatIfResult{
		Scenario:    s,
		Base:        base,
		Result:      r,
		Delta:       diffFigures(r, base),
		OPChangePct: calc.GrowthRate(r.OperatingProfit, base.OperatingProfit),
	}
}

func diffFigures(a, b Figures) Figures {
	return Figures{
		Sales:           a.Sales - b.Sales,
		COGS:            a.COGS - b.COGS,
		GrossProfit:     a.GrossProfit - b.GrossProfit,
		SGA:             a.SGA - b.SGA,
		OperatingProfit: a.OperatingProfit - b.OperatingProfit,
		GrossMargin:     a.GrossMargin - b.GrossMargin,
		OperatingMargin: a.OperatingMargin - b.OperatingMargin,
	}
}

// =============================================================================
// SENSITIVITY
// =============================================================================

// GridSpec defines the price and volume axes in percent.
type GridSpec struct {
	PriceMin   float64 `yaml:"price_min" json:"price_min"`
	PriceMax   float64 `yaml:"price_max" json:"price_max"`
	PriceStep  float64 `yaml:"price_step" json:"price_step"`
	VolumeMin  float64 `yaml:"volume_min" json:"volume_min"`
	VolumeMax  float64 `yaml:"volume_max" json:"volume_max"`
	VolumeStep float64 `yaml:"volume_step" json:"volume_step"`
}

// DefaultGridSpec walks -10%..+10% in 5% steps on both axes.
var DefaultGridSpec = GridSpec{PriceMin: -10, PriceMax: 10, PriceStep: 5, VolumeMin: -10, VolumeMax: 10, VolumeStep: 5}

// SensitivityCell is one price x volume combination.
type SensitivityCell struct {
	PriceChange     float64 `json:"price_change"`
	VolumeChange    float64 `json:"volume_change"`
	Sales           float64 `json:"sales"`
	GrossProfit     float64 `json:"gross_profit"`
	OperatingProfit float64 `json:"operating_profit"`
	SalesDelta      float64 `json:"sales_delta"`
	GPDelta         float64 `json:"gp_delta"`
	OPDelta         float64 `json:"op_delta"`
	OperatingMargin float64 `json:"operating_margin"`
}

// SensitivityGrid is the full cross table; Cells[i][j] is PriceAxis[i] by
// VolumeAxis[j].
type SensitivityGrid struct {
	Base           Figures             `json:"base"`
	PriceAxis      []float64           `json:"price_axis"`
	VolumeAxis     []float64           `json:"volume_axis"`
	Cells          [][]SensitivityCell `json:"cells"`
	DominantLever  string              `json:"dominant_lever"`
	PriceImpact    float64             `json:"price_impact"`  // OP delta per +1% price
	VolumeImpact   float64             `json:"volume_impact"` // OP delta per +1% volume
	Recommendation string              `json:"recommendation"`
}

func axis(name string, lo, hi, step float64) ([]float64, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, fmt.Errorf("%w: %s step %v must be positive", ErrInvalidGrid, name, step)
	}
	if lo > hi {
		return nil, fmt.Errorf("%w: %s min %v exceeds max %v", ErrInvalidGrid, name, lo, hi)
	}
	span := (hi - lo) / step
	if math.IsNaN(span) || math.IsInf(span, 0) || span > maxGridAxis {
		return nil, fmt.Errorf("%w: %s axis spans %v steps, limit %d points", ErrInvalidGrid, name, span, maxGridAxis)
	}
	n := int(math.Floor(span+1e-9)) + 1
	if n > maxGridAxis {
		return nil, fmt.Errorf("%w: %s axis has %d points, limit %d", ErrInvalidGrid, name, n, maxGridAxis)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = calc.Round(lo+float64(i)*step, 6)
	}
	return out, nil
}

// SensitivityCellAt evaluates one grid point. Price moves sales only;
// volume moves sales and COGS together; SG&A stays fixed.
func SensitivityCellAt(base Figures, priceChange, volumeChange float64) SensitivityCell {
	p := 1 + priceChange/100
	v := 1 + volumeChange/100
	sales := base.Sales * p * v
	cogs := base.COGS * v

	c := SensitivityCell{
		PriceChange:  priceChange,
		VolumeChange: volumeChange,
		Sales:        sales,
		SalesDelta:   sales - base.Sales,
	}
	c.GPDelta = c.SalesDelta - (cogs - base.COGS)
	c.OPDelta = c.GPDelta
	c.GrossProfit = base.GrossProfit + c.GPDelta
	c.OperatingProfit = base.OperatingProfit + c.OPDelta
	c.OperatingMargin = calc.SafePercent(c.OperatingProfit, c.Sales)
	return c
}

// CalcSensitivityGrid builds the price x volume table and names the lever
// with the larger operating profit impact. Lever impacts within 10% of each
// other are reported as balanced.
func CalcSensitivityGrid(base Figures, spec GridSpec) (*SensitivityGrid, error) {
	prices, err := axis("price", spec.PriceMin, spec.PriceMax, spec.PriceStep)
	if err != nil {
		return nil, err
	}
	volumes, err := axis("volume", spec.VolumeMin, spec.VolumeMax, spec.VolumeStep)
	if err != nil {
		return nil, err
	}

	g := &SensitivityGrid{
		Base:       base,
		PriceAxis:  prices,
		VolumeAxis: volumes,
		Cells:      make([][]SensitivityCell, len(prices)),
	}
	for i, p := range prices {
		g.Cells[i] = make([]SensitivityCell, len(volumes))
		for j, v := range volumes {
			g.Cells[i][j] = SensitivityCellAt(base, p, v)
		}
	}

	g.PriceImpact = SensitivityCellAt(base, 1, 0).OPDelta
	g.VolumeImpact = SensitivityCellAt(base, 0, 1).OPDelta
	g.DominantLever = DominantLever(g.PriceImpact, g.VolumeImpact)
	g.Recommendation = leverRecommendation(g.DominantLever)
	return g, nil
}

// DominantLever compares the absolute profit impacts of +1% price and +1%
// volume.
func DominantLever(priceImpact, volumeImpact float64) string {
	p, v := math.Abs(priceImpact), math.Abs(volumeImpact)
	switch {
	case p == 0 && v == 0:
		return "none"
	case math.Abs(p-v) <= 0.1*math.Max(p, v):
		return "balanced"
	case p > v:
		return "price"
	default:
		return "volume"
	}
}

func leverRecommendation(lever string) string {
	switch lever {
	case "price":
		return "가격 변동이 영업이익에 더 큰 영향을 줍니다. 가격 인상 여력과 할인 정책을 우선 검토하세요."
	case "volume":
		return "물량 변동이 영업이익에 더 큰 영향을 줍니다. 판매량 확대와 신규 거래처 확보에 집중하세요."
	case "balanced":
		return "가격과 물량의 영향이 비슷합니다. 두 레버를 함께 관리하세요."
	default:
		return "매출 기반이 없어 민감도를 판단할 수 없습니다."
	}
}

// =============================================================================
// BREAK-EVEN
// =============================================================================

// BreakEven is the break-even analysis of one org team.
type BreakEven struct {
	OrgTeam           string  `json:"org_team"`
	Sales             float64 `json:"sales"`
	VariableCost      float64 `json:"variable_cost"`
	FixedCost         float64 `json:"fixed_cost"`
	ContributionRatio float64 `json:"contribution_ratio"` // (sales - variable) / sales * 100
	BreakEvenSales    float64 `json:"break_even_sales"`
	SafetyMargin      float64 `json:"safety_margin"` // (sales - BEP) / sales * 100
	Reachable         bool    `json:"reachable"`     // false when the contribution ratio is not positive
}

// CalcBreakEven derives the break-even sales of each org team from the team
// contribution report. Teams with no positive contribution ratio are marked
// unreachable with zero break-even sales.
func CalcBreakEven(team []models.TeamContributionRecord) []BreakEven {
	groups := calc.GroupBy(team, func(r models.TeamContributionRecord) string { return r.OrgTeam })
	out := make([]BreakEven, 0, len(groups))
	for _, name := range calc.SortedKeys(groups) {
		rows := groups[name]
		b := BreakEven{
			OrgTeam:      name,
			Sales:        calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.Sales.Actual }),
			VariableCost: calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.VariableCost().Actual }),
			FixedCost:    calc.SumBy(rows, func(r models.TeamContributionRecord) float64 { return r.FixedCost().Actual }),
		}
		ratio := calc.SafeDiv(b.Sales-b.VariableCost, b.Sales)
		b.ContributionRatio = ratio * 100
		if ratio > 0 {
			b.Reachable = true
			b.BreakEvenSales = b.FixedCost / ratio
			b.SafetyMargin = calc.SafePercent(b.Sales-b.BreakEvenSales, b.Sales)
		}
		out = append(out, b)
	}
	return out
}
