// Package dashboard runs every calculator over one filtered dataset and
// collects the results into a Snapshot. Filter changes recompute the whole
// snapshot; nothing is cached between builds.
package dashboard

import (
	"time"

	"erp_analytics/pkg/core/benchmark"
	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/core/cashcycle"
	"erp_analytics/pkg/core/cohort"
	"erp_analytics/pkg/core/config"
	"erp_analytics/pkg/core/costs"
	"erp_analytics/pkg/core/fx"
	"erp_analytics/pkg/core/insight"
	"erp_analytics/pkg/core/kpi"
	"erp_analytics/pkg/core/o2c"
	"erp_analytics/pkg/core/pareto"
	"erp_analytics/pkg/core/profitability"
	"erp_analytics/pkg/core/receivables"
	"erp_analytics/pkg/core/timeseries"
	"erp_analytics/pkg/models"

	"github.com/google/uuid"
)

// Snapshot is one computed dashboard.
type Snapshot struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Filter    models.Filter `json:"filter"`

	// ItemSource names the extract behind the item-level sections.
	ItemSource string `json:"item_source,omitempty"`

	// KPI
	Overview           kpi.Overview            `json:"overview"`
	Trend              []kpi.TrendPoint        `json:"trend"`
	Comparison         []kpi.PeriodComparison  `json:"comparison,omitempty"`
	OrgRanking         []kpi.OrgRank           `json:"org_ranking"`
	SalespersonRanking []kpi.SalespersonRank   `json:"salesperson_ranking"`
	CostStructure      []kpi.CostStructureRow  `json:"cost_structure"`
	Heatmap            []kpi.HeatmapCell       `json:"heatmap"`

	// Order to cash
	Pipeline        []o2c.PipelineStage     `json:"pipeline"`
	Conversion      []o2c.MonthlyConversion `json:"conversion"`
	PipelineSummary o2c.Summary             `json:"pipeline_summary"`

	// Receivables and cash cycle
	Aging            []receivables.AgingBucketSummary  `json:"aging"`
	Risk             []receivables.RiskAssessment      `json:"risk"`
	RiskDistribution []receivables.RiskDistributionRow `json:"risk_distribution"`
	Credit           []receivables.CreditUtilization   `json:"credit"`
	LongTerm         receivables.LongTermSummary       `json:"long_term"`
	DSO              []cashcycle.DSOMetric             `json:"dso"`
	OverallDSO       *float64                          `json:"overall_dso"`
	CCC              []cashcycle.CCCMetric             `json:"ccc"`

	// Pareto
	CustomerABC         []pareto.Item         `json:"customer_abc"`
	CustomerABCSummary  []pareto.GradeSummary `json:"customer_abc_summary"`
	CustomerConcentrate pareto.Concentration  `json:"customer_concentration"`
	ProductABC          []pareto.Item         `json:"product_abc"`
	CustomerProfitABC   []pareto.Item         `json:"customer_profit_abc"`
	CostDriverABC       []pareto.Item         `json:"cost_driver_abc"`

	// Costs and profitability
	CostVariance      costs.CostVarianceSummary       `json:"cost_variance"`
	TeamCosts         []costs.TeamCost                `json:"team_costs"`
	CostSplit         []costs.CostSplit               `json:"cost_split"`
	ProductStructures []costs.StructureProfile        `json:"product_structures"`
	StructureCounts   []costs.StructureCount          `json:"structure_counts"`
	Quadrants         []profitability.QuadrantPoint   `json:"quadrants"`
	QuadrantSummary   []profitability.QuadrantSummary `json:"quadrant_summary"`
	BaseFigures       profitability.Figures           `json:"base_figures"`
	Sensitivity       *profitability.SensitivityGrid  `json:"sensitivity,omitempty"`
	BreakEven         []profitability.BreakEven       `json:"break_even"`

	// FX
	Currencies   []fx.CurrencyShare `json:"currencies"`
	FXImpact     fx.FXImpact        `json:"fx_impact"`
	MonthlyRates []fx.MonthlyRate   `json:"monthly_rates"`

	// Time series
	SalesSeries   []timeseries.Point               `json:"sales_series"`
	Decomposition *timeseries.Decomposition        `json:"decomposition,omitempty"`
	Anomalies     timeseries.AnomalyReport         `json:"anomalies"`
	AnomalyDetail []timeseries.EnhancedAnomaly     `json:"anomaly_detail"`
	Cohorts       cohort.Summary                   `json:"cohorts"`

	Benchmark *benchmark.Result `json:"benchmark,omitempty"`
	Insights  []insight.Insight `json:"insights"`
}

// Engine builds snapshots with one set of analysis settings.
type Engine struct {
	settings config.Analysis
	now      func() time.Time
}

// NewEngine creates an engine for the given settings.
func NewEngine(settings config.Analysis) *Engine {
	return &Engine{settings: settings, now: time.Now}
}

// Settings returns the engine's analysis settings.
func (e *Engine) Settings() config.Analysis {
	return e.settings
}

// Build filters ds and runs every calculator. It never fails: sources that
// were not uploaded produce empty sections.
func (e *Engine) Build(ds models.Dataset, f models.Filter) *Snapshot {
	s := &Snapshot{ID: uuid.NewString(), CreatedAt: e.now(), Filter: f}

	sales := calc.FilterSales(ds.Sales, f)
	orders := calc.FilterOrders(ds.Orders, f)
	collections := calc.FilterCollections(ds.Collections, f)
	aging := calc.FilterAging(ds.Aging, f)
	orgProfit := calc.FilterOrgProfit(ds.OrgProfit, f)
	team := calc.FilterTeamContribution(ds.TeamContribution, f)
	items := calc.FilterItems(ds.Items(), f)
	if src := ds.ItemSource(); src != 0 {
		s.ItemSource = src.String()
	}

	e.buildKPI(s, ds, f, sales, orders, collections, orgProfit)

	s.Pipeline = o2c.CalcPipeline(orders, sales, collections)
	s.Conversion = o2c.CalcMonthlyConversion(orders, sales, collections)
	s.PipelineSummary = o2c.CalcSummary(orders, sales, collections)

	s.Aging = receivables.CalcAgingSummary(aging)
	s.Risk = receivables.AssessRiskAll(aging, e.settings.Risk)
	s.RiskDistribution = receivables.RiskDistribution(s.Risk)
	s.Credit = receivables.CalcCreditUtilization(aging)
	s.LongTerm = receivables.CalcLongTermReceivables(aging, e.settings.Provision)
	s.DSO = cashcycle.CalcDSOByOrg(aging, sales)
	if dso, ok := cashcycle.CalcOverallDSO(aging, sales); ok {
		s.OverallDSO = &dso
	}
	s.CCC = cashcycle.CalcCCCByOrg(aging, sales, team)

	abc := e.settings.ABC
	s.CustomerABC = pareto.CustomerABC(sales, abc)
	s.CustomerABCSummary = pareto.Summarize(s.CustomerABC)
	s.CustomerConcentrate = pareto.CalcConcentration(s.CustomerABC)
	s.ProductABC = pareto.ProductABC(items, abc)
	s.CustomerProfitABC = pareto.CustomerProfitABC(items, abc)
	s.CostDriverABC = pareto.CostDriverABC(team, abc)

	s.CostVariance = costs.CalcCostVariance(team)
	s.TeamCosts = costs.CalcItemCostByOrgTeam(team)
	s.CostSplit = costs.CalcVariableFixedSplit(team)
	s.ProductStructures = costs.ProfileCostStructures(items, costs.ByProduct)
	s.StructureCounts = costs.CountStructures(s.ProductStructures)

	s.Quadrants = profitability.CalcProfitRiskMatrix(orgProfit, aging, e.settings.Quadrant)
	s.QuadrantSummary = profitability.SummarizeQuadrants(s.Quadrants)
	s.BaseFigures = profitability.BaseFigures(orgProfit)
	if grid, err := profitability.CalcSensitivityGrid(s.BaseFigures, e.settings.Sensitivity); err == nil {
		s.Sensitivity = grid
	}
	s.BreakEven = profitability.CalcBreakEven(team)

	s.Currencies = fx.CalcCurrencyBreakdown(sales)
	s.FXImpact = fx.CalcFXImpact(sales, e.settings.FXBaseRates)
	s.MonthlyRates = fx.CalcMonthlyRates(sales)

	s.SalesSeries = timeseries.SalesSeries(sales)
	if d, ok := timeseries.DecomposeTimeSeries(s.SalesSeries); ok {
		s.Decomposition = d
	}
	s.Anomalies = timeseries.DetectAnomalies(s.SalesSeries, e.settings.IQRMultiplier)
	s.AnomalyDetail = timeseries.DetectAnomaliesEnhanced(sales, e.settings.IQRMultiplier)
	s.Cohorts = cohort.CalcCohortRetention(sales)

	if res, err := benchmark.Score(e.benchmarkValues(s), e.settings.Benchmarks); err == nil && len(res.Metrics) > 0 {
		s.Benchmark = &res
	}
	s.Insights = insight.Generate(InsightInput(s))
	return s
}

func (e *Engine) buildKPI(s *Snapshot, ds models.Dataset, f models.Filter, sales []models.SalesRecord, orders []models.OrderRecord, collections []models.CollectionRecord, orgProfit []models.OrgProfitRecord) {
	s.Overview = kpi.CalcOverview(sales, orders, collections, orgProfit)
	s.Trend = kpi.CalcMonthlyTrend(sales, orders, collections)
	if !f.Comparison.IsZero() {
		orgOnly := models.Filter{Orgs: f.Orgs}
		s.Comparison = kpi.ComparePeriods(
			calc.FilterSales(ds.Sales, orgOnly),
			calc.FilterOrders(ds.Orders, orgOnly),
			calc.FilterCollections(ds.Collections, orgOnly),
			f.Range, f.Comparison)
	}
	s.OrgRanking = kpi.CalcOrgRanking(orgProfit)
	s.SalespersonRanking = kpi.CalcSalespersonRanking(sales)
	s.CostStructure = kpi.CalcCostStructure(orgProfit)
	s.Heatmap = kpi.CalcPlanActualHeatmap(orgProfit)
}

// benchmarkValues collects the ratios the benchmark set can score. Ratios
// whose source was not uploaded are left out.
func (e *Engine) benchmarkValues(s *Snapshot) map[string]float64 {
	o := s.Overview
	v := map[string]float64{}
	if o.SalesActual != 0 {
		v[benchmark.GrossMargin] = o.GrossMargin
		v[benchmark.OperatingMargin] = o.OperatingMargin
		v[benchmark.ContributionMargin] = o.ContributionMargin
	}
	if o.SalesPlan > 0 {
		v[benchmark.PlanAchievement] = o.PlanAchievement
	}
	if o.TotalSales > 0 {
		v[benchmark.CollectionRate] = o.CollectionRate
	}
	if s.OverallDSO != nil {
		v[benchmark.DSO] = *s.OverallDSO
	}
	if g, ok := salesGrowth(s); ok {
		v[benchmark.SalesGrowth] = g
	}
	return v
}

// salesGrowth prefers the period comparison and falls back to the last
// month-over-month change of the trend.
func salesGrowth(s *Snapshot) (float64, bool) {
	for _, c := range s.Comparison {
		if c.Metric == "sales" && c.Previous != 0 {
			return c.ChangeRate, true
		}
	}
	if n := len(s.Trend); n >= 2 && s.Trend[n-2].Sales != 0 {
		return s.Trend[n-1].SalesGrowth, true
	}
	return 0, false
}

// InsightInput maps a snapshot onto the rule engine's input.
func InsightInput(s *Snapshot) insight.Input {
	in := insight.Input{
		Overview:     s.Overview,
		Trend:        s.Trend,
		Pipeline:     s.PipelineSummary,
		Risk:         s.RiskDistribution,
		LongTerm:     s.LongTerm,
		Credit:       s.Credit,
		Quadrants:    s.Quadrants,
		CostVariance: s.CostVariance,
		Anomalies:    s.AnomalyDetail,
		Benchmark:    s.Benchmark,
	}
	if s.OverallDSO != nil {
		in.DSO, in.DSOMeasured = *s.OverallDSO, true
	}
	return in
}

// Report builds the prioritised report for a snapshot.
func (e *Engine) Report(s *Snapshot, period string) insight.Report {
	return insight.BuildReport(InsightInput(s), insight.Meta{
		Title:       e.settings.ReportTitle,
		Period:      period,
		GeneratedAt: e.now(),
	})
}
