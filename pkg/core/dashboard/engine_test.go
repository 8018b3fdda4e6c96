package dashboard

import (
	"fmt"
	"testing"
	"time"

	"erp_analytics/pkg/core/benchmark"
	"erp_analytics/pkg/core/config"
	"erp_analytics/pkg/core/insight"
	"erp_analytics/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() models.Dataset {
	var ds models.Dataset
	for m := 1; m <= 6; m++ {
		date := fmt.Sprintf("2024-%02d-15", m)
		ds.Sales = append(ds.Sales,
			models.SalesRecord{SalesDate: date, Org: "영업1팀", CustomerCode: "C1", CustomerName: "가나상사", ProductCode: "P1", Currency: "KRW", TransactionAmount: 1000, BookAmount: 1000},
			models.SalesRecord{SalesDate: date, Org: "영업2팀", CustomerCode: "C2", CustomerName: "다라무역", ProductCode: "P2", Currency: "USD", ExchangeRate: 1300, TransactionAmount: 1, BookAmount: 1300},
		)
		ds.Orders = append(ds.Orders,
			models.OrderRecord{OrderDate: date, Org: "영업1팀", CustomerCode: "C1", BookAmount: 1200},
			models.OrderRecord{OrderDate: date, Org: "영업2팀", CustomerCode: "C2", BookAmount: 1500},
		)
		ds.Collections = append(ds.Collections,
			models.CollectionRecord{CollectionDate: date, Org: "영업1팀", CustomerCode: "C1", BookAmount: 950},
			models.CollectionRecord{CollectionDate: date, Org: "영업2팀", CustomerCode: "C2", BookAmount: 1000},
		)
	}
	ds.Aging = []models.ReceivableAgingRecord{
		{Org: "영업1팀", CustomerCode: "C1", Month1: models.AgingAmount{BookAmount: 900}, Total: models.AgingAmount{BookAmount: 900}, CreditLimit: 5000},
		{Org: "영업2팀", CustomerCode: "C2", Month1: models.AgingAmount{BookAmount: 500}, Month4: models.AgingAmount{BookAmount: 800}, Total: models.AgingAmount{BookAmount: 1300}, CreditLimit: 1000},
	}
	ds.OrgProfit = []models.OrgProfitRecord{
		{Org: "영업1팀", Sales: models.NewPAD(6000, 6000), CostOfGoods: models.NewPAD(4000, 4200), GrossProfit: models.NewPAD(2000, 1800), SGA: models.NewPAD(800, 900), OperatingProfit: models.NewPAD(1200, 900), ContributionMargin: models.NewPAD(1500, 1400)},
		{Org: "영업2팀", Sales: models.NewPAD(9000, 7800), CostOfGoods: models.NewPAD(6000, 6500), GrossProfit: models.NewPAD(3000, 1300), SGA: models.NewPAD(1000, 1400), OperatingProfit: models.NewPAD(2000, -100), ContributionMargin: models.NewPAD(2000, 500)},
	}
	ds.CustomerItems = []models.CustomerItemDetailRecord{
		{Org: "영업1팀", CustomerCode: "C1", ProductCode: "P1", Sales: 6000, CostOfGoods: 4200, GrossProfit: 1800},
		{Org: "영업2팀", CustomerCode: "C2", ProductCode: "P2", Sales: 7800, CostOfGoods: 6500, GrossProfit: 1300},
	}
	return ds
}

func testEngine() *Engine {
	e := NewEngine(config.Default().Analysis)
	e.now = func() time.Time { return time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC) }
	return e
}

func TestBuildRunsEveryCalculator(t *testing.T) {
	s := testEngine().Build(sampleDataset(), models.Filter{})

	require.NotEmpty(t, s.ID)
	assert.Equal(t, 13800.0, s.Overview.TotalSales)
	assert.Len(t, s.Trend, 6)
	assert.Empty(t, s.Comparison)
	assert.Len(t, s.OrgRanking, 2)
	assert.NotEmpty(t, s.Pipeline)
	assert.Len(t, s.Risk, 2)
	assert.NotEmpty(t, s.Credit)
	require.NotNil(t, s.OverallDSO)
	assert.Greater(t, *s.OverallDSO, 0.0)
	assert.Len(t, s.CustomerABC, 2)
	assert.Len(t, s.ProductABC, 2)
	assert.Len(t, s.Quadrants, 2)
	assert.NotNil(t, s.Sensitivity)
	assert.Len(t, s.Currencies, 2)
	assert.Len(t, s.SalesSeries, 6)
	assert.Nil(t, s.Decomposition, "six months are too short to decompose")
	assert.NotNil(t, s.Benchmark)
	assert.NotEmpty(t, s.Insights)
	assert.Equal(t, time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC), s.CreatedAt)
}

func TestBuildReadsOneItemSource(t *testing.T) {
	ds := sampleDataset()
	ds.CustomerItems = []models.CustomerItemDetailRecord{
		{Org: "영업1팀", CustomerCode: "C1", ProductCode: "P1", Sales: 1000, CostOfGoods: 700, GrossProfit: 300},
	}
	ds.Profitability = []models.ProfitabilityAnalysisRecord{
		{Org: "영업1팀", CustomerCode: "C1", ProductCode: "P1", Sales: models.NewPAD(1000, 1000), CostOfGoods: models.NewPAD(700, 700), GrossProfit: models.NewPAD(300, 300)},
	}

	s := testEngine().Build(ds, models.Filter{})
	assert.Equal(t, "profitability", s.ItemSource)
	require.Len(t, s.ProductABC, 1)
	assert.Equal(t, "P1", s.ProductABC[0].Key)
	assert.Equal(t, 1000.0, s.ProductABC[0].Value)

	ds.Profitability = nil
	s = testEngine().Build(ds, models.Filter{})
	assert.Equal(t, "customer_item", s.ItemSource)
	require.Len(t, s.ProductABC, 1)
	assert.Equal(t, 1000.0, s.ProductABC[0].Value)
}

func TestBuildAppliesOrgFilter(t *testing.T) {
	s := testEngine().Build(sampleDataset(), models.Filter{Orgs: []string{"영업1팀"}})

	assert.Equal(t, 6000.0, s.Overview.TotalSales)
	assert.Len(t, s.OrgRanking, 1)
	assert.Len(t, s.Risk, 1)
	assert.Len(t, s.CustomerABC, 1)
	assert.Len(t, s.Currencies, 1)
	for _, q := range s.Quadrants {
		assert.Equal(t, "영업1팀", q.Org)
	}
}

func TestBuildComparesPeriods(t *testing.T) {
	f := models.Filter{
		Range:      models.DateRange{From: "2024-04", To: "2024-06"},
		Comparison: models.DateRange{From: "2024-01", To: "2024-03"},
	}
	s := testEngine().Build(sampleDataset(), f)

	assert.Len(t, s.Trend, 3)
	require.NotEmpty(t, s.Comparison)
	for _, c := range s.Comparison {
		if c.Metric == "sales" {
			assert.Equal(t, c.Current, c.Previous, "flat sales in both windows")
			assert.Equal(t, 0.0, c.ChangeRate)
		}
	}
}

func TestBuildEmptyDataset(t *testing.T) {
	s := testEngine().Build(models.Dataset{}, models.Filter{})

	assert.Zero(t, s.Overview.TotalSales)
	assert.Nil(t, s.OverallDSO)
	assert.Nil(t, s.Benchmark, "no ratios to score")
	assert.Empty(t, s.Risk)
	assert.Empty(t, s.ItemSource)
}

func TestBenchmarkValuesSkipMissingSources(t *testing.T) {
	e := testEngine()
	ds := sampleDataset()
	ds.OrgProfit = nil
	s := e.Build(ds, models.Filter{})

	v := e.benchmarkValues(s)
	assert.NotContains(t, v, benchmark.GrossMargin)
	assert.NotContains(t, v, benchmark.PlanAchievement)
	assert.Contains(t, v, benchmark.CollectionRate)
	assert.Contains(t, v, benchmark.DSO)
	assert.Contains(t, v, benchmark.SalesGrowth)
}

func TestInsightInputCarriesDSO(t *testing.T) {
	s := testEngine().Build(sampleDataset(), models.Filter{})
	in := InsightInput(s)

	assert.True(t, in.DSOMeasured)
	assert.Equal(t, *s.OverallDSO, in.DSO)
	assert.Equal(t, s.Overview, in.Overview)
}

func TestReport(t *testing.T) {
	e := testEngine()
	s := e.Build(sampleDataset(), models.Filter{})
	r := e.Report(s, "2024-01 ~ 2024-06")

	assert.Equal(t, e.Settings().ReportTitle, r.Title)
	assert.Equal(t, "2024-01 ~ 2024-06", r.Period)
	assert.NotEmpty(t, r.Sections)
	assert.Contains(t, insight.RenderMarkdown(r), "2024-01 ~ 2024-06")
}
