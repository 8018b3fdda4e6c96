package fx

import (
	"math"
	"testing"

	"erp_analytics/pkg/models"
)

func fxSales() []models.SalesRecord {
	return []models.SalesRecord{
		{SalesDate: "2024-01-10", Currency: "usd", TransactionAmount: 100, BookAmount: 130000},
		{SalesDate: "2024-02-10", Currency: "USD", TransactionAmount: 100, BookAmount: 140000},
		{SalesDate: "2024-01-15", Currency: "", TransactionAmount: 500000, BookAmount: 500000},
		{SalesDate: "2024-01-20", Currency: "JPY", TransactionAmount: 10000, BookAmount: 90000},
	}
}

func TestCalcCurrencyBreakdown(t *testing.T) {
	got := CalcCurrencyBreakdown(fxSales())
	if len(got) != 3 {
		t.Fatalf("Expected 3 currencies, got %+v", got)
	}
	if got[0].Currency != "KRW" || got[0].Count != 1 {
		t.Errorf("Expected blank currency booked as KRW first, got %+v", got[0])
	}
	if got[1].Currency != "USD" || got[1].Count != 2 || got[1].AvgRate != 1350 {
		t.Errorf("Unexpected USD share: %+v", got[1])
	}
	var share float64
	for _, c := range got {
		share += c.Share
	}
	if math.Abs(share-100) > 1e-9 {
		t.Errorf("Expected shares to sum to 100, got %f", share)
	}
}

func TestCalcFXImpact(t *testing.T) {
	res := CalcFXImpact(fxSales(), map[string]float64{"USD": 1300})
	if len(res.Currencies) != 1 {
		t.Fatalf("Expected USD only, got %+v", res.Currencies)
	}
	usd := res.Currencies[0]
	// booked 270000 vs 200 * 1300 = 260000
	if usd.Impact != 10000 || res.TotalImpact != 10000 {
		t.Errorf("Unexpected impact: %+v", usd)
	}
	if len(res.MissingRates) != 1 || res.MissingRates[0] != "JPY" {
		t.Errorf("Expected JPY missing, got %v", res.MissingRates)
	}
	if math.Abs(res.ForeignShare-360000.0/860000*100) > 1e-9 {
		t.Errorf("Unexpected foreign share %f", res.ForeignShare)
	}
}

func TestCalcFXImpactEmpty(t *testing.T) {
	res := CalcFXImpact(nil, nil)
	if res.TotalImpact != 0 || len(res.Currencies) != 0 || res.ForeignShare != 0 {
		t.Errorf("Expected zero impact, got %+v", res)
	}
}

func TestCalcMonthlyRates(t *testing.T) {
	got := CalcMonthlyRates(fxSales())
	if len(got) != 3 {
		t.Fatalf("Expected 3 foreign rate points, got %+v", got)
	}
	if got[0].Currency != "JPY" || got[1].Month != "2024-01" || got[1].Rate != 1300 || got[2].Rate != 1400 {
		t.Errorf("Unexpected rates: %+v", got)
	}
}
