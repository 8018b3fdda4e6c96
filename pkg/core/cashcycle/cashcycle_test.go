package cashcycle

import (
	"math"
	"testing"

	"erp_analytics/pkg/models"
)

func aging(org string, total float64) models.ReceivableAgingRecord {
	return models.ReceivableAgingRecord{Org: org, Total: models.AgingAmount{BookAmount: total}}
}

func sale(org, date string, amount float64) models.SalesRecord {
	return models.SalesRecord{Org: org, SalesDate: date, BookAmount: amount}
}

func TestCalcDSO(t *testing.T) {
	tests := []struct {
		name        string
		receivables float64
		avgSales    float64
		expected    float64
	}{
		{"One month outstanding", 100, 100, 30},
		{"Rounded", 100, 70, 43},
		{"Nothing outstanding without sales", 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalcDSO(tt.receivables, tt.avgSales); got != tt.expected {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}

	if got := CalcDSO(100, 0); !math.IsInf(got, 1) {
		t.Errorf("Expected +Inf sentinel, got %f", got)
	}
}

func TestCalcDSOByOrgExcludesUnmeasurable(t *testing.T) {
	agingRows := []models.ReceivableAgingRecord{
		aging("서울", 300),
		aging("부산", 500), // no sales -> +Inf -> dropped
	}
	sales := []models.SalesRecord{
		sale("서울", "2024-01-15", 100),
		sale("서울", "2024-01-20", 100),
		sale("서울", "2024-02-10", 400),
		sale("서울", "invalid", 99999),
	}

	got := CalcDSOByOrg(agingRows, sales)
	if len(got) != 1 {
		t.Fatalf("Expected one measurable org, got %+v", got)
	}
	// avg monthly = (200 + 400) / 2 = 300 -> 300/300*30 = 30
	if got[0].Org != "서울" || got[0].DSO != 30 || got[0].Months != 2 {
		t.Errorf("Unexpected metric: %+v", got[0])
	}
	if got[0].Status != StatusGood {
		t.Errorf("Expected good at 30 days, got %s", got[0].Status)
	}
}

func TestClassify(t *testing.T) {
	dso := map[float64]Status{29: StatusExcellent, 30: StatusGood, 45: StatusFair, 60: StatusFair, 61: StatusPoor}
	for v, want := range dso {
		if got := ClassifyDSO(v); got != want {
			t.Errorf("ClassifyDSO(%v): expected %s, got %s", v, want, got)
		}
	}
	ccc := map[float64]Status{-1: StatusExcellent, 0: StatusGood, 30: StatusFair, 61: StatusPoor}
	for v, want := range ccc {
		if got := ClassifyCCC(v); got != want {
			t.Errorf("ClassifyCCC(%v): expected %s, got %s", v, want, got)
		}
	}
}

func TestEstimateDPO(t *testing.T) {
	if EstimateDPO(80, 100) != 45 || EstimateDPO(60, 100) != 35 || EstimateDPO(59, 100) != 30 {
		t.Error("DPO tiers misaligned")
	}
	if EstimateDPO(10, 0) != 30 {
		t.Error("Zero revenue must fall to the lowest tier")
	}
}

func TestCalcCCCByOrg(t *testing.T) {
	agingRows := []models.ReceivableAgingRecord{aging("영업1", 600), aging("영업2", 100)}
	sales := []models.SalesRecord{
		sale("영업1", "2024-01-01", 300),
		sale("영업2", "2024-01-01", 300),
	}
	team := []models.TeamContributionRecord{
		{
			OrgTeam:           "서울영업1팀",
			Sales:             models.NewPAD(0, 1000),
			VariableCostTotal: models.NewPAD(0, 850),
		},
		{
			OrgTeam:   "본사",
			Sales:     models.NewPAD(0, 1000),
			CostItems: map[string]models.PlanActualDiff{string(models.CostRawMaterial): models.NewPAD(0, 100)},
		},
	}

	got := CalcCCCByOrg(agingRows, sales, team)
	if len(got) != 2 {
		t.Fatalf("Expected 2 orgs, got %+v", got)
	}

	byOrg := map[string]CCCMetric{}
	for _, m := range got {
		byOrg[m.Org] = m
	}

	o1 := byOrg["영업1"]
	if o1.DSO != 60 || o1.DPO != 45 || o1.CCC != 15 || o1.DPOSource != "서울영업1팀" {
		t.Errorf("Unexpected 영업1 metric: %+v", o1)
	}
	// 영업2 has no team match: aggregate ratio (850+100)/2000 = 0.475 -> 30 days
	o2 := byOrg["영업2"]
	if o2.DPO != 30 || o2.DPOSource != "" || o2.CCC != -20 || o2.Status != StatusExcellent {
		t.Errorf("Unexpected 영업2 metric: %+v", o2)
	}
}
