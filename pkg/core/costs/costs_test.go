package costs

import (
	"testing"

	"erp_analytics/pkg/models"
)

func teamRow(name string, sales float64, items map[models.CostItem]models.PlanActualDiff) models.TeamContributionRecord {
	r := models.TeamContributionRecord{
		OrgTeam:   name,
		Sales:     models.NewPAD(sales, sales),
		CostItems: map[string]models.PlanActualDiff{},
	}
	for k, v := range items {
		r.CostItems[string(k)] = v
	}
	return r
}

func TestCalcCostVariance(t *testing.T) {
	team := []models.TeamContributionRecord{
		teamRow("영업1팀", 1000, map[models.CostItem]models.PlanActualDiff{
			models.CostRawMaterial: models.NewPAD(100, 150),
			models.CostRent:        models.NewPAD(50, 40),
		}),
		teamRow("영업2팀", 1000, map[models.CostItem]models.PlanActualDiff{
			models.CostRawMaterial: models.NewPAD(100, 100),
		}),
	}

	s := CalcCostVariance(team)
	if len(s.Items) != 2 {
		t.Fatalf("Expected 2 items, got %+v", s.Items)
	}
	if s.Items[0].Item != models.CostRawMaterial || s.Items[0].Variance != 50 || s.Items[0].VariancePct != 25 {
		t.Errorf("Unexpected top variance: %+v", s.Items[0])
	}
	if s.TotalVariance != 40 || s.OverBudgetCount != 1 {
		t.Errorf("Expected total variance 40 and 1 over budget, got %f/%d", s.TotalVariance, s.OverBudgetCount)
	}
}

func TestCalcCostVarianceIgnoresSubtotals(t *testing.T) {
	base := teamRow("영업1팀", 1000, map[models.CostItem]models.PlanActualDiff{
		models.CostRawMaterial: models.NewPAD(100, 150),
		models.CostFreight:     models.NewPAD(20, 30),
	})
	withSubtotal := base
	withSubtotal.VariableCostTotal = models.NewPAD(120, 180)
	withSubtotal.FixedCostTotal = models.NewPAD(10, 999)

	a := CalcCostVariance([]models.TeamContributionRecord{base})
	b := CalcCostVariance([]models.TeamContributionRecord{withSubtotal})
	if a.TotalVariance != b.TotalVariance || a.OverBudgetCount != b.OverBudgetCount {
		t.Errorf("Subtotal rows changed totals: %+v vs %+v", a, b)
	}
	if len(b.Subtotals) != 2 || b.Subtotals[1].Actual != 999 {
		t.Errorf("Expected subtotals reported separately, got %+v", b.Subtotals)
	}
}

func TestVariancePercent(t *testing.T) {
	if VariancePercent(0, 100) != 0 {
		t.Error("Expected 0 without a plan")
	}
	if VariancePercent(-100, -50) != 50 {
		t.Errorf("Expected 50 against a negative plan, got %f", VariancePercent(-100, -50))
	}
}

func TestCalcVariableFixedSplit(t *testing.T) {
	subtotalled := teamRow("A팀", 1000, nil)
	subtotalled.VariableCostTotal = models.NewPAD(0, 600)
	subtotalled.FixedCostTotal = models.NewPAD(0, 200)

	itemsOnly := teamRow("B팀", 500, map[models.CostItem]models.PlanActualDiff{
		models.CostRawMaterial:  models.NewPAD(0, 100),
		models.CostDepreciation: models.NewPAD(0, 100),
	})

	got := CalcVariableFixedSplit([]models.TeamContributionRecord{itemsOnly, subtotalled})
	if got[0].OrgTeam != "A팀" || got[0].Variable != 600 || got[0].ContributionMargin != 40 || got[0].VariableRatio != 75 {
		t.Errorf("Unexpected A split: %+v", got[0])
	}
	if got[1].Variable != 100 || got[1].Fixed != 100 || got[1].ContributionProfit != 400 {
		t.Errorf("Unexpected B split: %+v", got[1])
	}
}

func TestCalcItemCostByOrgTeam(t *testing.T) {
	team := []models.TeamContributionRecord{
		teamRow("A팀", 1000, map[models.CostItem]models.PlanActualDiff{
			models.CostRawMaterial: models.NewPAD(0, 300),
			models.CostRent:        models.NewPAD(0, 100),
		}),
		teamRow("B팀", 1000, map[models.CostItem]models.PlanActualDiff{
			models.CostRent: models.NewPAD(0, 50),
		}),
	}
	got := CalcItemCostByOrgTeam(team)
	if got[0].OrgTeam != "A팀" || got[0].TotalActual != 400 || got[0].CostRate != 40 {
		t.Errorf("Unexpected A breakdown: %+v", got[0])
	}
	if got[0].TopItem != models.CostRawMaterial.Label() {
		t.Errorf("Expected raw material as top item, got %s", got[0].TopItem)
	}
}

func TestClassifyCostStructure(t *testing.T) {
	tests := []struct {
		name     string
		mix      CostMix
		expected StructureType
	}{
		{"Raw material heavy", CostMix{RawMaterial: 40, PurchasedGoods: 55}, SelfProduction},
		{"Purchased goods", CostMix{PurchasedGoods: 50}, DirectPurchase},
		{"Outsourced", CostMix{Outsourcing: 20, Labor: 30}, OutsourcingDependent},
		{"Labor", CostMix{Labor: 25}, LaborIntensive},
		{"Facility", CostMix{Facility: 20}, FacilityIntensive},
		{"Nothing dominant", CostMix{RawMaterial: 39, Logistics: 61}, Mixed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyCostStructure(tt.mix); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestProfileCostStructures(t *testing.T) {
	items := []models.ItemProfit{
		{Source: models.SourceProfitability, ProductCode: "P1", ProductName: "볼트", Sales: 1000, Operating: 100, RawMaterial: 500, Labor: 500},
		{Source: models.SourceProfitability, ProductCode: "P2", Sales: 400, Operating: 0, PurchasedGoods: 300, General: 100},
		{Source: models.SourceCustomerItem, ProductCode: "P3", Sales: 9999},
	}
	got := ProfileCostStructures(items, ByProduct)
	if len(got) != 2 {
		t.Fatalf("Expected 2 profiles, got %+v", got)
	}
	if got[0].Name != "볼트" || got[0].Type != SelfProduction || got[0].Margin != 10 {
		t.Errorf("Unexpected P1 profile: %+v", got[0])
	}
	if got[1].Type != DirectPurchase {
		t.Errorf("Expected P2 direct purchase, got %s", got[1].Type)
	}

	counts := CountStructures(got)
	if counts[0].Count != 1 || counts[1].Count != 1 || counts[5].Count != 0 {
		t.Errorf("Unexpected counts: %+v", counts)
	}
}
