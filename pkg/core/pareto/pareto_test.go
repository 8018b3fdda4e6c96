package pareto

import (
	"math"
	"testing"

	"erp_analytics/pkg/models"
)

func TestClassifyGrades(t *testing.T) {
	inputs := []Input{
		{Key: "a", Value: 50},
		{Key: "b", Value: 30},
		{Key: "c", Value: 15},
		{Key: "d", Value: 5},
	}
	items := Classify(inputs, DefaultCutoffs)

	want := []struct {
		key   string
		cum   float64
		grade Grade
	}{
		{"a", 50, GradeA},
		{"b", 80, GradeA}, // inclusive at 80
		{"c", 95, GradeB}, // inclusive at 95
		{"d", 100, GradeC},
	}
	for i, w := range want {
		got := items[i]
		if got.Key != w.key || got.Grade != w.grade || math.Abs(got.CumulativeShare-w.cum) > 1e-9 {
			t.Errorf("Item %d: expected %s/%v/%s, got %+v", i, w.key, w.cum, w.grade, got)
		}
		if got.Rank != i+1 {
			t.Errorf("Expected rank %d, got %d", i+1, got.Rank)
		}
	}
}

func TestClassifyMonotonic(t *testing.T) {
	inputs := []Input{
		{Key: "x", Value: 7}, {Key: "y", Value: -20}, {Key: "z", Value: 300},
		{Key: "x", Value: 11}, {Key: "w", Value: 0.1}, {Key: "v", Value: 42},
	}
	items := Classify(inputs, DefaultCutoffs)
	if len(items) != 5 {
		t.Fatalf("Expected 5 grouped items, got %d", len(items))
	}
	prev := 0.0
	for _, it := range items {
		if it.CumulativeShare < prev {
			t.Errorf("Cumulative share decreased at %s: %f < %f", it.Key, it.CumulativeShare, prev)
		}
		prev = it.CumulativeShare
	}
	if prev != 100 {
		t.Errorf("Expected cumulative share to end at 100, got %f", prev)
	}
	if items[len(items)-1].Key != "y" {
		t.Errorf("Expected negative item ranked last, got %s", items[len(items)-1].Key)
	}
}

func TestClassifyZeroTotal(t *testing.T) {
	items := Classify([]Input{{Key: "a"}, {Key: "b"}}, DefaultCutoffs)
	for _, it := range items {
		if it.Grade != GradeC {
			t.Errorf("Expected C for zero total, got %s", it.Grade)
		}
	}
	if got := Classify(nil, DefaultCutoffs); len(got) != 0 {
		t.Errorf("Expected empty result, got %d items", len(got))
	}
}

func TestClassifyWithMargin(t *testing.T) {
	inputs := []Input{
		{Key: "thin", Value: 50, Profit: 5},  // A by amount, 10% margin
		{Key: "fat", Value: 30, Profit: 12},  // A, 40% margin
		{Key: "mid", Value: 15, Profit: 1.5}, // B, 10% margin
		{Key: "tail", Value: 5, Profit: 0},
	}
	items := ClassifyWithMargin(inputs, DefaultCutoffs)
	byKey := map[string]Item{}
	for _, it := range items {
		byKey[it.Key] = it
	}
	if byKey["thin"].Grade != GradeB || !byKey["thin"].Demoted {
		t.Errorf("Expected thin-margin A demoted to B, got %+v", byKey["thin"])
	}
	if byKey["fat"].Grade != GradeA || byKey["fat"].Demoted {
		t.Errorf("Expected healthy A kept, got %+v", byKey["fat"])
	}
	if byKey["mid"].Grade != GradeC {
		t.Errorf("Expected B demoted to C, got %+v", byKey["mid"])
	}
	if byKey["tail"].Demoted {
		t.Error("C items cannot be demoted further")
	}
}

func TestCostDriverABCSkipsSubtotals(t *testing.T) {
	team := []models.TeamContributionRecord{{
		OrgTeam: "영업1팀",
		CostItems: map[string]models.PlanActualDiff{
			string(models.CostRawMaterial): models.NewPAD(0, 800),
			string(models.CostFreight):     models.NewPAD(0, 200),
		},
		VariableCostTotal: models.NewPAD(0, 1000),
	}}
	items := CostDriverABC(team, DefaultCutoffs)
	if len(items) != 2 {
		t.Fatalf("Expected 2 drivers, got %+v", items)
	}
	if items[0].Key != string(models.CostRawMaterial) || items[0].Share != 80 {
		t.Errorf("Unexpected top driver: %+v", items[0])
	}
}

func TestSummarizeAndConcentration(t *testing.T) {
	items := Classify([]Input{{Key: "a", Value: 60}, {Key: "b", Value: 40}}, DefaultCutoffs)
	sum := Summarize(items)
	if sum[0].Count != 1 || sum[2].Count != 1 || sum[0].CountRate != 50 {
		t.Errorf("Unexpected summary: %+v", sum)
	}

	c := CalcConcentration(items)
	if math.Abs(c.HHI-5200) > 1e-6 || c.Level != "high" || c.TopShare != 60 {
		t.Errorf("Unexpected concentration: %+v", c)
	}
}

func TestCustomerABCFallsBackToName(t *testing.T) {
	sales := []models.SalesRecord{
		{CustomerName: "무코드상사", BookAmount: 10},
		{CustomerCode: "C1", CustomerName: "일번", BookAmount: 90},
	}
	items := CustomerABC(sales, DefaultCutoffs)
	if items[1].Key != "무코드상사" {
		t.Errorf("Expected name fallback key, got %+v", items[1])
	}
}
