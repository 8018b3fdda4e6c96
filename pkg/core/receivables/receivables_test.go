package receivables

import (
	"math"
	"testing"

	"erp_analytics/pkg/models"
)

func amt(v float64) models.AgingAmount {
	return models.AgingAmount{BookAmount: v}
}

// agingRecord builds a record whose Total is the sum of its buckets.
func agingRecord(customer string, buckets ...float64) models.ReceivableAgingRecord {
	var vals [7]float64
	copy(vals[:], buckets)
	var total float64
	for _, v := range vals {
		total += v
	}
	return models.ReceivableAgingRecord{
		Org:          "서울",
		CustomerCode: customer,
		CustomerName: customer,
		Month1:       amt(vals[0]),
		Month2:       amt(vals[1]),
		Month3:       amt(vals[2]),
		Month4:       amt(vals[3]),
		Month5:       amt(vals[4]),
		Month6:       amt(vals[5]),
		Overdue:      amt(vals[6]),
		Total:        amt(total),
	}
}

func TestGradeRisk(t *testing.T) {
	tests := []struct {
		name     string
		record   models.ReceivableAgingRecord
		expected RiskGrade
	}{
		{"All current", agingRecord("A", 100, 0), RiskLow},
		{"Ratio above 50%", agingRecord("B", 40, 0, 60), RiskHigh},
		{"Ratio exactly 50% is not high", agingRecord("C", 50, 0, 50), RiskMedium},
		{"Ratio above 20%", agingRecord("D", 70, 0, 0, 30), RiskMedium},
		{"Ratio exactly 20% is low", agingRecord("E", 80, 0, 20), RiskLow},
		{"Large overdue amount", agingRecord("F", 10_000_000_000, 0, 0, 0, 0, 0, 150_000_000), RiskHigh},
		{"Medium overdue amount", agingRecord("G", 10_000_000_000, 0, 60_000_000), RiskMedium},
		{"Month2 is not overdue", agingRecord("H", 10, 90), RiskLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GradeRisk(tt.record); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestGradeRiskZeroTotalIsLow(t *testing.T) {
	r := agingRecord("Z", 0, 0, 500_000_000, 0, 0, 0, 900_000_000)
	r.Total = amt(0)
	if got := GradeRisk(r); got != RiskLow {
		t.Errorf("Expected low for zero total regardless of buckets, got %s", got)
	}
}

func TestAssessRiskAllOrdering(t *testing.T) {
	records := []models.ReceivableAgingRecord{
		agingRecord("low", 100),
		agingRecord("high", 10, 0, 90),
		agingRecord("medium", 70, 0, 30),
	}
	got := AssessRiskAll(records, DefaultRiskThresholds)
	if got[0].CustomerCode != "high" || got[1].CustomerCode != "medium" || got[2].CustomerCode != "low" {
		t.Errorf("Unexpected ordering: %+v", got)
	}

	dist := RiskDistribution(got)
	if dist[0].Count != 1 || dist[0].Amount != 100 {
		t.Errorf("Unexpected high row: %+v", dist[0])
	}
	if math.Abs(dist[0].Share+dist[1].Share+dist[2].Share-100) > 1e-9 {
		t.Errorf("Shares must sum to 100, got %+v", dist)
	}
}

func TestRiskScore(t *testing.T) {
	if s := RiskScore(agingRecord("A", 100)); s != 0 {
		t.Errorf("Expected 0 for current-only receivables, got %f", s)
	}
	if s := RiskScore(agingRecord("B", 0, 0, 0, 0, 0, 0, 100)); s != 100 {
		t.Errorf("Expected 100 for fully overdue receivables, got %f", s)
	}
	if s := RiskScore(models.ReceivableAgingRecord{}); s != 0 {
		t.Errorf("Expected 0 for empty record, got %f", s)
	}
	mixed := RiskScore(agingRecord("C", 50, 0, 50)) // (0*50 + 30*50)/100
	if math.Abs(mixed-15) > 1e-9 {
		t.Errorf("Expected 15, got %f", mixed)
	}
}

func TestCalcAgingSummary(t *testing.T) {
	records := []models.ReceivableAgingRecord{
		agingRecord("A", 100, 100),
		agingRecord("B", 0, 0, 0, 0, 0, 0, 200),
	}
	got := CalcAgingSummary(records)
	if len(got) != 7 {
		t.Fatalf("Expected 7 buckets, got %d", len(got))
	}
	if got[0].Share != 25 || got[6].Amount != 200 || got[6].Share != 50 {
		t.Errorf("Unexpected summary: %+v", got)
	}
}

func TestCalcCreditUtilization(t *testing.T) {
	a1 := agingRecord("A", 50)
	a1.CreditLimit = 100
	a2 := agingRecord("A", 35)
	a2.CreditLimit = 100
	b := agingRecord("B", 120)
	b.CreditLimit = 100
	c := agingRecord("C", 10)
	noLimit := agingRecord("D", 500)
	noLimit.CreditLimit = 0

	got := CalcCreditUtilization([]models.ReceivableAgingRecord{a1, a2, b, c, noLimit})
	if len(got) != 2 {
		t.Fatalf("Expected customers without limits skipped, got %+v", got)
	}
	if got[0].CustomerCode != "B" || got[0].Status != CreditDanger {
		t.Errorf("Expected B in danger first, got %+v", got[0])
	}
	if got[1].Receivables != 85 || got[1].Status != CreditWarning {
		t.Errorf("Expected A summed to 85 (warning), got %+v", got[1])
	}
}

func TestClassifyCredit(t *testing.T) {
	if ClassifyCredit(79.99) != CreditNormal || ClassifyCredit(80) != CreditWarning ||
		ClassifyCredit(99.9) != CreditWarning || ClassifyCredit(100) != CreditDanger {
		t.Error("Credit thresholds are misaligned")
	}
}

func TestCalcLongTermReceivables(t *testing.T) {
	r := agingRecord("A", 0, 0, 0, 1000, 1000, 1000, 1000)
	got := CalcLongTermReceivables([]models.ReceivableAgingRecord{r}, DefaultProvisionRates)

	// 1000*1% + 1000*5% + 1000*10% + 1000*50%
	if math.Abs(got.Provision-660) > 1e-9 {
		t.Errorf("Expected provision 660, got %f", got.Provision)
	}
	if got.LongTermRatio != 50 {
		t.Errorf("Expected long-term ratio 50, got %f", got.LongTermRatio)
	}
	if len(got.ByOrg) != 1 || got.ByOrg[0].Org != "서울" {
		t.Errorf("Unexpected org breakdown: %+v", got.ByOrg)
	}

	empty := CalcLongTermReceivables(nil, DefaultProvisionRates)
	if empty.LongTermRatio != 0 || empty.Provision != 0 {
		t.Errorf("Expected zero summary for empty input, got %+v", empty)
	}
}
