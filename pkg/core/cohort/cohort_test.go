package cohort

import (
	"testing"

	"erp_analytics/pkg/models"
)

func TestCalcCohortRetention(t *testing.T) {
	sales := []models.SalesRecord{
		{SalesDate: "2024-01-05", CustomerCode: "A", BookAmount: 100},
		{SalesDate: "2024-01-09", CustomerCode: "B", BookAmount: 100},
		{SalesDate: "2024-02-05", CustomerCode: "A", BookAmount: 50},
		{SalesDate: "2024-03-05", CustomerCode: "B", BookAmount: 50},
		{SalesDate: "2024-02-20", CustomerCode: "C", BookAmount: 70},
		{SalesDate: "bad", CustomerCode: "D", BookAmount: 999},
		{SalesDate: "2024-02-20", BookAmount: 999},
	}
	got := CalcCohortRetention(sales)
	if got.Customers != 3 || len(got.Rows) != 2 {
		t.Fatalf("Unexpected cohorts: %+v", got)
	}

	jan := got.Rows[0]
	if jan.Cohort != "2024-01" || jan.Size != 2 || len(jan.Retention) != 3 {
		t.Fatalf("Unexpected January cohort: %+v", jan)
	}
	if jan.Retention[0] != 100 || jan.Retention[1] != 50 || jan.Retention[2] != 50 {
		t.Errorf("Unexpected January retention: %v", jan.Retention)
	}
	if jan.Revenue != 300 {
		t.Errorf("Expected cohort revenue 300, got %f", jan.Revenue)
	}

	feb := got.Rows[1]
	if feb.Size != 1 || len(feb.Retention) != 2 || feb.Retention[1] != 0 {
		t.Errorf("Unexpected February cohort: %+v", feb)
	}

	// offset 1: (50*2 + 0*1) / 3
	if got.AverageRetention[0] != 100 || got.AverageRetention[2] != 50 {
		t.Errorf("Unexpected averages: %v", got.AverageRetention)
	}
	if diff := got.AverageRetention[1] - 100.0/3; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Expected 33.3 average at offset 1, got %f", got.AverageRetention[1])
	}
}

func TestCalcCohortRetentionEmpty(t *testing.T) {
	got := CalcCohortRetention(nil)
	if len(got.Rows) != 0 || got.Customers != 0 {
		t.Errorf("Expected empty summary, got %+v", got)
	}
}
