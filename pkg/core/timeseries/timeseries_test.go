package timeseries

import (
	"math"
	"testing"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

func series(start string, values ...float64) []Point {
	out := make([]Point, len(values))
	for i, v := range values {
		out[i] = Point{Month: calc.ShiftMonth(start, i), Value: v}
	}
	return out
}

func TestDetectAnomaliesFenceScenario(t *testing.T) {
	points := series("2024-01", 100, 102, 98, 101, 99, 103, 97, 500)
	r := DetectAnomalies(points, 1.5)

	if r.Q1 != 99 || r.Q3 != 103 || r.IQR != 4 {
		t.Errorf("Unexpected quartiles: %+v", r)
	}
	if len(r.Anomalies) != 1 {
		t.Fatalf("Expected one anomaly, got %+v", r.Anomalies)
	}
	a := r.Anomalies[0]
	if a.Value != 500 || a.Direction != DirectionUpper || a.Month != "2024-08" {
		t.Errorf("Unexpected anomaly: %+v", a)
	}
	if r.AnomalyRate != 12.5 {
		t.Errorf("Expected anomaly rate 12.5, got %f", r.AnomalyRate)
	}
}

func TestDetectAnomaliesLowerAndDefaults(t *testing.T) {
	points := series("2024-01", 100, 100, 100, 100, 0)
	r := DetectAnomalies(points, 0)
	if len(r.Anomalies) != 1 || r.Anomalies[0].Direction != DirectionLower || r.Anomalies[0].Deviation != 100 {
		t.Errorf("Expected one lower anomaly, got %+v", r.Anomalies)
	}

	empty := DetectAnomalies(nil, 1.5)
	if empty.Total != 0 || empty.AnomalyRate != 0 || len(empty.Anomalies) != 0 {
		t.Errorf("Expected empty report, got %+v", empty)
	}
}

func seasonalValues(months int) []float64 {
	pattern := []float64{-30, -20, 0, 10, 20, 30, 25, 15, 0, -10, -20, -20}
	out := make([]float64, months)
	for i := range out {
		out[i] = 1000 + float64(i)*5 + pattern[i%12]
	}
	return out
}

func TestDecomposeSeasonalSumsToZero(t *testing.T) {
	d, ok := DecomposeTimeSeries(series("2022-01", seasonalValues(36)...))
	if !ok {
		t.Fatal("Expected decomposition for 36 months")
	}
	var sum float64
	for _, f := range d.SeasonalFactors {
		sum += f
	}
	if math.Abs(sum) > 1e-6 {
		t.Errorf("Expected seasonal factors to sum to 0, got %f", sum)
	}
	if d.DataQuality != QualitySufficient {
		t.Errorf("Expected sufficient quality, got %s", d.DataQuality)
	}
	if d.PeakMonth != 6 || d.TroughMonth != 1 {
		t.Errorf("Expected peak June and trough January, got %d/%d", d.PeakMonth, d.TroughMonth)
	}
	if d.TrendDirection != "up" {
		t.Errorf("Expected upward trend, got %s", d.TrendDirection)
	}
	if d.SeasonalStrength < 0.9 {
		t.Errorf("Expected strong seasonality, got %f", d.SeasonalStrength)
	}
	if d.Components[0].HasTrend || !d.Components[6].HasTrend {
		t.Error("Moving average must skip the first six months")
	}
}

func TestDecomposeLimitedAndTooShort(t *testing.T) {
	if _, ok := DecomposeTimeSeries(series("2024-01", seasonalValues(12)...)); ok {
		t.Error("Expected 12 months to be rejected")
	}
	d, ok := DecomposeTimeSeries(series("2024-01", seasonalValues(13)...))
	if !ok || d.DataQuality != QualityLimited {
		t.Errorf("Expected limited decomposition at 13 months, got %v %+v", ok, d)
	}
}

func TestMonthlySeriesFillsGaps(t *testing.T) {
	sales := []models.SalesRecord{
		{SalesDate: "2024-01-03", BookAmount: 10},
		{SalesDate: "2024-03-03", BookAmount: 30},
		{SalesDate: "garbage", BookAmount: 99},
	}
	got := SalesSeries(sales)
	if len(got) != 3 || got[1].Month != "2024-02" || got[1].Value != 0 {
		t.Errorf("Expected a zero-filled February, got %+v", got)
	}
}

func TestDetectAnomaliesEnhanced(t *testing.T) {
	var sales []models.SalesRecord
	months := []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06", "2024-07"}
	for _, m := range months {
		sales = append(sales,
			models.SalesRecord{SalesDate: m + "-10", CustomerName: "가", BookAmount: 60},
			models.SalesRecord{SalesDate: m + "-10", CustomerName: "나", BookAmount: 40},
		)
	}
	sales = append(sales,
		models.SalesRecord{SalesDate: "2024-08-10", CustomerName: "가", BookAmount: 60},
		models.SalesRecord{SalesDate: "2024-08-10", CustomerName: "나", BookAmount: 40},
		models.SalesRecord{SalesDate: "2024-08-11", CustomerName: "다", BookAmount: 900},
	)

	got := DetectAnomaliesEnhanced(sales, 1.5)
	if len(got) != 1 {
		t.Fatalf("Expected one anomaly, got %+v", got)
	}
	a := got[0]
	if a.Month != "2024-08" || a.MoMChange != 900 {
		t.Errorf("Unexpected anomaly: %+v", a)
	}
	if a.Severity != SeverityHigh {
		t.Errorf("Expected high severity, got %s (%.2f sigma)", a.Severity, a.Sigma)
	}
	if len(a.TopCustomers) == 0 || a.TopCustomers[0].Customer != "다" || a.TopCustomers[0].Share != 100 {
		t.Errorf("Expected 다 to explain the swing, got %+v", a.TopCustomers)
	}
	if a.Description == "" {
		t.Error("Expected a description")
	}
}
