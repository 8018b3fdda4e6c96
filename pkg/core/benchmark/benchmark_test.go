package benchmark

import (
	"errors"
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	gm := Benchmark{Metric: GrossMargin, Industry: 20}
	dso := Benchmark{Metric: DSO, Industry: 60, LowerIsBetter: true}

	tests := []struct {
		name     string
		value    float64
		b        Benchmark
		expected Position
	}{
		{"Above", 25, gm, Above},
		{"Within tolerance", 20.9, gm, At},
		{"Below", 15, gm, Below},
		{"Lower DSO is better", 40, dso, Above},
		{"Higher DSO is worse", 90, dso, Below},
		{"DSO edge of band", 63, dso, At},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value, tt.b); got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestScore(t *testing.T) {
	values := map[string]float64{
		GrossMargin:     30,          // above
		OperatingMargin: 5,           // at
		DSO:             120,         // below
		SalesGrowth:     math.Inf(1), // skipped
	}
	r, err := Score(values, DefaultIndustry)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(r.Metrics) != 3 {
		t.Fatalf("Expected 3 scored metrics, got %+v", r.Metrics)
	}
	if r.Score != 50 || r.Grade != "C" {
		t.Errorf("Expected score 50 grade C, got %f %s", r.Score, r.Grade)
	}
	for _, m := range r.Metrics {
		if m.Metric == DSO && m.Gap != -60 {
			t.Errorf("Expected DSO gap -60, got %f", m.Gap)
		}
	}
}

func TestScoreEmpty(t *testing.T) {
	if _, err := Score(nil, nil); !errors.Is(err, ErrEmptyBenchmark) {
		t.Errorf("Expected ErrEmptyBenchmark, got %v", err)
	}
	r, err := Score(map[string]float64{}, DefaultIndustry)
	if err != nil || r.Score != 0 || len(r.Metrics) != 0 {
		t.Errorf("Expected empty result, got %+v %v", r, err)
	}
}
