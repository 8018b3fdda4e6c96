package calc

import "testing"

func TestExtractMonth(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"ISO date", "2024-03-15", "2024-03"},
		{"ISO with time", "2024-03-15T10:20:00", "2024-03"},
		{"ISO month only", "2024-3", "2024-03"},
		{"Slash date", "2024/3/15", "2024-03"},
		{"Slash month", "2024/11", "2024-11"},
		{"Compact", "20240315", "2024-03"},
		{"Excel serial number", 45000.0, "2023-03"},
		{"Excel serial int", 45366, "2024-03"},
		{"Excel serial string", "45000", "2023-03"},
		{"Serial below threshold", 39000.0, ""},
		{"Garbage", "not-a-date", ""},
		{"Empty", "", ""},
		{"Invalid month", "2024-13-01", ""},
		{"Compact invalid month", "20241315", ""},
		{"Unsupported type", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMonth(tt.input)
			if got != tt.expected {
				t.Errorf("ExtractMonth(%v): expected %q, got %q", tt.input, tt.expected, got)
			}
		})
	}
}

func TestShiftMonthAndBetween(t *testing.T) {
	if got := ShiftMonth("2024-01", -1); got != "2023-12" {
		t.Errorf("Expected 2023-12, got %s", got)
	}
	if got := ShiftMonth("bad", 1); got != "" {
		t.Errorf("Expected empty for malformed key, got %s", got)
	}
	if got := MonthsBetween("2023-11", "2024-02"); got != 3 {
		t.Errorf("Expected 3 months, got %d", got)
	}
	if got := CalendarMonth("2024-07"); got != 7 {
		t.Errorf("Expected 7, got %d", got)
	}
}
