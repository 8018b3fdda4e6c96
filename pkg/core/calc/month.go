package calc

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// excelSerialThreshold separates Excel serial day numbers (2009-07 onward)
// from ordinary integers such as years or quantities.
const excelSerialThreshold = 40000

var (
	isoDatePattern     = regexp.MustCompile(`^(\d{4})-(\d{1,2})(?:-\d{1,2})?(?:[T ].*)?$`)
	slashDatePattern   = regexp.MustCompile(`^(\d{4})/(\d{1,2})(?:/\d{1,2})?(?:\s.*)?$`)
	compactDatePattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})$`)
	excelEpoch         = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
)

// ExtractMonth normalizes a source date into "YYYY-MM". Accepted encodings:
//   - ISO "2024-03-15" (time suffix allowed)
//   - slash "2024/3/15" or "2024/03"
//   - compact "20240315"
//   - Excel serial number (> 40000), as a number or numeric string
//
// Anything else returns "" and must be left out of month-keyed aggregation.
func ExtractMonth(v any) string {
	switch d := v.(type) {
	case string:
		return extractMonthString(d)
	case float64:
		return serialToMonth(d)
	case float32:
		return serialToMonth(float64(d))
	case int:
		return serialToMonth(float64(d))
	case int64:
		return serialToMonth(float64(d))
	default:
		return ""
	}
}

func extractMonthString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		return formatMonth(m[1], m[2])
	}
	if m := slashDatePattern.FindStringSubmatch(s); m != nil {
		return formatMonth(m[1], m[2])
	}
	if m := compactDatePattern.FindStringSubmatch(s); m != nil {
		return formatMonth(m[1], m[2])
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return serialToMonth(f)
	}
	return ""
}

func formatMonth(year, month string) string {
	y, err := strconv.Atoi(year)
	if err != nil {
		return ""
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d", y, m)
}

func serialToMonth(serial float64) string {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial <= excelSerialThreshold {
		return ""
	}
	t := ExcelSerialToTime(serial)
	return t.Format("2006-01")
}

// ExcelSerialToTime converts an Excel 1900-system serial into a UTC time.
func ExcelSerialToTime(serial float64) time.Time {
	days := math.Floor(serial)
	frac := serial - days
	t := excelEpoch.AddDate(0, 0, int(days))
	return t.Add(time.Duration(frac * float64(24*time.Hour)))
}

// ExtractYear returns the "YYYY" prefix of a month key, or "".
func ExtractYear(month string) string {
	if len(month) < 4 {
		return ""
	}
	return month[:4]
}

// CalendarMonth returns 1..12 for a "YYYY-MM" key, 0 when malformed.
func CalendarMonth(month string) int {
	if len(month) != 7 {
		return 0
	}
	m, err := strconv.Atoi(month[5:])
	if err != nil || m < 1 || m > 12 {
		return 0
	}
	return m
}

// ShiftMonth moves a "YYYY-MM" key by delta months. Malformed keys return "".
func ShiftMonth(month string, delta int) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return ""
	}
	return t.AddDate(0, delta, 0).Format("2006-01")
}

// MonthsBetween returns the number of months from a to b ("YYYY-MM").
func MonthsBetween(a, b string) int {
	ta, errA := time.Parse("2006-01", a)
	tb, errB := time.Parse("2006-01", b)
	if errA != nil || errB != nil {
		return 0
	}
	return (tb.Year()-ta.Year())*12 + int(tb.Month()) - int(ta.Month())
}
