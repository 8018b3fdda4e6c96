// Package utils holds the text helpers shared by the report and service
// layers: number formatting for narrative text, lenient payload parsing and
// markdown rendering.
package utils

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Missing is shown in place of non-finite numbers.
const Missing = "-"

var printer = message.NewPrinter(language.Korean)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatNumber rounds v to a whole number with thousands separators.
func FormatNumber(v float64) string {
	if !finite(v) {
		return Missing
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatSignedNumber is FormatNumber with an explicit plus sign.
func FormatSignedNumber(v float64) string {
	if !finite(v) {
		return Missing
	}
	if math.Round(v) > 0 {
		return "+" + FormatNumber(v)
	}
	return FormatNumber(v)
}

// FormatPercent renders v with one decimal and a percent sign.
func FormatPercent(v float64) string {
	if !finite(v) {
		return Missing
	}
	return printer.Sprintf("%.1f%%", v)
}

// FormatSignedPercent is FormatPercent with an explicit plus sign.
func FormatSignedPercent(v float64) string {
	if !finite(v) {
		return Missing
	}
	if v > 0 {
		return "+" + FormatPercent(v)
	}
	return FormatPercent(v)
}

// FormatDays renders a day count such as DSO.
func FormatDays(v float64) string {
	if !finite(v) {
		return Missing
	}
	return printer.Sprintf("%d일", int64(math.Round(v)))
}

// FormatEok renders a KRW amount in 억원 (10^8) with one decimal, falling
// back to 만원 below one 억.
func FormatEok(v float64) string {
	if !finite(v) {
		return Missing
	}
	if math.Abs(v) >= 1e8 {
		return printer.Sprintf("%.1f억원", v/1e8)
	}
	return printer.Sprintf("%d만원", int64(math.Round(v/1e4)))
}
