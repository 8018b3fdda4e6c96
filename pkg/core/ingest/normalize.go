package ingest

import (
	"strconv"
	"strings"
	"unicode"
)

// nullTokens are spreadsheet placeholders read as empty.
var nullTokens = map[string]bool{
	"nan": true, "none": true, "null": true, "n/a": true, "#n/a": true,
	"#value!": true, "#div/0!": true, "#ref!": true,
}

// CleanString trims, collapses inner whitespace (non-breaking spaces
// included) and maps spreadsheet null placeholders to "".
func CleanString(s string) string {
	s = strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
	if nullTokens[strings.ToLower(s)] {
		return ""
	}
	return s
}

// ParseNumber reads an ERP-formatted number. It accepts thousands
// separators, currency marks, a trailing percent sign, accounting
// parentheses and SAP's trailing minus ("1,200-"). Blank cells and a lone
// dash are zero. ok is false only when the text is not a number at all, in
// which case the value is 0.
func ParseNumber(s string) (v float64, ok bool) {
	s = CleanString(s)
	if s == "" || s == "-" {
		return 0, true
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		neg = !neg
		s = strings.TrimSuffix(s, "-")
	}
	s = strings.Map(func(r rune) rune {
		switch r {
		case ',', ' ', '₩', '$', '¥', '€', '%', '원':
			return -1
		}
		return r
	}, s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// normalizeHeader folds a header label for matching: spaces, brackets,
// underscores and dots are removed and latin letters lowercased.
func normalizeHeader(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r):
			return -1
		case strings.ContainsRune("()[]_.-/·", r):
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// isTotalLabel reports whether a dimension cell marks a subtotal or grand
// total row.
func isTotalLabel(s string) bool {
	n := normalizeHeader(s)
	for _, t := range []string{"합계", "소계", "총계", "total", "subtotal"} {
		if n == t || strings.HasSuffix(n, t) {
			return true
		}
	}
	return false
}

// isSubtotalLabel reports whether a total label is an intermediate one.
func isSubtotalLabel(s string) bool {
	n := normalizeHeader(s)
	return strings.HasSuffix(n, "소계") || strings.HasSuffix(n, "subtotal")
}
