package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,568", FormatNumber(1234567.6))
	assert.Equal(t, "-400,000", FormatNumber(-400000))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, Missing, FormatNumber(math.Inf(1)))
	assert.Equal(t, Missing, FormatNumber(math.NaN()))
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+1,000", FormatSignedNumber(1000))
	assert.Equal(t, "-5", FormatSignedNumber(-5))
	assert.Equal(t, "+12.5%", FormatSignedPercent(12.5))
	assert.Equal(t, "-3.0%", FormatSignedPercent(-3))
	assert.Equal(t, Missing, FormatPercent(math.Inf(-1)))
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "45일", FormatDays(44.6))
	assert.Equal(t, "1.5억원", FormatEok(150000000))
	assert.Equal(t, "3,000만원", FormatEok(30000000))
}

type override struct {
	SalesChangePct float64 `json:"sales_change_pct"`
	Note           string  `json:"note"`
}

func TestParseLenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Strict JSON", `{"sales_change_pct": 5, "note": "x"}`},
		{"Hjson with comments", "{\n  # bump sales\n  sales_change_pct: 5\n  note: x\n}"},
		{"Trailing comma", `{"sales_change_pct": 5, "note": "x",}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o override
			_, err := ParseLenient(tt.input, &o)
			require.NoError(t, err)
			assert.Equal(t, 5.0, o.SalesChangePct)
			assert.Equal(t, "x", o.Note)
		})
	}
}

func TestParseLenientRejectsEmpty(t *testing.T) {
	var o override
	_, err := ParseLenient("   ", &o)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestCleanMarkdown(t *testing.T) {
	assert.Equal(t, "# 제목", CleanMarkdown("```markdown\n# 제목\n```"))
	assert.Equal(t, "plain", CleanMarkdown("  plain  "))
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<table>")
	assert.True(t, ValidateMarkdown("# heading"))
	assert.False(t, ValidateMarkdown(""))
}
