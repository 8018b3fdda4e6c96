package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234,567", 1234567, true},
		{"(1,200)", -1200, true},
		{"1,200-", -1200, true},
		{"₩ 5,000원", 5000, true},
		{"12.5%", 12.5, true},
		{"", 0, true},
		{"-", 0, true},
		{"#N/A", 0, true},
		{"abc", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseNumber(tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "가나 상사", CleanString("  가나   상사 "))
	assert.Equal(t, "", CleanString("nan"))
	assert.Equal(t, "", CleanString(" None "))
}

func TestMergeHeaders(t *testing.T) {
	got := MergeHeaders([][]string{
		{"조직", "매출액", "", "", "영업이익", ""},
		{"", "계획", "실적", "차이", "계획", "실적"},
	})
	assert.Equal(t, []string{"조직", "매출액 계획", "매출액 실적", "매출액 차이", "영업이익 계획", "영업이익 실적"}, got)
}

func TestDetectHeaderRows(t *testing.T) {
	assert.Equal(t, 2, DetectHeaderRows([][]string{{"조직", "매출액"}, {"", "계획"}}))
	assert.Equal(t, 1, DetectHeaderRows([][]string{{"조직", "매출액"}, {"A", "100"}}))
}

func TestParseSales(t *testing.T) {
	tbl := &Table{
		Headers: []string{"매출일자", "영업조직", "거래처코드", "거래처명", "품목명", "통화", "환율", "거래금액", "장부금액"},
		Rows: [][]string{
			{"2024-01-15", "A사업부", "C1", "가나상사", "볼트", "USD", "1,300", "100", "130,000"},
			{"2024/02/03", "A사업부", "C2", "다라물산", "너트", "", "", "", "50,000"},
			{"bad-date", "B사업부", "C3", "마바", "너트", "", "", "", "x"},
			{"합계", "", "", "", "", "", "", "", "180,000"},
		},
	}
	var ds models.Dataset
	res, err := Parse(KindSales, tbl, &ds)
	require.NoError(t, err)

	require.Len(t, ds.Sales, 3)
	assert.Equal(t, 3, res.Rows)
	assert.Equal(t, 1, res.SkippedTotals)
	assert.Equal(t, 130000.0, ds.Sales[0].BookAmount)
	assert.Equal(t, 100.0, ds.Sales[0].TransactionAmount)
	assert.Equal(t, "가나상사", ds.Sales[0].CustomerName)
	assert.Equal(t, 0.0, ds.Sales[2].BookAmount)
	assert.Len(t, res.Warnings, 2, "one bad date, one bad amount")

	require.Len(t, res.Checks, 1)
	assert.Equal(t, CheckMatch, res.Checks[0].Status)
	assert.Equal(t, 180000.0, res.Checks[0].Reported)
}

func TestParseMissingColumn(t *testing.T) {
	tbl := &Table{Headers: []string{"거래처명", "금액"}, Rows: [][]string{{"가", "1"}}}
	_, err := Parse(KindSales, tbl, &models.Dataset{})
	assert.ErrorIs(t, err, ErrMissingColumn)

	_, err = Parse(Kind("unknown"), tbl, &models.Dataset{})
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseOrgProfitTwoLevelHeader(t *testing.T) {
	rows := [][]string{
		{"조직", "매출액", "", "", "매출원가", "", "", "영업이익", "", ""},
		{"", "계획", "실적", "차이", "계획", "실적", "차이", "계획", "실적", "차이"},
		{"A사업부", "1,000", "1,100", "999", "700", "800", "100", "100", "90", "-10"},
		{"B사업부", "500", "400", "-100", "300", "250", "-50", "50", "20", "-30"},
		{"합계", "1,500", "1,500", "0", "1,000", "1,050", "50", "150", "110", "-40"},
	}
	tbl, err := newTable(rows, 0)
	require.NoError(t, err)

	var ds models.Dataset
	res, err := Parse(KindOrgProfit, tbl, &ds)
	require.NoError(t, err)
	require.Len(t, ds.OrgProfit, 2)

	a := ds.OrgProfit[0]
	assert.Equal(t, "A사업부", a.Org)
	assert.Equal(t, models.PlanActualDiff{Plan: 1000, Actual: 1100, Diff: 999}, a.Sales, "supplied diff is kept as is")
	assert.Equal(t, 100.0, a.Sales.Variance())
	assert.Equal(t, 800.0, a.CostOfGoods.Actual)
	assert.Equal(t, 90.0, a.OperatingProfit.Actual)

	require.Len(t, res.Checks, 1)
	assert.Equal(t, CheckMatch, res.Checks[0].Status)
}

func TestParseTeamContributionFillDown(t *testing.T) {
	tbl := &Table{
		Headers: []string{"영업조직팀", "영업사원", "매출액 계획", "매출액 실적", "원재료비 계획", "원재료비 실적", "변동비계 계획", "변동비계 실적", "기타수익 계획", "기타수익 실적"},
		Rows: [][]string{
			{"1팀", "김", "100", "110", "40", "45", "60", "70", "1", "2"},
			{"", "이", "200", "190", "80", "70", "120", "110", "3", "4"},
			{"", "소계", "300", "300", "120", "115", "180", "180", "4", "6"},
			{"2팀", "박", "50", "55", "20", "25", "30", "35", "0", "0"},
		},
	}
	var ds models.Dataset
	res, err := Parse(KindTeamContribution, tbl, &ds)
	require.NoError(t, err)
	require.Len(t, ds.TeamContribution, 3)
	assert.Equal(t, 1, res.SkippedTotals)

	second := ds.TeamContribution[1]
	assert.Equal(t, "1팀", second.OrgTeam, "team is filled down")
	assert.Equal(t, "이", second.Salesperson)
	assert.Equal(t, 70.0, second.Cost(models.CostRawMaterial).Actual)
	assert.Equal(t, 110.0, second.VariableCostTotal.Actual)
	assert.Equal(t, 4.0, second.Extra["기타수익"].Actual)
	assert.Equal(t, "2팀", ds.TeamContribution[2].OrgTeam)
}

func TestParseAging(t *testing.T) {
	tbl := &Table{
		Headers: []string{"영업조직", "영업사원", "거래처코드", "거래처명", "여신한도", "1개월", "2개월", "3개월", "4개월", "5개월", "6개월", "기간초과", "합계"},
		Rows: [][]string{
			{"A", "김", "C1", "가나", "1,000", "100", "50", "0", "0", "0", "0", "10", "160"},
			{"", "", "C2", "다라", "", "10", "0", "0", "0", "0", "0", "0", "20"},
			{"합계", "", "", "", "", "110", "50", "0", "0", "0", "0", "10", "180"},
		},
	}
	var ds models.Dataset
	res, err := Parse(KindAging, tbl, &ds)
	require.NoError(t, err)
	require.Len(t, ds.Aging, 2)

	assert.Equal(t, "A", ds.Aging[1].Org)
	assert.Equal(t, "김", ds.Aging[1].Salesperson)
	assert.Equal(t, 160.0, ds.Aging[0].Total.BookAmount)
	assert.Equal(t, 10.0, ds.Aging[0].Overdue.BookAmount)
	assert.Equal(t, 1000.0, ds.Aging[0].CreditLimit)
	require.Len(t, res.Warnings, 1, "second row total disagrees with its buckets")
	assert.Contains(t, res.Warnings[0], "C2")
	require.Len(t, res.Checks, 1)
	assert.Equal(t, CheckMatch, res.Checks[0].Status)
}

func TestParseCustomerItems(t *testing.T) {
	tbl := &Table{
		Headers: []string{"거래처코드", "품목코드", "매출액", "매출원가"},
		Rows:    [][]string{{"C1", "P1", "100", "60"}},
	}
	var ds models.Dataset
	_, err := Parse(KindCustomerItems, tbl, &ds)
	require.NoError(t, err)
	require.Len(t, ds.CustomerItems, 1)
	assert.Equal(t, 40.0, ds.CustomerItems[0].GrossProfit)
}

func TestReconcile(t *testing.T) {
	got := Reconcile(
		map[string]float64{"a": 1000, "b": 1000.3, "c": 1200, "d": 5},
		map[string]float64{"a": 1000, "b": 1000, "c": 1000},
	)
	require.Len(t, got, 3)
	assert.Equal(t, CheckMatch, got[0].Status)
	assert.Equal(t, CheckMatch, got[1].Status)
	assert.Equal(t, CheckMismatch, got[2].Status)
	assert.Equal(t, 200.0, got[2].Variance)
}

func TestWarningsCap(t *testing.T) {
	w := &Warnings{}
	for i := 0; i < MaxWarnings+7; i++ {
		w.Addf("row %d", i)
	}
	assert.Len(t, w.List(), MaxWarnings)
	assert.Equal(t, 7, w.Dropped())
}

func TestReadHTMLTable(t *testing.T) {
	html := `<html><body>
<table><tr><td>title</td></tr></table>
<table>
<tr><th>조직</th><th colspan="2">매출액</th></tr>
<tr><th></th><th>계획</th><th>실적</th></tr>
<tr><td>A</td><td>1,000</td><td>1,100</td></tr>
<tr><td>B</td><td>500</td><td>400</td></tr>
</table></body></html>`
	tbl, err := ReadTable(strings.NewReader(html), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"조직", "매출액 계획", "매출액 실적"}, tbl.Headers)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"A", "1,000", "1,100"}, tbl.Rows[0])
}

func TestReadCSV(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("\ufeff매출일자\t거래처명\t장부금액\n2024-01-01\t가나\t1,000\n\n"), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"매출일자", "거래처명", "장부금액"}, tbl.Headers)
	assert.Equal(t, [][]string{{"2024-01-01", "가나", "1,000"}}, tbl.Rows)
}

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"수금일자", "거래처명", "수금액"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"2024-03-05", "가나", 2500}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := ReadTable(bytes.NewReader(buf.Bytes()), 0)
	require.NoError(t, err)
	assert.Equal(t, sheet, tbl.Sheet)

	var ds models.Dataset
	res, err := Parse(KindCollections, tbl, &ds)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rows)
	assert.Equal(t, 2500.0, ds.Collections[0].BookAmount)
	assert.Equal(t, "2024-03-05", ds.Collections[0].CollectionDate)
}

func TestReadWorkbookDateCells(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"수금일자", "거래처명", "수금액"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), "가나", 1234567}))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 3})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "C2", "C2", style))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := ReadWorkbook(bytes.NewReader(buf.Bytes()), "", 0)
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "2024-03", calc.ExtractMonth(tbl.Rows[0][0]))

	var ds models.Dataset
	res, err := Parse(KindCollections, tbl, &ds)
	require.NoError(t, err)
	for _, w := range res.Warnings {
		assert.NotContains(t, w, "날짜")
	}
	assert.Equal(t, "2024-03", calc.ExtractMonth(ds.Collections[0].CollectionDate))
	assert.Equal(t, 1234567.0, ds.Collections[0].BookAmount)
}

func TestReadTableRejectsLegacyXLS(t *testing.T) {
	_, err := ReadTable(bytes.NewReader([]byte("\xd0\xcf\x11\xe0rest")), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadTable(strings.NewReader("   "), 0)
	assert.ErrorIs(t, err, ErrEmptyTable)
}
