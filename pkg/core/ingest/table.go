// Package ingest turns ERP report exports into typed records. It reads
// xlsx workbooks, the HTML tables SAP saves with an .xls extension and
// plain CSV, maps Korean report headers onto record fields, restores
// hierarchical columns with fill-down and reconciles the report's own
// total rows against the parsed detail.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned when the payload is not a workbook,
	// HTML table or CSV.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyTable is returned when no header or data rows were found.
	ErrEmptyTable = errors.New("table has no data rows")
)

// Table is a rectangular sheet: merged header labels and raw data cells.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
}

// =============================================================================
// READERS
// =============================================================================

// ReadWorkbook reads one sheet of an xlsx workbook. An empty sheet name
// selects the first sheet. headerRows is the number of header lines to
// merge (SAP summary reports use two: metric, then plan/actual/diff); 0
// detects it.
func ReadWorkbook(r io.Reader, sheet string, headerRows int) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrEmptyTable
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	t, err := newTable(rows, headerRows)
	if err != nil {
		return nil, fmt.Errorf("sheet %s: %w", sheet, err)
	}
	t.Sheet = sheet
	return t, nil
}

// ReadHTMLTable reads the largest <table> of an HTML document.
func ReadHTMLTable(r io.Reader, headerRows int) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var best [][]string
	doc.Find("table").Each(func(i int, table *goquery.Selection) {
		var rows [][]string
		table.Find("tr").Each(func(j int, tr *goquery.Selection) {
			var cells []string
			tr.Find("td, th").Each(func(k int, cell *goquery.Selection) {
				text := CleanString(cell.Text())
				cells = append(cells, text)
				// colspan cells repeat as blanks so columns stay aligned
				if span, ok := cell.Attr("colspan"); ok {
					var n int
					if _, err := fmt.Sscanf(span, "%d", &n); err == nil {
						for ; n > 1; n-- {
							cells = append(cells, "")
						}
					}
				}
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
		})
		if len(rows) > len(best) {
			best = rows
		}
	})
	if best == nil {
		return nil, fmt.Errorf("%w: no <table> element", ErrEmptyTable)
	}
	return newTable(best, headerRows)
}

// ReadCSV reads comma or tab separated text; the delimiter is taken from the
// first line.
func ReadCSV(r io.Reader, headerRows int) (*Table, error) {
	br := bufio.NewReader(r)
	first, _ := br.Peek(4096)
	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	if line, _, _ := bytes.Cut(first, []byte("\n")); bytes.Count(line, []byte("\t")) > bytes.Count(line, []byte(",")) {
		cr.Comma = '\t'
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return newTable(rows, headerRows)
}

// ReadTable sniffs the payload and dispatches to the matching reader.
func ReadTable(r io.Reader, headerRows int) (*Table, error) {
	return ReadSheet(r, "", headerRows)
}

// ReadSheet is ReadTable with a sheet name for workbooks. Other formats
// ignore the sheet.
func ReadSheet(r io.Reader, sheet string, headerRows int) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return ReadWorkbook(bytes.NewReader(data), sheet, headerRows)
	case bytes.HasPrefix(data, []byte("\xd0\xcf\x11\xe0")):
		return nil, fmt.Errorf("%w: legacy binary .xls, save as .xlsx", ErrUnsupportedFormat)
	case bytes.HasPrefix(trimmed, []byte("<")):
		return ReadHTMLTable(bytes.NewReader(trimmed), headerRows)
	case len(trimmed) > 0:
		return ReadCSV(bytes.NewReader(trimmed), headerRows)
	}
	return nil, ErrEmptyTable
}

// =============================================================================
// SHAPING
// =============================================================================

// newTable drops leading and trailing blank rows, merges the header rows
// and pads every data row to the header width. headerRows <= 0 detects the
// header depth.
func newTable(rows [][]string, headerRows int) (*Table, error) {
	for len(rows) > 0 && blankRow(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if headerRows <= 0 {
		headerRows = DetectHeaderRows(rows)
	}
	if len(rows) <= headerRows {
		return nil, ErrEmptyTable
	}

	headers := MergeHeaders(rows[:headerRows])
	t := &Table{Headers: headers}
	for _, row := range rows[headerRows:] {
		if blankRow(row) {
			continue
		}
		cells := make([]string, len(headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = CleanString(row[i])
			}
		}
		t.Rows = append(t.Rows, cells)
	}
	if len(t.Rows) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

// MergeHeaders joins stacked header lines into one label per column. A
// blank cell in an upper line continues the label to its left (merged
// cells), so "매출액 | | " over "계획 | 실적 | 차이" yields "매출액 계획",
// "매출액 실적", "매출액 차이".
func MergeHeaders(lines [][]string) []string {
	width := 0
	for _, l := range lines {
		width = max(width, len(l))
	}
	out := make([]string, width)
	for li, line := range lines {
		last := ""
		for c := 0; c < width; c++ {
			cell := ""
			if c < len(line) {
				cell = CleanString(line[c])
			}
			// only upper lines span; the bottom line labels its own column
			if cell == "" && li < len(lines)-1 {
				cell = last
			}
			last = cell
			if cell == "" {
				continue
			}
			if out[c] == "" {
				out[c] = cell
			} else if out[c] != cell {
				out[c] += " " + cell
			}
		}
	}
	return out
}

// DetectHeaderRows returns 2 when the second line labels plan, actual or
// diff sub-columns, otherwise 1.
func DetectHeaderRows(rows [][]string) int {
	if len(rows) < 2 {
		return 1
	}
	for _, cell := range rows[1] {
		switch normalizeHeader(cell) {
		case "계획", "목표", "실적", "차이", "증감", "plan", "actual", "diff":
			return 2
		}
	}
	return 1
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
