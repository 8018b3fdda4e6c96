package calc

import "strings"

// FillDown forward-fills hierarchical report columns. SAP summary reports
// print a parent dimension only on the first row of its group; FillDown
// restores it on every row.
//
// levels lists column groups from the highest level to the lowest. A
// non-empty cell in any column of a level marks a new group at that level,
// which resets every lower level's remembered values. Rows are copied; the
// input is not modified.
func FillDown(rows [][]string, levels [][]int) [][]string {
	out := make([][]string, len(rows))
	last := make([][]string, len(levels))
	for i, cols := range levels {
		last[i] = make([]string, len(cols))
	}

	for r, row := range rows {
		filled := append([]string(nil), row...)
		for li, cols := range levels {
			if levelPresent(filled, cols) {
				for ci, c := range cols {
					last[li][ci] = cellAt(filled, c)
				}
				for lower := li + 1; lower < len(levels); lower++ {
					for ci := range last[lower] {
						last[lower][ci] = ""
					}
				}
				continue
			}
			for ci, c := range cols {
				if c < len(filled) {
					filled[c] = last[li][ci]
				}
			}
		}
		out[r] = filled
	}
	return out
}

func levelPresent(row []string, cols []int) bool {
	for _, c := range cols {
		if cellAt(row, c) != "" {
			return true
		}
	}
	return false
}

func cellAt(row []string, c int) string {
	if c < 0 || c >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[c])
}
