// Package cohort groups customers by the month of their first purchase and
// tracks how many of them buy again in later months.
package cohort

import (
	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// Row is one acquisition cohort. Retention[k] is the share of the cohort
// buying k months after acquisition; Retention[0] is always 100.
type Row struct {
	Cohort    string    `json:"cohort"`
	Size      int       `json:"size"`
	Active    []int     `json:"active"`
	Retention []float64 `json:"retention"`
	Revenue   float64   `json:"revenue"`
}

// Summary adds the size-weighted average retention per month offset.
type Summary struct {
	Rows             []Row     `json:"rows"`
	AverageRetention []float64 `json:"average_retention"`
	Customers        int       `json:"customers"`
}

func customerKey(s models.SalesRecord) string {
	if s.CustomerCode != "" {
		return s.CustomerCode
	}
	return s.CustomerName
}

// CalcCohortRetention builds cohorts from sales. Records without a readable
// date or a customer key are ignored. Offsets run up to the last month
// present in the data.
func CalcCohortRetention(sales []models.SalesRecord) Summary {
	active := map[string]map[string]struct{}{} // customer -> months
	revenue := map[string]float64{}
	var lastMonth string
	for _, s := range sales {
		m := calc.ExtractMonth(s.SalesDate)
		c := customerKey(s)
		if m == "" || c == "" {
			continue
		}
		if active[c] == nil {
			active[c] = map[string]struct{}{}
		}
		active[c][m] = struct{}{}
		revenue[c] += s.BookAmount
		if m > lastMonth {
			lastMonth = m
		}
	}
	if len(active) == 0 {
		return Summary{}
	}

	members := map[string][]string{} // cohort -> customers
	for c, months := range active {
		first := calc.SortedKeys(months)[0]
		members[first] = append(members[first], c)
	}

	var sum Summary
	sum.Customers = len(active)
	var weighted []float64
	var weights []int
	for _, cohort := range calc.SortedKeys(members) {
		customers := members[cohort]
		span := calc.MonthsBetween(cohort, lastMonth) + 1
		row := Row{
			Cohort:    cohort,
			Size:      len(customers),
			Active:    make([]int, span),
			Retention: make([]float64, span),
		}
		for _, c := range customers {
			row.Revenue += revenue[c]
			for k := 0; k < span; k++ {
				if _, ok := active[c][calc.ShiftMonth(cohort, k)]; ok {
					row.Active[k]++
				}
			}
		}
		for k := range row.Active {
			row.Retention[k] = calc.SafePercent(float64(row.Active[k]), float64(row.Size))
		}
		for len(weighted) < span {
			weighted = append(weighted, 0)
			weights = append(weights, 0)
		}
		for k := 0; k < span; k++ {
			weighted[k] += row.Retention[k] * float64(row.Size)
			weights[k] += row.Size
		}
		sum.Rows = append(sum.Rows, row)
	}
	sum.AverageRetention = make([]float64, len(weighted))
	for k := range weighted {
		sum.AverageRetention[k] = calc.SafeDiv(weighted[k], float64(weights[k]))
	}
	return sum
}
