// Package pareto ranks items by contribution and grades them A/B/C by
// cumulative share. The same algorithm serves customers, products and cost
// drivers.
package pareto

import (
	"math"
	"sort"

	"erp_analytics/pkg/core/calc"
)

// Grade is an ABC class.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
)

// Cutoffs are the inclusive cumulative-share boundaries of grades A and B.
type Cutoffs struct {
	A             float64 `yaml:"a" json:"a"`
	B             float64 `yaml:"b" json:"b"`
	MarginPenalty float64 `yaml:"margin_penalty" json:"margin_penalty"`
}

// DefaultCutoffs: A up to 80%, B up to 95%, margin penalty below 15%.
var DefaultCutoffs = Cutoffs{A: 80, B: 95, MarginPenalty: 15}

// Item is one ranked, graded entry.
type Item struct {
	Rank            int     `json:"rank"`
	Key             string  `json:"key"`
	Name            string  `json:"name"`
	Value           float64 `json:"value"`
	Share           float64 `json:"share"`            // |value| / Σ|value| * 100
	CumulativeShare float64 `json:"cumulative_share"` // running share, non-decreasing
	Margin          float64 `json:"margin,omitempty"`
	Grade           Grade   `json:"grade"`
	Demoted         bool    `json:"demoted,omitempty"`
}

// Input is one pre-aggregation contribution. Items sharing a key are summed.
type Input struct {
	Key    string
	Name   string
	Value  float64
	Profit float64 // used by the margin-penalty variant only
}

// GradeFor maps a cumulative share onto a grade. Boundaries are inclusive.
func GradeFor(cumulative float64, c Cutoffs) Grade {
	switch {
	case cumulative <= c.A:
		return GradeA
	case cumulative <= c.B:
		return GradeB
	default:
		return GradeC
	}
}

// Classify groups inputs by key, sums their values, sorts descending by the
// raw value and grades on cumulative absolute share. Negative items still
// rank (at the bottom) but their absolute value only ever raises the running
// share. When the absolute total is 0 every item grades C.
func Classify(inputs []Input, c Cutoffs) []Item {
	items := aggregate(inputs)
	var total float64
	for _, it := range items {
		total += math.Abs(it.Value)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Value != items[j].Value {
			return items[i].Value > items[j].Value
		}
		return items[i].Key < items[j].Key
	})

	var running float64
	for i := range items {
		items[i].Rank = i + 1
		if total == 0 {
			items[i].Grade = GradeC
			continue
		}
		running += math.Abs(items[i].Value)
		items[i].Share = math.Abs(items[i].Value) / total * 100
		items[i].CumulativeShare = math.Min(100, running/total*100)
		items[i].Grade = GradeFor(items[i].CumulativeShare, c)
	}
	if total != 0 && len(items) > 0 {
		// Running float sums can land a hair off 100 on the last item.
		items[len(items)-1].CumulativeShare = 100
		items[len(items)-1].Grade = GradeFor(100, c)
	}
	return items
}

// ClassifyWithMargin grades like Classify, then demotes A items to B and B
// items to C when their margin (profit / value * 100) is below the cutoff's
// MarginPenalty.
func ClassifyWithMargin(inputs []Input, c Cutoffs) []Item {
	profit := make(map[string]float64)
	for _, in := range inputs {
		profit[calc.KeyOrUnclassified(in.Key)] += in.Profit
	}
	items := Classify(inputs, c)
	for i := range items {
		items[i].Margin = calc.SafePercent(profit[items[i].Key], items[i].Value)
		if items[i].Margin >= c.MarginPenalty {
			continue
		}
		switch items[i].Grade {
		case GradeA:
			items[i].Grade = GradeB
			items[i].Demoted = true
		case GradeB:
			items[i].Grade = GradeC
			items[i].Demoted = true
		}
	}
	return items
}

func aggregate(inputs []Input) []Item {
	index := make(map[string]int)
	var items []Item
	for _, in := range inputs {
		key := calc.KeyOrUnclassified(in.Key)
		i, ok := index[key]
		if !ok {
			name := in.Name
			if name == "" {
				name = key
			}
			i = len(items)
			index[key] = i
			items = append(items, Item{Key: key, Name: name})
		}
		items[i].Value += in.Value
	}
	return items
}

// =============================================================================
// SUMMARIES
// =============================================================================

// GradeSummary aggregates one grade.
type GradeSummary struct {
	Grade     Grade   `json:"grade"`
	Count     int     `json:"count"`
	Value     float64 `json:"value"`
	CountRate float64 `json:"count_rate"`
	Share     float64 `json:"share"`
}

// Summarize counts items and value per grade in A, B, C order.
func Summarize(items []Item) []GradeSummary {
	out := []GradeSummary{{Grade: GradeA}, {Grade: GradeB}, {Grade: GradeC}}
	idx := map[Grade]int{GradeA: 0, GradeB: 1, GradeC: 2}
	var total float64
	for _, it := range items {
		total += math.Abs(it.Value)
	}
	for _, it := range items {
		s := &out[idx[it.Grade]]
		s.Count++
		s.Value += it.Value
		s.Share += calc.SafePercent(math.Abs(it.Value), total)
	}
	for i := range out {
		out[i].CountRate = calc.SafePercent(float64(out[i].Count), float64(len(items)))
	}
	return out
}

// Concentration describes how concentrated the contributions are.
type Concentration struct {
	HHI       float64 `json:"hhi"`        // Σ share² in percent points, 0..10000
	TopShare  float64 `json:"top_share"`  // share of the largest item
	Top5Share float64 `json:"top5_share"` // share of the five largest items
	Level     string  `json:"level"`      // low / moderate / high
}

// CalcConcentration computes the Herfindahl-Hirschman index over graded
// items. HHI below 1500 is low, up to 2500 moderate, above that high.
func CalcConcentration(items []Item) Concentration {
	var c Concentration
	for i, it := range items {
		c.HHI += it.Share * it.Share
		if i == 0 {
			c.TopShare = it.Share
		}
		if i < 5 {
			c.Top5Share += it.Share
		}
	}
	switch {
	case c.HHI > 2500:
		c.Level = "high"
	case c.HHI >= 1500:
		c.Level = "moderate"
	default:
		c.Level = "low"
	}
	return c
}
