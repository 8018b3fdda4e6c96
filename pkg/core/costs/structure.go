package costs

import (
	"sort"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// StructureType is the cost-structure profile of a product or salesperson.
type StructureType string

const (
	SelfProduction       StructureType = "self_production"
	DirectPurchase       StructureType = "direct_purchase"
	OutsourcingDependent StructureType = "outsourcing_dependent"
	LaborIntensive       StructureType = "labor_intensive"
	FacilityIntensive    StructureType = "facility_intensive"
	Mixed                StructureType = "mixed"
)

// Label returns the Korean display label.
func (s StructureType) Label() string {
	switch s {
	case SelfProduction:
		return "자체생산형"
	case DirectPurchase:
		return "상품매입형"
	case OutsourcingDependent:
		return "외주의존형"
	case LaborIntensive:
		return "노동집약형"
	case FacilityIntensive:
		return "설비집약형"
	default:
		return "혼합형"
	}
}

// CostMix holds each bucket as a percentage of the summed buckets.
type CostMix struct {
	RawMaterial    float64 `json:"raw_material"`
	PurchasedGoods float64 `json:"purchased_goods"`
	Labor          float64 `json:"labor"`
	Facility       float64 `json:"facility"`
	Outsourcing    float64 `json:"outsourcing"`
	Logistics      float64 `json:"logistics"`
	General        float64 `json:"general"`
}

type structureRule struct {
	kind      StructureType
	ratio     func(CostMix) float64
	threshold float64
}

// First match wins.
var structureRules = []structureRule{
	{SelfProduction, func(m CostMix) float64 { return m.RawMaterial }, 40},
	{DirectPurchase, func(m CostMix) float64 { return m.PurchasedGoods }, 50},
	{OutsourcingDependent, func(m CostMix) float64 { return m.Outsourcing }, 20},
	{LaborIntensive, func(m CostMix) float64 { return m.Labor }, 25},
	{FacilityIntensive, func(m CostMix) float64 { return m.Facility }, 20},
}

// ClassifyCostStructure applies the fixed thresholds in order and returns
// Mixed when none match.
func ClassifyCostStructure(mix CostMix) StructureType {
	for _, r := range structureRules {
		if r.ratio(mix) >= r.threshold {
			return r.kind
		}
	}
	return Mixed
}

// MixOf sums the cost buckets of items and converts them to shares.
func MixOf(items []models.ItemProfit) (CostMix, float64) {
	sum := func(f func(models.ItemProfit) float64) float64 { return calc.SumBy(items, f) }
	raw := sum(func(i models.ItemProfit) float64 { return i.RawMaterial })
	purchased := sum(func(i models.ItemProfit) float64 { return i.PurchasedGoods })
	labor := sum(func(i models.ItemProfit) float64 { return i.Labor })
	facility := sum(func(i models.ItemProfit) float64 { return i.Facility })
	outsourcing := sum(func(i models.ItemProfit) float64 { return i.Outsourcing })
	logistics := sum(func(i models.ItemProfit) float64 { return i.Logistics })
	general := sum(func(i models.ItemProfit) float64 { return i.General })
	total := raw + purchased + labor + facility + outsourcing + logistics + general

	return CostMix{
		RawMaterial:    calc.SafePercent(raw, total),
		PurchasedGoods: calc.SafePercent(purchased, total),
		Labor:          calc.SafePercent(labor, total),
		Facility:       calc.SafePercent(facility, total),
		Outsourcing:    calc.SafePercent(outsourcing, total),
		Logistics:      calc.SafePercent(logistics, total),
		General:        calc.SafePercent(general, total),
	}, total
}

// Dimension selects what ProfileCostStructures groups by.
type Dimension string

const (
	ByProduct     Dimension = "product"
	BySalesperson Dimension = "salesperson"
	ByCustomer    Dimension = "customer"
)

func (d Dimension) key(i models.ItemProfit) (string, string) {
	switch d {
	case BySalesperson:
		return i.Salesperson, i.Salesperson
	case ByCustomer:
		if i.CustomerCode != "" {
			return i.CustomerCode, i.CustomerLabel()
		}
		return i.CustomerName, i.CustomerLabel()
	default:
		if i.ProductCode != "" {
			return i.ProductCode, i.ProductLabel()
		}
		return i.ProductName, i.ProductLabel()
	}
}

// StructureProfile is the classified cost structure of one entity.
type StructureProfile struct {
	Key       string        `json:"key"`
	Name      string        `json:"name"`
	Sales     float64       `json:"sales"`
	TotalCost float64       `json:"total_cost"`
	Mix       CostMix       `json:"mix"`
	Type      StructureType `json:"type"`
	TypeLabel string        `json:"type_label"`
	Margin    float64       `json:"margin"` // operating profit / sales * 100
}

// ProfileCostStructures classifies every entity of the given dimension.
// Only profitability rows carry cost buckets; entities without any bucket
// cost are skipped. Result is ordered by sales, largest first.
func ProfileCostStructures(items []models.ItemProfit, by Dimension) []StructureProfile {
	var withBuckets []models.ItemProfit
	for _, it := range items {
		if it.Source == models.SourceProfitability {
			withBuckets = append(withBuckets, it)
		}
	}
	groups := calc.GroupBy(withBuckets, func(i models.ItemProfit) string {
		k, _ := by.key(i)
		return k
	})

	out := make([]StructureProfile, 0, len(groups))
	for key, rows := range groups {
		mix, total := MixOf(rows)
		if total == 0 {
			continue
		}
		_, name := by.key(rows[0])
		if name == "" {
			name = key
		}
		sales := calc.SumBy(rows, func(i models.ItemProfit) float64 { return i.Sales })
		kind := ClassifyCostStructure(mix)
		out = append(out, StructureProfile{
			Key:       key,
			Name:      name,
			Sales:     sales,
			TotalCost: total,
			Mix:       mix,
			Type:      kind,
			TypeLabel: kind.Label(),
			Margin:    calc.WeightedAverageMargin(rows, func(i models.ItemProfit) float64 { return i.Sales }, func(i models.ItemProfit) float64 { return i.Operating }),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Sales != out[j].Sales {
			return out[i].Sales > out[j].Sales
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// StructureCount tallies profiles per structure type.
type StructureCount struct {
	Type  StructureType `json:"type"`
	Label string        `json:"label"`
	Count int           `json:"count"`
	Sales float64       `json:"sales"`
}

// CountStructures tallies profiles in the fixed rule order, Mixed last.
func CountStructures(profiles []StructureProfile) []StructureCount {
	order := []StructureType{SelfProduction, DirectPurchase, OutsourcingDependent, LaborIntensive, FacilityIntensive, Mixed}
	out := make([]StructureCount, len(order))
	idx := make(map[StructureType]int, len(order))
	for i, t := range order {
		out[i] = StructureCount{Type: t, Label: t.Label()}
		idx[t] = i
	}
	for _, p := range profiles {
		c := &out[idx[p.Type]]
		c.Count++
		c.Sales += p.Sales
	}
	return out
}
