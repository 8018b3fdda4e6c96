package calc

import (
	"strings"

	"erp_analytics/pkg/models"

	"github.com/samber/lo"
)

// FilterByOrg keeps records whose org is in orgs. An empty selection keeps
// everything. The returned slice is a fresh allocation.
func FilterByOrg[T any](records []T, orgs []string, org func(T) string) []T {
	if len(orgs) == 0 {
		return append([]T(nil), records...)
	}
	set := NewOrgSet(orgs)
	return lo.Filter(records, func(r T, _ int) bool {
		return set.Contains(org(r))
	})
}

// FilterByDateRange keeps records whose month falls inside rng (inclusive).
// When a bound is set, records with an unparseable date are dropped.
func FilterByDateRange[T any](records []T, rng models.DateRange, date func(T) string) []T {
	if rng.IsZero() {
		return append([]T(nil), records...)
	}
	from := ExtractMonth(rng.From)
	to := ExtractMonth(rng.To)
	return lo.Filter(records, func(r T, _ int) bool {
		return InMonthRange(ExtractMonth(date(r)), from, to)
	})
}

// InMonthRange reports whether month lies in [from, to]. Empty bounds are
// open; an empty month never matches.
func InMonthRange(month, from, to string) bool {
	if month == "" {
		return false
	}
	if from != "" && month < from {
		return false
	}
	if to != "" && month > to {
		return false
	}
	return true
}

// =============================================================================
// RECORD-SPECIFIC FILTERS
// =============================================================================

// FilterSales applies the org and date filter to sales records.
func FilterSales(records []models.SalesRecord, f models.Filter) []models.SalesRecord {
	out := FilterByOrg(records, f.Orgs, func(r models.SalesRecord) string { return r.Org })
	return FilterByDateRange(out, f.Range, func(r models.SalesRecord) string { return r.SalesDate })
}

// FilterOrders applies the org and date filter to order records.
func FilterOrders(records []models.OrderRecord, f models.Filter) []models.OrderRecord {
	out := FilterByOrg(records, f.Orgs, func(r models.OrderRecord) string { return r.Org })
	return FilterByDateRange(out, f.Range, func(r models.OrderRecord) string { return r.OrderDate })
}

// FilterCollections applies the org and date filter to collection records.
func FilterCollections(records []models.CollectionRecord, f models.Filter) []models.CollectionRecord {
	out := FilterByOrg(records, f.Orgs, func(r models.CollectionRecord) string { return r.Org })
	return FilterByDateRange(out, f.Range, func(r models.CollectionRecord) string { return r.CollectionDate })
}

// FilterAging applies the org filter to aging records. Aging is a point in
// time snapshot and has no date dimension.
func FilterAging(records []models.ReceivableAgingRecord, f models.Filter) []models.ReceivableAgingRecord {
	return FilterByOrg(records, f.Orgs, func(r models.ReceivableAgingRecord) string { return r.Org })
}

// FilterOrgProfit applies the org filter to org profit rows.
func FilterOrgProfit(records []models.OrgProfitRecord, f models.Filter) []models.OrgProfitRecord {
	return FilterByOrg(records, f.Orgs, func(r models.OrgProfitRecord) string { return r.Org })
}

// FilterTeamContribution keeps rows whose org team belongs to one of the
// selected orgs, matching by containment in either direction since team
// names embed the org name.
func FilterTeamContribution(records []models.TeamContributionRecord, f models.Filter) []models.TeamContributionRecord {
	if len(f.Orgs) == 0 {
		return append([]models.TeamContributionRecord(nil), records...)
	}
	return lo.Filter(records, func(r models.TeamContributionRecord, _ int) bool {
		for _, org := range f.Orgs {
			if MatchOrg(org, r.OrgTeam) {
				return true
			}
		}
		return false
	})
}

// MatchOrg matches two organization labels exactly, falling back to
// substring containment in either direction.
func MatchOrg(a, b string) bool {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// FilterItems applies the org filter to canonical item-profit rows.
func FilterItems(items []models.ItemProfit, f models.Filter) []models.ItemProfit {
	return FilterByOrg(items, f.Orgs, func(i models.ItemProfit) string { return i.Org })
}
