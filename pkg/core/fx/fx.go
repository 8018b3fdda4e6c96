// Package fx splits sales by transaction currency and measures the exchange
// rate effect on book (KRW) amounts.
package fx

import (
	"sort"
	"strings"

	"erp_analytics/pkg/core/calc"
	"erp_analytics/pkg/models"
)

// BaseCurrency is the book currency.
const BaseCurrency = "KRW"

func currencyOf(s models.SalesRecord) string {
	c := strings.ToUpper(strings.TrimSpace(s.Currency))
	if c == "" {
		return BaseCurrency
	}
	return c
}

// CurrencyShare is the sales volume of one transaction currency.
type CurrencyShare struct {
	Currency          string  `json:"currency"`
	TransactionAmount float64 `json:"transaction_amount"`
	BookAmount        float64 `json:"book_amount"`
	Share             float64 `json:"share"` // of total book amount
	Count             int     `json:"count"`
	AvgRate           float64 `json:"avg_rate"` // book / transaction
}

// CalcCurrencyBreakdown groups sales by currency, largest book amount first.
// Blank currencies count as KRW.
func CalcCurrencyBreakdown(sales []models.SalesRecord) []CurrencyShare {
	total := calc.SumBy(sales, func(s models.SalesRecord) float64 { return s.BookAmount })
	groups := calc.GroupBy(sales, currencyOf)
	out := make([]CurrencyShare, 0, len(groups))
	for cur, rows := range groups {
		tx := calc.SumBy(rows, func(s models.SalesRecord) float64 { return s.TransactionAmount })
		book := calc.SumBy(rows, func(s models.SalesRecord) float64 { return s.BookAmount })
		out = append(out, CurrencyShare{
			Currency:          cur,
			TransactionAmount: tx,
			BookAmount:        book,
			Share:             calc.SafePercent(book, total),
			Count:             len(rows),
			AvgRate:           calc.SafeDiv(book, tx),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookAmount != out[j].BookAmount {
			return out[i].BookAmount > out[j].BookAmount
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}

// CurrencyImpact is the rate effect for one foreign currency.
type CurrencyImpact struct {
	Currency          string  `json:"currency"`
	TransactionAmount float64 `json:"transaction_amount"`
	ActualRate        float64 `json:"actual_rate"`
	BaseRate          float64 `json:"base_rate"`
	ActualBook        float64 `json:"actual_book"`
	BaseBook          float64 `json:"base_book"` // transaction amount at the base rate
	Impact            float64 `json:"impact"`    // actual book - base book
	ImpactPct         float64 `json:"impact_pct"`
}

// FXImpact totals the rate effect across currencies.
type FXImpact struct {
	Currencies   []CurrencyImpact `json:"currencies"`
	TotalImpact  float64          `json:"total_impact"`
	ForeignShare float64          `json:"foreign_share"` // foreign book / total book * 100
	MissingRates []string         `json:"missing_rates,omitempty"`
}

// CalcFXImpact compares each foreign currency's booked amount with what the
// same transaction amount would have booked at the base (plan) rate. KRW is
// excluded. Currencies without a base rate are listed in MissingRates.
func CalcFXImpact(sales []models.SalesRecord, baseRates map[string]float64) FXImpact {
	var res FXImpact
	var total, foreign float64
	for _, share := range CalcCurrencyBreakdown(sales) {
		total += share.BookAmount
		if share.Currency == BaseCurrency {
			continue
		}
		foreign += share.BookAmount
		rate, ok := baseRates[share.Currency]
		if !ok || rate <= 0 {
			res.MissingRates = append(res.MissingRates, share.Currency)
			continue
		}
		baseBook := share.TransactionAmount * rate
		ci := CurrencyImpact{
			Currency:          share.Currency,
			TransactionAmount: share.TransactionAmount,
			ActualRate:        share.AvgRate,
			BaseRate:          rate,
			ActualBook:        share.BookAmount,
			BaseBook:          baseBook,
			Impact:            share.BookAmount - baseBook,
			ImpactPct:         calc.GrowthRate(share.BookAmount, baseBook),
		}
		res.TotalImpact += ci.Impact
		res.Currencies = append(res.Currencies, ci)
	}
	res.ForeignShare = calc.SafePercent(foreign, total)
	sort.Strings(res.MissingRates)
	return res
}

// MonthlyRate is the average booked rate of one currency in one month.
type MonthlyRate struct {
	Month    string  `json:"month"`
	Currency string  `json:"currency"`
	Rate     float64 `json:"rate"`
}

// CalcMonthlyRates returns the effective rate per foreign currency and
// month, ordered by currency then month.
func CalcMonthlyRates(sales []models.SalesRecord) []MonthlyRate {
	type key struct{ cur, month string }
	tx := map[key]float64{}
	book := map[key]float64{}
	for _, s := range sales {
		cur := currencyOf(s)
		month := calc.ExtractMonth(s.SalesDate)
		if cur == BaseCurrency || month == "" {
			continue
		}
		k := key{cur, month}
		tx[k] += s.TransactionAmount
		book[k] += s.BookAmount
	}
	out := make([]MonthlyRate, 0, len(tx))
	for k, t := range tx {
		out = append(out, MonthlyRate{Month: k.month, Currency: k.cur, Rate: calc.SafeDiv(book[k], t)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Currency != out[j].Currency {
			return out[i].Currency < out[j].Currency
		}
		return out[i].Month < out[j].Month
	})
	return out
}
