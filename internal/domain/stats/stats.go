// Package stats reduces a ledger snapshot into the figures shown on the
// statistics page. Stored gain fields are trusted as computed at sale time.
package stats

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/revente/internal/domain/models"
)

const hoursPerDay = 24

var hundred = decimal.NewFromInt(100)

// Compute derives every statistic from articles. It does not modify them.
func Compute(articles []models.Article) models.Statistics {
	var (
		sold       []models.Article
		inStock    int
		stockValue int64
	)
	for _, a := range articles {
		if a.IsSold() {
			sold = append(sold, a)
			continue
		}
		inStock++
		stockValue += a.PurchasePrice
	}

	median := MedianGainPercent(sold)

	return models.Statistics{
		TotalCount:           len(articles),
		InStockCount:         inStock,
		MedianGainPercent:    median,
		StockValue:           stockValue,
		ExpectedFutureGain:   median.Div(hundred).Mul(decimal.NewFromInt(stockValue)),
		AverageRotationDays:  AverageRotationDays(sold),
		QuarterlySales:       QuarterlySales(sold),
		QuarterlyAccountSums: QuarterlyAccountRecap(sold),
	}
}

// MedianGainPercent returns the median gain percentage of the sold articles,
// or zero when none are sold.
func MedianGainPercent(articles []models.Article) decimal.Decimal {
	values := make([]decimal.Decimal, 0, len(articles))
	for _, a := range articles {
		if a.IsSold() {
			values = append(values, a.Sale.Gains.Percent)
		}
	}
	if len(values) == 0 {
		return decimal.Zero
	}

	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
	mid := len(values) / 2
	if len(values)%2 == 1 {
		return values[mid]
	}
	return decimal.Avg(values[mid-1], values[mid])
}

// AverageRotationDays returns the mean number of whole days between intake
// and sale, or zero when no article qualifies.
func AverageRotationDays(articles []models.Article) float64 {
	var total, count int
	for _, a := range articles {
		if !a.IsSold() || a.ArrivedAt.IsZero() || a.Sale.Date.IsZero() {
			continue
		}
		total += wholeDays(a.Sale.Date.Sub(a.ArrivedAt).Hours())
		count++
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// QuarterlySales sums sale prices per quarter of the sale date, in
// chronological order. Quarters without sales are omitted.
func QuarterlySales(articles []models.Article) []models.QuarterlySales {
	totals := make(map[models.Quarter]int64)
	for _, a := range articles {
		if a.IsSold() {
			totals[models.QuarterOf(a.Sale.Date)] += a.Sale.Price
		}
	}

	out := make([]models.QuarterlySales, 0, len(totals))
	for q, total := range totals {
		out = append(out, models.QuarterlySales{Quarter: q, Label: q.String(), Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Quarter.Before(out[j].Quarter) })
	return out
}

// QuarterlyAccountRecap sums sale prices per quarter and sales account,
// ordered by quarter then account name.
func QuarterlyAccountRecap(articles []models.Article) []models.AccountSales {
	type key struct {
		quarter models.Quarter
		account string
	}

	totals := make(map[key]int64)
	for _, a := range articles {
		if a.IsSold() {
			totals[key{quarter: models.QuarterOf(a.Sale.Date), account: a.Sale.Account}] += a.Sale.Price
		}
	}

	out := make([]models.AccountSales, 0, len(totals))
	for k, total := range totals {
		out = append(out, models.AccountSales{
			Quarter: k.quarter,
			Label:   k.quarter.String(),
			Account: k.account,
			Total:   total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quarter != out[j].Quarter {
			return out[i].Quarter.Before(out[j].Quarter)
		}
		return out[i].Account < out[j].Account
	})
	return out
}

// wholeDays floors a duration in hours to days, negative durations included.
func wholeDays(hours float64) int {
	return int(math.Floor(hours / hoursPerDay))
}
