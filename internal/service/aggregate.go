package service

import (
	"sort"

	"pharmacy/internal/model"

	"github.com/shopspring/decimal"
)

type periodKey struct {
	year  int
	month int
}

func groupTotals(records []model.DatedAmount, key func(model.DatedAmount) periodKey) []model.PeriodTotal {
	sums := make(map[periodKey]decimal.Decimal)
	for _, r := range records {
		k := key(r)
		sums[k] = sums[k].Add(r.Amount)
	}

	out := make([]model.PeriodTotal, 0, len(sums))
	for k, total := range sums {
		out = append(out, model.PeriodTotal{Year: k.year, Month: k.month, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// MonthlyTotals sums amounts per calendar month, ascending by (year, month).
func MonthlyTotals(records []model.DatedAmount) []model.PeriodTotal {
	return groupTotals(records, func(r model.DatedAmount) periodKey {
		return periodKey{year: r.Date.Year(), month: int(r.Date.Month())}
	})
}

// YearlyTotals sums amounts per calendar year, ascending.
func YearlyTotals(records []model.DatedAmount) []model.PeriodTotal {
	return groupTotals(records, func(r model.DatedAmount) periodKey {
		return periodKey{year: r.Date.Year()}
	})
}

// TopProducts ranks products by units sold. Ties keep the order in which
// products first appear in sales. n <= 0 yields an empty ranking.
func TopProducts(sales []model.Sale, n int) []model.ProductRanking {
	if n <= 0 {
		return []model.ProductRanking{}
	}

	index := make(map[string]int)
	rankings := make([]model.ProductRanking, 0)
	for _, s := range sales {
		i, ok := index[s.Product]
		if !ok {
			i = len(rankings)
			index[s.Product] = i
			rankings = append(rankings, model.ProductRanking{Product: s.Product, TotalRevenue: decimal.Zero})
		}
		rankings[i].TotalQuantity += s.Quantity
		rankings[i].TotalRevenue = rankings[i].TotalRevenue.Add(s.Total)
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TotalQuantity > rankings[j].TotalQuantity
	})
	if len(rankings) > n {
		rankings = rankings[:n]
	}
	return rankings
}

const uncategorized = "Uncategorized"

// SalesByCategory attributes each sale to the category of the medicine with the
// same name, ordered by revenue descending.
func SalesByCategory(sales []model.Sale, medicines []model.Medicine) []model.CategoryTotal {
	categoryOf := make(map[string]string, len(medicines))
	for _, m := range medicines {
		if _, seen := categoryOf[m.Name]; !seen {
			categoryOf[m.Name] = m.Category
		}
	}

	index := make(map[string]int)
	totals := make([]model.CategoryTotal, 0)
	for _, s := range sales {
		category := categoryOf[s.Product]
		if category == "" {
			category = uncategorized
		}
		i, ok := index[category]
		if !ok {
			i = len(totals)
			index[category] = i
			totals = append(totals, model.CategoryTotal{Category: category, TotalRevenue: decimal.Zero})
		}
		totals[i].TotalQuantity += s.Quantity
		totals[i].TotalRevenue = totals[i].TotalRevenue.Add(s.Total)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalRevenue.GreaterThan(totals[j].TotalRevenue)
	})
	return totals
}
