// Package portfolio serves the investment catalog and the portfolio summary.
package portfolio

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Category string

const (
	Bonds         Category = "bonds"
	TreasuryBills Category = "treasuryBills"
	MutualFunds   Category = "mutualFunds"
	// All disables category filtering.
	All Category = "all"
)

type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Rate          string          `json:"rate"`
	Risk          string          `json:"risk"`
	Term          string          `json:"term"`
	MinInvestment decimal.Decimal `json:"minInvestment"`
	Performance   string          `json:"performance"`
	Trending      string          `json:"trending"`
}

var catalog = []Product{
	{1, "Corporate Bond Fund", Bonds, "7.2%", "Medium", "3-5 years", decimal.NewFromInt(1000), "+4.3%", "up"},
	{2, "Government Bond Fund", Bonds, "5.8%", "Low", "5-10 years", decimal.NewFromInt(2500), "+2.1%", "up"},
	{3, "3-Month Treasury Bill", TreasuryBills, "4.6%", "Very Low", "3 months", decimal.NewFromInt(1000), "+1.1%", "up"},
	{4, "Growth Fund", MutualFunds, "9.7%", "Medium-High", "5+ years", decimal.NewFromInt(5000), "+7.2%", "up"},
	{5, "High-Yield Bond Fund", Bonds, "8.5%", "Medium-High", "2-4 years", decimal.NewFromInt(5000), "-0.8%", "down"},
	{6, "6-Month Treasury Bill", TreasuryBills, "4.8%", "Very Low", "6 months", decimal.NewFromInt(1000), "+1.3%", "up"},
	{7, "Income Fund", MutualFunds, "6.8%", "Medium", "3+ years", decimal.NewFromInt(2500), "+3.5%", "up"},
	{8, "1-Year Treasury Bill", TreasuryBills, "5.1%", "Very Low", "1 year", decimal.NewFromInt(1000), "+1.5%", "up"},
	{9, "Index Fund", MutualFunds, "8.2%", "Medium", "5+ years", decimal.NewFromInt(1000), "-1.2%", "down"},
}

// List filters the catalog by category ("" or "all" for every category) and
// by a case-insensitive substring of the product name or category.
func List(category Category, query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Product, 0, len(catalog))
	for _, p := range catalog {
		if category != "" && category != All && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(string(p.Category)), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Find looks a product up by id.
func Find(id int) (Product, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
