package internal

import (
	"fmt"
	"sort"
	"strings"
)

// ComparisonResult holds per-company metric tables plus a worded
// summary of how the companies stack up against each other.
type ComparisonResult struct {
	Companies []string                      `json:"companies"`
	Metrics   map[string]map[string]float64 `json:"metrics"`
	Summary   map[string]string             `json:"summary"`
}

// CompareCompanies compares two or more stored companies.
func CompareCompanies(companies []Company) (*ComparisonResult, error) {
	if len(companies) < 2 {
		return nil, ErrTooFewCompanies
	}

	ids := make([]string, len(companies))
	metrics := make(map[string]map[string]float64, len(companies))
	for i, c := range companies {
		ids[i] = c.ID
		share := 0.0
		if c.FinancialData.MarketShare != nil {
			share = *c.FinancialData.MarketShare
		}
		metrics[c.ID] = map[string]float64{
			"revenue":       c.FinancialData.Revenue,
			"profit_margin": c.FinancialData.ProfitMargin,
			"growth_rate":   c.FinancialData.GrowthRate,
			"market_share":  share,
		}
	}

	return &ComparisonResult{
		Companies: ids,
		Metrics:   metrics,
		Summary:   comparisonSummary(companies),
	}, nil
}

func comparisonSummary(companies []Company) map[string]string {
	summary := make(map[string]string)

	hi, lo := extremesBy(companies, func(c Company) float64 { return c.FinancialData.Revenue })
	if lo.FinancialData.Revenue > 0 {
		diff := (hi.FinancialData.Revenue - lo.FinancialData.Revenue) / lo.FinancialData.Revenue * 100
		summary["revenue"] = fmt.Sprintf("%s has %.1f%% higher revenue than %s", hi.Name, diff, lo.Name)
	} else {
		summary["revenue"] = fmt.Sprintf("%s has the highest revenue", hi.Name)
	}

	hi, lo = extremesBy(companies, func(c Company) float64 { return c.FinancialData.ProfitMargin })
	summary["profit_margin"] = fmt.Sprintf("%s has a %.1f%% higher profit margin than %s",
		hi.Name, hi.FinancialData.ProfitMargin-lo.FinancialData.ProfitMargin, lo.Name)

	hi, lo = extremesBy(companies, func(c Company) float64 { return c.FinancialData.GrowthRate })
	summary["growth_rate"] = fmt.Sprintf("%s has a %.1f%% higher growth rate than %s",
		hi.Name, hi.FinancialData.GrowthRate-lo.FinancialData.GrowthRate, lo.Name)

	var withShare []Company
	for _, c := range companies {
		if c.FinancialData.MarketShare != nil {
			withShare = append(withShare, c)
		}
	}
	if len(withShare) > 0 {
		hi, lo = extremesBy(withShare, func(c Company) float64 { return *c.FinancialData.MarketShare })
		summary["market_share"] = fmt.Sprintf("%s has a %.1f%% higher market share than %s",
			hi.Name, *hi.FinancialData.MarketShare-*lo.FinancialData.MarketShare, lo.Name)
	} else {
		summary["market_share"] = "Market share data not available for comparison"
	}

	industries := make(map[string]struct{})
	for _, c := range companies {
		industries[c.Industry] = struct{}{}
	}
	if len(industries) > 1 {
		names := make([]string, 0, len(industries))
		for in := range industries {
			names = append(names, in)
		}
		sort.Strings(names)
		summary["industry"] = "Companies operate in different industries: " + strings.Join(names, ", ")
	}

	return summary
}

// extremesBy returns the companies with the highest and lowest value of
// the given metric.
func extremesBy(companies []Company, metric func(Company) float64) (hi, lo Company) {
	hi, lo = companies[0], companies[0]
	for _, c := range companies[1:] {
		if metric(c) > metric(hi) {
			hi = c
		}
		if metric(c) < metric(lo) {
			lo = c
		}
	}
	return hi, lo
}
