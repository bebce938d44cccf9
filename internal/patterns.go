package internal

import "strings"

// PatternSummary aggregates categorical distributions across comparable
// companies. Industry and geography group by exact string; sizes bucket
// into large/medium/small by substring containment.
type PatternSummary struct {
	IndustryDistribution   map[string]int `json:"industry_distribution"`
	SizeDistribution       map[string]int `json:"size_distribution"`
	GeographicDistribution map[string]int `json:"geographic_distribution"`
	TotalCompanies         int            `json:"total_companies"`
}

// AnalyzePatterns computes distributions over the comparable set only.
// Companies without a company_size value are excluded from the size
// buckets rather than defaulted to small.
func AnalyzePatterns(cc *ComparisonContext) PatternSummary {
	if cc == nil || len(cc.ComparableCompanies) == 0 {
		return PatternSummary{}
	}

	summary := PatternSummary{
		IndustryDistribution:   make(map[string]int),
		SizeDistribution:       map[string]int{"large": 0, "medium": 0, "small": 0},
		GeographicDistribution: make(map[string]int),
		TotalCompanies:         len(cc.ComparableCompanies),
	}

	for _, company := range cc.ComparableCompanies {
		if company.Industry != "" {
			summary.IndustryDistribution[company.Industry]++
		}
		if company.CompanySize != "" {
			summary.SizeDistribution[sizeBucket(company.CompanySize)]++
		}
		if company.GeographicPresence != "" {
			summary.GeographicDistribution[company.GeographicPresence]++
		}
	}

	return summary
}

func sizeBucket(size string) string {
	s := strings.ToLower(size)
	switch {
	case strings.Contains(s, "large") || strings.Contains(s, "enterprise"):
		return "large"
	case strings.Contains(s, "medium") || strings.Contains(s, "mid"):
		return "medium"
	default:
		return "small"
	}
}
