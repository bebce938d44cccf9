package internal

import (
	"fmt"
	"sort"
	"strings"
)

// NoContextResponse is returned for any query while no comparison
// context is active.
const NoContextResponse = "I don't have any company comparison data to work with. Please run a comparison first."

// RetrievedDocument is a document returned by index search together
// with its similarity score.
type RetrievedDocument struct {
	Document
	Score float32
}

// Responder assembles answers for a single comparison context. When
// retrieval produced documents it builds an enhanced response around
// them; otherwise it falls back to keyword intent classification.
type Responder struct {
	cc *ComparisonContext
}

func NewResponder(cc *ComparisonContext) *Responder {
	return &Responder{cc: cc}
}

// intentRule pairs a keyword set with a handler. Rules are evaluated in
// a fixed priority order and the first match wins.
type intentRule struct {
	keywords []string
	handle   func(r *Responder, query string) string
}

var intentRules = []intentRule{
	{[]string{"summary", "overview", "what", "tell me"}, (*Responder).handleSummary},
	{[]string{"financial", "metrics", "ratios", "valuation"}, (*Responder).handleFinancial},
	{[]string{"industry", "sector", "business"}, (*Responder).handleIndustry},
	{[]string{"compare", "difference", "similar"}, (*Responder).handleComparison},
	{[]string{"recommend", "suggest", "best"}, (*Responder).handleRecommendation},
}

// Respond produces the final answer text. Every path returns a
// non-empty string.
func (r *Responder) Respond(query string, retrieved []RetrievedDocument) string {
	if r.cc == nil {
		return NoContextResponse
	}

	if len(retrieved) > 0 {
		return r.enhancedResponse(query, retrieved)
	}

	lower := strings.ToLower(query)
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.handle(r, lower)
			}
		}
	}
	return r.handleGeneral(query)
}

// ContextSummary is the short digest appended to most responses: target
// name, comparable count, truncated description, one insight each for
// the first three comparable companies.
func (r *Responder) ContextSummary() string {
	if r.cc == nil {
		return "No comparison data available."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Current analysis: %s\n", orUnknownCompany(r.cc.TargetCompany.Name))
	fmt.Fprintf(&sb, "Found %d comparable companies\n\n", len(r.cc.ComparableCompanies))

	if desc := r.cc.TargetCompany.Description; desc != "" {
		fmt.Fprintf(&sb, "Target company description: %s...\n\n", truncate(desc, 200))
	}

	for _, company := range firstN(r.cc.ComparableCompanies, 3) {
		fmt.Fprintf(&sb, "%s (%s): ", orUnknown(company.Name), orNA(company.Ticker))
		if insights := FinancialInsights(company); len(insights) > 0 {
			sb.WriteString(insights[0] + "\n")
		} else {
			sb.WriteString("Financial data available\n")
		}
	}

	return sb.String()
}

func (r *Responder) enhancedResponse(query string, retrieved []RetrievedDocument) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Based on your query: '%s'\n\n", query)

	sb.WriteString("**Relevant Information Found:**\n")
	for i, doc := range retrieved {
		fmt.Fprintf(&sb, "%d. %s for %s:\n", i+1, doc.Kind.Title(), orUnknown(doc.Company))
		fmt.Fprintf(&sb, "   %s...\n\n", truncate(doc.Text, 200))
	}

	sb.WriteString("**Context Summary:**\n")
	sb.WriteString(r.ContextSummary() + "\n\n")

	if patterns := AnalyzePatterns(r.cc); patterns.TotalCompanies > 0 {
		sb.WriteString("**Key Patterns:**\n")
		writePatterns(&sb, patterns, false)
	}

	sb.WriteString("\n**You can ask me about:**\n")
	sb.WriteString("- Specific companies and their metrics\n")
	sb.WriteString("- Financial comparisons between companies\n")
	sb.WriteString("- Industry trends and patterns\n")
	sb.WriteString("- Investment insights and recommendations\n")

	return sb.String()
}

func (r *Responder) handleSummary(string) string {
	var sb strings.Builder
	sb.WriteString(r.ContextSummary() + "\n\n")

	if patterns := AnalyzePatterns(r.cc); patterns.TotalCompanies > 0 {
		sb.WriteString("Key patterns:\n")
		writePatterns(&sb, patterns, true)
	}

	return sb.String()
}

func (r *Responder) handleFinancial(string) string {
	companies := r.cc.ComparableCompanies
	if len(companies) == 0 {
		return "No comparable companies available for financial analysis."
	}

	var sb strings.Builder
	sb.WriteString("Financial analysis of comparable companies:\n\n")

	for _, company := range firstN(companies, 5) {
		fmt.Fprintf(&sb, "**%s (%s)**\n", orUnknown(company.Name), orNA(company.Ticker))
		switch {
		case len(company.FinancialMetrics) == 0:
			sb.WriteString("- No financial data available\n")
		default:
			if insights := FinancialInsights(company); len(insights) > 0 {
				fmt.Fprintf(&sb, "- %s\n", insights[0])
			} else {
				sb.WriteString("- Financial data available\n")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (r *Responder) handleIndustry(string) string {
	patterns := AnalyzePatterns(r.cc)
	if len(patterns.IndustryDistribution) == 0 {
		return "No industry data available for analysis."
	}

	var sb strings.Builder
	sb.WriteString("Industry and business model analysis:\n\n")

	sb.WriteString("**Industry Distribution:**\n")
	for _, industry := range sortedKeys(patterns.IndustryDistribution) {
		fmt.Fprintf(&sb, "- %s: %d companies\n", industry, patterns.IndustryDistribution[industry])
	}

	sb.WriteString("\n**Business Characteristics:**\n")
	models := make(map[string]int)
	for _, company := range r.cc.ComparableCompanies {
		if company.BusinessModel != "" {
			models[company.BusinessModel]++
		}
	}
	for _, model := range sortedKeys(models) {
		fmt.Fprintf(&sb, "- %s: %d companies\n", model, models[model])
	}

	return sb.String()
}

func (r *Responder) handleComparison(string) string {
	companies := r.cc.ComparableCompanies
	if len(companies) < 2 {
		return "Need at least 2 companies for comparison analysis."
	}

	var sb strings.Builder
	sb.WriteString("Company comparison analysis:\n\n")

	for _, company := range firstN(companies, 3) {
		fmt.Fprintf(&sb, "**%s (%s)**\n", orUnknown(company.Name), orNA(company.Ticker))
		fmt.Fprintf(&sb, "Rationale: %s...\n", truncate(company.Rationale, 150))
		if len(company.FinancialMetrics) > 0 {
			if insights := FinancialInsights(company); len(insights) > 0 {
				fmt.Fprintf(&sb, "Key insight: %s\n", insights[0])
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func (r *Responder) handleRecommendation(string) string {
	companies := r.cc.ComparableCompanies
	if len(companies) == 0 {
		return "No companies available for recommendations."
	}

	var sb strings.Builder
	sb.WriteString("Based on the current comparison data:\n\n")

	var withFinancials []CompanyRecord
	for _, company := range companies {
		if len(company.FinancialMetrics) > 0 {
			withFinancials = append(withFinancials, company)
		}
	}

	if len(withFinancials) > 0 {
		sb.WriteString("**Companies with comprehensive financial data:**\n")
		for _, company := range firstN(withFinancials, 3) {
			fmt.Fprintf(&sb, "- %s (%s)\n", orUnknown(company.Name), orNA(company.Ticker))
		}
		sb.WriteString("\n**Recommendations:**\n")
		sb.WriteString("1. Focus on companies with complete financial metrics for detailed analysis\n")
		sb.WriteString("2. Consider industry alignment with your target company\n")
		sb.WriteString("3. Evaluate geographic presence for market expansion insights\n")
	} else {
		sb.WriteString("**Recommendations:**\n")
		sb.WriteString("1. Run comparison with financial data enabled for deeper insights\n")
		sb.WriteString("2. Use filters to narrow down to specific industries or company sizes\n")
		sb.WriteString("3. Consider refining your search criteria for better matches\n")
	}

	return sb.String()
}

func (r *Responder) handleGeneral(query string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "I understand you're asking about: %s\n\n", query)
	sb.WriteString("Here's what I can tell you about the current comparison:\n\n")
	sb.WriteString(r.ContextSummary())

	sb.WriteString("\n\nYou can ask me about:\n")
	sb.WriteString("- Summary and overview of the comparison\n")
	sb.WriteString("- Financial metrics and ratios\n")
	sb.WriteString("- Industry and business model analysis\n")
	sb.WriteString("- Company comparisons and differences\n")
	sb.WriteString("- Recommendations and suggestions\n")

	return sb.String()
}

func writePatterns(sb *strings.Builder, patterns PatternSummary, withGeography bool) {
	if len(patterns.IndustryDistribution) > 0 {
		fmt.Fprintf(sb, "- Industry focus: %s\n", strings.Join(sortedKeys(patterns.IndustryDistribution), ", "))
	}
	fmt.Fprintf(sb, "- Company sizes: %d large, %d medium, %d small\n",
		patterns.SizeDistribution["large"],
		patterns.SizeDistribution["medium"],
		patterns.SizeDistribution["small"])
	if withGeography && len(patterns.GeographicDistribution) > 0 {
		fmt.Fprintf(sb, "- Geographic presence: %s\n", strings.Join(sortedKeys(patterns.GeographicDistribution), ", "))
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func firstN(companies []CompanyRecord, n int) []CompanyRecord {
	if len(companies) <= n {
		return companies
	}
	return companies[:n]
}

func orUnknownCompany(s string) string {
	if s == "" {
		return "Unknown company"
	}
	return s
}
