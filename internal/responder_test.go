package internal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondWithoutContext(t *testing.T) {
	r := NewResponder(nil)
	assert.Equal(t, NoContextResponse, r.Respond("what do you think?", nil))
}

func TestRespondIntentPriority(t *testing.T) {
	cc := sampleContext()
	r := NewResponder(&cc)

	// "what" ranks summary above the financial keywords also present.
	response := r.Respond("What are the financial metrics?", nil)
	assert.Contains(t, response, "Current analysis: Acme Corp")
	assert.Contains(t, response, "Found 2 comparable companies")
	assert.NotContains(t, response, "Financial analysis of comparable companies")
}

func TestRespondFinancialIntent(t *testing.T) {
	cc := sampleContext()
	r := NewResponder(&cc)

	response := r.Respond("show me valuation ratios", nil)
	assert.Contains(t, response, "Financial analysis of comparable companies:")
	assert.Contains(t, response, "**Globex (GLX)**")
	assert.Contains(t, response, "- Large-cap company (>$10B market cap)")
	assert.Contains(t, response, "**Initech (N/A)**")
	assert.Contains(t, response, "- No financial data available")
}

func TestRespondIndustryIntent(t *testing.T) {
	cc := sampleContext()
	r := NewResponder(&cc)

	response := r.Respond("which industry are they in", nil)
	assert.Contains(t, response, "Industry and business model analysis:")
	assert.Contains(t, response, "- Software: 1 companies")

	empty := ComparisonContext{ComparableCompanies: []CompanyRecord{{Name: "X"}}}
	assert.Equal(t, "No industry data available for analysis.",
		NewResponder(&empty).Respond("sector breakdown", nil))
}

func TestRespondComparisonIntent(t *testing.T) {
	cc := sampleContext()
	r := NewResponder(&cc)

	response := r.Respond("compare the companies", nil)
	assert.Contains(t, response, "Company comparison analysis:")
	assert.Contains(t, response, "Rationale: Same vertical, similar scale...")
	assert.Contains(t, response, "Key insight: Large-cap company (>$10B market cap)")

	single := ComparisonContext{ComparableCompanies: []CompanyRecord{{Name: "Solo"}}}
	assert.Equal(t, "Need at least 2 companies for comparison analysis.",
		NewResponder(&single).Respond("compare them", nil))
}

func TestRespondRecommendationIntent(t *testing.T) {
	cc := sampleContext()
	r := NewResponder(&cc)

	response := r.Respond("please suggest the best candidates", nil)
	assert.Contains(t, response, "**Companies with comprehensive financial data:**")
	assert.Contains(t, response, "- Globex (GLX)")
	assert.Contains(t, response, "1. Focus on companies with complete financial metrics for detailed analysis")

	bare := ComparisonContext{ComparableCompanies: []CompanyRecord{{Name: "A"}, {Name: "B"}}}
	response = NewResponder(&bare).Respond("suggest something", nil)
	assert.Contains(t, response, "1. Run comparison with financial data enabled for deeper insights")
}

func TestRespondSummaryWithZeroComparables(t *testing.T) {
	empty := ComparisonContext{TargetCompany: TargetCompany{Name: "Acme Corp"}}
	response := NewResponder(&empty).Respond("Give me a summary", nil)
	assert.Contains(t, response, "Found 0 comparable companies")
}

func TestRespondGeneralFallback(t *testing.T) {
	cc := sampleContext()
	r := NewResponder(&cc)

	response := r.Respond("hello there", nil)
	assert.Contains(t, response, "I understand you're asking about: hello there")
	assert.Contains(t, response, "Current analysis: Acme Corp")
	assert.Contains(t, response, "You can ask me about:")
}

func TestRespondEnhanced(t *testing.T) {
	cc := sampleContext()
	r := NewResponder(&cc)

	retrieved := []RetrievedDocument{
		{Document: Document{Text: "Financial metrics for Globex: Market cap: 12000000000", Kind: DocFinancialMetrics, Company: "Globex"}, Score: 0.91},
		{Document: Document{Text: "Target company: Acme Corp - Industrial software", Kind: DocTargetCompany, Company: "Acme Corp"}, Score: 0.72},
	}

	response := r.Respond("how big is globex", retrieved)
	assert.Contains(t, response, "Based on your query: 'how big is globex'")
	assert.Contains(t, response, "1. Financial Metrics for Globex:")
	assert.Contains(t, response, "2. Target Company for Acme Corp:")
	assert.Contains(t, response, "**Context Summary:**")
	assert.Contains(t, response, "**Key Patterns:**")
	// Retrieval bypasses intent routing entirely.
	assert.NotContains(t, response, "Financial analysis of comparable companies")
}

func TestContextSummary(t *testing.T) {
	cc := sampleContext()
	summary := NewResponder(&cc).ContextSummary()

	assert.True(t, strings.HasPrefix(summary, "Current analysis: Acme Corp\nFound 2 comparable companies\n\n"))
	assert.Contains(t, summary, "Target company description: Industrial software for logistics...")
	assert.Contains(t, summary, "Globex (GLX): Large-cap company (>$10B market cap)\n")
	assert.Contains(t, summary, "Initech (N/A): Financial data available\n")

	empty := ComparisonContext{}
	assert.Contains(t, NewResponder(&empty).ContextSummary(), "Current analysis: Unknown company\nFound 0 comparable companies\n")
}

func TestTruncateIsRuneSafe(t *testing.T) {
	s := strings.Repeat("é", 300)
	cut := truncate(s, 200)
	assert.Equal(t, 200, len([]rune(cut)))
}
