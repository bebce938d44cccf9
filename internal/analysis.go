package internal

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CompanyAnalysis is the structured description produced for a target
// company by the language model.
type CompanyAnalysis struct {
	Description        string `json:"description"`
	Industry           string `json:"industry"`
	BusinessModel      string `json:"business_model"`
	ProductsOrServices string `json:"products_or_services"`
	TargetMarket       string `json:"target_market"`
	CompanySize        string `json:"company_size"`
	GeographicPresence string `json:"geographic_presence"`
	KeyDifferentiators string `json:"key_differentiators"`
}

// ComparableCompany is one suggested public peer.
type ComparableCompany struct {
	Name      string `json:"name"`
	Ticker    string `json:"ticker"`
	Rationale string `json:"rationale"`
}

type comparableCompanyList struct {
	Companies []ComparableCompany `json:"companies"`
}

// ComparableSearch is the flexible input of the analysis workflow. At
// least one of CompanyID, Ticker, CompanyName or CompanyWebsite must be
// set.
type ComparableSearch struct {
	CompanyID         string              `json:"company_id,omitempty"`
	CompanyName       string              `json:"company_name,omitempty"`
	CompanyWebsite    string              `json:"company_website,omitempty"`
	Ticker            string              `json:"ticker,omitempty"`
	Count             int                 `json:"count,omitempty"`
	IncludeFinancials bool                `json:"include_financials,omitempty"`
	Filters           map[string][]string `json:"filters,omitempty"`
}

// Analyzer orchestrates the description generator and the market-data
// provider into comparison contexts the RAG session can consume.
type Analyzer struct {
	provider Provider
	store    *CompanyStore
	market   *FMPClient
	log      *zap.Logger
}

func NewAnalyzer(provider Provider, store *CompanyStore, market *FMPClient, log *zap.Logger) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{provider: provider, store: store, market: market, log: log}
}

// AnalyzeCompany generates a structured business description from a
// company name and website.
func (a *Analyzer) AnalyzeCompany(ctx context.Context, name, website string) (*CompanyAnalysis, error) {
	if a.provider == nil {
		return nil, ErrNoProvider
	}

	prompt := fmt.Sprintf(`Generate a comprehensive business description for the following company and return a JSON object with these exact keys:
- description: a detailed narrative summary
- industry: primary industry or sector
- business_model: concise description of how the company makes money
- products_or_services: key products or services offered
- target_market: primary customer segments or verticals
- company_size: size/scale (employees, revenue band, or general descriptor)
- geographic_presence: key regions/countries of operation
- key_differentiators: brief list-style text of core differentiators

Company Name: %s
Company Website: %s`, name, website)

	var analysis CompanyAnalysis
	if err := a.provider.GenerateObject(ctx, prompt, &analysis); err != nil {
		return nil, fmt.Errorf("analyze company: %w", err)
	}
	return &analysis, nil
}

// FindComparables asks the language model for public peers of the
// described company. count is clamped to 1..20 and defaults to 10.
func (a *Analyzer) FindComparables(ctx context.Context, description string, count int) ([]ComparableCompany, error) {
	if a.provider == nil {
		return nil, ErrNoProvider
	}

	if count <= 0 {
		count = 10
	}
	if count > 20 {
		count = 20
	}

	prompt := fmt.Sprintf(`Based on the following company description, identify %d comparable public companies.

Company Description:
%s

For each comparable company, provide:
1. Company Name
2. Stock Ticker
3. Match Rationale (why this company is comparable - industry, business model, size, market focus, etc.)

Format the response as a JSON object with a 'companies' array of objects containing 'name', 'ticker', and 'rationale' fields.`, count, description)

	var list comparableCompanyList
	if err := a.provider.GenerateObject(ctx, prompt, &list); err != nil {
		return nil, fmt.Errorf("find comparables: %w", err)
	}
	return list.Companies, nil
}

// BuildComparisonContext runs the full workflow: resolve the target
// company from whatever input was given, describe it, find comparables
// and optionally attach per-ticker financial metrics.
func (a *Analyzer) BuildComparisonContext(ctx context.Context, in ComparableSearch) (*ComparisonContext, error) {
	target, description, err := a.resolveTarget(ctx, in)
	if err != nil {
		return nil, err
	}

	comparables, err := a.FindComparables(ctx, description, in.Count)
	if err != nil {
		return nil, err
	}

	records := make([]CompanyRecord, len(comparables))
	for i, c := range comparables {
		records[i] = CompanyRecord{Name: c.Name, Ticker: c.Ticker, Rationale: c.Rationale}
	}
	records = a.applyFilters(ctx, records, in.Filters)

	financialData := map[string]any{}
	if in.IncludeFinancials && a.market != nil {
		for i := range records {
			if records[i].Ticker == "" {
				continue
			}
			metrics := a.market.KeyMetrics(ctx, records[i].Ticker)
			records[i].FinancialMetrics = metrics
			financialData[records[i].Ticker] = metrics
		}
	}

	return &ComparisonContext{
		TargetCompany:       target,
		ComparableCompanies: records,
		FinancialData:       financialData,
		AnalysisTimestamp:   time.Now().UTC().Format(time.RFC3339),
		FiltersApplied:      in.Filters,
	}, nil
}

// applyFilters narrows the comparable set using company profile data.
// A company whose profile cannot be fetched is kept rather than
// dropped, so filtering degrades to a no-op without market data.
func (a *Analyzer) applyFilters(ctx context.Context, records []CompanyRecord, filters map[string][]string) []CompanyRecord {
	active := false
	for _, values := range filters {
		if len(values) > 0 {
			active = true
			break
		}
	}
	if !active || a.market == nil {
		return records
	}

	kept := make([]CompanyRecord, 0, len(records))
	for _, record := range records {
		profile, err := a.market.Profile(ctx, record.Ticker)
		if err != nil {
			a.log.Debug("profile unavailable, keeping company unfiltered",
				zap.String("ticker", record.Ticker), zap.Error(err))
			kept = append(kept, record)
			continue
		}

		if sizes := filters["company_size"]; len(sizes) > 0 && !marketCapMatches(profile, sizes) {
			continue
		}
		if geo := filters["geography"]; len(geo) > 0 && !geographyMatches(geo) {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

// marketCapMatches buckets the profile's market cap into the
// small/mid/large/mega bands and accepts when any requested band fits.
func marketCapMatches(profile map[string]any, sizes []string) bool {
	mktCap, _ := profile["mktCap"].(float64)
	for _, size := range sizes {
		switch strings.ToLower(size) {
		case "small":
			if mktCap < 2_000_000_000 {
				return true
			}
		case "mid":
			if mktCap >= 2_000_000_000 && mktCap < 10_000_000_000 {
				return true
			}
		case "large":
			if mktCap >= 10_000_000_000 && mktCap < 100_000_000_000 {
				return true
			}
		case "mega":
			if mktCap >= 100_000_000_000 {
				return true
			}
		}
	}
	return false
}

// geographyMatches keeps listed (US) companies when "us" is requested.
// Profile data carries no reliable geography, so any other value drops
// the company.
func geographyMatches(geo []string) bool {
	for _, g := range geo {
		if strings.EqualFold(g, "us") {
			return true
		}
	}
	return false
}

// resolveTarget normalizes the flexible workflow input to a target
// company plus a description suitable for the comparable search.
func (a *Analyzer) resolveTarget(ctx context.Context, in ComparableSearch) (TargetCompany, string, error) {
	name := in.CompanyName
	website := in.CompanyWebsite

	switch {
	case in.CompanyID != "":
		if a.store == nil {
			return TargetCompany{}, "", ErrNotFound
		}
		company, err := a.store.Get(in.CompanyID)
		if err != nil {
			return TargetCompany{}, "", err
		}
		name = company.Name
		if website == "" {
			website = placeholderWebsite(name)
		}
		if company.Description != "" {
			return TargetCompany{
				Name:        name,
				Website:     website,
				Description: company.Description,
				Industry:    company.Industry,
			}, company.Description, nil
		}

	case in.Ticker != "":
		profile, err := a.market.Profile(ctx, in.Ticker)
		if err != nil {
			return TargetCompany{}, "", fmt.Errorf("resolve ticker %s: %w", in.Ticker, err)
		}
		if n, ok := profile["companyName"].(string); ok && n != "" {
			name = n
		} else {
			name = in.Ticker
		}
		if w, ok := profile["website"].(string); ok && w != "" {
			website = w
			if !strings.HasPrefix(website, "http") {
				website = "https://" + website
			}
		}

	case name == "" && website != "":
		name = nameFromWebsite(website)

	case name == "" && website == "":
		return TargetCompany{}, "", fmt.Errorf("at least one of company_id, ticker, company_name or company_website must be provided")
	}

	if website == "" {
		website = placeholderWebsite(name)
	}

	analysis, err := a.AnalyzeCompany(ctx, name, website)
	if err != nil {
		a.log.Warn("company analysis failed, using basic description",
			zap.String("company", name), zap.Error(err))
		description := fmt.Sprintf("%s is a company that we're analyzing for comparable companies.", name)
		return TargetCompany{Name: name, Website: website, Description: description}, description, nil
	}

	return TargetCompany{
		Name:          name,
		Website:       website,
		Description:   analysis.Description,
		Industry:      analysis.Industry,
		BusinessModel: analysis.BusinessModel,
	}, analysis.Description, nil
}

func placeholderWebsite(name string) string {
	return "https://" + strings.ReplaceAll(strings.ToLower(name), " ", "") + ".com"
}

func nameFromWebsite(website string) string {
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return website
	}
	host := strings.TrimPrefix(u.Host, "www.")
	if i := strings.Index(host, "."); i > 0 {
		host = host[:i]
	}
	if host == "" {
		return website
	}
	return strings.ToUpper(host[:1]) + host[1:]
}
