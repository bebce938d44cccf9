package internal

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyExists   = errors.New("already exists")
	ErrTooFewCompanies = errors.New("at least 2 companies are required for comparison")
	ErrNoProvider      = errors.New("no language model provider configured")
	ErrNoAPIKey        = errors.New("no API key configured")
)

// DocumentKind tags what slice of the comparison context a retrieval
// document was derived from.
type DocumentKind string

const (
	DocTargetCompany     DocumentKind = "target_company"
	DocComparableCompany DocumentKind = "comparable_company"
	DocFinancialMetrics  DocumentKind = "financial_metrics"
	DocBusinessProfile   DocumentKind = "business_profile"
)

// Title is the human-readable form used in synthesized responses.
func (k DocumentKind) Title() string {
	switch k {
	case DocTargetCompany:
		return "Target Company"
	case DocComparableCompany:
		return "Comparable Company"
	case DocFinancialMetrics:
		return "Financial Metrics"
	case DocBusinessProfile:
		return "Business Profile"
	default:
		return string(k)
	}
}

// TargetCompany is the company a comparison was run for.
type TargetCompany struct {
	Name          string `json:"name"`
	Website       string `json:"website,omitempty"`
	Description   string `json:"description,omitempty"`
	Industry      string `json:"industry,omitempty"`
	BusinessModel string `json:"business_model,omitempty"`
}

// CompanyRecord is one comparable company inside a comparison context.
// FinancialMetrics holds raw upstream values; they are parsed lazily by
// ParseMetric, so strings and sentinels like "N/A" are acceptable.
type CompanyRecord struct {
	Name               string         `json:"name"`
	Ticker             string         `json:"ticker,omitempty"`
	Rationale          string         `json:"rationale,omitempty"`
	Industry           string         `json:"industry,omitempty"`
	BusinessModel      string         `json:"business_model,omitempty"`
	CompanySize        string         `json:"company_size,omitempty"`
	GeographicPresence string         `json:"geographic_presence,omitempty"`
	FinancialMetrics   map[string]any `json:"financial_metrics,omitempty"`
}

// ComparisonContext is the full result of a company comparison. It is
// the unit the session indexes and answers questions about.
type ComparisonContext struct {
	TargetCompany       TargetCompany       `json:"target_company"`
	ComparableCompanies []CompanyRecord     `json:"comparable_companies"`
	FinancialData       map[string]any      `json:"financial_data,omitempty"`
	AnalysisTimestamp   string              `json:"analysis_timestamp,omitempty"`
	FiltersApplied      map[string][]string `json:"filters,omitempty"`
}

// Document is one indexed retrieval unit derived from the context.
type Document struct {
	Text    string
	Kind    DocumentKind
	Company string
}

// ContextInfo is a point-in-time snapshot of session state, exposed on
// the boundary. TargetCompany is "None" while no context is set.
type ContextInfo struct {
	HasContext        bool   `json:"has_context"`
	TargetCompany     string `json:"target_company"`
	ComparableCount   int    `json:"comparable_count"`
	HasFinancialData  bool   `json:"has_financial_data"`
	ConversationTurns int    `json:"conversation_turns"`
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// metricString renders a raw metric value for document text. Absent
// values render as "N/A"; everything else keeps its upstream form.
func metricString(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return "N/A"
	}
	switch t := v.(type) {
	case string:
		return orNA(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
