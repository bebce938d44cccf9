package internal

import (
	"encoding/json"
	"strconv"
	"strings"
)

// MetricState is the outcome of parsing one raw metric value.
type MetricState int

const (
	MetricAbsent MetricState = iota
	MetricNotAvailable
	MetricMalformed
	MetricValid
)

// ParsedMetric is the tagged result of ParseMetric. Value is only
// meaningful when State is MetricValid.
type ParsedMetric struct {
	Value float64
	State MetricState
}

// ParseMetric classifies a raw metric value from upstream market data.
// Numbers and numeric strings parse to MetricValid; the "N/A" sentinel
// maps to MetricNotAvailable; anything else is MetricMalformed.
func ParseMetric(metrics map[string]any, key string) ParsedMetric {
	raw, ok := metrics[key]
	if !ok || raw == nil {
		return ParsedMetric{State: MetricAbsent}
	}

	switch v := raw.(type) {
	case float64:
		return ParsedMetric{Value: v, State: MetricValid}
	case float32:
		return ParsedMetric{Value: float64(v), State: MetricValid}
	case int:
		return ParsedMetric{Value: float64(v), State: MetricValid}
	case int64:
		return ParsedMetric{Value: float64(v), State: MetricValid}
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return ParsedMetric{State: MetricMalformed}
		}
		return ParsedMetric{Value: f, State: MetricValid}
	case string:
		s := strings.TrimSpace(v)
		if s == "" || strings.EqualFold(s, "N/A") || strings.EqualFold(s, "not available") {
			return ParsedMetric{State: MetricNotAvailable}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return ParsedMetric{State: MetricMalformed}
		}
		return ParsedMetric{Value: f, State: MetricValid}
	default:
		return ParsedMetric{State: MetricMalformed}
	}
}

// FinancialInsights maps a company's raw metrics to signal labels under
// a fixed threshold table. Metrics are evaluated in a fixed order with
// at most one label each; unparseable or sentinel values are skipped.
// P/E, P/B, ROE and net margin deliberately emit nothing between their
// two thresholds.
func FinancialInsights(company CompanyRecord) []string {
	if len(company.FinancialMetrics) == 0 {
		return nil
	}

	m := company.FinancialMetrics
	var insights []string

	if p := ParseMetric(m, "market_cap"); p.State == MetricValid {
		switch {
		case p.Value > 10_000_000_000:
			insights = append(insights, "Large-cap company (>$10B market cap)")
		case p.Value > 2_000_000_000:
			insights = append(insights, "Mid-cap company ($2B-$10B market cap)")
		default:
			insights = append(insights, "Small-cap company (<$2B market cap)")
		}
	}

	if p := ParseMetric(m, "pe_ratio"); p.State == MetricValid {
		switch {
		case p.Value < 15:
			insights = append(insights, "Low P/E ratio (<15) - potentially undervalued")
		case p.Value > 25:
			insights = append(insights, "High P/E ratio (>25) - growth expectations")
		}
	}

	if p := ParseMetric(m, "pb_ratio"); p.State == MetricValid {
		switch {
		case p.Value < 1:
			insights = append(insights, "Trading below book value (P/B < 1)")
		case p.Value > 3:
			insights = append(insights, "High P/B ratio (>3) - premium valuation")
		}
	}

	if p := ParseMetric(m, "roe"); p.State == MetricValid {
		switch {
		case p.Value > 15:
			insights = append(insights, "Strong ROE (>15%) - efficient use of equity")
		case p.Value < 5:
			insights = append(insights, "Low ROE (<5%) - efficiency concerns")
		}
	}

	if p := ParseMetric(m, "net_margin"); p.State == MetricValid {
		switch {
		case p.Value > 20:
			insights = append(insights, "High net margin (>20%) - strong profitability")
		case p.Value < 5:
			insights = append(insights, "Low net margin (<5%) - thin margins")
		}
	}

	return insights
}
