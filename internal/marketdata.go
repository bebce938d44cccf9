package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const fmpBaseURL = "https://financialmodelingprep.com/api/v3"

// FMPClient fetches profile, quote and ratio records from the Financial
// Modeling Prep API. A missing API key does not fail construction; the
// engine then runs without financial metrics.
type FMPClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewFMPClient(apiKey string, log *zap.Logger) *FMPClient {
	if log == nil {
		log = zap.NewNop()
	}
	if apiKey == "" {
		log.Warn("FMP API key not configured, financial metrics will not be available")
	}
	return &FMPClient{
		apiKey:  apiKey,
		baseURL: fmpBaseURL,
		client:  &http.Client{Timeout: 20 * time.Second},
		log:     log,
	}
}

func (c *FMPClient) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fmp request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fmp request failed: %s", resp.Status)
	}
	return body, nil
}

// getRecord fetches an endpoint that returns either an object or a
// single-element array and normalizes it to one record.
func (c *FMPClient) getRecord(ctx context.Context, endpoint string) (map[string]any, error) {
	body, err := c.get(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var list []map[string]any
	if err := json.Unmarshal(body, &list); err == nil {
		if len(list) == 0 {
			return nil, fmt.Errorf("no data for %s: %w", endpoint, ErrNotFound)
		}
		return list[0], nil
	}

	var record map[string]any
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return record, nil
}

// Profile returns the company profile record for a ticker.
func (c *FMPClient) Profile(ctx context.Context, ticker string) (map[string]any, error) {
	return c.getRecord(ctx, "profile/"+url.PathEscape(ticker))
}

// Quote returns the real-time quote record for a ticker.
func (c *FMPClient) Quote(ctx context.Context, ticker string) (map[string]any, error) {
	return c.getRecord(ctx, "quote/"+url.PathEscape(ticker))
}

// Ratios returns the trailing financial ratios record for a ticker.
func (c *FMPClient) Ratios(ctx context.Context, ticker string) (map[string]any, error) {
	return c.getRecord(ctx, "ratios-ttm/"+url.PathEscape(ticker))
}

// Price returns the lightweight price record for a ticker.
func (c *FMPClient) Price(ctx context.Context, ticker string) (map[string]any, error) {
	return c.getRecord(ctx, "quote-short/"+url.PathEscape(ticker))
}

// Quotes returns quote records for several tickers at once.
func (c *FMPClient) Quotes(ctx context.Context, tickers []string) ([]map[string]any, error) {
	if len(tickers) == 0 {
		return nil, nil
	}

	body, err := c.get(ctx, "quote/"+url.PathEscape(strings.Join(tickers, ",")), nil)
	if err != nil {
		return nil, err
	}

	var list []map[string]any
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return list, nil
}

// KeyMetrics assembles the metric map consumed by the insight extractor
// and document indexer. Values that cannot be fetched are set to the
// "N/A" sentinel instead of failing the whole lookup.
func (c *FMPClient) KeyMetrics(ctx context.Context, ticker string) map[string]any {
	metrics := map[string]any{
		"ticker":       ticker,
		"company_name": "Unknown",
		"market_cap":   "N/A",
		"pe_ratio":     "N/A",
		"pb_ratio":     "N/A",
		"roe":          "N/A",
		"net_margin":   "N/A",
		"currency":     "USD",
	}

	profile, err := c.Profile(ctx, ticker)
	if err != nil {
		c.log.Debug("fmp profile unavailable", zap.String("ticker", ticker), zap.Error(err))
	} else {
		if name, ok := profile["companyName"].(string); ok && name != "" {
			metrics["company_name"] = name
		}
		if mktCap, ok := profile["mktCap"].(float64); ok {
			metrics["market_cap"] = mktCap
		}
	}

	quote, err := c.Quote(ctx, ticker)
	if err != nil {
		c.log.Debug("fmp quote unavailable", zap.String("ticker", ticker), zap.Error(err))
	} else {
		if pe, ok := quote["pe"].(float64); ok {
			metrics["pe_ratio"] = pe
		}
		if price, ok := quote["price"].(float64); ok {
			metrics["current_price"] = price
		}
	}

	ratios, err := c.Ratios(ctx, ticker)
	if err != nil {
		c.log.Debug("fmp ratios unavailable", zap.String("ticker", ticker), zap.Error(err))
	} else {
		if pb, ok := ratios["priceToBookRatioTTM"].(float64); ok {
			metrics["pb_ratio"] = pb
		}
		// FMP reports these as fractions; the insight thresholds expect percent.
		if roe, ok := ratios["returnOnEquityTTM"].(float64); ok {
			metrics["roe"] = roe * 100
		}
		if nm, ok := ratios["netProfitMarginTTM"].(float64); ok {
			metrics["net_margin"] = nm * 100
		}
	}

	return metrics
}

// ComparablesFinancials fetches key metrics for every ticker in order.
func (c *FMPClient) ComparablesFinancials(ctx context.Context, tickers []string) []map[string]any {
	out := make([]map[string]any, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, c.KeyMetrics(ctx, t))
	}
	return out
}
