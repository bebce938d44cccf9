package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFMPTestServer(t *testing.T, handler http.HandlerFunc) *FMPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewFMPClient("test-key", nil)
	c.baseURL = srv.URL
	return c
}

func TestFMPClientRequiresKey(t *testing.T) {
	c := NewFMPClient("", nil)
	_, err := c.Profile(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestFMPKeyMetrics(t *testing.T) {
	c := newFMPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		switch {
		case strings.HasPrefix(r.URL.Path, "/profile/"):
			w.Write([]byte(`[{"companyName": "Apple Inc.", "mktCap": 2800000000000}]`))
		case strings.HasPrefix(r.URL.Path, "/quote/"):
			w.Write([]byte(`[{"pe": 29.4, "price": 182.5}]`))
		case strings.HasPrefix(r.URL.Path, "/ratios-ttm/"):
			w.Write([]byte(`[{"priceToBookRatioTTM": 45.1, "returnOnEquityTTM": 1.47, "netProfitMarginTTM": 0.253}]`))
		default:
			http.NotFound(w, r)
		}
	})

	metrics := c.KeyMetrics(context.Background(), "AAPL")
	assert.Equal(t, "Apple Inc.", metrics["company_name"])
	assert.Equal(t, 2.8e12, metrics["market_cap"])
	assert.Equal(t, 29.4, metrics["pe_ratio"])
	assert.Equal(t, 182.5, metrics["current_price"])
	assert.Equal(t, 45.1, metrics["pb_ratio"])
	// Ratios arrive as fractions and are reported as percentages.
	assert.InDelta(t, 147.0, metrics["roe"].(float64), 1e-9)
	assert.InDelta(t, 25.3, metrics["net_margin"].(float64), 1e-9)
}

func TestFMPKeyMetricsDegradesToSentinels(t *testing.T) {
	c := newFMPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	metrics := c.KeyMetrics(context.Background(), "AAPL")
	assert.Equal(t, "AAPL", metrics["ticker"])
	assert.Equal(t, "Unknown", metrics["company_name"])
	assert.Equal(t, "N/A", metrics["market_cap"])
	assert.Equal(t, "N/A", metrics["pe_ratio"])
	assert.Equal(t, "N/A", metrics["roe"])
}

func TestFMPGetRecordNormalizesShapes(t *testing.T) {
	c := newFMPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/profile/OBJ":
			w.Write([]byte(`{"companyName": "Object Co"}`))
		case "/profile/EMPTY":
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`[{"companyName": "Array Co"}]`))
		}
	})

	record, err := c.Profile(context.Background(), "OBJ")
	require.NoError(t, err)
	assert.Equal(t, "Object Co", record["companyName"])

	record, err = c.Profile(context.Background(), "ARR")
	require.NoError(t, err)
	assert.Equal(t, "Array Co", record["companyName"])

	_, err = c.Profile(context.Background(), "EMPTY")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFMPPrice(t *testing.T) {
	c := newFMPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/quote-short/AAPL"))
		w.Write([]byte(`[{"symbol": "AAPL", "price": 182.5}]`))
	})

	record, err := c.Price(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 182.5, record["price"])
}

func TestFMPQuotes(t *testing.T) {
	c := newFMPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/quote/AAPL,MSFT", r.URL.Path)
		w.Write([]byte(`[{"symbol": "AAPL"}, {"symbol": "MSFT"}]`))
	})

	quotes, err := c.Quotes(context.Background(), []string{"AAPL", "MSFT"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "MSFT", quotes[1]["symbol"])

	quotes, err = c.Quotes(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, quotes)
}

func TestFMPComparablesFinancials(t *testing.T) {
	c := newFMPTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{}]`))
	})

	out := c.ComparablesFinancials(context.Background(), []string{"A", "B"})
	require.Len(t, out, 2)
	assert.Equal(t, "A", out[0]["ticker"])
	assert.Equal(t, "B", out[1]["ticker"])
}
