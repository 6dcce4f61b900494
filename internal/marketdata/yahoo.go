package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"
)

// YahooClient implements HistoryProvider using the Yahoo Finance chart API.
type YahooClient struct {
	baseURL         string
	benchmarkSymbol string
	httpClient      *http.Client
	symbolMap       map[string]string
}

// NewYahooClient creates a Yahoo Finance history provider. benchmarkSymbol
// is the ticker used for FetchBenchmarkHistory (e.g. "SPY").
func NewYahooClient(baseURL, benchmarkSymbol string) *YahooClient {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	if benchmarkSymbol == "" {
		benchmarkSymbol = "SPY"
	}
	return &YahooClient{
		baseURL:         baseURL,
		benchmarkSymbol: benchmarkSymbol,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		symbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

// yahooChart is the response structure from the Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (c *YahooClient) mappedSymbol(symbol string) string {
	if mapped, ok := c.symbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// FetchHistory fetches daily bars for a symbol. A symbol Yahoo does not
// know yields an empty series rather than an error.
func (c *YahooClient) FetchHistory(ctx context.Context, symbol, rng string) (Series, error) {
	if rng == "" {
		rng = "2y"
	}
	bars, err := c.fetchChart(ctx, symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	return bars, nil
}

// FetchBenchmarkHistory fetches daily bars for the configured benchmark.
func (c *YahooClient) FetchBenchmarkHistory(ctx context.Context, rng string) (Series, error) {
	if rng == "" {
		rng = "1y"
	}
	return c.fetchChart(ctx, c.benchmarkSymbol, "1d", rng)
}

func (c *YahooClient) fetchChart(ctx context.Context, symbol, interval, rng string) (Series, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(c.mappedSymbol(symbol)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching chart: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	// Yahoo answers 404 for unknown tickers; treat as no data.
	if resp.StatusCode == http.StatusNotFound {
		return Series{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart API error: %s", string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("error parsing chart: %w", err)
	}
	if chart.Chart.Error != nil {
		return Series{}, nil
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return Series{}, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return Series{}, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make(Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Yahoo occasionally ships quote arrays shorter than timestamp
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		o := toFloat(quote.Open[i])
		h := toFloat(quote.High[i])
		l := toFloat(quote.Low[i])
		cl := toFloat(quote.Close[i])
		if o == 0 && h == 0 && l == 0 && cl == 0 {
			continue // skip null bars (holidays etc.)
		}
		var vol float64
		if i < len(quote.Volume) {
			vol = toFloat(quote.Volume[i])
		}
		bars = append(bars, Bar{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  cl,
			Volume: vol,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}
