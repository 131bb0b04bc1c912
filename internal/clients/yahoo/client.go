// Package yahoo is a client for the Yahoo Finance v8 chart API, the
// market-data boundary of the analysis service. It performs no retries;
// callers decide their own retry policy.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/heyitsmejosh/stonks/internal/domain"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches daily price histories and current quotes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
}

// NewClient creates a Yahoo Finance client.
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		log:        log.With().Str("component", "yahoo").Logger(),
	}
}

// WithBaseURL overrides the API endpoint. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

// chartResponse is the response structure of the chart API.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches the daily price series for a symbol over a Yahoo range
// string such as "1y" or "2y". Null bars (holidays) are skipped and the
// result is validated and sorted ascending.
func (c *Client) History(ctx context.Context, symbol, rng string) (domain.PriceSeries, error) {
	series, err := c.fetchChart(ctx, symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("yahoo: no data for %s", symbol)
	}
	return series, nil
}

// Quote fetches the latest daily bar for a symbol and derives a snapshot
// with intraday change against the open.
func (c *Client) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	series, err := c.fetchChart(ctx, symbol, "1d", "1d")
	if err != nil {
		return domain.Quote{}, err
	}
	if len(series) == 0 {
		return domain.Quote{}, fmt.Errorf("yahoo: no quote data for %s", symbol)
	}
	last := series[len(series)-1]
	change := last.Close - last.Open
	return domain.Quote{
		Symbol:        symbol,
		Price:         last.Close,
		Change:        change,
		ChangePercent: change / last.Open * 100,
		AsOf:          last.Time,
	}, nil
}

func (c *Client) fetchChart(ctx context.Context, symbol, interval, rng string) (domain.PriceSeries, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d for %s", resp.StatusCode, symbol)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: empty chart result for %s", symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	series := make(domain.PriceSeries, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Parallel arrays are not guaranteed equal length in malformed payloads.
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			break
		}
		// Null bars are holidays or halted sessions.
		if quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil || quote.Close[i] == nil {
			continue
		}
		series = append(series, domain.Candle{
			Time:  time.Unix(ts, 0).UTC(),
			Open:  *quote.Open[i],
			High:  *quote.High[i],
			Low:   *quote.Low[i],
			Close: *quote.Close[i],
		})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Time.Before(series[j].Time) })
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("yahoo: invalid series for %s: %w", symbol, err)
	}
	return series, nil
}
