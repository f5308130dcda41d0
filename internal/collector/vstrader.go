package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"OpportunityScanner/internal/model"
)

// periodBars maps a lookback period to the number of daily bars requested
// from APIs that page by count instead of range.
var periodBars = map[string]int{
	"5d":  5,
	"1mo": 22,
	"3mo": 66,
	"6mo": 130,
	"1y":  252,
}

// VsTraderFetcher implements Fetcher using the vstrader REST API.
type VsTraderFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, apiKey, proxyURL string) *VsTraderFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &VsTraderFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

func (f *VsTraderFetcher) FetchDailyCloses(ctx context.Context, ticker, period string) (*model.PriceSeries, error) {
	limit, ok := periodBars[period]
	if !ok {
		return nil, fmt.Errorf("%w: vstrader: unsupported period %q", ErrDataUnavailable, period)
	}
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d",
		strings.TrimRight(f.BaseURL, "/"), url.QueryEscape(ticker), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, ticker, err)
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch bars %s: %v", ErrDataUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read bars: %v", ErrDataUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch bars %s: status %d, body: %s", ErrDataUnavailable, ticker, resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: vstrader %s: invalid json", ErrDataUnavailable, ticker)
	}

	var points []model.PricePoint
	gjson.ParseBytes(body).ForEach(func(_, bar gjson.Result) bool {
		c := bar.Get("close")
		if c.Type != gjson.Number {
			return true
		}
		points = append(points, model.PricePoint{
			Date:  time.Unix(bar.Get("timestamp").Int(), 0).UTC(),
			Close: c.Float(),
		})
		return true
	})
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: vstrader %s: no data returned", ErrDataUnavailable, ticker)
	}
	// Ensure chronological order
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return &model.PriceSeries{Ticker: ticker, Points: points, FetchedAt: time.Now()}, nil
}
