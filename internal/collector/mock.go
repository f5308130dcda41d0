package collector

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"sync"
	"time"

	"OpportunityScanner/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Series holds explicit closes per ticker; Errors forces failures. Tickers
// in neither map get a deterministic synthetic series.
type MockFetcher struct {
	Series map[string][]float64
	Errors map[string]error
	Days   int

	mu    sync.Mutex
	calls map[string]int
}

// CallCount reports how many times ticker was requested.
func (m *MockFetcher) CallCount(ticker string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[ticker]
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(ctx context.Context, ticker, _ string) (*model.PriceSeries, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[ticker]++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, ticker, err)
	}
	if err, ok := m.Errors[ticker]; ok {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, ticker, err)
	}
	closes, ok := m.Series[ticker]
	if !ok {
		days := m.Days
		if days == 0 {
			days = 21
		}
		closes = generateMockCloses(ticker, days)
	}
	return seriesFromCloses(ticker, closes), nil
}

func seriesFromCloses(ticker string, closes []float64) *model.PriceSeries {
	n := len(closes)
	today := time.Now().Truncate(24 * time.Hour)
	s := &model.PriceSeries{Ticker: ticker, Points: make([]model.PricePoint, n), FetchedAt: time.Now()}
	for i, c := range closes {
		s.Points[i] = model.PricePoint{Date: today.AddDate(0, 0, -(n - 1 - i)), Close: c}
	}
	return s
}

// generateMockCloses builds a wavy series whose base price and amplitude
// depend on the ticker, so different tickers get different volatility.
func generateMockCloses(ticker string, count int) []float64 {
	h := fnv.New32a()
	h.Write([]byte(ticker))
	seed := h.Sum32()

	base := 20 + float64(seed%480)
	amp := 0.005 + float64(seed%7)*0.006
	closes := make([]float64, count)
	for i := 0; i < count; i++ {
		closes[i] = base * (1 + amp*math.Sin(float64(i)*1.3+float64(seed%11)))
	}
	return closes
}
