package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"OpportunityScanner/internal/model"
)

// YFinanceFetcher implements Fetcher on top of the go-yfinance client,
// which handles Yahoo's cookie/crumb handshake itself.
type YFinanceFetcher struct{}

// NewYFinanceFetcher creates a go-yfinance backed fetcher.
func NewYFinanceFetcher() *YFinanceFetcher {
	return &YFinanceFetcher{}
}

func (f *YFinanceFetcher) Name() string { return "yfinance" }

func (f *YFinanceFetcher) FetchDailyCloses(ctx context.Context, symbol, period string) (*model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, symbol, err)
	}

	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("%w: create ticker %s: %v", ErrDataUnavailable, symbol, err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     period,
		Interval:   "1d",
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: history %s: %v", ErrDataUnavailable, symbol, err)
	}

	points := make([]model.PricePoint, 0, len(bars))
	for _, bar := range bars {
		if bar.Close == 0 {
			continue
		}
		points = append(points, model.PricePoint{Date: bar.Date, Close: bar.Close})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: yfinance %s: no data returned", ErrDataUnavailable, symbol)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return &model.PriceSeries{Ticker: symbol, Points: points, FetchedAt: time.Now()}, nil
}
