package collector

import (
	"context"
	"errors"

	"OpportunityScanner/internal/model"
)

// PeriodOneMonth is the trailing window requested for scans.
const PeriodOneMonth = "1mo"

// ErrDataUnavailable wraps every failure to obtain a usable series:
// network errors, unknown tickers, provider errors and empty results.
var ErrDataUnavailable = errors.New("data unavailable")

// Fetcher defines the interface for fetching daily closes.
type Fetcher interface {
	FetchDailyCloses(ctx context.Context, ticker, period string) (*model.PriceSeries, error)
	Name() string
}
