package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"OpportunityScanner/internal/calculator"
	"OpportunityScanner/internal/collector"
	"OpportunityScanner/internal/model"
)

// DefaultDelay spaces provider calls to stay under rate limits.
const DefaultDelay = 100 * time.Millisecond

// ErrNoResults means every ticker in a scan failed or was excluded.
var ErrNoResults = errors.New("no results: every ticker failed or lacked history")

// Scanner fetches each ticker in order and scores it.
type Scanner struct {
	Fetcher collector.Fetcher
	Delay   time.Duration
	Period  string
	log     zerolog.Logger
}

// New creates a Scanner with the default delay and a one month window.
func New(fetcher collector.Fetcher, log zerolog.Logger) *Scanner {
	return &Scanner{
		Fetcher: fetcher,
		Delay:   DefaultDelay,
		Period:  collector.PeriodOneMonth,
		log:     log.With().Str("component", "scanner").Logger(),
	}
}

// Scan processes tickers sequentially and returns the records sorted by
// volatility. Tickers without data are reported in Failures; tickers with
// too little history are dropped silently.
func (s *Scanner) Scan(ctx context.Context, tickers []string, threshold float64) (*model.ResultTable, error) {
	table := &model.ResultTable{
		ScanID:    uuid.NewString(),
		ScannedAt: time.Now(),
		Threshold: threshold,
	}
	s.log.Info().Str("scan_id", table.ScanID).Int("tickers", len(tickers)).Float64("threshold", threshold).Msg("scan started")

	for i, ticker := range tickers {
		if i > 0 && s.Delay > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("scan interrupted: %w", ctx.Err())
			case <-time.After(s.Delay):
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan interrupted: %w", err)
		}

		rec, err := s.scanOne(ctx, ticker)
		switch {
		case err == nil:
			table.Records = append(table.Records, *rec)
		case errors.Is(err, calculator.ErrInsufficientHistory):
			s.log.Debug().Str("ticker", ticker).Msg("skipped, insufficient history")
		default:
			s.log.Warn().Err(err).Str("ticker", ticker).Msg("ticker skipped")
			table.Failures = append(table.Failures, model.TickerFailure{Ticker: ticker, Reason: err.Error()})
		}
	}

	if len(table.Records) == 0 {
		return nil, ErrNoResults
	}
	table.SortByVolatility()
	s.log.Info().Str("scan_id", table.ScanID).
		Int("records", len(table.Records)).
		Int("high_volatility", len(table.HighVolatility())).
		Int("failures", len(table.Failures)).
		Msg("scan finished")
	return table, nil
}

func (s *Scanner) scanOne(ctx context.Context, ticker string) (*model.MetricRecord, error) {
	series, err := s.Fetcher.FetchDailyCloses(ctx, ticker, s.Period)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	return calculator.Evaluate(series)
}
