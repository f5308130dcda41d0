package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OpportunityScanner/internal/collector"
)

func newTestScanner(f collector.Fetcher) *Scanner {
	s := New(f, zerolog.Nop())
	s.Delay = 0
	return s
}

func flat(price float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = price
	}
	return out
}

func TestScan_SortsAndSkips(t *testing.T) {
	mock := &collector.MockFetcher{
		Series: map[string][]float64{
			"CALM":  flat(10, 21),
			"WILD":  {10, 14, 9, 15, 8, 16, 9, 17, 10},
			"MILD":  {10, 10.1, 10.05, 10.15, 10.1, 10.2, 10.15, 10.25},
			"SHORT": {10, 11, 12},
		},
		Errors: map[string]error{"GONE": errors.New("404")},
	}
	s := newTestScanner(mock)

	table, err := s.Scan(context.Background(), []string{"CALM", "GONE", "WILD", "SHORT", "MILD"}, 80)
	require.NoError(t, err)

	var got []string
	for _, r := range table.All() {
		got = append(got, r.Ticker)
	}
	assert.Equal(t, []string{"WILD", "MILD", "CALM"}, got)

	// SHORT is dropped silently, GONE is reported
	require.Len(t, table.Failures, 1)
	assert.Equal(t, "GONE", table.Failures[0].Ticker)

	high := table.HighVolatility()
	require.Len(t, high, 1)
	assert.Equal(t, "WILD", high[0].Ticker)
	assert.NotEmpty(t, table.ScanID)
	assert.Equal(t, 80.0, table.Threshold)
}

func TestScan_DuplicatesProduceDuplicateRows(t *testing.T) {
	mock := &collector.MockFetcher{}
	table, err := newTestScanner(mock).Scan(context.Background(), []string{"NVDA", "NVDA"}, 80)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, table.Records[0], table.Records[1])
}

func TestScan_NoResults(t *testing.T) {
	mock := &collector.MockFetcher{
		Series: map[string][]float64{"SHORT": {1, 2, 3}},
		Errors: map[string]error{"BAD": errors.New("down")},
	}
	table, err := newTestScanner(mock).Scan(context.Background(), []string{"SHORT", "BAD"}, 80)
	assert.ErrorIs(t, err, ErrNoResults)
	assert.Nil(t, table)

	_, err = newTestScanner(mock).Scan(context.Background(), nil, 80)
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestScan_NonPositivePriceIsReported(t *testing.T) {
	mock := &collector.MockFetcher{Series: map[string][]float64{
		"ZERO": {5, 5, 0, 5, 5, 5, 5},
		"OK":   flat(5, 7),
	}}
	table, err := newTestScanner(mock).Scan(context.Background(), []string{"ZERO", "OK"}, 80)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	require.Len(t, table.Failures, 1)
	assert.Equal(t, "ZERO", table.Failures[0].Ticker)
}

func TestScan_DelaysBetweenCalls(t *testing.T) {
	s := New(&collector.MockFetcher{}, zerolog.Nop())
	s.Delay = 20 * time.Millisecond

	start := time.Now()
	_, err := s.Scan(context.Background(), []string{"A", "B", "C"}, 80)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestScan_Cancelled(t *testing.T) {
	s := New(&collector.MockFetcher{}, zerolog.Nop())
	s.Delay = time.Second
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := s.Scan(ctx, []string{"A", "B"}, 80)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseWatchlist(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"PLTR, nvda ,TSLA", []string{"PLTR", "NVDA", "TSLA"}},
		{" , ,", nil},
		{"", nil},
		{"mara,MARA", []string{"MARA", "MARA"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseWatchlist(tt.in), tt.in)
	}
}

func TestValidateThreshold(t *testing.T) {
	for _, v := range []int{50, 80, 150} {
		assert.NoError(t, ValidateThreshold(v), v)
	}
	for _, v := range []int{40, 160, 85, 0} {
		assert.ErrorIs(t, ValidateThreshold(v), ErrInvalidThreshold, v)
	}
}
