package calculator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OpportunityScanner/internal/model"
)

func seriesOf(ticker string, closes ...float64) *model.PriceSeries {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	s := &model.PriceSeries{Ticker: ticker}
	for i, c := range closes {
		s.Points = append(s.Points, model.PricePoint{Date: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

func TestEvaluate_ConstantSeries(t *testing.T) {
	rec, err := Evaluate(seriesOf("FLAT", 50, 50, 50, 50, 50, 50, 50, 50, 50, 50))
	require.NoError(t, err)

	assert.Equal(t, 50.0, rec.Price)
	assert.Equal(t, 0.0, rec.DailyChangePct)
	assert.Equal(t, 0.0, rec.VolatilityPct)
	assert.Equal(t, 0.0, rec.ExpectedMove)
	assert.Equal(t, 50.0, rec.ConservativeTarget)
	assert.Equal(t, 50.0, rec.AggressiveTarget)
	assert.Equal(t, 0.0, rec.ConservativeGainPct)
	assert.Equal(t, 0.0, rec.AggressiveGainPct)
	assert.Equal(t, model.HoldTime, rec.HoldTime)
}

func TestEvaluate_ShortSeries(t *testing.T) {
	for n := 0; n < MinObservations; n++ {
		closes := make([]float64, n)
		for i := range closes {
			closes[i] = 100 + float64(i)
		}
		rec, err := Evaluate(seriesOf("SHORT", closes...))
		assert.ErrorIs(t, err, ErrInsufficientHistory, "length %d", n)
		assert.Nil(t, rec)
	}
}

func TestEvaluate_NilSeries(t *testing.T) {
	_, err := Evaluate(nil)
	assert.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestEvaluate_KnownValues(t *testing.T) {
	rec, err := Evaluate(seriesOf("ABC", 100, 102, 101, 105, 103, 108, 110))
	require.NoError(t, err)

	assert.Equal(t, "ABC", rec.Ticker)
	assert.Equal(t, 110.0, rec.Price)
	assert.InDelta(t, 1.8518518, rec.DailyChangePct, 1e-6)
	assert.InDelta(t, 41.621784, rec.VolatilityPct, 1e-5)
	assert.InDelta(t, 6.3403899, rec.ExpectedMove, 1e-6)
	assert.InDelta(t, 116.34039, rec.ConservativeTarget, 1e-5)
	assert.InDelta(t, 119.51058, rec.AggressiveTarget, 1e-5)
	assert.InDelta(t, 5.7639908, rec.ConservativeGainPct, 1e-6)
}

func TestEvaluate_AggressiveGainIsOneAndHalfConservative(t *testing.T) {
	tests := [][]float64{
		{100, 102, 101, 105, 103, 108, 110},
		{12.3, 11.9, 13.4, 12.8, 14.1, 13.7, 15.2, 16.0},
		{500, 480, 455, 470, 462, 449, 451, 430, 441},
	}
	for _, closes := range tests {
		rec, err := Evaluate(seriesOf("X", closes...))
		require.NoError(t, err)
		assert.Equal(t, 1.5*rec.ConservativeGainPct, rec.AggressiveGainPct)
		assert.InDelta(t, GainPct(rec.Price, rec.AggressiveTarget), rec.AggressiveGainPct, 1e-9)
	}
}

func TestEvaluate_NonPositivePrice(t *testing.T) {
	_, err := Evaluate(seriesOf("BAD", 10, 11, 0, 12, 13, 14, 15))
	assert.ErrorIs(t, err, ErrNonPositivePrice)

	_, err = Evaluate(seriesOf("NEG", 10, 11, 12, 13, 14, 15, -1))
	assert.ErrorIs(t, err, ErrNonPositivePrice)
}

func TestDegenerateTwoPointSeries(t *testing.T) {
	closes := []float64{100, 110}

	assert.InDelta(t, 10.0, DailyChangePct(closes), 1e-12)

	returns := LogReturns(closes)
	require.Len(t, returns, 1)
	assert.InDelta(t, 0.0953, returns[0], 1e-4)

	// one return sample: volatility is defined as zero
	assert.Equal(t, 0.0, RealizedVolatility(returns))
}

func TestDailyChangePct_SinglePoint(t *testing.T) {
	assert.Equal(t, 0.0, DailyChangePct([]float64{42}))
	assert.Equal(t, 0.0, DailyChangePct(nil))
}

func TestLogReturns(t *testing.T) {
	assert.Empty(t, LogReturns(nil))
	assert.Empty(t, LogReturns([]float64{1}))

	r := LogReturns([]float64{100, 200, 100})
	require.Len(t, r, 2)
	assert.InDelta(t, math.Ln2, r[0], 1e-12)
	assert.InDelta(t, -math.Ln2, r[1], 1e-12)
}

func TestRealizedVolatility_UsesSampleStdDev(t *testing.T) {
	// returns 0.01, -0.01: sample stddev = sqrt(0.0002/1)
	got := RealizedVolatility([]float64{0.01, -0.01})
	want := math.Sqrt(0.0002) * math.Sqrt(252)
	assert.InDelta(t, want, got, 1e-12)
}

func TestExpectedMoveAndTargets(t *testing.T) {
	move := ExpectedMove(100, 0.8)
	assert.InDelta(t, 100*0.8*math.Sqrt(7.0/365), move, 1e-12)

	c, a := Targets(100, move)
	assert.Equal(t, 100+move, c)
	assert.Equal(t, 100+1.5*move, a)
}
