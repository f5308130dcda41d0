package calculator

import (
	"errors"
	"fmt"

	"OpportunityScanner/internal/model"
)

// MinObservations is the shortest series Evaluate accepts.
const MinObservations = 7

var (
	// ErrInsufficientHistory means the series is too short to score.
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrNonPositivePrice means a close is zero or negative.
	ErrNonPositivePrice = errors.New("non-positive close price")
)

// Evaluate computes the metric record for one price series.
func Evaluate(series *model.PriceSeries) (*model.MetricRecord, error) {
	if series.Len() < MinObservations {
		return nil, ErrInsufficientHistory
	}
	closes := series.Closes()
	for i, c := range closes {
		if c <= 0 {
			return nil, fmt.Errorf("%w: %s close[%d]=%g", ErrNonPositivePrice, series.Ticker, i, c)
		}
	}

	price := closes[len(closes)-1]
	vol := RealizedVolatility(LogReturns(closes))
	move := ExpectedMove(price, vol)
	conservative, aggressive := Targets(price, move)
	// The aggressive gain equals GainPct(price, aggressive); deriving it
	// from the conservative gain keeps the 1.5x ratio exact.
	gain := GainPct(price, conservative)

	return &model.MetricRecord{
		Ticker:              series.Ticker,
		Price:               price,
		DailyChangePct:      DailyChangePct(closes),
		VolatilityPct:       vol * 100,
		ExpectedMove:        move,
		ConservativeTarget:  conservative,
		ConservativeGainPct: gain,
		AggressiveTarget:    aggressive,
		AggressiveGainPct:   1.5 * gain,
		HoldTime:            model.HoldTime,
	}, nil
}
