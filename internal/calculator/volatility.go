package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const (
	// TradingDaysPerYear annualizes daily volatility.
	TradingDaysPerYear = 252
	// HorizonDays is the expected-move horizon in calendar days.
	HorizonDays = 7
	// CalendarDaysPerYear is the denominator of the horizon fraction.
	CalendarDaysPerYear = 365
)

// LogReturns returns ln(c[i]/c[i-1]) for each adjacent pair of closes.
func LogReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return []float64{}
	}
	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = math.Log(closes[i] / closes[i-1])
	}
	return returns
}

// RealizedVolatility is the sample standard deviation of the log returns
// scaled by sqrt(252). The result is a fraction (0.8 == 80%).
// Fewer than two returns yield 0.
func RealizedVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear)
}

// DailyChangePct compares the last close with the one before it.
// A single close compares against itself.
func DailyChangePct(closes []float64) float64 {
	if len(closes) == 0 {
		return 0
	}
	current := closes[len(closes)-1]
	prev := current
	if len(closes) > 1 {
		prev = closes[len(closes)-2]
	}
	return (current - prev) / prev * 100
}

// ExpectedMove approximates the absolute 7-day move, treating the
// annualized volatility as implied volatility.
func ExpectedMove(price, volatility float64) float64 {
	return price * volatility * math.Sqrt(float64(HorizonDays)/CalendarDaysPerYear)
}

// Targets returns the conservative (1x move) and aggressive (1.5x move) targets.
func Targets(price, move float64) (conservative, aggressive float64) {
	return price + move, price + 1.5*move
}

// GainPct is the percent distance from price to target.
func GainPct(price, target float64) float64 {
	return (target - price) / price * 100
}
