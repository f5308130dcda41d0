package model

import (
	"sort"
	"time"
)

// HoldTime is the fixed holding-period label attached to every record.
const HoldTime = "5-7 days"

// MetricRecord is one row of scan output.
type MetricRecord struct {
	Ticker              string  `json:"ticker"`
	Price               float64 `json:"price"`
	DailyChangePct      float64 `json:"daily_change_pct"`
	VolatilityPct       float64 `json:"volatility_pct"` // annualized, percent
	ExpectedMove        float64 `json:"expected_move"`
	ConservativeTarget  float64 `json:"conservative_target"`
	ConservativeGainPct float64 `json:"conservative_gain_pct"`
	AggressiveTarget    float64 `json:"aggressive_target"`
	AggressiveGainPct   float64 `json:"aggressive_gain_pct"`
	HoldTime            string  `json:"hold_time"`
}

// TickerFailure records a ticker whose data could not be used.
type TickerFailure struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// ResultTable is the outcome of one scan.
type ResultTable struct {
	ScanID    string
	ScannedAt time.Time
	Threshold float64
	Records   []MetricRecord
	Failures  []TickerFailure
}

// SortByVolatility orders records by volatility, highest first.
// Records with equal volatility keep their scan order.
func (t *ResultTable) SortByVolatility() {
	sort.SliceStable(t.Records, func(i, j int) bool {
		return t.Records[i].VolatilityPct > t.Records[j].VolatilityPct
	})
}

// All returns every record in display order.
func (t *ResultTable) All() []MetricRecord {
	return t.Records
}

// HighVolatility returns the records whose volatility is above the threshold.
func (t *ResultTable) HighVolatility() []MetricRecord {
	var out []MetricRecord
	for _, r := range t.Records {
		if r.VolatilityPct > t.Threshold {
			out = append(out, r)
		}
	}
	return out
}
