package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"OpportunityScanner/internal/model"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$12.35", Money(12.346))
	assert.Equal(t, "+3.10%", SignedPct(3.1))
	assert.Equal(t, "-0.50%", SignedPct(-0.5))
	assert.Equal(t, "92.4%", Pct(92.44))
}

func TestRender_Sections(t *testing.T) {
	tbl := &model.ResultTable{
		ScannedAt: time.Date(2026, 10, 19, 16, 30, 0, 0, time.UTC),
		Threshold: 80,
		Records: []model.MetricRecord{
			{Ticker: "IREN", Price: 41.2, VolatilityPct: 112.5, HoldTime: model.HoldTime},
			{Ticker: "NVDA", Price: 181.9, VolatilityPct: 38.2, HoldTime: model.HoldTime},
		},
		Failures: []model.TickerFailure{{Ticker: "SOC", Reason: "data unavailable"}},
	}

	out := Render(tbl)
	assert.Contains(t, out, "High Potential (volatility > 80%)")
	assert.Contains(t, out, "All Stocks (2)")
	assert.Contains(t, out, "$41.20")
	assert.Contains(t, out, "SOC skipped")

	highSection := out[strings.Index(out, "High Potential"):strings.Index(out, "All Stocks")]
	assert.Contains(t, highSection, "IREN")
	assert.NotContains(t, highSection, "NVDA")
}

func TestRender_NoHighPotential(t *testing.T) {
	tbl := &model.ResultTable{
		Threshold: 150,
		Records:   []model.MetricRecord{{Ticker: "NVDA", VolatilityPct: 38.2}},
	}
	assert.Contains(t, Render(tbl), "No stocks above the volatility threshold.")
}
