package notifier

import (
	"fmt"
	"html"
	"strings"

	"OpportunityScanner/internal/model"
)

// FormatScanReport formats a scan result into a Telegram message.
func FormatScanReport(t *model.ResultTable) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🚀 <b>1-Week Opportunity Scan</b> | %s\n\n", t.ScannedAt.Format("2006-01-02 15:04")))

	high := t.HighVolatility()
	b.WriteString(fmt.Sprintf("🔥 <b>High Potential</b> (vol &gt; %.0f%%)\n", t.Threshold))
	if len(high) == 0 {
		b.WriteString("  none\n")
	}
	for _, r := range high {
		b.WriteString(fmt.Sprintf("  <b>%s</b> $%.2f (%+.2f%%) vol %.0f%%\n", html.EscapeString(r.Ticker), r.Price, r.DailyChangePct, r.VolatilityPct))
		b.WriteString(fmt.Sprintf("    move ±$%.2f → $%.2f (%+.1f%%) / $%.2f (%+.1f%%), hold %s\n",
			r.ExpectedMove, r.ConservativeTarget, r.ConservativeGainPct, r.AggressiveTarget, r.AggressiveGainPct, r.HoldTime))
	}

	b.WriteString(fmt.Sprintf("\n📋 <b>All Stocks</b> (%d)\n", len(t.All())))
	for _, r := range t.All() {
		b.WriteString(fmt.Sprintf("  %s $%.2f vol %.0f%% → $%.2f\n", html.EscapeString(r.Ticker), r.Price, r.VolatilityPct, r.ConservativeTarget))
	}

	if len(t.Failures) > 0 {
		b.WriteString("\n⚠️ <b>Skipped</b>\n")
		for _, f := range t.Failures {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(f.Ticker), html.EscapeString(f.Reason)))
		}
	}
	return b.String()
}

// FormatScanError formats a scan-level failure.
func FormatScanError(err error) string {
	return fmt.Sprintf("❌ <b>Scan failed</b>\n\n%s", html.EscapeString(err.Error()))
}

// FormatWatchlist lists the configured tickers and threshold.
func FormatWatchlist(tickers []string, threshold int) string {
	return fmt.Sprintf("📝 <b>Watchlist</b>\n\n%s\n\nVolatility threshold: %d%%",
		html.EscapeString(strings.Join(tickers, ", ")), threshold)
}

// FormatHelp lists the available commands.
func FormatHelp() string {
	return "Available commands:\n• /scan - scan the watchlist\n• /scan PLTR,NVDA - scan given tickers\n• /watchlist - show the watchlist"
}
