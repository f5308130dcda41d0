package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"OpportunityScanner/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	hotStyle    = cellStyle.Foreground(lipgloss.Color("10")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

var columns = []string{
	"Ticker", "Price", "Daily %", "7D Vol", "Exp. Move",
	"Cons. Target", "Cons. Gain", "Aggr. Target", "Aggr. Gain", "Hold",
}

// Money formats a price the way the dashboard shows it.
func Money(v float64) string { return fmt.Sprintf("$%.2f", v) }

// SignedPct formats a percent change with an explicit sign.
func SignedPct(v float64) string { return fmt.Sprintf("%+.2f%%", v) }

// Pct formats an unsigned percent.
func Pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func row(r model.MetricRecord) []string {
	return []string{
		r.Ticker,
		Money(r.Price),
		SignedPct(r.DailyChangePct),
		Pct(r.VolatilityPct),
		Money(r.ExpectedMove),
		Money(r.ConservativeTarget),
		SignedPct(r.ConservativeGainPct),
		Money(r.AggressiveTarget),
		SignedPct(r.AggressiveGainPct),
		r.HoldTime,
	}
}

// Table renders records, highlighting rows above the threshold.
func Table(records []model.MetricRecord, threshold float64) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = row(r)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(r, _ int) lipgloss.Style {
			if r == table.HeaderRow {
				return headerStyle
			}
			if r >= 0 && r < len(records) && records[r].VolatilityPct > threshold {
				return hotStyle
			}
			return cellStyle
		})
	return t.String()
}

// Render prints the high potential and all stocks sections of a scan.
func Render(t *model.ResultTable) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("1-Week Opportunity Scan | %s", t.ScannedAt.Format("2006-01-02 15:04"))))
	b.WriteString("\n\n")

	high := t.HighVolatility()
	b.WriteString(titleStyle.Render(fmt.Sprintf("High Potential (volatility > %.0f%%)", t.Threshold)))
	b.WriteString("\n")
	if len(high) == 0 {
		b.WriteString(mutedStyle.Render("No stocks above the volatility threshold."))
	} else {
		b.WriteString(Table(high, t.Threshold))
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(fmt.Sprintf("All Stocks (%d)", len(t.All()))))
	b.WriteString("\n")
	b.WriteString(Table(t.All(), t.Threshold))
	b.WriteString("\n")

	for _, f := range t.Failures {
		b.WriteString(warnStyle.Render(fmt.Sprintf("warning: %s skipped: %s", f.Ticker, f.Reason)))
		b.WriteString("\n")
	}
	return b.String()
}
