package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"OpportunityScanner/internal/model"
)

// Header is the column order of an exported scan.
var Header = []string{
	"Ticker",
	"Price",
	"Daily %",
	"7D Vol (%)",
	"Expected Move",
	"Conservative Target",
	"Conservative Gain (%)",
	"Aggressive Target",
	"Aggressive Gain (%)",
	"Hold Time",
}

// FileName names the export for the given day.
func FileName(t time.Time) string {
	return fmt.Sprintf("stock_scan_%s.csv", t.Format("2006-01-02"))
}

func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteCSV writes the header and one row per record, numbers rounded to cents.
func WriteCSV(w io.Writer, records []model.MetricRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Ticker,
			formatNum(r.Price),
			formatNum(r.DailyChangePct),
			formatNum(r.VolatilityPct),
			formatNum(r.ExpectedMove),
			formatNum(r.ConservativeTarget),
			formatNum(r.ConservativeGainPct),
			formatNum(r.AggressiveTarget),
			formatNum(r.AggressiveGainPct),
			r.HoldTime,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", r.Ticker, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) ([]model.MetricRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range Header {
		if header[i] != h {
			return nil, fmt.Errorf("unexpected column %d: %q, want %q", i, header[i], h)
		}
	}

	var out []model.MetricRecord
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		nums := make([]float64, 8)
		for i := range nums {
			v, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line, Header[i+1], err)
			}
			nums[i] = v
		}
		out = append(out, model.MetricRecord{
			Ticker:              row[0],
			Price:               nums[0],
			DailyChangePct:      nums[1],
			VolatilityPct:       nums[2],
			ExpectedMove:        nums[3],
			ConservativeTarget:  nums[4],
			ConservativeGainPct: nums[5],
			AggressiveTarget:    nums[6],
			AggressiveGainPct:   nums[7],
			HoldTime:            row[9],
		})
	}
	return out, nil
}

// SaveCSV writes the table to dir under FileName and returns the path.
func SaveCSV(dir string, table *model.ResultTable) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(table.ScannedAt))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export: %w", err)
	}
	defer f.Close()
	if err := WriteCSV(f, table.All()); err != nil {
		return "", err
	}
	return path, f.Close()
}
