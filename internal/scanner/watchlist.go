package scanner

import (
	"errors"
	"fmt"
	"strings"
)

// Threshold slider bounds, in volatility percent.
const (
	MinThreshold     = 50
	MaxThreshold     = 150
	ThresholdStep    = 10
	DefaultThreshold = 80
)

// DefaultWatchlist is the high-growth list scanned when none is given.
var DefaultWatchlist = []string{"PLTR", "NVDA", "TSLA", "IREN", "SOC", "APLD", "SOXL", "MARA", "MSTR"}

// ErrInvalidThreshold rejects thresholds the slider cannot produce.
var ErrInvalidThreshold = errors.New("invalid volatility threshold")

// ParseWatchlist splits comma separated tickers, trimming and upper-casing
// each. Empty entries are skipped; duplicates are kept.
func ParseWatchlist(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		t := strings.ToUpper(strings.TrimSpace(part))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// ValidateThreshold checks v is in [50,150] on a step of 10.
func ValidateThreshold(v int) error {
	if v < MinThreshold || v > MaxThreshold {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidThreshold, v, MinThreshold, MaxThreshold)
	}
	if (v-MinThreshold)%ThresholdStep != 0 {
		return fmt.Errorf("%w: %d is not a multiple of %d", ErrInvalidThreshold, v, ThresholdStep)
	}
	return nil
}
