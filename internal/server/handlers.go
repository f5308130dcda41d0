package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"OpportunityScanner/internal/export"
	"OpportunityScanner/internal/model"
	"OpportunityScanner/internal/scanner"
)

type scanResponse struct {
	ScanID        string                `json:"scan_id"`
	ScannedAt     time.Time             `json:"scanned_at"`
	Threshold     float64               `json:"threshold"`
	HighPotential []model.MetricRecord  `json:"high_potential"`
	All           []model.MetricRecord  `json:"all"`
	Failures      []model.TickerFailure `json:"failures"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWatchlist(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"tickers":   s.watchlist,
		"threshold": s.threshold,
	})
}

// scanParams reads tickers and threshold from the query string,
// falling back to the configured watchlist and threshold.
func (s *Server) scanParams(r *http.Request) ([]string, int, error) {
	tickers := s.watchlist
	if v := r.URL.Query().Get("tickers"); v != "" {
		tickers = scanner.ParseWatchlist(v)
	}
	if len(tickers) == 0 {
		return nil, 0, fmt.Errorf("no tickers given")
	}

	threshold := s.threshold
	if v := r.URL.Query().Get("threshold"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %q", scanner.ErrInvalidThreshold, v)
		}
		threshold = n
	}
	if err := scanner.ValidateThreshold(threshold); err != nil {
		return nil, 0, err
	}
	return tickers, threshold, nil
}

// runScan handles parameter and scan errors, writing the response itself
// when it returns nil.
func (s *Server) runScan(w http.ResponseWriter, r *http.Request) *model.ResultTable {
	tickers, threshold, err := s.scanParams(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil
	}
	table, err := s.scanner.Scan(r.Context(), tickers, float64(threshold))
	if err != nil {
		if errors.Is(err, scanner.ErrNoResults) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return nil
		}
		s.log.Error().Err(err).Msg("scan")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return nil
	}
	if err := s.recorder.RecordScan(table); err != nil {
		s.log.Error().Err(err).Str("scan_id", table.ScanID).Msg("record scan")
	}
	return table
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	table := s.runScan(w, r)
	if table == nil {
		return
	}
	failures := table.Failures
	if failures == nil {
		failures = []model.TickerFailure{}
	}
	high := table.HighVolatility()
	if high == nil {
		high = []model.MetricRecord{}
	}
	s.writeJSON(w, http.StatusOK, scanResponse{
		ScanID:        table.ScanID,
		ScannedAt:     table.ScannedAt,
		Threshold:     table.Threshold,
		HighPotential: high,
		All:           table.All(),
		Failures:      failures,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	table := s.runScan(w, r)
	if table == nil {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table.All()); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(table.ScannedAt)))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
