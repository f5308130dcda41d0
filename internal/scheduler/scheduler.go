package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"OpportunityScanner/internal/collector"
	"OpportunityScanner/internal/export"
	"OpportunityScanner/internal/model"
	"OpportunityScanner/internal/notifier"
	"OpportunityScanner/internal/recorder"
	"OpportunityScanner/internal/scanner"
)

// purgeCron sweeps expired cache entries every ten minutes.
const purgeCron = "0 */10 * * * *"

// Sender delivers formatted reports.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Options configures a Scheduler.
type Options struct {
	Watchlist []string
	Threshold int
	ExportDir string // empty disables CSV export of scheduled scans
}

// Scheduler manages the cron tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Scanner  *scanner.Scanner
	Cache    *collector.Cache
	Notifier Sender
	Recorder recorder.Recorder
	Opts     Options
	Ctx      context.Context
	log      zerolog.Logger
}

// NewScheduler creates a new Scheduler. notifier and cache may be nil.
func NewScheduler(ctx context.Context, sc *scanner.Scanner, cache *collector.Cache, n Sender, rec recorder.Recorder, opts Options, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Scanner:  sc,
		Cache:    cache,
		Notifier: n,
		Recorder: rec,
		Opts:     opts,
		Ctx:      ctx,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers the scan and cache purge tasks.
func (s *Scheduler) RegisterAll(scanCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if s.Cache != nil {
		if _, err := s.Cron.AddFunc(purgeCron, s.purgeTask); err != nil {
			return fmt.Errorf("register cache purge: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow executes the scan task immediately (for RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	s.log.Info().Msg("running scheduled scan")
	table, err := s.scan(s.Ctx, s.Opts.Watchlist)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled scan")
		s.trySend(notifier.FormatScanError(err))
		return
	}
	s.trySend(notifier.FormatScanReport(table))

	if s.Opts.ExportDir != "" {
		path, err := export.SaveCSV(s.Opts.ExportDir, table)
		if err != nil {
			s.log.Error().Err(err).Msg("export scan")
		} else {
			s.log.Info().Str("path", path).Msg("scan exported")
		}
	}
}

func (s *Scheduler) purgeTask() {
	if n := s.Cache.Purge(); n > 0 {
		s.log.Debug().Int("removed", n).Msg("cache purged")
	}
}

// scan runs and records one scan.
func (s *Scheduler) scan(ctx context.Context, tickers []string) (*model.ResultTable, error) {
	table, err := s.Scanner.Scan(ctx, tickers, float64(s.Opts.Threshold))
	if err != nil {
		return nil, err
	}
	if err := s.Recorder.RecordScan(table); err != nil {
		s.log.Error().Err(err).Str("scan_id", table.ScanID).Msg("record scan")
	}
	return table, nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, arg, _ := strings.Cut(command, " ")
	switch name {
	case "/scan":
		tickers := s.Opts.Watchlist
		if arg = strings.TrimSpace(arg); arg != "" {
			tickers = scanner.ParseWatchlist(arg)
		}
		table, err := s.scan(ctx, tickers)
		if err != nil {
			if !errors.Is(err, scanner.ErrNoResults) {
				s.log.Error().Err(err).Msg("command scan")
			}
			return notifier.FormatScanError(err)
		}
		return notifier.FormatScanReport(table)
	case "/watchlist":
		return notifier.FormatWatchlist(s.Opts.Watchlist, s.Opts.Threshold)
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}
