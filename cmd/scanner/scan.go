package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"OpportunityScanner/internal/export"
	"OpportunityScanner/internal/report"
	"OpportunityScanner/internal/scanner"
)

func scanCmd() *cobra.Command {
	var (
		tickers   string
		threshold int
		csvDir    string
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a watchlist once and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			list := a.cfg.Scanner.Watchlist
			if tickers != "" {
				list = scanner.ParseWatchlist(tickers)
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.Scanner.Threshold
			}
			if err := scanner.ValidateThreshold(threshold); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			table, err := a.scanner.Scan(ctx, list, float64(threshold))
			if err != nil {
				return err
			}
			if err := a.recorder.RecordScan(table); err != nil {
				a.log.Error().Err(err).Msg("record scan")
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(table.All()); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), report.Render(table))
			}

			if csvDir != "" {
				path, err := export.SaveCSV(csvDir, table)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tickers, "tickers", "t", "", "Comma separated tickers (defaults to the configured watchlist)")
	cmd.Flags().IntVar(&threshold, "threshold", scanner.DefaultThreshold, "Volatility threshold in percent (50-150, step 10)")
	cmd.Flags().StringVar(&csvDir, "csv-dir", "", "Write a dated CSV export into this directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON instead of a table")
	return cmd
}
