package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"OpportunityScanner/internal/notifier"
	"OpportunityScanner/internal/scheduler"
	"OpportunityScanner/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, scheduled scans and Telegram commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()
			cfg := a.cfg

			// Context for graceful shutdown
			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			var sender scheduler.Sender
			var tn *notifier.TelegramNotifier
			if cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, a.log)
				sender = tn
			} else {
				a.log.Info().Msg("telegram not configured, alerts disabled")
			}

			sched := scheduler.NewScheduler(ctx, a.scanner, a.cache, sender, a.recorder, scheduler.Options{
				Watchlist: cfg.Scanner.Watchlist,
				Threshold: cfg.Scanner.Threshold,
				ExportDir: cfg.Export.Dir,
			}, a.log)
			if err := sched.RegisterAll(cfg.Schedule.ScanCron); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				a.log.Info().Msg("telegram polling started")
			}

			if os.Getenv("RUN_ON_START") == "true" {
				a.log.Info().Msg("RUN_ON_START enabled, executing scan now")
				go sched.RunNow()
			}

			srv := server.New(server.Config{
				Log:              a.log,
				Scanner:          a.scanner,
				Recorder:         a.recorder,
				Watchlist:        cfg.Scanner.Watchlist,
				DefaultThreshold: cfg.Scanner.Threshold,
				AllowedOrigins:   cfg.Server.AllowedOrigins,
				Port:             cfg.Server.Port,
			})
			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
				a.log.Info().Msg("shutdown signal received, stopping...")
			case err := <-errCh:
				return err
			}

			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
