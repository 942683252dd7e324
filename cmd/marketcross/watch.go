package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"MarketCross/internal/notifier"
	"MarketCross/internal/scheduler"
)

func newWatchCmd(a *app) *cobra.Command {
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the watchlist on its cron schedule and alert crossovers via Telegram",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.ValidateWatch(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			tn := notifier.NewTelegramNotifier(a.cfg.Telegram.BotToken, a.cfg.Telegram.ChatID, a.cfg.Proxy, a.logger)
			sched := scheduler.NewScheduler(ctx, a.collector, tn, a.cfg, a.logger)
			if err := sched.RegisterAll(); err != nil {
				return err
			}
			sched.Start()
			defer sched.Stop()

			go tn.StartPolling(ctx, sched.HandleCommand)
			a.logger.Info().Msg("telegram polling started")

			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				a.logger.Info().Msg("running watchlist now")
				go sched.RunNow()
			}

			<-ctx.Done()
			a.logger.Info().Msg("shutdown signal received, stopping")
			return nil
		},
	}
	cmd.Flags().BoolVar(&runOnStart, "run-now", false, "analyze every watch entry immediately on start")
	return cmd
}
