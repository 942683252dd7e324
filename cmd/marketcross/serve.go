package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"MarketCross/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /api/calculate and /metrics over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &server.Server{
				Analyzer: a.collector,
				Indices:  a.cfg.Indices,
				Gatherer: a.promReg,
				Logger:   a.logger,
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
