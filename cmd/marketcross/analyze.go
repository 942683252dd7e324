package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"MarketCross/internal/model"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		req    model.AnalysisRequest
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Fetch history, compute both SMAs and list crossovers",
		Args:  cobra.MaximumNArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			d := a.cfg.Defaults
			if len(args) == 1 {
				req.Symbol = args[0]
			} else if req.Symbol == "" {
				req.Symbol = d.Symbol
			}
			if !cmd.Flags().Changed("short") {
				req.ShortPeriod = d.ShortPeriod
			}
			if !cmd.Flags().Changed("long") {
				req.LongPeriod = d.LongPeriod
			}
			if !cmd.Flags().Changed("days") {
				req.WindowDays = d.WindowDays
			}
			if req.Provider == "" {
				req.Provider = d.Provider
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.collector.Analyze(cmd.Context(), req)
			if err != nil {
				if asJSON {
					e := model.AsError(err)
					_ = json.NewEncoder(os.Stdout).Encode(map[string]any{
						"error": map[string]string{"kind": string(e.Kind), "message": e.Message},
					})
				}
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			printResult(req, res)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Symbol, "symbol", "", "instrument symbol")
	cmd.Flags().IntVar(&req.ShortPeriod, "short", 0, "short SMA period")
	cmd.Flags().IntVar(&req.LongPeriod, "long", 0, "long SMA period")
	cmd.Flags().IntVar(&req.WindowDays, "days", 0, "number of most recent days to show")
	cmd.Flags().StringVar(&req.Provider, "provider", "", "data provider (yahoo, alphavantage, vstrader, mock)")
	cmd.Flags().StringVar(&req.Credential, "credential", "", "provider credential (overrides configured key)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output in JSON format")
	return cmd
}

func printResult(req model.AnalysisRequest, res *model.AnalysisResult) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "DATE\tCLOSE\tSMA%d\tSMA%d\tEVENT\n", req.ShortPeriod, req.LongPeriod)

	events := make(map[model.Date]model.CrossoverKind, len(res.Events))
	for _, e := range res.Events {
		events[e.Date] = e.Kind
	}
	for _, p := range res.Series {
		fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\t%s\n", p.Date, p.Close, optional(p.ShortSMA), optional(p.LongSMA), events[p.Date])
	}
	tw.Flush()
	fmt.Printf("\n%d points, %d crossover(s)\n", len(res.Series), len(res.Events))
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
