package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newIndicesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "indices",
		Short: "List the configured index presets and providers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, idx := range a.cfg.Indices {
				fmt.Printf("%-16s %s\n", idx.Name, idx.Symbol)
			}
			fmt.Printf("\nproviders: %v\n", buildRegistry(a.cfg).Names())
			return nil
		},
	}
}
