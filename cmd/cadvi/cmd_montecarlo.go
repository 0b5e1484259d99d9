package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptoedge/cadvi/internal/advisor"
	"github.com/cryptoedge/cadvi/internal/config"
	"github.com/cryptoedge/cadvi/internal/ui"
)

func newMonteCarloCmd() *cobra.Command {
	var (
		input    string
		top      int
		category string
		runs     int
		seed     int64
	)

	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Estimate the outcome distribution with repeated simulations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			svc, err := advisor.NewService(cfg)
			if err != nil {
				return err
			}

			records, err := loadRecords(cmd.Context(), cfg, input)
			if err != nil {
				return err
			}

			scored := svc.Score(records)
			ranked, err := rankForSimulation(svc, scored, category, top)
			if err != nil {
				return err
			}
			if len(ranked) == 0 {
				return fmt.Errorf("no candidates qualify for simulation")
			}

			summary := svc.MonteCarlo(svc.AsCandidates(ranked), runs, seed)
			ui.NewReporter(os.Stdout, false).MonteCarlo(summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "score a saved listings JSON file instead of fetching live")
	cmd.Flags().IntVar(&top, "top", 10, "candidates to trade per run")
	cmd.Flags().StringVar(&category, "category", "", "restrict to one category: spot, futures, web3")
	cmd.Flags().IntVar(&runs, "runs", 0, "simulation runs, 0 uses the configured default")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base random seed, 0 for time-based")
	return cmd
}
