package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptoedge/cadvi/internal/advisor"
	"github.com/cryptoedge/cadvi/internal/analyzer"
	"github.com/cryptoedge/cadvi/internal/config"
	"github.com/cryptoedge/cadvi/internal/model"
	"github.com/cryptoedge/cadvi/internal/ui"
)

func newBacktestCmd() *cobra.Command {
	var (
		input    string
		top      int
		category string
		seed     int64
		resize   bool
	)

	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "Run one simulated trading pass over the top candidates",
		Long: `Scores the market, selects the top candidates, and replays them once
through the probabilistic outcome model. With --resize, the realized
win rate and average win/loss are fed back into the Kelly sizing and
the updated position fraction is printed.`,
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

			_, metrics := svc.Backtest(svc.AsCandidates(ranked), seed)

			reporter := ui.NewReporter(os.Stdout, false)
			reporter.Backtest(metrics)

			if resize && metrics.TotalTrades > 0 {
				resized := svc.ResizeFromBacktest(ranked, metrics)
				fmt.Fprintf(os.Stdout, "Kelly position from realized stats: %.1f%% (was %.1f%%)\n",
					resized[0].PositionSize*100, ranked[0].PositionSize*100)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "score a saved listings JSON file instead of fetching live")
	cmd.Flags().IntVar(&top, "top", 10, "candidates to trade")
	cmd.Flags().StringVar(&category, "category", "", "restrict to one category: spot, futures, web3")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for time-based")
	cmd.Flags().BoolVar(&resize, "resize", false, "feed realized stats back into Kelly sizing")
	return cmd
}

func rankForSimulation(svc *advisor.Service, scored []analyzer.ScoredAsset, category string, top int) ([]analyzer.ScoredAsset, error) {
	if category == "" {
		return svc.Candidates(scored, "", top), nil
	}
	cat, err := model.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return svc.Candidates(scored, cat, top), nil
}
