package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptoedge/cadvi/internal/advisor"
	"github.com/cryptoedge/cadvi/internal/config"
	"github.com/cryptoedge/cadvi/internal/model"
	"github.com/cryptoedge/cadvi/internal/ui"
)

func newScanCmd() *cobra.Command {
	var (
		input      string
		top        int
		category   string
		mode       string
		washReport bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Score the market and print ranked candidates per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig)
			if err != nil {
				return err
			}
			if mode != "" {
				cfg.Analyzer.Mode = mode
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
			reporter := ui.NewReporter(os.Stdout, verbose)
			reporter.Disclaimer()

			activeScore := svc.Engine().ActiveScore
			if category != "" {
				cat, err := model.ParseCategory(category)
				if err != nil {
					return err
				}
				reporter.Candidates(string(cat), svc.Candidates(scored, cat, top), activeScore)
			} else {
				for _, cat := range []model.Category{model.CategorySpot, model.CategoryFutures, model.CategoryWeb3} {
					reporter.Candidates(categoryTitle(cat), svc.Candidates(scored, cat, top), activeScore)
				}
			}

			if washReport {
				reporter.WashReport(svc.Engine().WashReport(scored))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "score a saved listings JSON file instead of fetching live")
	cmd.Flags().IntVar(&top, "top", 10, "candidates per category")
	cmd.Flags().StringVar(&category, "category", "", "restrict to one category: spot, futures, web3")
	cmd.Flags().StringVar(&mode, "mode", "", "scoring mode override: legacy or enhanced")
	cmd.Flags().BoolVar(&washReport, "wash-report", false, "append the wash-trading suspect list")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show per-indicator technical scores")
	return cmd
}

func categoryTitle(cat model.Category) string {
	switch cat {
	case model.CategorySpot:
		return "Binance Spot"
	case model.CategoryFutures:
		return "Binance Futures"
	case model.CategoryWeb3:
		return "Web3 Tokens"
	}
	return fmt.Sprint(cat)
}
