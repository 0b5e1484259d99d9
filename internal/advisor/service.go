// Package advisor orchestrates one analysis run: scoring, ranking,
// trade simulation and Monte-Carlo aggregation. The CLI and the HTTP
// API are thin shells over this service.
package advisor

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cryptoedge/cadvi/internal/analyzer"
	"github.com/cryptoedge/cadvi/internal/backtest"
	"github.com/cryptoedge/cadvi/internal/config"
	"github.com/cryptoedge/cadvi/internal/model"
)

// Service wires the scoring engine and simulation config together.
type Service struct {
	cfg    config.Config
	engine *analyzer.Engine
}

// NewService builds the scoring engine from configuration.
func NewService(cfg config.Config) (*Service, error) {
	engine, err := analyzer.NewEngine(cfg.EngineOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to build scoring engine: %w", err)
	}
	return &Service{cfg: cfg, engine: engine}, nil
}

// Engine exposes the underlying scoring engine for ranking queries.
func (s *Service) Engine() *analyzer.Engine {
	return s.engine
}

// Score runs the full scoring pipeline over a raw record batch.
func (s *Service) Score(records []model.AssetRecord) []analyzer.ScoredAsset {
	return s.engine.ScoreAll(records)
}

// Candidates ranks the scored batch, optionally within one category.
// An empty category ranks across the whole batch.
func (s *Service) Candidates(scored []analyzer.ScoredAsset, category model.Category, n int) []analyzer.ScoredAsset {
	if category == "" {
		return s.engine.Rank(scored, n)
	}
	return s.engine.RankByCategory(scored, category, n)
}

// AsCandidates projects ranked assets into the simulator's read-only
// candidate view, using the engine's active composite as the score.
func (s *Service) AsCandidates(ranked []analyzer.ScoredAsset) []backtest.Candidate {
	candidates := make([]backtest.Candidate, len(ranked))
	for i, sa := range ranked {
		candidates[i] = backtest.Candidate{
			Symbol:         sa.Symbol,
			Price:          sa.Price,
			Change24h:      sa.Change24h,
			Score:          s.engine.ActiveScore(sa),
			PositionSize:   sa.PositionSize,
			WashSuspicious: sa.Wash.Suspicious,
		}
	}
	return candidates
}

// Backtest runs one simulation pass over the candidates and aggregates
// the closed trades. All results are hypothetical: the outcome model is
// probabilistic, not a replay of historical prices.
func (s *Service) Backtest(candidates []backtest.Candidate, seed int64) ([]*backtest.Trade, backtest.Metrics) {
	sim := backtest.NewSimulator(s.cfg.SimConfig(), backtest.NewSeededRand(seed))
	trades := sim.Simulate(candidates, time.Now().UTC())
	metrics := backtest.ComputeMetrics(trades)

	log.Info().
		Int("trades", metrics.TotalTrades).
		Float64("win_rate", metrics.WinRate).
		Float64("net_profit", metrics.NetProfit).
		Msg("Backtest completed")

	return trades, metrics
}

// MonteCarlo runs the repeated-simulation driver over the candidates.
// A zero runs argument uses the configured default.
func (s *Service) MonteCarlo(candidates []backtest.Candidate, runs int, seed int64) backtest.MonteCarloSummary {
	cfg := s.cfg.MonteCarloConfig(seed)
	if runs > 0 {
		cfg.Runs = runs
	}
	return backtest.MonteCarlo(candidates, cfg)
}

// ResizeFromBacktest feeds realized backtest statistics back into the
// Kelly position sizing, replacing the static placeholder triple.
func (s *Service) ResizeFromBacktest(scored []analyzer.ScoredAsset, m backtest.Metrics) []analyzer.ScoredAsset {
	stats := analyzer.KellyStats{
		WinRate: m.WinRate,
		AvgWin:  m.AvgWinPct / 100,
		AvgLoss: -m.AvgLossPct / 100,
	}
	return s.engine.Resize(scored, stats)
}
