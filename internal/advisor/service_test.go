package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoedge/cadvi/internal/config"
	"github.com/cryptoedge/cadvi/internal/model"
)

func testService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(config.Default())
	require.NoError(t, err)
	return svc
}

func records() []model.AssetRecord {
	return []model.AssetRecord{
		{Symbol: "BTC", Name: "Bitcoin", OnBinance: true,
			Price: 60000, MarketCap: 1.2e12, Volume24h: 3e10,
			Change24h: 4, Change7d: 10, VolumeChange24h: 10},
		{Symbol: "ALT", Name: "Alt Chain", OnBinance: true,
			Price: 2.5, MarketCap: 4e8, Volume24h: 9e7,
			Change1h: 4, Change24h: 25, Change7d: 50, VolumeChange24h: 250},
		{Symbol: "WASH", Name: "Washy", OnBinance: true,
			Price: 0.001, MarketCap: 4e6, Volume24h: 2.5e7,
			Change24h: 1, VolumeChange24h: 600},
	}
}

func TestServiceRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Analyzer.EnhancedWeights["nonsense"] = 0.5
	_, err := NewService(cfg)
	assert.Error(t, err)
}

func TestAsCandidates(t *testing.T) {
	svc := testService(t)
	scored := svc.Score(records())
	ranked := svc.Candidates(scored, "", 3)

	candidates := svc.AsCandidates(ranked)
	require.Len(t, candidates, 3)
	for i, c := range candidates {
		assert.Equal(t, ranked[i].Symbol, c.Symbol)
		assert.Equal(t, svc.Engine().ActiveScore(ranked[i]), c.Score)
		assert.Equal(t, ranked[i].Wash.Suspicious, c.WashSuspicious)
	}
}

func TestBacktestDeterministicWithSeed(t *testing.T) {
	svc := testService(t)
	scored := svc.Score(records())
	candidates := svc.AsCandidates(svc.Candidates(scored, "", 3))

	_, a := svc.Backtest(candidates, 42)
	_, b := svc.Backtest(candidates, 42)
	assert.Equal(t, a, b)
}

func TestResizeFromBacktest(t *testing.T) {
	svc := testService(t)
	scored := svc.Score(records())

	_, metrics := svc.Backtest(svc.AsCandidates(scored), 42)
	require.Greater(t, metrics.TotalTrades, 0)

	resized := svc.ResizeFromBacktest(scored, metrics)
	require.Len(t, resized, len(scored))
	for i := 1; i < len(resized); i++ {
		assert.Equal(t, resized[0].PositionSize, resized[i].PositionSize,
			"one realized triple drives every position")
	}
}

func TestMonteCarloRunsOverride(t *testing.T) {
	svc := testService(t)
	scored := svc.Score(records())
	candidates := svc.AsCandidates(svc.Candidates(scored, "", 3))

	summary := svc.MonteCarlo(candidates, 25, 7)
	assert.Equal(t, 25, summary.Runs)

	fallback := svc.MonteCarlo(candidates, 0, 7)
	assert.Equal(t, config.Default().Simulation.Runs, fallback.Runs)
}
