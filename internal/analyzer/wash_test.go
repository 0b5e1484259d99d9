package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cryptoedge/cadvi/internal/model"
)

func TestDetectWashTrading(t *testing.T) {
	t.Run("clean asset", func(t *testing.T) {
		r := model.AssetRecord{
			MarketCap: 500_000_000, Volume24h: 50_000_000,
			VolumeChange24h: 20, Change24h: 5, Change7d: 15,
		}
		sig := DetectWashTrading(r)
		assert.False(t, sig.Suspicious)
		assert.Zero(t, sig.Confidence)
	})

	t.Run("volume spike with flat price", func(t *testing.T) {
		r := model.AssetRecord{
			MarketCap: 500_000_000, Volume24h: 10_000_000,
			VolumeChange24h: 600, Change24h: 1, Change7d: 5,
		}
		sig := DetectWashTrading(r)
		assert.True(t, sig.Suspicious)
		// The flat-price flag and the momentum-free spike flag both fire.
		assert.Equal(t, 60.0, sig.Confidence)
	})

	t.Run("turnover above twice market cap", func(t *testing.T) {
		r := model.AssetRecord{
			MarketCap: 10_000_000, Volume24h: 25_000_000,
			VolumeChange24h: 10, Change24h: 8, Change7d: 20,
		}
		sig := DetectWashTrading(r)
		assert.True(t, sig.Suspicious)
		assert.Equal(t, 30.0, sig.Confidence)
	})

	t.Run("micro cap churning multiples of itself", func(t *testing.T) {
		r := model.AssetRecord{
			MarketCap: 4_000_000, Volume24h: 21_000_000,
			VolumeChange24h: 10, Change24h: 8, Change7d: 20,
		}
		sig := DetectWashTrading(r)
		assert.True(t, sig.Suspicious)
		// Micro-cap churn implies the turnover flag as well: 30 + 30.
		assert.Equal(t, 60.0, sig.Confidence)
	})

	t.Run("confidence caps at 100", func(t *testing.T) {
		r := model.AssetRecord{
			MarketCap: 4_000_000, Volume24h: 25_000_000,
			VolumeChange24h: 600, Change24h: 1, Change7d: 0,
		}
		sig := DetectWashTrading(r)
		assert.True(t, sig.Suspicious)
		assert.Equal(t, 100.0, sig.Confidence)
	})
}

func TestKellySize(t *testing.T) {
	t.Run("default stats hit the cap", func(t *testing.T) {
		// Full Kelly 0.333, halved 0.167, capped at 7.5%.
		assert.InDelta(t, 0.075, KellySize(DefaultKellyStats), 1e-9)
	})

	t.Run("thin edge sizes under the cap", func(t *testing.T) {
		stats := KellyStats{WinRate: 0.55, AvgWin: 1.0, AvgLoss: 1.0}
		assert.InDelta(t, 0.05, KellySize(stats), 1e-9)
	})

	t.Run("negative edge floors at zero", func(t *testing.T) {
		stats := KellyStats{WinRate: 0.30, AvgWin: 1.0, AvgLoss: 1.0}
		assert.Zero(t, KellySize(stats))
	})

	t.Run("degenerate inputs yield zero", func(t *testing.T) {
		for _, stats := range []KellyStats{
			{},
			{WinRate: 1.0, AvgWin: 1.5, AvgLoss: 1.0},
			{WinRate: 0.6, AvgWin: 0, AvgLoss: 1.0},
			{WinRate: 0.6, AvgWin: 1.5, AvgLoss: -1.0},
			{WinRate: -0.1, AvgWin: 1.5, AvgLoss: 1.0},
		} {
			assert.Zero(t, KellySize(stats), "%+v", stats)
		}
	})
}
