package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoedge/cadvi/internal/model"
)

func row(change1h, change24h, change7d, volChange, marketCap, volume float64) model.AssetRecord {
	return model.AssetRecord{
		Symbol:          "TEST",
		Name:            "Test Asset",
		Change1h:        change1h,
		Change24h:       change24h,
		Change7d:        change7d,
		VolumeChange24h: volChange,
		MarketCap:       marketCap,
		Volume24h:       volume,
	}
}

func TestVolatilityScore(t *testing.T) {
	t.Run("weighted average of windows", func(t *testing.T) {
		r := row(6, 12, 18, 0, 0, 0)
		// (6*3 + 12*2 + 18) / 6 = 10, then the 1.3x aligned-momentum bonus
		assert.InDelta(t, 10*1.3, VolatilityScore(r), 1e-9)
	})

	t.Run("no bonus when weekly trend is down", func(t *testing.T) {
		r := row(6, 12, -18, 0, 0, 0)
		assert.InDelta(t, 10.0, VolatilityScore(r), 1e-9)
	})

	t.Run("absolute values count", func(t *testing.T) {
		up := row(2, 4, 8, 0, 0, 0)
		down := row(-2, -4, -8, 0, 0, 0)
		// Down rows skip the momentum bonus but swing magnitude matches.
		assert.InDelta(t, VolatilityScore(up)/1.3, VolatilityScore(down), 1e-9)
	})
}

func TestMarketCapRiskScore(t *testing.T) {
	cases := []struct {
		name      string
		marketCap float64
		want      float64
	}{
		{"micro cap", 40_000_000, 100},
		{"boundary stays in next band", 50_000_000, 70},
		{"small cap", 200_000_000, 70},
		{"mid cap", 1_500_000_000, 40},
		{"large cap", 5_000_000_000, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MarketCapRiskScore(row(0, 0, 0, 0, tc.marketCap, 0)))
		})
	}

	t.Run("non-increasing in market cap", func(t *testing.T) {
		prev := MarketCapRiskScore(row(0, 0, 0, 0, 1, 0))
		for _, mcap := range []float64{1e6, 4.9e7, 5.1e7, 2.4e8, 2.6e8, 1.9e9, 2.1e9, 1e11} {
			cur := MarketCapRiskScore(row(0, 0, 0, 0, mcap, 0))
			assert.LessOrEqual(t, cur, prev, "mcap %.0f", mcap)
			prev = cur
		}
	})
}

func TestVolumeActivityScore(t *testing.T) {
	t.Run("high turnover with volume surge hits the cap", func(t *testing.T) {
		// ratio 0.2 base 100, surge > 100 doubles it, capped at 150
		r := row(0, 0, 0, 250, 40_000_000, 8_000_000)
		assert.Equal(t, 150.0, VolumeActivityScore(r))
	})

	t.Run("moderate turnover", func(t *testing.T) {
		// ratio 0.08 base 60, no multiplier
		r := row(0, 0, 0, 0, 100_000_000, 8_000_000)
		assert.Equal(t, 60.0, VolumeActivityScore(r))
	})

	t.Run("volume collapse cuts the base", func(t *testing.T) {
		// ratio 0.2 base 100, collapse multiplier 0.6
		r := row(0, 0, 0, -50, 10_000_000, 2_000_000)
		assert.Equal(t, 60.0, VolumeActivityScore(r))
	})

	t.Run("zero market cap scores the floor", func(t *testing.T) {
		r := row(0, 0, 0, 0, 0, 1_000_000)
		assert.Equal(t, 30.0, VolumeActivityScore(r))
	})
}

func TestUnusualVolumeScore(t *testing.T) {
	cases := []struct {
		name                 string
		volChange, change24h float64
		want                 float64
	}{
		{"spike with strong pump", 250, 25, 100},
		{"spike with mild pump", 250, 3, 60},
		{"spike on falling price", 250, -5, 20},
		{"large surge with pump", 150, 12, 80},
		{"moderate surge with pump", 60, 12, 60},
		{"moderate surge mild move", 60, 7, 50},
		{"small surge with pump", 15, 12, 40},
		{"no surge", 5, 12, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := row(0, tc.change24h, 0, tc.volChange, 0, 0)
			assert.Equal(t, tc.want, UnusualVolumeScore(r))
		})
	}

	t.Run("pump on drying volume is penalized", func(t *testing.T) {
		r := row(0, 8, 0, -35, 0, 0)
		// ladder 0, decay -30, clamped at 0
		assert.Equal(t, 0.0, UnusualVolumeScore(r))
	})

	t.Run("clamped to zero floor", func(t *testing.T) {
		r := row(0, -5, 0, -60, 0, 0)
		assert.Equal(t, 0.0, UnusualVolumeScore(r))
	})
}

func TestMomentumScore(t *testing.T) {
	t.Run("strong aligned momentum", func(t *testing.T) {
		// 24h > 20 gives 50, 7d > 20 with 24h > 5 gives 35, 1h=1 adds nothing
		r := row(1, 25, 50, 0, 0, 0)
		assert.Equal(t, 85.0, MomentumScore(r))
	})

	t.Run("hourly confirmation adds on top", func(t *testing.T) {
		r := row(4, 25, 50, 0, 0, 0)
		assert.Equal(t, 100.0, MomentumScore(r))
	})

	t.Run("crash clamps at zero", func(t *testing.T) {
		r := row(0, -15, -25, 0, 0, 0)
		assert.Equal(t, 0.0, MomentumScore(r))
	})

	t.Run("flat asset scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, MomentumScore(row(0, 0, 0, 0, 0, 0)))
	})
}

func TestTrendStrengthScore(t *testing.T) {
	t.Run("aligned uptrend with acceleration", func(t *testing.T) {
		// base 50, daily 25 > (50/7)*1.5 adds 30, 24h > 15 adds 15
		r := row(0, 25, 50, 0, 0, 0)
		assert.Equal(t, 95.0, TrendStrengthScore(r))
	})

	t.Run("aligned uptrend without acceleration", func(t *testing.T) {
		// daily 2 < weekly avg 50/7, base 50 only
		r := row(0, 2, 50, 0, 0, 0)
		assert.Equal(t, 50.0, TrendStrengthScore(r))
	})

	t.Run("daily pop against weekly downtrend", func(t *testing.T) {
		// token 10 plus the 24h > 10 bonus
		r := row(0, 12, -5, 0, 0, 0)
		assert.Equal(t, 20.0, TrendStrengthScore(r))
	})

	t.Run("downtrend on both windows", func(t *testing.T) {
		r := row(0, -5, -10, 0, 0, 0)
		assert.Equal(t, 0.0, TrendStrengthScore(r))
	})
}

func TestRSILikeScore(t *testing.T) {
	t.Run("deep drawdown bouncing", func(t *testing.T) {
		// reversal 50 plus the strong-bounce 20
		r := row(0, 12, -20, 0, 0, 0)
		assert.Equal(t, 70.0, RSILikeScore(r))
	})

	t.Run("mild drawdown turning", func(t *testing.T) {
		r := row(0, 2, -12, 0, 0, 0)
		assert.Equal(t, 30.0, RSILikeScore(r))
	})

	t.Run("vertical move is discounted to the floor", func(t *testing.T) {
		r := row(0, 60, 120, 0, 0, 0)
		assert.Equal(t, 0.0, RSILikeScore(r))
	})
}

func TestScoresStayInBounds(t *testing.T) {
	extremes := []model.AssetRecord{
		row(100, 500, 1000, 10000, 1, 1e12),
		row(-100, -99, -99, -99, 1e12, 1),
		row(0, 0, 0, 0, 0, 0),
	}
	for _, r := range extremes {
		for name, score := range map[string]float64{
			"unusual_volume": UnusualVolumeScore(r),
			"momentum":       MomentumScore(r),
			"trend_strength": TrendStrengthScore(r),
			"rsi_like":       RSILikeScore(r),
		} {
			require.GreaterOrEqual(t, score, 0.0, name)
			require.LessOrEqual(t, score, 100.0, name)
		}
		require.LessOrEqual(t, VolumeActivityScore(r), 150.0)
	}
}
