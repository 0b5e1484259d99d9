package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cryptoedge/cadvi/internal/model"
)

func TestRSIScore(t *testing.T) {
	cases := []struct {
		name      string
		change24h float64
		want      float64
	}{
		{"overbought pump is penalized", 25, 20},
		{"strong day reads neutral-high", 12, 60},
		{"mild day reads neutral", 7, 50},
		{"flat day reads neutral", 0, 50},
		{"recovering oversold scores best", -7, 80},
		{"falling knife scores the recovery zone", -15, 80},
		{"capitulation", -25, 40},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RSIScore(row(0, tc.change24h, 0, 0, 0, 0)))
		})
	}
}

func TestMACDScore(t *testing.T) {
	t.Run("strong positive spread with hourly confirmation", func(t *testing.T) {
		// macd = 25 - 50/7 > 5 gives 80, 1h > 0 adds 10
		r := row(1, 25, 50, 0, 0, 0)
		assert.Equal(t, 90.0, MACDScore(r))
	})

	t.Run("no confirmation bonus on negative hour", func(t *testing.T) {
		r := row(-1, 25, 50, 0, 0, 0)
		assert.Equal(t, 80.0, MACDScore(r))
	})

	t.Run("deep negative spread", func(t *testing.T) {
		r := row(0, -10, 0, 0, 0, 0)
		assert.Equal(t, 20.0, MACDScore(r))
	})

	t.Run("capped at 100", func(t *testing.T) {
		for _, c := range []float64{10, 50, 200} {
			assert.LessOrEqual(t, MACDScore(row(5, c, 0, 0, 0, 0)), 100.0)
		}
	})
}

func TestBollingerScore(t *testing.T) {
	t.Run("volatile breakout with positive day", func(t *testing.T) {
		r := row(0, 25, 50, 0, 0, 0)
		assert.Equal(t, 75.0, BollingerScore(r))
	})

	t.Run("moderate volatility", func(t *testing.T) {
		r := row(0, 11, 0, 0, 0, 0)
		assert.Equal(t, 60.0, BollingerScore(r))
	})

	t.Run("squeeze waits", func(t *testing.T) {
		r := row(0, 1, 7, 0, 0, 0)
		assert.Equal(t, 40.0, BollingerScore(r))
	})

	t.Run("volatile dump reads neutral", func(t *testing.T) {
		r := row(0, -20, 0, 0, 0, 0)
		assert.Equal(t, 50.0, BollingerScore(r))
	})
}

func TestCorrelationScore(t *testing.T) {
	ref := func(change24h float64) *model.AssetRecord {
		r := row(0, change24h, 0, 0, 0, 0)
		r.Symbol = "BTC"
		return &r
	}

	t.Run("nil reference is neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, CorrelationScore(row(0, 30, 0, 0, 0, 0), nil))
	})

	t.Run("outperforming a rising market", func(t *testing.T) {
		assert.Equal(t, 80.0, CorrelationScore(row(0, 10, 0, 0, 0, 0), ref(5)))
	})

	t.Run("pumping in a flat market", func(t *testing.T) {
		assert.Equal(t, 70.0, CorrelationScore(row(0, 12, 0, 0, 0, 0), ref(1)))
	})

	t.Run("pumping into a dump is suspicious", func(t *testing.T) {
		assert.Equal(t, 20.0, CorrelationScore(row(0, 8, 0, 0, 0, 0), ref(-10)))
	})

	t.Run("holding up in a dump", func(t *testing.T) {
		assert.Equal(t, 60.0, CorrelationScore(row(0, -2, 0, 0, 0, 0), ref(-10)))
	})

	t.Run("tracking the market is neutral", func(t *testing.T) {
		assert.Equal(t, 50.0, CorrelationScore(row(0, 4, 0, 0, 0, 0), ref(5)))
	})
}
