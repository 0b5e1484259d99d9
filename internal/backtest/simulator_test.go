package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns the same draw, pinning the outcome branch.
type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

func TestWinProbability(t *testing.T) {
	sim := NewSimulator(DefaultSimConfig(), fixedRand{0.5})

	cases := []struct {
		name string
		c    Candidate
		want float64
	}{
		{"baseline", Candidate{}, 0.5},
		{"strong momentum", Candidate{Change24h: 12}, 0.65},
		{"mild momentum", Candidate{Change24h: 7}, 0.60},
		{"dumping", Candidate{Change24h: -15}, 0.35},
		{"high score", Candidate{Score: 80}, 0.60},
		{"decent score", Candidate{Score: 65}, 0.55},
		{"wash suspect", Candidate{WashSuspicious: true}, 0.30},
		{"everything aligned clamps at the ceiling", Candidate{Change24h: 12, Score: 80}, 0.75},
		{"hopeless clamps at the floor", Candidate{Change24h: -15, WashSuspicious: true}, 0.20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, sim.WinProbability(tc.c), 1e-9)
		})
	}
}

func TestSimulateForcedWins(t *testing.T) {
	// Every draw lands below the minimum win probability and below the
	// full-take-profit threshold, so every trade exits at the target.
	sim := NewSimulator(DefaultSimConfig(), fixedRand{0.1})

	candidates := make([]Candidate, 100)
	for i := range candidates {
		candidates[i] = Candidate{Symbol: "C", Price: 10, PositionSize: 0.05}
	}

	now := time.Now().UTC()
	trades := sim.Simulate(candidates, now)
	require.Len(t, trades, 100)

	for _, tr := range trades {
		require.False(t, tr.IsOpen())
		assert.Equal(t, ExitTakeProfit, tr.ExitReason)
		assert.InDelta(t, 12.0, tr.ExitPrice, 1e-9)
	}

	m := ComputeMetrics(trades)
	assert.Equal(t, 1.0, m.WinRate)
	assert.Equal(t, 100, m.WinningTrades)
}

func TestSimulateForcedStops(t *testing.T) {
	// First draw 0.9 exceeds any win probability, second draw 0.1 lands
	// under the full-stop threshold: the trade exits at the stop.
	sim := NewSimulator(DefaultSimConfig(), &sequenceRand{vals: []float64{0.9, 0.1}})

	trades := sim.Simulate([]Candidate{{Symbol: "C", Price: 10, PositionSize: 0.05}}, time.Now().UTC())
	require.Len(t, trades, 1)
	assert.Equal(t, ExitStopLoss, trades[0].ExitReason)
	assert.InDelta(t, 9.0, trades[0].ExitPrice, 1e-9)
}

// sequenceRand replays a fixed draw sequence, cycling at the end.
type sequenceRand struct {
	vals []float64
	i    int
}

func (s *sequenceRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func TestSimulateFallbackPositionSize(t *testing.T) {
	sim := NewSimulator(DefaultSimConfig(), fixedRand{0.1})
	trades := sim.Simulate([]Candidate{{Symbol: "C", Price: 10}}, time.Now().UTC())
	require.Len(t, trades, 1)
	assert.InDelta(t, 0.05, trades[0].PositionSize, 1e-9)
}

func TestSimulateHoldWindow(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.HoldHours = 48
	sim := NewSimulator(cfg, fixedRand{0.1})

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	trades := sim.Simulate([]Candidate{{Symbol: "C", Price: 10}}, now)
	require.Len(t, trades, 1)
	assert.Equal(t, 48*time.Hour, trades[0].Duration())
}

func TestSeededRandReproducibility(t *testing.T) {
	a := NewSeededRand(42)
	b := NewSeededRand(42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}
