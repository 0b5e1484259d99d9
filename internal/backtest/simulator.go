package backtest

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// Candidate is the read-only slice of a scored asset the simulator
// needs. The caller maps its ranking output into candidates; the
// simulator never mutates them.
type Candidate struct {
	Symbol         string  `json:"symbol"`
	Price          float64 `json:"price"`
	Change24h      float64 `json:"change_24h"`
	Score          float64 `json:"score"`
	PositionSize   float64 `json:"position_size"`
	WashSuspicious bool    `json:"wash_suspicious"`
}

// Rand is the source of uniform draws in [0, 1) used by the outcome
// model. Injectable so tests can force deterministic outcomes.
type Rand interface {
	Float64() float64
}

// NewSeededRand returns a math/rand source with the given seed, or a
// time-seeded one when seed is zero.
func NewSeededRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// SimConfig holds the per-run trade parameters.
type SimConfig struct {
	HoldHours           int     `yaml:"hold_hours" json:"hold_hours"`
	StopLossPct         float64 `yaml:"stop_loss_pct" json:"stop_loss_pct"`
	TakeProfitPct       float64 `yaml:"take_profit_pct" json:"take_profit_pct"`
	DefaultPositionSize float64 `yaml:"default_position_size" json:"default_position_size"`
}

// DefaultSimConfig mirrors the production defaults: 24h hold, 10% stop,
// 20% target, 5% fallback position.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		HoldHours:           24,
		StopLossPct:         0.10,
		TakeProfitPct:       0.20,
		DefaultPositionSize: 0.05,
	}
}

// Win probability bounds and adjustments for the outcome model.
const (
	baseWinProb = 0.5
	minWinProb  = 0.2
	maxWinProb  = 0.8

	fullTakeProfitProb = 0.7
	fullStopLossProb   = 0.6
	minPartialGain     = 0.05
	minPartialLoss     = 0.02
)

// Simulator replays candidates through the probabilistic outcome model.
// This is an explicit approximation, not a price-path simulation: every
// result is hypothetical.
type Simulator struct {
	cfg SimConfig
	rng Rand
}

// NewSimulator builds a simulator with the given config and random
// source. A nil source gets a time-seeded default.
func NewSimulator(cfg SimConfig, rng Rand) *Simulator {
	if rng == nil {
		rng = NewSeededRand(0)
	}
	if cfg.HoldHours <= 0 {
		cfg.HoldHours = 24
	}
	if cfg.DefaultPositionSize <= 0 {
		cfg.DefaultPositionSize = 0.05
	}
	return &Simulator{cfg: cfg, rng: rng}
}

// Simulate opens one trade per candidate and closes it through the
// outcome model. All trades in the returned slice are closed.
func (s *Simulator) Simulate(candidates []Candidate, now time.Time) []*Trade {
	trades := make([]*Trade, 0, len(candidates))
	for _, c := range candidates {
		size := c.PositionSize
		if size <= 0 {
			size = s.cfg.DefaultPositionSize
		}
		sl := c.Price * (1 - s.cfg.StopLossPct)
		tp := c.Price * (1 + s.cfg.TakeProfitPct)

		trade := NewTrade(c.Symbol, c.Price, now, size, sl, tp)
		exitPrice, reason := s.outcome(c)
		exitTime := now.Add(time.Duration(s.cfg.HoldHours) * time.Hour)
		if err := trade.Close(exitPrice, exitTime, reason); err != nil {
			// Unreachable for a freshly opened trade; logged for safety.
			log.Error().Err(err).Str("symbol", c.Symbol).Msg("Failed to close simulated trade")
			continue
		}
		trades = append(trades, trade)
	}
	return trades
}

// WinProbability returns the clamped success probability for one
// candidate: 0.5 baseline, adjusted by momentum, composite score, and
// the wash-trading flag.
func (s *Simulator) WinProbability(c Candidate) float64 {
	prob := baseWinProb

	switch {
	case c.Change24h > 10:
		prob += 0.15
	case c.Change24h > 5:
		prob += 0.10
	case c.Change24h < -10:
		prob -= 0.15
	}

	switch {
	case c.Score > 75:
		prob += 0.10
	case c.Score > 60:
		prob += 0.05
	}

	if c.WashSuspicious {
		prob -= 0.20
	}

	if prob < minWinProb {
		prob = minWinProb
	}
	if prob > maxWinProb {
		prob = maxWinProb
	}
	return prob
}

// outcome draws the trade result. Winners hit the full target 70% of
// the time, otherwise a uniform partial gain between 5% and the target.
// Losers hit the full stop 60% of the time, otherwise a uniform partial
// loss between 2% and the stop.
func (s *Simulator) outcome(c Candidate) (exitPrice float64, reason string) {
	winProb := s.WinProbability(c)
	if s.rng.Float64() < winProb {
		if s.rng.Float64() < fullTakeProfitProb {
			return c.Price * (1 + s.cfg.TakeProfitPct), ExitTakeProfit
		}
		gain := minPartialGain + s.rng.Float64()*(s.cfg.TakeProfitPct-minPartialGain)
		return c.Price * (1 + gain), ExitPartialProfit
	}
	if s.rng.Float64() < fullStopLossProb {
		return c.Price * (1 - s.cfg.StopLossPct), ExitStopLoss
	}
	loss := minPartialLoss + s.rng.Float64()*(s.cfg.StopLossPct-minPartialLoss)
	return c.Price * (1 - loss), ExitPartialLoss
}
