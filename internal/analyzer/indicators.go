package analyzer

import (
	"math"

	"github.com/cryptoedge/cadvi/internal/model"
)

// The indicator calculators encode their threshold ladders as ordered
// (predicate, value) rules so the first-match semantics stay auditable.
// Every function here is pure: one normalized row in, one bounded score out.

// rule is a single step of an ordered threshold ladder.
type rule struct {
	when  func(r model.AssetRecord) bool
	value float64
}

// firstMatch walks the ladder in order and returns the value of the
// first rule whose predicate holds, or fallback when none do.
func firstMatch(rules []rule, r model.AssetRecord, fallback float64) float64 {
	for _, step := range rules {
		if step.when(r) {
			return step.value
		}
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// VolatilityScore weights recent price swings 3:2:1 across the 1h/24h/7d
// windows, with a 1.3x bonus when both daily and weekly momentum are
// positive. Deliberately unclamped: the composite weighting bounds it.
func VolatilityScore(r model.AssetRecord) float64 {
	score := (math.Abs(r.Change1h)*3.0 + math.Abs(r.Change24h)*2.0 + math.Abs(r.Change7d)*1.0) / 6.0
	if r.Change24h > 0 && r.Change7d > 0 {
		score *= 1.3
	}
	return score
}

// Market cap bands for risk classification, in quote-currency units.
const (
	microCap = 50_000_000
	smallCap = 250_000_000
	midCap   = 2_000_000_000
)

var marketCapRiskLadder = []rule{
	{func(r model.AssetRecord) bool { return r.MarketCap < microCap }, 100},
	{func(r model.AssetRecord) bool { return r.MarketCap < smallCap }, 70},
	{func(r model.AssetRecord) bool { return r.MarketCap < midCap }, 40},
}

// MarketCapRiskScore maps market cap to a risk/reward band: smaller caps
// carry more upside and more risk. Non-increasing step function.
func MarketCapRiskScore(r model.AssetRecord) float64 {
	return firstMatch(marketCapRiskLadder, r, 10)
}

var volumeActivityBase = []rule{
	{func(r model.AssetRecord) bool { return volumeRatio(r) >= 0.15 }, 100},
	{func(r model.AssetRecord) bool { return volumeRatio(r) >= 0.05 }, 60},
}

var volumeActivityMultiplier = []rule{
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 100 }, 2.0},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 50 }, 1.6},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 20 }, 1.3},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h < -40 }, 0.6},
}

func volumeRatio(r model.AssetRecord) float64 {
	if r.MarketCap <= 0 {
		return 0
	}
	return r.Volume24h / r.MarketCap
}

// VolumeActivityScore rates turnover relative to market cap, boosted or
// cut by the 24h volume trend. Exceptional activity may exceed 100; the
// hard cap is 150.
func VolumeActivityScore(r model.AssetRecord) float64 {
	base := firstMatch(volumeActivityBase, r, 30)
	base *= firstMatch(volumeActivityMultiplier, r, 1.0)
	return math.Min(base, 150)
}

// unusualVolumeLadder encodes "volume confirms price": a spike only
// counts in proportion to the price action backing it.
var unusualVolumeLadder = []rule{
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 200 && r.Change24h > 10 }, 100},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 200 && r.Change24h > 0 }, 60},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 200 && r.Change24h < 0 }, 20},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 100 && r.Change24h > 10 }, 80},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 50 && r.Change24h > 10 }, 60},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 50 && r.Change24h > 5 }, 50},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h > 10 && r.Change24h > 10 }, 40},
}

// unusualVolumeDecay penalizes drying-up volume: price up on falling
// volume is a trap, and a volume collapse signals dying interest.
var unusualVolumeDecay = []rule{
	{func(r model.AssetRecord) bool { return r.VolumeChange24h < -30 && r.Change24h > 0 }, -30},
	{func(r model.AssetRecord) bool { return r.VolumeChange24h < -50 }, -50},
}

// UnusualVolumeScore scores volume spikes confirmed by price action,
// clamped to [0, 100].
func UnusualVolumeScore(r model.AssetRecord) float64 {
	score := firstMatch(unusualVolumeLadder, r, 0)
	score += firstMatch(unusualVolumeDecay, r, 0)
	return clamp(score, 0, 100)
}

// momentumConfirm1h only credits the 1h window when the daily trend
// confirms it; minute noise alone scores nothing.
var momentumConfirm1h = []rule{
	{func(r model.AssetRecord) bool { return r.Change1h > 3 && r.Change24h > 5 }, 15},
	{func(r model.AssetRecord) bool { return r.Change1h < -3 && r.Change24h > 10 }, 10},
}

var momentumTrend24h = []rule{
	{func(r model.AssetRecord) bool { return r.Change24h > 20 }, 50},
	{func(r model.AssetRecord) bool { return r.Change24h > 10 }, 40},
	{func(r model.AssetRecord) bool { return r.Change24h > 5 }, 25},
	{func(r model.AssetRecord) bool { return r.Change24h > 2 }, 10},
	{func(r model.AssetRecord) bool { return r.Change24h < -10 }, -40},
}

var momentumTrend7d = []rule{
	{func(r model.AssetRecord) bool { return r.Change7d > 20 && r.Change24h > 5 }, 35},
	{func(r model.AssetRecord) bool { return r.Change7d > 0 && r.Change24h > 10 }, 20},
	{func(r model.AssetRecord) bool { return r.Change7d < -20 }, -30},
}

// MomentumScore combines the three lookback windows with the 24h change
// as the primary signal, clamped to [0, 100].
func MomentumScore(r model.AssetRecord) float64 {
	score := firstMatch(momentumConfirm1h, r, 0)
	score += firstMatch(momentumTrend24h, r, 0)
	score += firstMatch(momentumTrend7d, r, 0)
	return clamp(score, 0, 100)
}

var trendStrengthBonus = []rule{
	{func(r model.AssetRecord) bool { return r.Change24h > 15 }, 15},
	{func(r model.AssetRecord) bool { return r.Change24h > 8 }, 10},
}

// TrendStrengthScore rewards multi-timeframe alignment. Aligned 24h and
// 7d uptrends earn a base 50 plus an acceleration bonus when the daily
// rate outruns the weekly average; a daily pop against a weekly downtrend
// scores a token 10; a downtrend on both windows zeroes the base.
// Clamped to [0, 100].
func TrendStrengthScore(r model.AssetRecord) float64 {
	var score float64
	switch {
	case r.Change24h > 0 && r.Change7d > 0:
		score = 50
		daily := r.Change24h
		weekly := r.Change7d / 7
		if daily > weekly*1.5 {
			score += 30
		} else if daily > weekly {
			score += 20
		}
	case r.Change24h > 10 && r.Change7d < 0:
		score = 10
	case r.Change24h < 0 && r.Change7d < 0:
		score = 0
	}
	score += firstMatch(trendStrengthBonus, r, 0)
	return clamp(score, 0, 100)
}

var rsiLikeReversal = []rule{
	{func(r model.AssetRecord) bool { return r.Change7d < -15 && r.Change24h > 5 }, 50},
	{func(r model.AssetRecord) bool { return r.Change7d < -10 && r.Change24h > 0 }, 30},
}

// RSILikeScore hunts oversold assets starting to bounce: deep weekly
// drawdown with a positive day is the strongest signal, while vertical
// moves that already happened are discounted. Clamped to [0, 100].
func RSILikeScore(r model.AssetRecord) float64 {
	score := firstMatch(rsiLikeReversal, r, 0)
	if r.Change7d < 0 && r.Change24h > 10 {
		score += 20
	}
	if r.Change24h > 50 || r.Change7d > 100 {
		score -= 30
	}
	return clamp(score, 0, 100)
}
