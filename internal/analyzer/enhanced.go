package analyzer

import (
	"math"

	"github.com/cryptoedge/cadvi/internal/model"
)

// Proxy indicators. A single listings snapshot carries no price series,
// so the classic oscillators are approximated from the available percent
// changes. The band boundaries are the calibrated production values.

// syntheticRSI maps the 24h change onto an estimated RSI reading.
var syntheticRSI = []rule{
	{func(r model.AssetRecord) bool { return r.Change24h > 20 }, 75},
	{func(r model.AssetRecord) bool { return r.Change24h > 10 }, 65},
	{func(r model.AssetRecord) bool { return r.Change24h > 5 }, 55},
	{func(r model.AssetRecord) bool { return r.Change24h > -5 }, 50},
	{func(r model.AssetRecord) bool { return r.Change24h > -10 }, 40},
	{func(r model.AssetRecord) bool { return r.Change24h > -20 }, 30},
}

// RSIScore converts the synthetic RSI into a desirability score. The
// 30-45 zone (recently oversold, starting to recover) scores best;
// overbought readings above 70 are penalized hardest.
func RSIScore(r model.AssetRecord) float64 {
	rsi := firstMatch(syntheticRSI, r, 25)
	switch {
	case rsi >= 30 && rsi <= 45:
		return 80
	case rsi > 45 && rsi <= 55:
		return 50
	case rsi > 55 && rsi <= 65:
		return 60
	case rsi > 70:
		return 20
	case rsi < 30:
		return 40
	default:
		return 50
	}
}

// MACDScore proxies the MACD line as the spread between the daily change
// and the per-day weekly average, with a +10 acceleration bonus when the
// last hour confirms a positive line. Capped at 100.
func MACDScore(r model.AssetRecord) float64 {
	macd := r.Change24h - r.Change7d/7
	var score float64
	switch {
	case macd > 5:
		score = 80
	case macd > 2:
		score = 65
	case macd > 0:
		score = 55
	case macd > -2:
		score = 45
	case macd > -5:
		score = 30
	default:
		score = 20
	}
	if r.Change1h > 0 && macd > 0 {
		score += 10
	}
	return math.Min(score, 100)
}

// BollingerScore proxies band position from realized volatility: a high
// volatility breakout with positive daily momentum reads as an upside
// break, while very low volatility reads as a squeeze still waiting.
func BollingerScore(r model.AssetRecord) float64 {
	volatility := math.Abs(r.Change24h) + math.Abs(r.Change7d)/7
	switch {
	case volatility > 15 && r.Change24h > 5:
		return 75
	case volatility > 10 && r.Change24h > 0:
		return 60
	case volatility < 3:
		return 40
	default:
		return 50
	}
}

// CorrelationScore rates the asset's 24h move against the reference
// market asset (BTC). Outperforming a rising market scores best; pumping
// into a dumping market is flagged as suspicious divergence. A nil
// reference yields the neutral 50.
func CorrelationScore(r model.AssetRecord, ref *model.AssetRecord) float64 {
	if ref == nil {
		return 50
	}
	mkt := ref.Change24h
	switch {
	case mkt > 3 && r.Change24h > mkt*1.5:
		return 80
	case mkt > -2 && mkt < 3 && r.Change24h > 10:
		return 70
	case mkt < -5 && r.Change24h > 5:
		return 20
	case mkt < -5 && r.Change24h > mkt:
		return 60
	default:
		return 50
	}
}
