package analyzer

import (
	"fmt"
	"math"
	"sort"
)

// Indicator names used as keys in WeightSet and ScoredAsset.Scores.
const (
	IndicatorVolatility     = "volatility"
	IndicatorMarketCapRisk  = "market_cap_risk"
	IndicatorVolumeActivity = "volume_activity"
	IndicatorUnusualVolume  = "unusual_volume"
	IndicatorMomentum       = "momentum"
	IndicatorTrendStrength  = "trend_strength"
	IndicatorRSILike        = "rsi_like"
	IndicatorRSI            = "rsi"
	IndicatorMACD           = "macd"
	IndicatorBollinger      = "bollinger"
	IndicatorCorrelation    = "correlation"
)

// Mode selects which weight set drives the composite score and ranking.
type Mode string

const (
	ModeLegacy   Mode = "legacy"
	ModeEnhanced Mode = "enhanced"
)

// ParseMode validates a user-supplied scoring mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeLegacy, ModeEnhanced:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown scoring mode %q, must be legacy or enhanced", s)
}

// WeightSet maps indicator name to its share of the composite score.
// Weights must sum to 1.0 before the wash-trading penalty is applied.
type WeightSet map[string]float64

// LegacyWeights is the volume-spike-first weighting of the base scorer.
func LegacyWeights() WeightSet {
	return WeightSet{
		IndicatorUnusualVolume:  0.25,
		IndicatorMomentum:       0.20,
		IndicatorTrendStrength:  0.15,
		IndicatorVolumeActivity: 0.15,
		IndicatorMarketCapRisk:  0.15,
		IndicatorVolatility:     0.05,
		IndicatorRSILike:        0.05,
	}
}

// EnhancedWeights folds the technical-indicator proxies and BTC
// correlation into the composite.
func EnhancedWeights() WeightSet {
	return WeightSet{
		IndicatorRSI:            0.15,
		IndicatorMACD:           0.15,
		IndicatorBollinger:      0.10,
		IndicatorCorrelation:    0.15,
		IndicatorMomentum:       0.15,
		IndicatorVolumeActivity: 0.15,
		IndicatorMarketCapRisk:  0.10,
		IndicatorVolatility:     0.05,
	}
}

var knownIndicators = map[string]bool{
	IndicatorVolatility:     true,
	IndicatorMarketCapRisk:  true,
	IndicatorVolumeActivity: true,
	IndicatorUnusualVolume:  true,
	IndicatorMomentum:       true,
	IndicatorTrendStrength:  true,
	IndicatorRSILike:        true,
	IndicatorRSI:            true,
	IndicatorMACD:           true,
	IndicatorBollinger:      true,
	IndicatorCorrelation:    true,
}

// Sum returns the total of all weights in the set.
func (ws WeightSet) Sum() float64 {
	var sum float64
	for _, w := range ws {
		sum += w
	}
	return sum
}

// Validate checks that every indicator is known and the weights sum to 1.0.
func (ws WeightSet) Validate() error {
	if len(ws) == 0 {
		return fmt.Errorf("weight set is empty")
	}
	names := make([]string, 0, len(ws))
	for name := range ws {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !knownIndicators[name] {
			return fmt.Errorf("unknown indicator %q in weight set", name)
		}
		if ws[name] < 0 {
			return fmt.Errorf("indicator %q has negative weight %.3f", name, ws[name])
		}
	}
	if sum := ws.Sum(); math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.3f, expected 1.000", sum)
	}
	return nil
}

// Apply computes the weighted linear combination of the given sub-scores.
// Indicators absent from the score map contribute zero.
func (ws WeightSet) Apply(scores map[string]float64) float64 {
	var total float64
	for name, w := range ws {
		total += w * scores[name]
	}
	return total
}
