package analyzer

import (
	"math"

	"github.com/cryptoedge/cadvi/internal/model"
)

// WashSignal is the outcome of the wash-trading heuristic for one asset.
// Confidence accumulates across independently triggerable red flags and
// is capped at 100. This is suspicion, not proof.
type WashSignal struct {
	Suspicious bool    `json:"suspicious"`
	Confidence float64 `json:"confidence"`
}

// washFlag is one independently evaluated red flag with its confidence
// contribution. Unlike the score ladders these are not first-match:
// every flag that fires adds up.
type washFlag struct {
	when   func(r model.AssetRecord) bool
	weight float64
}

var washFlags = []washFlag{
	// Extreme volume spike with a flat price.
	{func(r model.AssetRecord) bool {
		return r.VolumeChange24h > 500 && math.Abs(r.Change24h) < 2
	}, 40},
	// More than 2x the market cap traded in a day.
	{func(r model.AssetRecord) bool {
		return r.MarketCap > 0 && r.Volume24h/r.MarketCap > 2.0
	}, 30},
	// Volume spike with no momentum on either window.
	{func(r model.AssetRecord) bool {
		return r.VolumeChange24h > 200 && math.Abs(r.Change24h) < 5 && r.Change7d < 10
	}, 20},
	// Micro cap moving many multiples of itself, the classic rug setup.
	{func(r model.AssetRecord) bool {
		return r.MarketCap < 5_000_000 && r.Volume24h > r.MarketCap*5
	}, 30},
}

// DetectWashTrading evaluates all red flags against the row.
func DetectWashTrading(r model.AssetRecord) WashSignal {
	var sig WashSignal
	for _, flag := range washFlags {
		if flag.when(r) {
			sig.Suspicious = true
			sig.Confidence += flag.weight
		}
	}
	sig.Confidence = math.Min(sig.Confidence, 100)
	return sig
}
