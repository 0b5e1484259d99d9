package analyzer

import (
	"strings"

	"github.com/cryptoedge/cadvi/internal/model"
)

// DefaultMinMarketCap is the floor below which an asset is considered
// untradeable noise for this scanner.
const DefaultMinMarketCap = 100_000

// DefaultStablecoins are excluded by display name, case-insensitively.
// Stable-value assets score as dead flat and would only dilute rankings.
var DefaultStablecoins = []string{
	"tether", "usd coin", "binance usd", "dai", "usdc", "usdt", "busd",
}

// Normalizer filters raw asset records down to the rows the scoring
// engine operates on. Rejection is a filtering decision, not an error.
type Normalizer struct {
	minMarketCap float64
	excluded     map[string]bool
}

// NewNormalizer builds a normalizer with the given market-cap floor and
// name exclusion set. Zero/nil arguments fall back to the defaults.
func NewNormalizer(minMarketCap float64, stablecoins []string) *Normalizer {
	if minMarketCap <= 0 {
		minMarketCap = DefaultMinMarketCap
	}
	if len(stablecoins) == 0 {
		stablecoins = DefaultStablecoins
	}
	excluded := make(map[string]bool, len(stablecoins))
	for _, name := range stablecoins {
		excluded[strings.ToLower(name)] = true
	}
	return &Normalizer{minMarketCap: minMarketCap, excluded: excluded}
}

// Normalize reports whether the record is usable for scoring. Rejected
// records are stable-value assets, zero-volume listings, and dust-cap
// assets below the configured floor. Missing optional numeric fields are
// already zero-valued on the record itself.
func (n *Normalizer) Normalize(rec model.AssetRecord) (model.AssetRecord, bool) {
	if n.excluded[strings.ToLower(rec.Name)] {
		return model.AssetRecord{}, false
	}
	if rec.Volume24h == 0 {
		return model.AssetRecord{}, false
	}
	if rec.MarketCap < n.minMarketCap {
		return model.AssetRecord{}, false
	}
	return rec, true
}
