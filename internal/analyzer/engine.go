package analyzer

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/cryptoedge/cadvi/internal/model"
)

// Safety pre-filter: assets flagged as wash-trading suspects at or above
// this confidence are excluded from category rankings.
const washExclusionConfidence = 30

// Futures eligibility thresholds: established projects only.
const (
	futuresMinMarketCap = 100_000_000
	futuresMinVolume    = 10_000_000
)

// DefaultKellyStats is the static sizing placeholder used until a
// backtest supplies realized statistics.
var DefaultKellyStats = KellyStats{WinRate: 0.60, AvgWin: 1.5, AvgLoss: 1.0}

// ScoredAsset is one analyzed row: the input record plus every indicator
// sub-score, both composite variants, the wash-trading screen, the
// recommended position fraction, and the venue categories it qualifies for.
type ScoredAsset struct {
	model.AssetRecord

	Scores       map[string]float64 `json:"scores"`
	Composite    float64            `json:"composite_score"`
	Enhanced     float64            `json:"enhanced_score"`
	Wash         WashSignal         `json:"wash_trading"`
	PositionSize float64            `json:"position_size"`
	Categories   []model.Category   `json:"categories"`
}

// InCategory reports membership in the given venue category.
func (sa ScoredAsset) InCategory(cat model.Category) bool {
	for _, c := range sa.Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Engine runs the full scoring pipeline over a batch of raw records and
// answers ranking queries. It owns the scored batch for one analysis run.
type Engine struct {
	norm      *Normalizer
	legacy    WeightSet
	enhanced  WeightSet
	mode      Mode
	refSymbol string
	kelly     KellyStats
}

// Option configures an Engine.
type Option func(*Engine)

// WithMode selects which composite variant drives ranking.
func WithMode(mode Mode) Option {
	return func(e *Engine) { e.mode = mode }
}

// WithReferenceSymbol sets the market reference asset used for
// correlation scoring. Empty disables correlation context (neutral 50).
func WithReferenceSymbol(symbol string) Option {
	return func(e *Engine) { e.refSymbol = symbol }
}

// WithWeights overrides the built-in weight sets. Nil keeps the default.
func WithWeights(legacy, enhanced WeightSet) Option {
	return func(e *Engine) {
		if legacy != nil {
			e.legacy = legacy
		}
		if enhanced != nil {
			e.enhanced = enhanced
		}
	}
}

// WithKellyStats sets the sizing triple applied to every scored asset.
func WithKellyStats(stats KellyStats) Option {
	return func(e *Engine) { e.kelly = stats }
}

// WithNormalizer overrides the default record normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(e *Engine) { e.norm = n }
}

// NewEngine builds an engine with validated weight sets.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		norm:      NewNormalizer(0, nil),
		legacy:    LegacyWeights(),
		enhanced:  EnhancedWeights(),
		mode:      ModeEnhanced,
		refSymbol: "BTC",
		kelly:     DefaultKellyStats,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.legacy.Validate(); err != nil {
		return nil, fmt.Errorf("legacy weights: %w", err)
	}
	if err := e.enhanced.Validate(); err != nil {
		return nil, fmt.Errorf("enhanced weights: %w", err)
	}
	return e, nil
}

// ScoreAll normalizes and scores a batch of raw records. Records that
// fail normalization are counted and dropped, never surfaced as errors.
// The reference row for correlation scoring is looked up from the
// normalized batch by the configured reference symbol.
func (e *Engine) ScoreAll(records []model.AssetRecord) []ScoredAsset {
	rows := make([]model.AssetRecord, 0, len(records))
	rejected := 0
	for _, rec := range records {
		row, ok := e.norm.Normalize(rec)
		if !ok {
			rejected++
			continue
		}
		rows = append(rows, row)
	}

	var ref *model.AssetRecord
	if e.refSymbol != "" {
		for i := range rows {
			if rows[i].Symbol == e.refSymbol {
				ref = &rows[i]
				break
			}
		}
	}

	scored := make([]ScoredAsset, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, e.score(row, ref))
	}

	log.Info().
		Int("records", len(records)).
		Int("scored", len(scored)).
		Int("rejected", rejected).
		Bool("reference_found", ref != nil).
		Str("mode", string(e.mode)).
		Msg("Batch scoring completed")

	return scored
}

// score computes every indicator and both composites for one row.
func (e *Engine) score(row model.AssetRecord, ref *model.AssetRecord) ScoredAsset {
	scores := map[string]float64{
		IndicatorVolatility:     VolatilityScore(row),
		IndicatorMarketCapRisk:  MarketCapRiskScore(row),
		IndicatorVolumeActivity: VolumeActivityScore(row),
		IndicatorUnusualVolume:  UnusualVolumeScore(row),
		IndicatorMomentum:       MomentumScore(row),
		IndicatorTrendStrength:  TrendStrengthScore(row),
		IndicatorRSILike:        RSILikeScore(row),
		IndicatorRSI:            RSIScore(row),
		IndicatorMACD:           MACDScore(row),
		IndicatorBollinger:      BollingerScore(row),
		IndicatorCorrelation:    CorrelationScore(row, ref),
	}

	wash := DetectWashTrading(row)

	// The wash penalty only ever reduces the enhanced composite.
	penalty := 1 - wash.Confidence/100*0.7

	return ScoredAsset{
		AssetRecord:  row,
		Scores:       scores,
		Composite:    e.legacy.Apply(scores),
		Enhanced:     e.enhanced.Apply(scores) * penalty,
		Wash:         wash,
		PositionSize: KellySize(e.kelly),
		Categories:   categoriesFor(row),
	}
}

func categoriesFor(row model.AssetRecord) []model.Category {
	var cats []model.Category
	if row.OnBinance && !row.IsToken() {
		cats = append(cats, model.CategorySpot)
	}
	if row.MarketCap > futuresMinMarketCap && row.Volume24h > futuresMinVolume {
		cats = append(cats, model.CategoryFutures)
	}
	if row.IsToken() {
		cats = append(cats, model.CategoryWeb3)
	}
	return cats
}

// ActiveScore returns the composite variant the engine ranks by.
func (e *Engine) ActiveScore(sa ScoredAsset) float64 {
	if e.mode == ModeLegacy {
		return sa.Composite
	}
	return sa.Enhanced
}

// Rank returns the n highest-scoring rows in descending score order.
// The sort is stable: ties keep their original input order.
func (e *Engine) Rank(scored []ScoredAsset, n int) []ScoredAsset {
	ranked := make([]ScoredAsset, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return e.ActiveScore(ranked[i]) > e.ActiveScore(ranked[j])
	})
	if n < len(ranked) && n >= 0 {
		ranked = ranked[:n]
	}
	return ranked
}

// RankByCategory applies the wash-trading safety pre-filter, then the
// category membership filter, then ranks. No qualifying rows yields an
// empty result, never an error.
func (e *Engine) RankByCategory(scored []ScoredAsset, cat model.Category, n int) []ScoredAsset {
	filtered := make([]ScoredAsset, 0, len(scored))
	for _, sa := range scored {
		if sa.Wash.Suspicious && sa.Wash.Confidence >= washExclusionConfidence {
			continue
		}
		if !sa.InCategory(cat) {
			continue
		}
		filtered = append(filtered, sa)
	}
	return e.Rank(filtered, n)
}

// Resize recomputes position sizes from realized backtest statistics,
// closing the loop between the aggregator and the Kelly calculator.
func (e *Engine) Resize(scored []ScoredAsset, stats KellyStats) []ScoredAsset {
	size := KellySize(stats)
	resized := make([]ScoredAsset, len(scored))
	copy(resized, scored)
	for i := range resized {
		resized[i].PositionSize = size
	}
	return resized
}

// WashReport returns all wash-trading suspects sorted by confidence,
// highest first.
func (e *Engine) WashReport(scored []ScoredAsset) []ScoredAsset {
	suspects := make([]ScoredAsset, 0)
	for _, sa := range scored {
		if sa.Wash.Suspicious {
			suspects = append(suspects, sa)
		}
	}
	sort.SliceStable(suspects, func(i, j int) bool {
		return suspects[i].Wash.Confidence > suspects[j].Wash.Confidence
	})
	return suspects
}
