package analyzer

// Position sizing limits. Full Kelly is too aggressive for crypto
// volatility, so sizing takes half Kelly and never exceeds 7.5% of the
// portfolio on a single position.
const (
	kellyFraction   = 0.5
	maxPositionSize = 0.075
)

// KellyStats is the realized-performance triple that parameterizes
// position sizing. AvgWin and AvgLoss are fractional returns; AvgLoss is
// a positive magnitude.
type KellyStats struct {
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
	AvgWin  float64 `yaml:"avg_win" json:"avg_win"`
	AvgLoss float64 `yaml:"avg_loss" json:"avg_loss"`
}

// KellySize returns the moderate-Kelly position fraction for the given
// stats: half of full Kelly, capped at 7.5% and floored at zero. Any
// degenerate input (win rate outside (0,1), non-positive averages)
// yields zero, meaning "do not size a position from this data".
func KellySize(stats KellyStats) float64 {
	if stats.WinRate <= 0 || stats.WinRate >= 1 || stats.AvgWin <= 0 || stats.AvgLoss <= 0 {
		return 0
	}
	kelly := (stats.WinRate*stats.AvgWin - (1-stats.WinRate)*stats.AvgLoss) / stats.AvgWin
	moderate := kelly * kellyFraction
	if moderate > maxPositionSize {
		moderate = maxPositionSize
	}
	if moderate < 0 {
		return 0
	}
	return moderate
}
