// Package ui renders analysis results for the terminal. Rendering is
// strictly read-only over scored assets and simulation output.
package ui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"github.com/cryptoedge/cadvi/internal/analyzer"
	"github.com/cryptoedge/cadvi/internal/backtest"
)

// Risk label thresholds over the market-cap risk score.
const (
	riskExtremeMin = 70
	riskHighMin    = 40
)

// Reporter writes formatted reports to a single destination.
type Reporter struct {
	out     io.Writer
	verbose bool

	header   *color.Color
	entry    *color.Color
	positive *color.Color
	negative *color.Color
	warn     *color.Color
	contract *color.Color
}

// NewReporter builds a reporter. Verbose mode adds the per-indicator
// technical breakdown to each candidate block.
func NewReporter(out io.Writer, verbose bool) *Reporter {
	return &Reporter{
		out:      out,
		verbose:  verbose,
		header:   color.New(color.FgGreen, color.Bold),
		entry:    color.New(color.FgCyan, color.Bold),
		positive: color.New(color.FgGreen),
		negative: color.New(color.FgRed),
		warn:     color.New(color.FgYellow),
		contract: color.New(color.FgMagenta, color.Bold),
	}
}

// SmartTarget is a volatility-banded exit estimate: more volatile
// assets get larger targets on shorter horizons.
type SmartTarget struct {
	Price     float64
	Pct       float64
	Timeframe string
}

// TargetFor derives the target from recent realized volatility.
func TargetFor(sa analyzer.ScoredAsset) SmartTarget {
	vol24 := math.Abs(sa.Change24h)
	vol7d := math.Abs(sa.Change7d)

	var pct float64
	var timeframe string
	switch {
	case vol24 > 20 || vol7d > 50:
		pct, timeframe = 0.20, "1-3 days"
	case vol24 > 12 || vol7d > 30:
		pct, timeframe = 0.15, "2-5 days"
	case vol24 > 8 || vol7d > 20:
		pct, timeframe = 0.12, "3-7 days"
	default:
		pct, timeframe = 0.08, "1-2 weeks"
	}

	target := decimal.NewFromFloat(sa.Price).
		Mul(decimal.NewFromFloat(1 + pct))
	price, _ := target.Float64()
	return SmartTarget{Price: price, Pct: pct, Timeframe: timeframe}
}

// RiskLabel maps the market-cap risk score to a display label.
func RiskLabel(sa analyzer.ScoredAsset) string {
	risk := sa.Scores[analyzer.IndicatorMarketCapRisk]
	switch {
	case risk >= riskExtremeMin:
		return "EXTREME"
	case risk >= riskHighMin:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}

// Candidates prints one ranked category block.
func (r *Reporter) Candidates(title string, ranked []analyzer.ScoredAsset, activeScore func(analyzer.ScoredAsset) float64) {
	if len(ranked) == 0 {
		r.warn.Fprintf(r.out, "No safe recommendations found for %s.\n\n", title)
		return
	}

	r.header.Fprintf(r.out, "TOP %d - %s:\n\n", len(ranked), strings.ToUpper(title))

	for i, sa := range ranked {
		name := sa.Name
		if len(name) > 25 {
			name = name[:25] + "..."
		}
		r.entry.Fprintf(r.out, "#%d %s (%s)", i+1, sa.Symbol, name)
		fmt.Fprintf(r.out, " %s | Score: %.0f\n", formatPrice(sa.Price), activeScore(sa))

		fmt.Fprintf(r.out, "   MCap: %s | Vol: %s\n",
			formatCurrency(sa.MarketCap), formatCurrency(sa.Volume24h))
		fmt.Fprintf(r.out, "   24h: %s | 7d: %s | Vol: %s\n",
			r.percent(sa.Change24h), r.percent(sa.Change7d), r.percent(sa.VolumeChange24h))

		if r.verbose {
			fmt.Fprintf(r.out, "   Tech: RSI %.0f | MACD %.0f | BB %.0f | Corr %.0f\n",
				sa.Scores[analyzer.IndicatorRSI],
				sa.Scores[analyzer.IndicatorMACD],
				sa.Scores[analyzer.IndicatorBollinger],
				sa.Scores[analyzer.IndicatorCorrelation])
		}

		target := TargetFor(sa)
		stop := sa.Price * 0.90
		r.positive.Fprintf(r.out, "   Position: %.1f%%", sa.PositionSize*100)
		r.warn.Fprintf(r.out, " | TP: %s (+%.0f%%, %s)", formatPrice(target.Price), target.Pct*100, target.Timeframe)
		r.negative.Fprintf(r.out, " | SL: %s\n", formatPrice(stop))

		if sa.IsToken() {
			r.contract.Fprintf(r.out, "   Contract (%s):", sa.Platform)
			fmt.Fprintf(r.out, " %s\n", sa.ContractAddress)
		}

		risk := RiskLabel(sa)
		riskColor := r.warn
		if risk == "EXTREME" {
			riskColor = r.negative
		}
		fmt.Fprint(r.out, "   Risk: ")
		riskColor.Fprint(r.out, risk)
		if sa.Wash.Suspicious {
			r.negative.Fprintf(r.out, " | Wash: %.0f%%\n", sa.Wash.Confidence)
		} else {
			r.positive.Fprintln(r.out, " | Clean")
		}
		fmt.Fprintln(r.out)
	}
}

// WashReport prints the suspect list, highest confidence first.
func (r *Reporter) WashReport(suspects []analyzer.ScoredAsset) {
	if len(suspects) == 0 {
		r.positive.Fprintln(r.out, "No wash-trading suspects in this batch.")
		fmt.Fprintln(r.out)
		return
	}

	r.negative.Fprintf(r.out, "WASH TRADING SUSPECTS (%d):\n\n", len(suspects))
	for _, sa := range suspects {
		fmt.Fprintf(r.out, "  %-8s confidence %3.0f%% | vol change %s | 24h %s | mcap %s\n",
			sa.Symbol, sa.Wash.Confidence,
			r.percent(sa.VolumeChange24h), r.percent(sa.Change24h),
			formatCurrency(sa.MarketCap))
	}
	fmt.Fprintln(r.out)
}

// Backtest prints the metrics of one simulation pass.
func (r *Reporter) Backtest(m backtest.Metrics) {
	r.header.Fprintln(r.out, "BACKTEST RESULTS (hypothetical, probabilistic outcome model):")
	fmt.Fprintln(r.out)

	fmt.Fprintf(r.out, "  Trades:        %d (%d won / %d lost)\n",
		m.TotalTrades, m.WinningTrades, m.LosingTrades)
	fmt.Fprintf(r.out, "  Win rate:      %.1f%%\n", m.WinRate*100)
	fmt.Fprintf(r.out, "  Net profit:    %s\n", r.signedPercent(m.NetProfit*100))
	if math.IsInf(m.ProfitFactor, 1) {
		fmt.Fprintf(r.out, "  Profit factor: inf (no losing trades)\n")
	} else {
		fmt.Fprintf(r.out, "  Profit factor: %.2f\n", m.ProfitFactor)
	}
	fmt.Fprintf(r.out, "  Avg win:       %+.2f%% | Avg loss: %+.2f%%\n", m.AvgWinPct, m.AvgLossPct)
	fmt.Fprintf(r.out, "  Max drawdown:  %.1f%%\n", m.MaxDrawdownPct)
	fmt.Fprintf(r.out, "  Sharpe:        %.2f\n", m.SharpeRatio)
	fmt.Fprintf(r.out, "  Avg hold:      %.0fh\n", m.AvgTradeDurationHours)
	fmt.Fprintln(r.out)
}

// MonteCarlo prints the outcome distribution of a repeated-run batch.
func (r *Reporter) MonteCarlo(s backtest.MonteCarloSummary) {
	r.header.Fprintf(r.out, "MONTE CARLO [%s] - %d runs over %d candidates:\n\n",
		s.RunID, s.Runs, s.Candidates)

	fmt.Fprintf(r.out, "  Win rate:    %.1f%% ± %.1f%%\n", s.MeanWinRate*100, s.StdWinRate*100)
	fmt.Fprintf(r.out, "  Net profit:  %s ± %.2f%%\n", r.signedPercent(s.MeanNetProfit*100), s.StdNetProfit*100)
	fmt.Fprintf(r.out, "  Sharpe:      %.2f\n", s.MeanSharpe)
	fmt.Fprintf(r.out, "  Profitable:  %.0f%% of runs\n", s.ProfitablePct)
	fmt.Fprintf(r.out, "  Best / median / worst: %s / %s / %s\n",
		r.signedPercent(s.BestProfit*100),
		r.signedPercent(s.MedianProfit*100),
		r.signedPercent(s.WorstProfit*100))
	fmt.Fprintln(r.out)
}

// Disclaimer prints the standing warning once per report.
func (r *Reporter) Disclaimer() {
	r.warn.Fprintln(r.out, "Not financial advice | High risk | Only invest what you can lose")
	fmt.Fprintln(r.out)
}

func (r *Reporter) percent(v float64) string {
	s := fmt.Sprintf("%+.2f%%", v)
	if v >= 0 {
		return r.positive.Sprint(s)
	}
	return r.negative.Sprint(s)
}

func (r *Reporter) signedPercent(v float64) string {
	return r.percent(v)
}

// formatPrice keeps sub-dollar prices at six decimals and larger ones
// at two, matching exchange display conventions.
func formatPrice(price float64) string {
	d := decimal.NewFromFloat(price)
	if price < 1 {
		return "$" + d.StringFixed(6)
	}
	return "$" + d.StringFixed(2)
}

// formatCurrency abbreviates large dollar values.
func formatCurrency(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
