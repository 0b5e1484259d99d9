package backtest

import (
	"math"
	"sort"
)

// Metrics is a read-only snapshot of strategy performance derived purely
// from the closed-trade set. Everything is recomputed fresh on each call
// to ComputeMetrics; there is no incremental state.
type Metrics struct {
	TotalTrades   int `json:"total_trades"`
	WinningTrades int `json:"winning_trades"`
	LosingTrades  int `json:"losing_trades"`

	WinRate      float64 `json:"win_rate"`
	GrossProfit  float64 `json:"gross_profit"`
	GrossLoss    float64 `json:"gross_loss"`
	NetProfit    float64 `json:"net_profit"`
	ProfitFactor float64 `json:"profit_factor"`

	AvgWin     float64 `json:"avg_win"`
	AvgLoss    float64 `json:"avg_loss"`
	AvgWinPct  float64 `json:"avg_win_pct"`
	AvgLossPct float64 `json:"avg_loss_pct"`

	MaxDrawdown    float64 `json:"max_drawdown"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`

	AvgTradeDurationHours float64 `json:"avg_trade_duration_hours"`
}

// Annualization assumes one trade per day. Stated approximation, not a
// general-purpose Sharpe.
const tradingDaysPerYear = 365

// ComputeMetrics aggregates the closed trades in the given list. Open
// trades are ignored everywhere. An empty or all-open list returns the
// zero-valued metric set, never an error. Profit factor on zero gross
// loss is reported as +Inf.
func ComputeMetrics(trades []*Trade) Metrics {
	closed := make([]*Trade, 0, len(trades))
	for _, t := range trades {
		if !t.IsOpen() {
			closed = append(closed, t)
		}
	}
	if len(closed) == 0 {
		return Metrics{}
	}

	var m Metrics
	m.TotalTrades = len(closed)

	var winPctSum, lossPctSum, durationHours float64
	for _, t := range closed {
		if t.ProfitLoss > 0 {
			m.WinningTrades++
			m.GrossProfit += t.ProfitLoss
			winPctSum += t.ProfitLossPct
		} else {
			m.LosingTrades++
			m.GrossLoss += -t.ProfitLoss
			lossPctSum += t.ProfitLossPct
		}
		durationHours += t.Duration().Hours()
	}

	m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades)
	m.NetProfit = m.GrossProfit - m.GrossLoss
	if m.GrossLoss > 0 {
		m.ProfitFactor = m.GrossProfit / m.GrossLoss
	} else {
		m.ProfitFactor = math.Inf(1)
	}

	if m.WinningTrades > 0 {
		m.AvgWin = m.GrossProfit / float64(m.WinningTrades)
		m.AvgWinPct = winPctSum / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLoss = m.GrossLoss / float64(m.LosingTrades)
		m.AvgLossPct = lossPctSum / float64(m.LosingTrades)
	}

	m.MaxDrawdown = maxDrawdown(closed)
	m.MaxDrawdownPct = m.MaxDrawdown * 100
	m.SharpeRatio = sharpeRatio(closed)
	m.AvgTradeDurationHours = durationHours / float64(m.TotalTrades)

	return m
}

// maxDrawdown walks the equity curve from 1.0 in trade order, adding
// each fractional P&L, and reports the worst peak-to-trough decline.
// The peak is monotonic by construction.
func maxDrawdown(closed []*Trade) float64 {
	equity := 1.0
	peak := 1.0
	maxDD := 0.0
	for _, t := range closed {
		equity += t.ProfitLoss
		if equity > peak {
			peak = equity
		}
		if dd := (peak - equity) / peak; dd > maxDD {
			maxDD = dd
		}
	}
	return maxDD
}

// sharpeRatio annualizes mean fractional return over its standard
// deviation. Fewer than two trades or zero dispersion yields 0.
func sharpeRatio(closed []*Trade) float64 {
	if len(closed) < 2 {
		return 0
	}
	returns := make([]float64, len(closed))
	for i, t := range closed {
		returns[i] = t.ProfitLoss
	}
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return mean(returns) / std * math.Sqrt(tradingDaysPerYear)
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mu := mean(xs)
	var sq float64
	for _, x := range xs {
		d := x - mu
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
