package backtest

import (
	"fmt"
	"time"
)

// Exit reasons recorded on closed trades.
const (
	ExitTakeProfit    = "take_profit"
	ExitPartialProfit = "partial_profit"
	ExitStopLoss      = "stop_loss"
	ExitPartialLoss   = "partial_loss"
)

// Trade is one simulated position. A trade is created open and closed
// exactly once; the transition is one-way. Open trades contribute
// nothing to performance metrics.
type Trade struct {
	Symbol       string    `json:"symbol"`
	EntryPrice   float64   `json:"entry_price"`
	EntryTime    time.Time `json:"entry_time"`
	PositionSize float64   `json:"position_size"`
	StopLoss     float64   `json:"stop_loss"`
	TakeProfit   float64   `json:"take_profit"`

	// Set on close, zero-valued while open.
	ExitPrice     float64   `json:"exit_price,omitempty"`
	ExitTime      time.Time `json:"exit_time,omitempty"`
	ExitReason    string    `json:"exit_reason,omitempty"`
	ProfitLoss    float64   `json:"profit_loss,omitempty"`
	ProfitLossPct float64   `json:"profit_loss_pct,omitempty"`

	closed bool
}

// NewTrade opens a position at the given entry with its protective levels.
func NewTrade(symbol string, entryPrice float64, entryTime time.Time, positionSize, stopLoss, takeProfit float64) *Trade {
	return &Trade{
		Symbol:       symbol,
		EntryPrice:   entryPrice,
		EntryTime:    entryTime,
		PositionSize: positionSize,
		StopLoss:     stopLoss,
		TakeProfit:   takeProfit,
	}
}

// IsOpen reports whether the trade has not yet been closed.
func (t *Trade) IsOpen() bool {
	return !t.closed
}

// Close records the exit and realizes P&L. ProfitLossPct is the price
// change percentage; ProfitLoss is the fractional portfolio impact
// (price change times position size). Closing twice is a caller bug.
func (t *Trade) Close(exitPrice float64, exitTime time.Time, reason string) error {
	if t.closed {
		return fmt.Errorf("trade %s already closed at %.8f (%s)", t.Symbol, t.ExitPrice, t.ExitReason)
	}
	t.ExitPrice = exitPrice
	t.ExitTime = exitTime
	t.ExitReason = reason

	priceChange := (exitPrice - t.EntryPrice) / t.EntryPrice
	t.ProfitLossPct = priceChange * 100
	t.ProfitLoss = priceChange * t.PositionSize
	t.closed = true
	return nil
}

// Duration returns the holding time of a closed trade.
func (t *Trade) Duration() time.Duration {
	if t.IsOpen() {
		return 0
	}
	return t.ExitTime.Sub(t.EntryTime)
}
