// backtest/types.go

package backtest

import (
	"time"

	"CryptoBacktest/internal/models"
)

// Signal actions returned by a strategy
type Action string

const (
	ActionHold Action = "hold"
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// Signal is advisory. The ledger re-validates stop-loss, take-profit and
// liquidation every candle regardless of what the strategy returned.
type Signal struct {
	Action Action
	Price  float64
	Reason string
}

// Position is the single open position. Owned exclusively by the Ledger;
// strategies receive a copy.
type Position struct {
	EntryPrice    float64
	Quantity      float64
	StopLoss      float64
	TakeProfit    float64
	EntryTime     time.Time
	PositionValue float64 // quantity * entryPrice at entry
	MarginUsed    float64
	Leverage      float64
	EntryFeePaid  float64
}

// Trade is one closed position. Append-only; never mutated after creation.
type Trade struct {
	EntryPrice      float64   `json:"entryPrice"`
	ExitPrice       float64   `json:"exitPrice"`
	Quantity        float64   `json:"quantity"`
	GrossProfit     float64   `json:"grossProfit"`
	NetProfit       float64   `json:"netProfit"`
	ProfitPercent   float64   `json:"profitPercent"`
	FeesPaid        float64   `json:"feesPaid"`
	Reason          string    `json:"reason"`
	EntryTime       time.Time `json:"entryTime"`
	ExitTime        time.Time `json:"exitTime"`
	DurationMinutes float64   `json:"durationMinutes"`
}

// Exit reasons
const (
	ReasonStopLoss    = "Stop loss"
	ReasonTakeProfit  = "Take profit"
	ReasonLiquidation = "LIQUIDATION"
	ReasonEndOfPeriod = "End of period"
)

// ExitPrices holds the stop-loss and take-profit levels for an entry.
type ExitPrices struct {
	StopLoss   float64
	TakeProfit float64
}

// PositionSize is the sizing decision for an entry.
type PositionSize struct {
	Quantity      float64
	PositionValue float64
}

// Strategy is the decision function driven by the simulation loop. Analyze
// must be pure with respect to ledger state; it may keep its own cooldown
// or pattern memory across calls.
type Strategy interface {
	Name() string

	// MinHistory is the number of candles the strategy needs before its
	// first decision.
	MinHistory() int

	// Analyze inspects the growing candle window and the current position
	// snapshot (nil when flat) and returns a signal.
	Analyze(candles []models.Candle, position *Position) (Signal, error)

	CalculateExitPrices(entryPrice float64) ExitPrices

	// CalculatePositionSize sizes an entry from the effective (leveraged)
	// balance. Implementations must scale quantity down when the risk-sized
	// value would exceed the position-value cap.
	CalculatePositionSize(effectiveBalance, entryPrice, stopLoss float64) PositionSize
}
