// backtest/ledger.go

package backtest

import (
	"errors"
	"time"

	"CryptoBacktest/config"
)

// Forced closure triggers at 90% of margin lost, not 100%, to model the
// exchange closing the position slightly before total loss.
const liquidationThreshold = 0.90

var (
	ErrInsufficientBalance = errors.New("insufficient balance for position")
	ErrPositionAlreadyOpen = errors.New("a position is already open")
	ErrNoOpenPosition      = errors.New("no open position")
)

// Ledger is the single authority for money movement: balance, the open
// position, the trade history and drawdown tracking. It is exclusively
// owned by one Engine; parallel runs need independent Ledger instances.
type Ledger struct {
	cfg config.BacktestConfig

	balance            float64
	initialBalance     float64
	peakBalance        float64
	maxDrawdownPercent float64

	position    *Position
	trades      []Trade
	equityCurve []float64
}

func NewLedger(cfg config.BacktestConfig) *Ledger {
	return &Ledger{
		cfg:            cfg,
		balance:        cfg.InitialBalance,
		initialBalance: cfg.InitialBalance,
		peakBalance:    cfg.InitialBalance,
		trades:         make([]Trade, 0),
	}
}

func (l *Ledger) Balance() float64            { return l.balance }
func (l *Ledger) InitialBalance() float64     { return l.initialBalance }
func (l *Ledger) PeakBalance() float64        { return l.peakBalance }
func (l *Ledger) MaxDrawdownPercent() float64 { return l.maxDrawdownPercent }
func (l *Ledger) Trades() []Trade             { return l.trades }
func (l *Ledger) HasPosition() bool           { return l.position != nil }

// EquityCurve is the balance sampled at every UpdateDrawdown call, i.e.
// once per candle plus the final forced close.
func (l *Ledger) EquityCurve() []float64 { return l.equityCurve }

// PositionSnapshot returns a copy of the open position, or nil when flat.
func (l *Ledger) PositionSnapshot() *Position {
	if l.position == nil {
		return nil
	}
	snapshot := *l.position
	return &snapshot
}

// OpenPosition validates margin and fee availability before any balance
// mutation. Isolated mode escrows the margin up front; cross mode debits
// only the entry fee and settles against balance at close.
func (l *Ledger) OpenPosition(entryPrice, quantity, stopLoss, takeProfit float64, entryTime time.Time) (*Position, error) {
	if l.position != nil {
		return nil, ErrPositionAlreadyOpen
	}

	positionValue := quantity * entryPrice
	marginRequired := positionValue / l.cfg.Leverage
	entryFee := positionValue * l.cfg.MakerFee

	if l.balance < marginRequired+entryFee {
		return nil, ErrInsufficientBalance
	}

	if l.cfg.MarginMode == config.MarginModeCross {
		l.balance -= entryFee
	} else {
		l.balance -= marginRequired + entryFee
	}

	l.position = &Position{
		EntryPrice:    entryPrice,
		Quantity:      quantity,
		StopLoss:      stopLoss,
		TakeProfit:    takeProfit,
		EntryTime:     entryTime,
		PositionValue: positionValue,
		MarginUsed:    marginRequired,
		Leverage:      l.cfg.Leverage,
		EntryFeePaid:  entryFee,
	}

	return l.PositionSnapshot(), nil
}

// ClosePosition settles the open position at exitPrice. The margin is
// returned together with the gross profit net of the exit fee in one step;
// the entry fee was already debited at entry and is not charged again.
func (l *Ledger) ClosePosition(exitPrice float64, reason string, exitTime time.Time) (*Trade, error) {
	if l.position == nil {
		return nil, ErrNoOpenPosition
	}

	pos := l.position
	exitValue := pos.Quantity * exitPrice
	grossProfit := exitValue - pos.PositionValue
	exitFee := exitValue * l.cfg.TakerFee
	totalFees := pos.EntryFeePaid + exitFee
	netProfit := grossProfit - totalFees

	if l.cfg.MarginMode == config.MarginModeCross {
		l.balance += grossProfit - exitFee
	} else {
		l.balance += pos.MarginUsed + grossProfit - exitFee
	}

	trade := Trade{
		EntryPrice:      pos.EntryPrice,
		ExitPrice:       exitPrice,
		Quantity:        pos.Quantity,
		GrossProfit:     grossProfit,
		NetProfit:       netProfit,
		ProfitPercent:   netProfit / pos.PositionValue * 100,
		FeesPaid:        totalFees,
		Reason:          reason,
		EntryTime:       pos.EntryTime,
		ExitTime:        exitTime,
		DurationMinutes: exitTime.Sub(pos.EntryTime).Minutes(),
	}

	l.trades = append(l.trades, trade)
	l.position = nil

	return &trade, nil
}

// CheckLiquidation reports whether the unrealized loss at currentPrice has
// consumed the liquidation fraction of the position's margin.
func (l *Ledger) CheckLiquidation(currentPrice float64) bool {
	if l.position == nil {
		return false
	}
	unrealizedPnL := l.position.Quantity*currentPrice - l.position.PositionValue
	return unrealizedPnL <= -l.position.MarginUsed*liquidationThreshold
}

// Liquidate force-closes the position with the entire margin forfeited.
// Unlike a normal close, nothing is returned to balance; the only fee
// counted is the entry fee and the loss is pinned at -100%.
func (l *Ledger) Liquidate(exitPrice float64, exitTime time.Time) (*Trade, error) {
	if l.position == nil {
		return nil, ErrNoOpenPosition
	}

	pos := l.position

	if l.cfg.MarginMode == config.MarginModeCross {
		// Margin was never escrowed in cross mode, so the forfeit is
		// realized as a debit here.
		l.balance -= pos.MarginUsed
	}

	trade := Trade{
		EntryPrice:      pos.EntryPrice,
		ExitPrice:       exitPrice,
		Quantity:        pos.Quantity,
		GrossProfit:     -pos.MarginUsed,
		NetProfit:       -(pos.MarginUsed + pos.EntryFeePaid),
		ProfitPercent:   -100,
		FeesPaid:        pos.EntryFeePaid,
		Reason:          ReasonLiquidation,
		EntryTime:       pos.EntryTime,
		ExitTime:        exitTime,
		DurationMinutes: exitTime.Sub(pos.EntryTime).Minutes(),
	}

	l.trades = append(l.trades, trade)
	l.position = nil

	return &trade, nil
}

// UpdateDrawdown recomputes the high-water mark and maximum drawdown and
// appends the current balance to the equity curve. Called every candle
// regardless of position state; both values are monotonically
// non-decreasing.
func (l *Ledger) UpdateDrawdown() {
	l.equityCurve = append(l.equityCurve, l.balance)
	if l.balance > l.peakBalance {
		l.peakBalance = l.balance
	}
	if l.peakBalance <= 0 {
		return
	}
	drawdown := (l.peakBalance - l.balance) / l.peakBalance * 100
	if drawdown > l.maxDrawdownPercent {
		l.maxDrawdownPercent = drawdown
	}
}
