// backtest/engine.go

package backtest

import (
	"errors"
	"time"

	"CryptoBacktest/config"
	"CryptoBacktest/internal/models"
	"CryptoBacktest/pkg/logger"

	"go.uber.org/zap"
)

var ErrNoCandleData = errors.New("no candle data available")

// Engine drives the Ledger and Strategy candle-by-candle. Strictly
// sequential: each candle's exit checks observe the effects of that same
// candle's entry before the next candle is processed.
type Engine struct {
	cfg      config.BacktestConfig
	strategy Strategy
	ledger   *Ledger

	// run metadata
	symbol string

	// daily gates, reset when the simulated day changes
	currentDay     time.Time
	dailyTrades    int
	dailyLossCount int
	dailyLossTotal float64

	stoppedEarly bool
	stopReason   string
}

func NewEngine(cfg config.BacktestConfig, strategy Strategy, symbol string) *Engine {
	return &Engine{
		cfg:      cfg,
		strategy: strategy,
		ledger:   NewLedger(cfg),
		symbol:   symbol,
	}
}

// Ledger exposes the engine's ledger for inspection after a run.
func (e *Engine) Ledger() *Ledger {
	return e.ledger
}

// Run replays the candle sequence through the strategy and ledger and
// returns the final report. Candles must be time-ascending.
func (e *Engine) Run(candles []models.Candle) (*Report, error) {
	if len(candles) == 0 {
		return nil, ErrNoCandleData
	}

	start := e.strategy.MinHistory()
	if start < 1 {
		start = 1
	}

	logger.Info("starting backtest",
		zap.String("symbol", e.symbol),
		zap.String("strategy", e.strategy.Name()),
		zap.Int("candles", len(candles)),
		zap.Float64("initial_balance", e.cfg.InitialBalance))

	// Last-seen candle for the termination cleanup. Before the first
	// iteration that is the candle just ahead of the loop start, clamped
	// for series shorter than the strategy's lookback.
	lastIdx := start - 1
	if lastIdx >= len(candles) {
		lastIdx = len(candles) - 1
	}
	lastCandle := candles[lastIdx]

	for i := start; i < len(candles); i++ {
		candle := candles[i]

		e.resetDailyCounters(candle.OpenTime)

		if len(e.ledger.Trades()) >= e.cfg.MaxTotalTrades {
			e.stop("trade limit reached")
			break
		}
		if e.ledger.Balance() < e.cfg.MinViableBalance {
			e.stop("balance below minimum viable level")
			break
		}

		signal := e.consultStrategy(candles[:i+1])

		e.processEntry(signal, candle)
		e.processExit(signal, candle)

		e.ledger.UpdateDrawdown()
		lastCandle = candle
	}

	// A position left open at termination must be force-closed, otherwise
	// its margin stays in limbo and every return number downstream is wrong.
	if e.ledger.HasPosition() {
		trade, err := e.ledger.ClosePosition(lastCandle.Close, ReasonEndOfPeriod, lastCandle.OpenTime)
		if err != nil {
			return nil, err
		}
		logger.Info("force closed open position at end of period",
			zap.Float64("exit_price", trade.ExitPrice),
			zap.Float64("net_profit", trade.NetProfit))
		e.ledger.UpdateDrawdown()
	}

	report := BuildReport(e.cfg, e.strategy.Name(), e.symbol, candles, e.ledger, e.stoppedEarly, e.stopReason)

	logger.Info("backtest finished",
		zap.String("symbol", e.symbol),
		zap.Int("trades", report.Stats.TotalTrades),
		zap.Float64("final_balance", report.FinalBalance),
		zap.Float64("total_return_pct", report.TotalReturnPercent))

	return report, nil
}

// consultStrategy asks the strategy for a decision. A strategy error is
// non-fatal: the candle is treated as Hold and the error is surfaced in
// the log.
func (e *Engine) consultStrategy(history []models.Candle) Signal {
	signal, err := e.strategy.Analyze(history, e.ledger.PositionSnapshot())
	if err != nil {
		logger.Warn("strategy analysis failed, holding",
			zap.String("strategy", e.strategy.Name()),
			zap.Error(err))
		return Signal{Action: ActionHold, Reason: "strategy error"}
	}
	return signal
}

func (e *Engine) processEntry(signal Signal, candle models.Candle) {
	if signal.Action != ActionBuy || e.ledger.HasPosition() || !e.canEnterToday() {
		return
	}

	entryPrice := candle.Close
	exits := e.strategy.CalculateExitPrices(entryPrice)
	effectiveBalance := e.ledger.Balance() * e.cfg.Leverage
	sizing := e.strategy.CalculatePositionSize(effectiveBalance, entryPrice, exits.StopLoss)

	if sizing.PositionValue < e.cfg.MinOrderValue {
		logger.Debug("entry rejected, below minimum order value",
			zap.Float64("position_value", sizing.PositionValue),
			zap.Float64("min_order_value", e.cfg.MinOrderValue))
		return
	}

	pos, err := e.ledger.OpenPosition(entryPrice, sizing.Quantity, exits.StopLoss, exits.TakeProfit, candle.OpenTime)
	if err != nil {
		// Expected under high leverage or a depleted balance; skip and
		// keep iterating.
		if errors.Is(err, ErrInsufficientBalance) {
			logger.Debug("entry skipped, insufficient balance",
				zap.Float64("balance", e.ledger.Balance()),
				zap.Float64("position_value", sizing.PositionValue))
			return
		}
		logger.Warn("entry failed", zap.Error(err))
		return
	}

	e.dailyTrades++
	logger.Info("position opened",
		zap.String("symbol", e.symbol),
		zap.Float64("entry_price", pos.EntryPrice),
		zap.Float64("quantity", pos.Quantity),
		zap.Float64("stop_loss", pos.StopLoss),
		zap.Float64("take_profit", pos.TakeProfit),
		zap.Float64("margin_used", pos.MarginUsed))
}

// processExit realizes at most one close per candle. Priority when several
// conditions fire on the same candle: liquidation, then an explicit Sell
// signal, then stop-loss, then take-profit. Stop and take-profit fill at
// the exact threshold price rather than the candle close.
func (e *Engine) processExit(signal Signal, candle models.Candle) {
	if !e.ledger.HasPosition() {
		return
	}
	pos := e.ledger.PositionSnapshot()

	var trade *Trade
	var err error

	switch {
	case e.ledger.CheckLiquidation(candle.Close):
		trade, err = e.ledger.Liquidate(candle.Close, candle.OpenTime)
	case signal.Action == ActionSell:
		exitPrice := signal.Price
		if exitPrice <= 0 {
			exitPrice = candle.Close
		}
		reason := signal.Reason
		if reason == "" {
			reason = "Sell signal"
		}
		trade, err = e.ledger.ClosePosition(exitPrice, reason, candle.OpenTime)
	case candle.Low <= pos.StopLoss:
		trade, err = e.ledger.ClosePosition(pos.StopLoss, ReasonStopLoss, candle.OpenTime)
	case candle.High >= pos.TakeProfit:
		trade, err = e.ledger.ClosePosition(pos.TakeProfit, ReasonTakeProfit, candle.OpenTime)
	default:
		return
	}

	if err != nil {
		logger.Error("close failed", zap.Error(err))
		return
	}

	if trade.NetProfit < 0 {
		e.dailyLossCount++
		e.dailyLossTotal += -trade.NetProfit
	}

	logger.Info("position closed",
		zap.String("symbol", e.symbol),
		zap.String("reason", trade.Reason),
		zap.Float64("exit_price", trade.ExitPrice),
		zap.Float64("net_profit", trade.NetProfit),
		zap.Float64("profit_pct", trade.ProfitPercent),
		zap.Float64("balance", e.ledger.Balance()))
}

// canEnterToday gates new entries only; it never forces an exit.
func (e *Engine) canEnterToday() bool {
	if e.dailyTrades >= e.cfg.MaxDailyTrades {
		return false
	}
	if e.dailyLossCount >= e.cfg.MaxDailyLosses {
		return false
	}
	if e.cfg.DailyLossLimit > 0 && e.dailyLossTotal >= e.cfg.DailyLossLimit {
		return false
	}
	return true
}

func (e *Engine) resetDailyCounters(ts time.Time) {
	day := ts.UTC().Truncate(24 * time.Hour)
	if day.Equal(e.currentDay) {
		return
	}
	e.currentDay = day
	e.dailyTrades = 0
	e.dailyLossCount = 0
	e.dailyLossTotal = 0
}

func (e *Engine) stop(reason string) {
	e.stoppedEarly = true
	e.stopReason = reason
	logger.Warn("backtest stopped early", zap.String("reason", reason))
}
