package strategy

import (
	"CryptoBacktest/config"
	"CryptoBacktest/internal/models"
	"CryptoBacktest/internal/operations/backtest"
)

// Sizer implements the fixed-distance exit price and risk-based position
// sizing shared by the concrete strategies.
type Sizer struct {
	cfg config.BacktestConfig
}

func NewSizer(cfg config.BacktestConfig) *Sizer {
	return &Sizer{cfg: cfg}
}

// ExitPrices places the stop and take-profit at the configured fixed
// distances from the entry.
func (s *Sizer) ExitPrices(entryPrice float64) backtest.ExitPrices {
	return backtest.ExitPrices{
		StopLoss:   entryPrice * (1 - s.cfg.StopLossPercent),
		TakeProfit: entryPrice * (1 + s.cfg.TakeProfitPercent),
	}
}

// PositionSize risks a configured fraction of the effective balance per
// unit of stop distance. When the risk-sized value exceeds the cap, the
// quantity is scaled down; the cap is never bypassed.
func (s *Sizer) PositionSize(effectiveBalance, entryPrice, stopLoss float64) backtest.PositionSize {
	maxValue := effectiveBalance * s.cfg.MaxPositionSize

	stopDistance := entryPrice - stopLoss
	if stopDistance <= 0 || entryPrice <= 0 {
		return backtest.PositionSize{}
	}

	quantity := effectiveBalance * s.cfg.RiskPerTrade / stopDistance
	if quantity*entryPrice > maxValue {
		quantity = maxValue / entryPrice
	}

	return backtest.PositionSize{
		Quantity:      quantity,
		PositionValue: quantity * entryPrice,
	}
}

// closePrices extracts the close series for indicator input.
func closePrices(candles []models.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

func hold(reason string) backtest.Signal {
	return backtest.Signal{Action: backtest.ActionHold, Reason: reason}
}

func sell(price float64, reason string) backtest.Signal {
	return backtest.Signal{Action: backtest.ActionSell, Price: price, Reason: reason}
}

func buy(price float64) backtest.Signal {
	return backtest.Signal{Action: backtest.ActionBuy, Price: price}
}
