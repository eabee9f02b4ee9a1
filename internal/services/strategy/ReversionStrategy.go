package strategy

import (
	"fmt"

	"CryptoBacktest/config"
	"CryptoBacktest/internal/models"
	"CryptoBacktest/internal/operations/backtest"
	"CryptoBacktest/internal/services/indicators"
)

// ReversionStrategy buys oversold touches of the lower Bollinger band and
// exits once price reverts to the middle band or RSI turns overbought.
type ReversionStrategy struct {
	bbPeriod      int
	bbDeviations  float64
	rsiPeriod     int
	rsiOversold   float64
	rsiOverbought float64
	cooldownBars  int

	cooldown int

	bbands *indicators.BBandsService
	rsi    *indicators.RSIService
	sizer  *Sizer
}

func NewReversionStrategy(cfg config.BacktestConfig) *ReversionStrategy {
	return &ReversionStrategy{
		bbPeriod:      20,
		bbDeviations:  2.0,
		rsiPeriod:     14,
		rsiOversold:   30,
		rsiOverbought: 70,
		cooldownBars:  3,
		bbands:        indicators.NewBBandsService(),
		rsi:           indicators.NewRSIService(),
		sizer:         NewSizer(cfg),
	}
}

func (s *ReversionStrategy) Name() string {
	return "reversion"
}

func (s *ReversionStrategy) MinHistory() int {
	return 40
}

func (s *ReversionStrategy) Analyze(candles []models.Candle, position *backtest.Position) (backtest.Signal, error) {
	if s.cooldown > 0 {
		s.cooldown--
	}

	if len(candles) < s.MinHistory() {
		return hold("insufficient history"), nil
	}

	closes := closePrices(candles)
	currentPrice := closes[len(closes)-1]

	bands := s.bbands.Calculate(closes, s.bbPeriod, s.bbDeviations)
	if bands == nil {
		return backtest.Signal{}, fmt.Errorf("bollinger calculation failed for %d candles", len(candles))
	}
	last := len(closes) - 1
	rsiValue := s.rsi.Latest(closes, s.rsiPeriod)

	if position != nil {
		if currentPrice >= bands.Middle[last] {
			return sell(currentPrice, "Reverted to mean"), nil
		}
		if rsiValue >= s.rsiOverbought {
			return sell(currentPrice, "RSI overbought"), nil
		}
		return hold("holding position"), nil
	}

	if s.cooldown > 0 {
		return hold("cooldown"), nil
	}
	if currentPrice > bands.Lower[last] {
		return hold("price above lower band"), nil
	}
	if rsiValue > s.rsiOversold {
		return hold("RSI not oversold"), nil
	}

	s.cooldown = s.cooldownBars
	return buy(currentPrice), nil
}

func (s *ReversionStrategy) CalculateExitPrices(entryPrice float64) backtest.ExitPrices {
	return s.sizer.ExitPrices(entryPrice)
}

func (s *ReversionStrategy) CalculatePositionSize(effectiveBalance, entryPrice, stopLoss float64) backtest.PositionSize {
	return s.sizer.PositionSize(effectiveBalance, entryPrice, stopLoss)
}
