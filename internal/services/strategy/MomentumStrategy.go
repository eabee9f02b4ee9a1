package strategy

import (
	"fmt"

	"CryptoBacktest/config"
	"CryptoBacktest/internal/models"
	"CryptoBacktest/internal/operations/backtest"
	"CryptoBacktest/internal/services/indicators"
)

// MomentumStrategy enters on a bullish EMA crossover confirmed by RSI and
// the MACD histogram. It keeps a cooldown counter so one crossover does
// not re-trigger entries on consecutive candles.
type MomentumStrategy struct {
	// Core settings
	fastPeriod    int
	slowPeriod    int
	rsiPeriod     int
	rsiOverbought float64
	cooldownBars  int

	// Strategy-local memory across calls
	cooldown int

	ema   *indicators.EMAService
	rsi   *indicators.RSIService
	macd  *indicators.MACDService
	sizer *Sizer
}

func NewMomentumStrategy(cfg config.BacktestConfig) *MomentumStrategy {
	return &MomentumStrategy{
		fastPeriod:    9,
		slowPeriod:    21,
		rsiPeriod:     14,
		rsiOverbought: 70,
		cooldownBars:  5,
		ema:           indicators.NewEMAService(),
		rsi:           indicators.NewRSIService(),
		macd:          indicators.NewMACDService(),
		sizer:         NewSizer(cfg),
	}
}

func (s *MomentumStrategy) Name() string {
	return "momentum"
}

func (s *MomentumStrategy) MinHistory() int {
	// MACD(12,26,9) is the longest lookback; add headroom for the EMA seed.
	return 60
}

func (s *MomentumStrategy) Analyze(candles []models.Candle, position *backtest.Position) (backtest.Signal, error) {
	if s.cooldown > 0 {
		s.cooldown--
	}

	if len(candles) < s.MinHistory() {
		return hold("insufficient history"), nil
	}

	closes := closePrices(candles)
	currentPrice := closes[len(closes)-1]

	fastEMA := s.ema.Calculate(closes, s.fastPeriod)
	slowEMA := s.ema.Calculate(closes, s.slowPeriod)
	if fastEMA == nil || slowEMA == nil {
		return backtest.Signal{}, fmt.Errorf("EMA calculation failed for %d candles", len(candles))
	}
	cross := s.ema.CheckCrossover(fastEMA, slowEMA)
	rsiValue := s.rsi.Latest(closes, s.rsiPeriod)

	if position != nil {
		if cross.Crossed && cross.Direction == -1 {
			return sell(currentPrice, "Bearish crossover"), nil
		}
		if rsiValue >= s.rsiOverbought+5 {
			return sell(currentPrice, "RSI overbought"), nil
		}
		return hold("holding position"), nil
	}

	if s.cooldown > 0 {
		return hold("cooldown"), nil
	}
	if !cross.Crossed || cross.Direction != 1 {
		return hold("no bullish crossover"), nil
	}
	if rsiValue >= s.rsiOverbought {
		return hold("RSI too high for entry"), nil
	}

	macdResult := s.macd.Calculate(closes, 12, 26, 9)
	if macdResult == nil {
		return backtest.Signal{}, fmt.Errorf("MACD calculation failed for %d candles", len(candles))
	}
	if macdResult.Histogram[len(macdResult.Histogram)-1] <= 0 {
		return hold("MACD not confirming"), nil
	}

	s.cooldown = s.cooldownBars
	return buy(currentPrice), nil
}

func (s *MomentumStrategy) CalculateExitPrices(entryPrice float64) backtest.ExitPrices {
	return s.sizer.ExitPrices(entryPrice)
}

func (s *MomentumStrategy) CalculatePositionSize(effectiveBalance, entryPrice, stopLoss float64) backtest.PositionSize {
	return s.sizer.PositionSize(effectiveBalance, entryPrice, stopLoss)
}
