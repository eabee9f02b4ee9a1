package strategy

import (
	"testing"
	"time"

	"CryptoBacktest/config"
	"CryptoBacktest/internal/models"
	"CryptoBacktest/internal/operations/backtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.BacktestConfig {
	return config.BacktestConfig{
		InitialBalance:    200,
		Leverage:          2,
		MarginMode:        config.MarginModeIsolated,
		RiskPerTrade:      0.02,
		MaxPositionSize:   0.09,
		StopLossPercent:   0.005,
		TakeProfitPercent: 0.018,
		MakerFee:          0.001,
		TakerFee:          0.001,
	}
}

func candleSeries(closes []float64) []models.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Symbol:    "BTCUSDT",
			TimeFrame: "5m",
			OpenTime:  start.Add(time.Duration(i*5) * time.Minute),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

func repeat(value float64, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestNewSelectsStrategyByName(t *testing.T) {
	cfg := testConfig()

	momentum, err := New("momentum", cfg)
	require.NoError(t, err)
	assert.Equal(t, "momentum", momentum.Name())

	reversion, err := New("reversion", cfg)
	require.NoError(t, err)
	assert.Equal(t, "reversion", reversion.Name())

	_, err = New("martingale", cfg)
	assert.Error(t, err)
}

func TestSizerExitPricesUseConfiguredDistances(t *testing.T) {
	sizer := NewSizer(testConfig())

	exits := sizer.ExitPrices(200)
	assert.InDelta(t, 199.0, exits.StopLoss, 1e-9)
	assert.InDelta(t, 203.6, exits.TakeProfit, 1e-9)
}

func TestSizerScalesQuantityDownAtCap(t *testing.T) {
	sizer := NewSizer(testConfig())

	// risk sizing alone: 400*0.02/0.5 = 16 units, value 1600.
	// The 9% cap of 400 is 36, so quantity is scaled to 0.36.
	size := sizer.PositionSize(400, 100, 99.5)
	assert.InDelta(t, 0.36, size.Quantity, 1e-9)
	assert.InDelta(t, 36.0, size.PositionValue, 1e-9)
}

func TestSizerRiskSizingBelowCap(t *testing.T) {
	cfg := testConfig()
	cfg.MaxPositionSize = 0.5
	sizer := NewSizer(cfg)

	// 400*0.02/10 = 0.8 units, value 80, under the 200 cap
	size := sizer.PositionSize(400, 100, 90)
	assert.InDelta(t, 0.8, size.Quantity, 1e-9)
	assert.InDelta(t, 80.0, size.PositionValue, 1e-9)
}

func TestSizerRejectsInvertedStop(t *testing.T) {
	sizer := NewSizer(testConfig())

	size := sizer.PositionSize(400, 100, 101)
	assert.Equal(t, 0.0, size.Quantity)
	assert.Equal(t, 0.0, size.PositionValue)
}

func TestMomentumHoldsOnInsufficientHistory(t *testing.T) {
	strat := NewMomentumStrategy(testConfig())

	signal, err := strat.Analyze(candleSeries(repeat(100, 10)), nil)
	require.NoError(t, err)
	assert.Equal(t, backtest.ActionHold, signal.Action)
}

func TestMomentumSellsOnBearishCrossover(t *testing.T) {
	strat := NewMomentumStrategy(testConfig())

	// Flat history keeps both EMAs pinned at 100; the final drop pulls
	// the fast EMA under the slow one on the same candle.
	closes := append(repeat(100, 70), 90)
	position := &backtest.Position{EntryPrice: 100, Quantity: 0.36}

	signal, err := strat.Analyze(candleSeries(closes), position)
	require.NoError(t, err)
	assert.Equal(t, backtest.ActionSell, signal.Action)
	assert.Equal(t, "Bearish crossover", signal.Reason)
	assert.InDelta(t, 90.0, signal.Price, 1e-9)
}

func TestMomentumHoldsFlatWithoutPosition(t *testing.T) {
	strat := NewMomentumStrategy(testConfig())

	signal, err := strat.Analyze(candleSeries(repeat(100, 70)), nil)
	require.NoError(t, err)
	assert.Equal(t, backtest.ActionHold, signal.Action)
}

func TestReversionSellsAtMeanReversion(t *testing.T) {
	strat := NewReversionStrategy(testConfig())

	// Flat series: price sits exactly on the middle band
	position := &backtest.Position{EntryPrice: 99, Quantity: 0.36}
	signal, err := strat.Analyze(candleSeries(repeat(100, 50)), position)
	require.NoError(t, err)
	assert.Equal(t, backtest.ActionSell, signal.Action)
	assert.Equal(t, "Reverted to mean", signal.Reason)
}

func TestReversionHoldsWithoutSetup(t *testing.T) {
	strat := NewReversionStrategy(testConfig())

	signal, err := strat.Analyze(candleSeries(repeat(100, 50)), nil)
	require.NoError(t, err)
	assert.Equal(t, backtest.ActionHold, signal.Action)
}

// End-to-end sanity: whatever trades the momentum strategy produces over a
// deterministic oscillating series, the ledger books must balance.
func TestMomentumEngineConservation(t *testing.T) {
	cfg := testConfig()
	cfg.InitialBalance = 1000

	strat, err := New("momentum", cfg)
	require.NoError(t, err)

	closes := make([]float64, 400)
	for i := range closes {
		base := 100.0
		switch (i / 25) % 4 {
		case 0:
			base = 100 + float64(i%25)*0.2
		case 1:
			base = 105 - float64(i%25)*0.1
		case 2:
			base = 102.5 - float64(i%25)*0.2
		case 3:
			base = 97.5 + float64(i%25)*0.1
		}
		closes[i] = base
	}

	engine := backtest.NewEngine(cfg, strat, "BTCUSDT")
	report, err := engine.Run(candleSeries(closes))
	require.NoError(t, err)

	var sum float64
	for _, trade := range report.Trades {
		sum += trade.NetProfit
	}
	assert.InDelta(t, cfg.InitialBalance+sum, report.FinalBalance, 1e-6)
	assert.GreaterOrEqual(t, report.MaxDrawdownPercent, 0.0)
}
