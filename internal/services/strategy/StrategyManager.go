package strategy

import (
	"fmt"

	"CryptoBacktest/config"
	"CryptoBacktest/internal/operations/backtest"
)

// New selects a concrete strategy by name once at configuration time.
// An unknown name is fatal to the run.
func New(name string, cfg config.BacktestConfig) (backtest.Strategy, error) {
	switch name {
	case "momentum":
		return NewMomentumStrategy(cfg), nil
	case "reversion":
		return NewReversionStrategy(cfg), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
}
