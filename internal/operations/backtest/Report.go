// backtest/report.go

package backtest

import (
	"encoding/json"
	"fmt"
	"time"

	"CryptoBacktest/config"
	"CryptoBacktest/internal/models"
)

// Report is the machine-parseable artifact of one backtest run. Percent
// fields use 12.34 form, never 0.1234.
type Report struct {
	// Run configuration
	Symbol         string    `json:"symbol"`
	TimeFrame      string    `json:"timeframe"`
	Strategy       string    `json:"strategy"`
	PeriodStart    time.Time `json:"periodStart"`
	PeriodEnd      time.Time `json:"periodEnd"`
	CandleCount    int       `json:"candleCount"`
	InitialBalance float64   `json:"initialBalance"`
	Leverage       float64   `json:"leverage"`
	MarginMode     string    `json:"marginMode"`

	// Performance
	FinalBalance       float64 `json:"finalBalance"`
	TotalReturnPercent float64 `json:"totalReturnPercent"`
	TotalProfit        float64 `json:"totalProfit"`
	TotalFees          float64 `json:"totalFees"`
	MaxDrawdownPercent float64 `json:"maxDrawdownPercent"`
	SharpeRatio        float64 `json:"sharpeRatio"`

	// Statistics
	Stats Statistics `json:"statistics"`

	// Early-termination annotation. A run stopped by a safety gate still
	// reports over whatever trades occurred.
	StoppedEarly bool   `json:"stoppedEarly"`
	StopReason   string `json:"stopReason,omitempty"`

	Trades []Trade `json:"trades"`
}

// BuildReport assembles the report from the final ledger state. Max
// drawdown is read from the ledger's tracked high-water metric, not
// recomputed from trades, since drawdown depends on intra-run balance.
func BuildReport(cfg config.BacktestConfig, strategyName, symbol string, candles []models.Candle, ledger *Ledger, stoppedEarly bool, stopReason string) *Report {
	stats := CalculateStatistics(ledger.Trades())

	report := &Report{
		Symbol:         symbol,
		TimeFrame:      cfg.TimeFrame,
		Strategy:       strategyName,
		CandleCount:    len(candles),
		InitialBalance: ledger.InitialBalance(),
		Leverage:       cfg.Leverage,
		MarginMode:     cfg.MarginMode,

		FinalBalance:       ledger.Balance(),
		TotalProfit:        ledger.Balance() - ledger.InitialBalance(),
		TotalFees:          stats.TotalFees,
		MaxDrawdownPercent: ledger.MaxDrawdownPercent(),
		SharpeRatio:        CalculateSharpeRatio(ledger.EquityCurve()),

		Stats:        stats,
		StoppedEarly: stoppedEarly,
		StopReason:   stopReason,
		Trades:       ledger.Trades(),
	}

	if len(candles) > 0 {
		report.PeriodStart = candles[0].OpenTime
		report.PeriodEnd = candles[len(candles)-1].OpenTime
	}
	if ledger.InitialBalance() > 0 {
		report.TotalReturnPercent = report.TotalProfit / ledger.InitialBalance() * 100
	}

	return report
}

// JSON renders the report as one indented JSON object.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Print writes a human-readable summary to stdout.
func (r *Report) Print() {
	fmt.Println("\n=== Backtest Results ===")
	fmt.Printf("Symbol: %s (%s) | Strategy: %s\n", r.Symbol, r.TimeFrame, r.Strategy)
	fmt.Printf("Period: %s -> %s (%d candles)\n",
		r.PeriodStart.Format("2006-01-02 15:04:05"),
		r.PeriodEnd.Format("2006-01-02 15:04:05"),
		r.CandleCount)
	fmt.Printf("Initial Balance: $%.2f | Leverage: %.0fx | Margin: %s\n",
		r.InitialBalance, r.Leverage, r.MarginMode)

	fmt.Printf("\nFinal Balance: $%.2f\n", r.FinalBalance)
	fmt.Printf("Total Return: %.2f%%\n", r.TotalReturnPercent)
	fmt.Printf("Total P/L: $%.2f | Total Fees: $%.2f\n", r.TotalProfit, r.TotalFees)
	fmt.Printf("Max Drawdown: %.2f%%\n", r.MaxDrawdownPercent)
	fmt.Printf("Sharpe Ratio: %.2f\n", r.SharpeRatio)

	fmt.Printf("\nTotal Trades: %d (%d wins / %d losses)\n",
		r.Stats.TotalTrades, r.Stats.WinningTrades, r.Stats.LosingTrades)
	fmt.Printf("Win Rate: %.2f%% | Profit Factor: %.2f\n", r.Stats.WinRate, r.Stats.ProfitFactor)
	fmt.Printf("Avg Win: $%.2f | Avg Loss: $%.2f | Avg Duration: %.1f min\n",
		r.Stats.AvgWin, r.Stats.AvgLoss, r.Stats.AvgDurationMinutes)

	if r.Stats.BestTrade != nil {
		fmt.Printf("Best Trade: $%.2f (%s)\n", r.Stats.BestTrade.NetProfit, r.Stats.BestTrade.Reason)
	}
	if r.Stats.WorstTrade != nil {
		fmt.Printf("Worst Trade: $%.2f (%s)\n", r.Stats.WorstTrade.NetProfit, r.Stats.WorstTrade.Reason)
	}
	if r.StoppedEarly {
		fmt.Printf("\nStopped early: %s\n", r.StopReason)
	}
}
