// backtest/statistics.go

package backtest

import "math"

// Statistics is the summary derived from the closed trade list.
type Statistics struct {
	TotalTrades   int     `json:"totalTrades"`
	WinningTrades int     `json:"winningTrades"`
	LosingTrades  int     `json:"losingTrades"`
	WinRate       float64 `json:"winRate"` // percent, 12.34 not 0.1234

	// |avgWin / avgLoss|. Zero is the sentinel for "no losing trades";
	// it is not a real ratio of zero.
	ProfitFactor float64 `json:"profitFactor"`

	AvgWin             float64 `json:"avgWin"`
	AvgLoss            float64 `json:"avgLoss"`
	AvgDurationMinutes float64 `json:"avgDurationMinutes"`
	TotalFees          float64 `json:"totalFees"`

	BestTrade  *Trade `json:"bestTrade,omitempty"`
	WorstTrade *Trade `json:"worstTrade,omitempty"`
}

// CalculateStatistics is a pure function over the trade list. It never
// divides by zero: an empty list yields zeroed metrics.
func CalculateStatistics(trades []Trade) Statistics {
	stats := Statistics{
		TotalTrades: len(trades),
	}

	if len(trades) == 0 {
		return stats
	}

	var totalWin, totalLoss, totalDuration float64
	var best, worst *Trade

	for i := range trades {
		trade := &trades[i]

		if trade.NetProfit > 0 {
			stats.WinningTrades++
			totalWin += trade.NetProfit
		} else if trade.NetProfit < 0 {
			stats.LosingTrades++
			totalLoss += trade.NetProfit
		}

		if best == nil || trade.NetProfit > best.NetProfit {
			best = trade
		}
		if worst == nil || trade.NetProfit < worst.NetProfit {
			worst = trade
		}

		totalDuration += trade.DurationMinutes
		stats.TotalFees += trade.FeesPaid
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	stats.AvgDurationMinutes = totalDuration / float64(stats.TotalTrades)

	if stats.WinningTrades > 0 {
		stats.AvgWin = totalWin / float64(stats.WinningTrades)
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = totalLoss / float64(stats.LosingTrades)
	}

	if stats.AvgLoss != 0 {
		stats.ProfitFactor = math.Abs(stats.AvgWin / stats.AvgLoss)
	}

	if best != nil {
		bestCopy := *best
		stats.BestTrade = &bestCopy
	}
	if worst != nil {
		worstCopy := *worst
		stats.WorstTrade = &worstCopy
	}

	return stats
}

// tradingDaysPerYear is the annualization base for the Sharpe ratio.
const tradingDaysPerYear = 252

// CalculateSharpeRatio computes an annualized Sharpe ratio over the
// successive returns of the equity curve. Returns 0 when the curve is too
// short or has zero variance; a zero-risk-free rate is assumed.
func CalculateSharpeRatio(equityCurve []float64) float64 {
	if len(equityCurve) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equityCurve)-1)
	for i := 1; i < len(equityCurve); i++ {
		if equityCurve[i-1] == 0 {
			return 0
		}
		returns = append(returns, (equityCurve[i]-equityCurve[i-1])/equityCurve[i-1])
	}

	var avgReturn float64
	for _, r := range returns {
		avgReturn += r
	}
	avgReturn /= float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - avgReturn) * (r - avgReturn)
	}
	if len(returns) < 2 {
		return 0
	}
	// Sample variance
	variance /= float64(len(returns) - 1)
	stdDev := math.Sqrt(variance)

	if stdDev == 0 {
		return 0
	}

	annualizedReturn := avgReturn * tradingDaysPerYear
	annualizedStdDev := stdDev * math.Sqrt(tradingDaysPerYear)

	return annualizedReturn / annualizedStdDev
}
