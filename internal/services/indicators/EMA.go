package indicators

import "math"

// EMAService provides Exponential Moving Average calculations
type EMAService struct{}

// CrossSignal represents EMA crossover status
type CrossSignal struct {
	Crossed   bool    // Whether cross occurred
	Direction int     // 1 (bullish), -1 (bearish)
	Strength  float64 // Strength of crossover
}

func NewEMAService() *EMAService {
	return &EMAService{}
}

// Calculate computes EMA for the entire price series. Returns nil when the
// series is shorter than the period.
func (s *EMAService) Calculate(prices []float64, period int) []float64 {
	if len(prices) == 0 || period <= 0 || len(prices) < period {
		return nil
	}

	ema := make([]float64, len(prices))
	multiplier := 2.0 / float64(period+1)

	// Seed with SMA over the first period
	sum := 0.0
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema[period-1] = sum / float64(period)

	for i := period; i < len(prices); i++ {
		ema[i] = (prices[i]-ema[i-1])*multiplier + ema[i-1]
	}

	return ema
}

// CheckCrossover detects and analyzes EMA crossovers at the latest point
func (s *EMAService) CheckCrossover(fastEMA, slowEMA []float64) *CrossSignal {
	if len(fastEMA) < 2 || len(slowEMA) < 2 {
		return &CrossSignal{Crossed: false}
	}

	currFast := fastEMA[len(fastEMA)-1]
	prevFast := fastEMA[len(fastEMA)-2]
	currSlow := slowEMA[len(slowEMA)-1]
	prevSlow := slowEMA[len(slowEMA)-2]

	bullishCross := prevFast <= prevSlow && currFast > currSlow
	bearishCross := prevFast >= prevSlow && currFast < currSlow

	if !bullishCross && !bearishCross {
		return &CrossSignal{Crossed: false}
	}

	strength := math.Abs((currFast - currSlow) / currSlow)
	direction := 1
	if bearishCross {
		direction = -1
	}

	return &CrossSignal{
		Crossed:   true,
		Direction: direction,
		Strength:  strength,
	}
}
