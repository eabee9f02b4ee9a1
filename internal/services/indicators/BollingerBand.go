package indicators

import "math"

type BBandsService struct{}

type BBandsResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
	Width  []float64 // Volatility indicator
}

func NewBBandsService() *BBandsService {
	return &BBandsService{}
}

func (s *BBandsService) Calculate(prices []float64, period int, deviations float64) *BBandsResult {
	if len(prices) < period {
		return nil
	}

	upper := make([]float64, len(prices))
	middle := make([]float64, len(prices))
	lower := make([]float64, len(prices))
	width := make([]float64, len(prices))

	for i := period - 1; i < len(prices); i++ {
		subset := prices[i-period+1 : i+1]

		sum := 0.0
		for _, price := range subset {
			sum += price
		}
		sma := sum / float64(period)
		middle[i] = sma

		squareSum := 0.0
		for _, price := range subset {
			diff := price - sma
			squareSum += diff * diff
		}
		stdDev := math.Sqrt(squareSum / float64(period))

		upper[i] = sma + (deviations * stdDev)
		lower[i] = sma - (deviations * stdDev)
		width[i] = (upper[i] - lower[i]) / middle[i]
	}

	return &BBandsResult{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
		Width:  width,
	}
}
