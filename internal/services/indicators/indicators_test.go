package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatSeries(value float64, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = value
	}
	return out
}

func TestEMARejectsShortSeries(t *testing.T) {
	svc := NewEMAService()

	assert.Nil(t, svc.Calculate([]float64{1, 2, 3}, 5))
	assert.Nil(t, svc.Calculate(nil, 5))
	assert.Nil(t, svc.Calculate([]float64{1, 2, 3}, 0))
}

func TestEMAFlatSeriesStaysAtPrice(t *testing.T) {
	svc := NewEMAService()

	ema := svc.Calculate(flatSeries(100, 30), 9)
	require.NotNil(t, ema)
	for i := 8; i < len(ema); i++ {
		assert.InDelta(t, 100.0, ema[i], 1e-9)
	}
}

func TestEMASeedIsSimpleAverage(t *testing.T) {
	svc := NewEMAService()

	ema := svc.Calculate([]float64{10, 20, 30, 40}, 3)
	require.NotNil(t, ema)
	assert.InDelta(t, 20.0, ema[2], 1e-9)
	// next value: (40-20)*0.5 + 20
	assert.InDelta(t, 30.0, ema[3], 1e-9)
}

func TestCheckCrossoverDetectsBullish(t *testing.T) {
	svc := NewEMAService()

	prices := append(flatSeries(100, 30), 120)
	fast := svc.Calculate(prices, 9)
	slow := svc.Calculate(prices, 21)

	cross := svc.CheckCrossover(fast, slow)
	assert.True(t, cross.Crossed)
	assert.Equal(t, 1, cross.Direction)
	assert.Greater(t, cross.Strength, 0.0)
}

func TestCheckCrossoverDetectsBearish(t *testing.T) {
	svc := NewEMAService()

	prices := append(flatSeries(100, 30), 80)
	fast := svc.Calculate(prices, 9)
	slow := svc.Calculate(prices, 21)

	cross := svc.CheckCrossover(fast, slow)
	assert.True(t, cross.Crossed)
	assert.Equal(t, -1, cross.Direction)
}

func TestCheckCrossoverFlatSeriesNoCross(t *testing.T) {
	svc := NewEMAService()

	prices := flatSeries(100, 30)
	fast := svc.Calculate(prices, 9)
	slow := svc.Calculate(prices, 21)

	cross := svc.CheckCrossover(fast, slow)
	assert.False(t, cross.Crossed)
}

func TestRSIMonotonicGainsIsMaxed(t *testing.T) {
	svc := NewRSIService()

	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}

	rsi := svc.Calculate(prices, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 100.0, rsi[len(rsi)-1], 1e-9)
}

func TestRSIStaysWithinBounds(t *testing.T) {
	svc := NewRSIService()

	prices := make([]float64, 60)
	for i := range prices {
		prices[i] = 100 + float64(i%7) - float64(i%3)
	}

	rsi := svc.Calculate(prices, 14)
	require.NotNil(t, rsi)
	for i := 14; i < len(rsi); i++ {
		assert.GreaterOrEqual(t, rsi[i], 0.0)
		assert.LessOrEqual(t, rsi[i], 100.0)
	}
}

func TestRSILatestFallsBackToNeutral(t *testing.T) {
	svc := NewRSIService()

	assert.Equal(t, 50.0, svc.Latest([]float64{1, 2, 3}, 14))
}

func TestBBandsFlatSeriesCollapses(t *testing.T) {
	svc := NewBBandsService()

	bands := svc.Calculate(flatSeries(100, 25), 20, 2.0)
	require.NotNil(t, bands)

	last := 24
	assert.InDelta(t, 100.0, bands.Middle[last], 1e-9)
	assert.InDelta(t, 100.0, bands.Upper[last], 1e-9)
	assert.InDelta(t, 100.0, bands.Lower[last], 1e-9)
	assert.InDelta(t, 0.0, bands.Width[last], 1e-9)
}

func TestBBandsBandsAreSymmetric(t *testing.T) {
	svc := NewBBandsService()

	prices := make([]float64, 25)
	for i := range prices {
		prices[i] = 100 + float64(i%5)
	}

	bands := svc.Calculate(prices, 20, 2.0)
	require.NotNil(t, bands)

	last := 24
	assert.InDelta(t, bands.Middle[last]-bands.Lower[last], bands.Upper[last]-bands.Middle[last], 1e-9)
	assert.Greater(t, bands.Width[last], 0.0)
}

func TestBBandsRejectsShortSeries(t *testing.T) {
	svc := NewBBandsService()

	assert.Nil(t, svc.Calculate(flatSeries(100, 10), 20, 2.0))
}

func TestMACDFlatSeriesIsZero(t *testing.T) {
	svc := NewMACDService()

	result := svc.Calculate(flatSeries(100, 60), 12, 26, 9)
	require.NotNil(t, result)

	last := 59
	assert.InDelta(t, 0.0, result.MACD[last], 1e-9)
	assert.InDelta(t, 0.0, result.Histogram[last], 1e-9)
}

func TestMACDRejectsShortSeries(t *testing.T) {
	svc := NewMACDService()

	assert.Nil(t, svc.Calculate(flatSeries(100, 20), 12, 26, 9))
}
