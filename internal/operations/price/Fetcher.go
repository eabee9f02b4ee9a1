package price

import (
	"context"

	"CryptoBacktest/internal/models"
	"CryptoBacktest/internal/operations/binance"
	"CryptoBacktest/internal/repositories"
	"CryptoBacktest/pkg/logger"

	"go.uber.org/zap"
)

// Fetcher pulls historical candles from the exchange and persists them.
type Fetcher struct {
	client     *binance.Client
	candleRepo *repositories.CandleRepository
	symbols    []string
}

func NewFetcher(client *binance.Client, candleRepo *repositories.CandleRepository, symbols []string) *Fetcher {
	return &Fetcher{
		client:     client,
		candleRepo: candleRepo,
		symbols:    symbols,
	}
}

// FetchAndStore gathers the most recent total candles per symbol for the
// timeframe and stores any not yet persisted. Returns the fetched series
// keyed by symbol.
func (f *Fetcher) FetchAndStore(ctx context.Context, timeframe string, total int) (map[string][]models.Candle, error) {
	result := make(map[string][]models.Candle, len(f.symbols))

	for _, symbol := range f.symbols {
		candles, err := f.client.FetchCandleHistory(ctx, symbol, timeframe, total)
		if err != nil {
			return nil, err
		}

		latest, err := f.candleRepo.LatestOpenTime(symbol, timeframe)
		if err != nil {
			return nil, err
		}

		var fresh []models.Candle
		for _, c := range candles {
			if c.OpenTime.After(latest) {
				fresh = append(fresh, c)
			}
		}
		if err := f.candleRepo.CreateBatch(fresh); err != nil {
			logger.Error("error saving candles",
				zap.String("symbol", symbol),
				zap.Error(err))
		}

		logger.Info("stored candle history",
			zap.String("symbol", symbol),
			zap.String("timeframe", timeframe),
			zap.Int("fetched", len(candles)),
			zap.Int("new", len(fresh)))

		result[symbol] = candles
	}

	return result, nil
}
