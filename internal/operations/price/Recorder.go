package price

import (
	"context"
	"time"

	"CryptoBacktest/internal/models"
	"CryptoBacktest/internal/operations/binance"
	"CryptoBacktest/internal/repositories"
	"CryptoBacktest/pkg/logger"

	"go.uber.org/zap"
)

// Recorder periodically records the latest closed candle per symbol so
// later backtests start from an up-to-date local history.
type Recorder struct {
	client     *binance.Client
	candleRepo *repositories.CandleRepository
	symbols    []string
	timeframe  string
}

func NewRecorder(client *binance.Client, candleRepo *repositories.CandleRepository, symbols []string, timeframe string) *Recorder {
	return &Recorder{
		client:     client,
		candleRepo: candleRepo,
		symbols:    symbols,
		timeframe:  timeframe,
	}
}

// Start blocks until ctx is cancelled, recording once per candle interval.
func (r *Recorder) Start(ctx context.Context) {
	interval := models.Interval(r.timeframe)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("starting candle recording",
		zap.String("timeframe", r.timeframe),
		zap.Strings("symbols", r.symbols))

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping candle recording", zap.String("timeframe", r.timeframe))
			return
		case <-ticker.C:
			r.record(ctx)
		}
	}
}

func (r *Recorder) record(ctx context.Context) {
	for _, symbol := range r.symbols {
		candles, err := r.client.FetchCandleHistory(ctx, symbol, r.timeframe, 2)
		if err != nil {
			logger.Error("error fetching latest candle",
				zap.String("symbol", symbol),
				zap.Error(err))
			continue
		}
		if len(candles) < 2 {
			continue
		}

		// The last candle is still forming; record the closed one.
		closed := candles[len(candles)-2]

		latest, err := r.candleRepo.LatestOpenTime(symbol, r.timeframe)
		if err != nil || !closed.OpenTime.After(latest) {
			continue
		}

		if err := r.candleRepo.Create(&closed); err != nil {
			logger.Error("error saving candle",
				zap.String("symbol", symbol),
				zap.Error(err))
			continue
		}

		logger.Debug("recorded candle",
			zap.String("symbol", symbol),
			zap.Time("open_time", closed.OpenTime),
			zap.Float64("close", closed.Close))
	}
}
