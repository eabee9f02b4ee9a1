package binance

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"CryptoBacktest/internal/models"
	"CryptoBacktest/pkg/logger"

	"github.com/adshao/go-binance/v2/futures"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const perRequestLimit = 500

type Client struct {
	client      *futures.Client
	rateLimiter *rate.Limiter
	httpClient  *http.Client
}

func NewClient(apiKey, secretKey string) *Client {
	// Custom HTTP client with timeouts
	httpClient := &http.Client{
		Timeout: time.Second * 10,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	futuresClient := futures.NewClient(apiKey, secretKey)
	futuresClient.HTTPClient = httpClient

	// 10 requests per second with burst of 20
	limiter := rate.NewLimiter(rate.Limit(10), 20)

	return &Client{
		client:      futuresClient,
		rateLimiter: limiter,
		httpClient:  httpClient,
	}
}

// GetKlines fetches one batch of klines with bounded retry and
// exponential backoff behind the shared rate limiter.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, startTime int64, limit int) ([]*futures.Kline, error) {
	var klines []*futures.Kline
	maxRetries := 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := c.rateLimiter.Wait(ctx)
		if err != nil {
			return nil, err
		}

		svc := c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			Limit(limit)
		if startTime > 0 {
			svc = svc.StartTime(startTime)
		}
		klines, err = svc.Do(ctx)

		if err == nil {
			return klines, nil
		}

		if attempt == maxRetries {
			return nil, err
		}

		waitTime := time.Duration(math.Pow(2, float64(attempt))) * backoff

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waitTime):
			continue
		}
	}

	return klines, nil
}

// FetchCandleHistory stitches as many batches as needed to gather the most
// recent total candles for a symbol and timeframe: batches are fetched
// ascending, duplicate timestamps discarded, and the result truncated to
// the newest total. A failed first batch is fatal; a later batch failure
// degrades to returning whatever was gathered.
func (c *Client) FetchCandleHistory(ctx context.Context, symbol, timeframe string, total int) ([]models.Candle, error) {
	interval := models.Interval(timeframe)
	startTime := time.Now().Add(-time.Duration(total) * interval)
	startMs := startTime.UnixNano() / int64(time.Millisecond)

	seen := make(map[int64]bool)
	var all []models.Candle

	for len(all) < total {
		klines, err := c.GetKlines(ctx, symbol, timeframe, startMs, perRequestLimit)
		if err != nil {
			if len(all) == 0 {
				return nil, err
			}
			logger.Warn("candle batch fetch failed, proceeding with gathered data",
				zap.String("symbol", symbol),
				zap.Int("gathered", len(all)),
				zap.Error(err))
			break
		}
		if len(klines) == 0 {
			break
		}

		added := 0
		for _, k := range klines {
			if seen[k.OpenTime] {
				continue
			}
			seen[k.OpenTime] = true
			all = append(all, klineToCandle(symbol, timeframe, k))
			added++
		}

		lastOpen := klines[len(klines)-1].OpenTime
		startMs = lastOpen + 1

		// No forward progress means the exchange has no newer data.
		if added == 0 || len(klines) < perRequestLimit {
			break
		}
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].OpenTime.Before(all[j].OpenTime)
	})

	if len(all) > total {
		all = all[len(all)-total:]
	}

	logger.Info("fetched candle history",
		zap.String("symbol", symbol),
		zap.String("timeframe", timeframe),
		zap.Int("candles", len(all)))

	return all, nil
}

func klineToCandle(symbol, timeframe string, k *futures.Kline) models.Candle {
	return models.Candle{
		Symbol:     symbol,
		TimeFrame:  timeframe,
		OpenTime:   time.Unix(k.OpenTime/1000, 0),
		CloseTime:  time.Unix(k.CloseTime/1000, 0),
		Open:       parseFloat(k.Open),
		High:       parseFloat(k.High),
		Low:        parseFloat(k.Low),
		Close:      parseFloat(k.Close),
		Volume:     parseFloat(k.Volume),
		TradeCount: k.TradeNum,
	}
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		logger.Error("error parsing float", zap.String("value", s), zap.Error(err))
		return 0
	}
	return f
}
