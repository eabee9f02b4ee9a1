package repositories

import (
	"CryptoBacktest/internal/models"
	"errors"
	"time"

	"gorm.io/gorm"
)

type CandleRepository struct {
	db *gorm.DB
}

// NewCandleRepository creates a new instance of CandleRepository
func NewCandleRepository(db *gorm.DB) *CandleRepository {
	return &CandleRepository{db: db}
}

// Create adds a new Candle record to the database
func (r *CandleRepository) Create(candle *models.Candle) error {
	if candle == nil {
		return errors.New("candle cannot be nil")
	}
	return r.db.Create(candle).Error
}

// CreateBatch inserts candles in one statement, skipping timestamp
// duplicates already present for the symbol and timeframe.
func (r *CandleRepository) CreateBatch(candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}
	return r.db.CreateInBatches(candles, 500).Error
}

// GetCandlesByTimeFrame retrieves candles for a symbol/timeframe within a
// time range, ascending by open time.
func (r *CandleRepository) GetCandlesByTimeFrame(symbol, timeframe string, start, end time.Time) ([]models.Candle, error) {
	if symbol == "" || timeframe == "" {
		return nil, errors.New("invalid symbol or timeframe")
	}
	var candles []models.Candle
	err := r.db.Where("symbol = ? AND time_frame = ? AND open_time BETWEEN ? AND ?",
		symbol, timeframe, start, end).
		Order("open_time ASC").
		Find(&candles).Error
	return candles, err
}

// GetLatestCandles retrieves the most recent N candles, ascending.
func (r *CandleRepository) GetLatestCandles(symbol, timeframe string, limit int) ([]models.Candle, error) {
	if symbol == "" || timeframe == "" {
		return nil, errors.New("invalid symbol or timeframe")
	}
	var candles []models.Candle
	err := r.db.Where("symbol = ? AND time_frame = ?", symbol, timeframe).
		Order("open_time DESC").
		Limit(limit).
		Find(&candles).Error
	if err != nil {
		return nil, err
	}
	// Flip back to ascending order
	for i, j := 0, len(candles)-1; i < j; i, j = i+1, j-1 {
		candles[i], candles[j] = candles[j], candles[i]
	}
	return candles, nil
}

// LatestOpenTime returns the newest stored open time for a symbol and
// timeframe, or the zero time when none exist.
func (r *CandleRepository) LatestOpenTime(symbol, timeframe string) (time.Time, error) {
	var candle models.Candle
	err := r.db.Where("symbol = ? AND time_frame = ?", symbol, timeframe).
		Order("open_time DESC").
		First(&candle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	return candle.OpenTime, err
}

// Delete removes a Candle record from the database
func (r *CandleRepository) Delete(candle *models.Candle) error {
	if candle == nil {
		return errors.New("candle cannot be nil")
	}
	return r.db.Delete(candle).Error
}
