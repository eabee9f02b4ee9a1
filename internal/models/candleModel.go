package models

import (
	"time"
)

type Candle struct {
	ID         uint      `gorm:"primaryKey"`
	Symbol     string    `gorm:"index;not null"`
	TimeFrame  string    `gorm:"not null"`
	OpenTime   time.Time `gorm:"index;not null"`
	CloseTime  time.Time `gorm:"index"`
	Open       float64   `gorm:"type:decimal(20,8)"`
	High       float64   `gorm:"type:decimal(20,8)"`
	Low        float64   `gorm:"type:decimal(20,8)"`
	Close      float64   `gorm:"type:decimal(20,8)"`
	Volume     float64   `gorm:"type:decimal(20,8)"`
	TradeCount int64
}

const (
	CandleTimeFrame1m  = "1m"
	CandleTimeFrame5m  = "5m"
	CandleTimeFrame15m = "15m"
	CandleTimeFrame1h  = "1h"
	CandleTimeFrame4h  = "4h"
)

// TableName sets the table name for Candle model
func (Candle) TableName() string {
	return "candles"
}

// Interval returns the candle width for a timeframe string.
func Interval(timeframe string) time.Duration {
	switch timeframe {
	case CandleTimeFrame1m:
		return time.Minute
	case CandleTimeFrame5m:
		return 5 * time.Minute
	case CandleTimeFrame15m:
		return 15 * time.Minute
	case CandleTimeFrame1h:
		return time.Hour
	case CandleTimeFrame4h:
		return 4 * time.Hour
	}
	return time.Minute
}
