package models

import "time"

// BacktestRun is the persisted form of a completed backtest report.
type BacktestRun struct {
	ID        uint   `gorm:"primaryKey"`
	Symbol    string `gorm:"index;not null"`
	TimeFrame string `gorm:"not null"`
	Strategy  string `gorm:"not null"`

	InitialBalance float64 `gorm:"type:decimal(20,8);not null"`
	FinalBalance   float64 `gorm:"type:decimal(20,8);not null"`
	TotalReturn    float64 `gorm:"type:decimal(20,8)"`
	TotalFees      float64 `gorm:"type:decimal(20,8)"`
	MaxDrawdown    float64 `gorm:"type:decimal(20,8)"`
	SharpeRatio    float64 `gorm:"type:decimal(20,8)"`

	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64 `gorm:"type:decimal(20,8)"`
	ProfitFactor  float64 `gorm:"type:decimal(20,8)"`

	StoppedEarly bool
	StopReason   string

	StartTime time.Time `gorm:"index"`
	EndTime   time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (BacktestRun) TableName() string {
	return "backtest_runs"
}

// TradeRecord is one closed trade belonging to a BacktestRun.
type TradeRecord struct {
	ID    uint `gorm:"primaryKey"`
	RunID uint `gorm:"index;not null"`

	EntryPrice    float64 `gorm:"type:decimal(20,8);not null"`
	ExitPrice     float64 `gorm:"type:decimal(20,8);not null"`
	Quantity      float64 `gorm:"type:decimal(20,8);not null"`
	GrossProfit   float64 `gorm:"type:decimal(20,8)"`
	NetProfit     float64 `gorm:"type:decimal(20,8)"`
	ProfitPercent float64 `gorm:"type:decimal(20,8)"`
	FeesPaid      float64 `gorm:"type:decimal(20,8)"`
	Reason        string  `gorm:"not null"`

	EntryTime       time.Time `gorm:"index;not null"`
	ExitTime        time.Time `gorm:"index"`
	DurationMinutes float64   `gorm:"type:decimal(20,8)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`

	Run BacktestRun `gorm:"foreignKey:RunID"`
}

func (TradeRecord) TableName() string {
	return "backtest_trades"
}
