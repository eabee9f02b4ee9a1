package config

type config struct {
	Exchange ExchangeConfig
	Database DatabaseConfig
	Backtest BacktestConfig
	Symbols  []string
	Debug    bool
	Record   bool
}

type ExchangeConfig struct {
	APIKey    string
	SecretKey string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// BacktestConfig is the full simulation configuration. It is loaded once
// and passed by value into the engine, ledger and strategies.
type BacktestConfig struct {
	InitialBalance float64
	Leverage       float64
	MarginMode     string // "isolated" or "cross"

	RiskPerTrade    float64 // fraction of effective balance risked per unit of stop distance
	MaxPositionSize float64 // cap fraction of effective balance

	StopLossPercent   float64 // fallback exit distances
	TakeProfitPercent float64

	MakerFee float64
	TakerFee float64

	MaxDailyTrades   int
	MaxDailyLosses   int
	DailyLossLimit   float64 // 0 disables the limit
	MaxTotalTrades   int
	MinViableBalance float64
	MinOrderValue    float64

	Strategy    string
	TimeFrame   string
	CandleLimit int
}

const (
	MarginModeIsolated = "isolated"
	MarginModeCross    = "cross"
)
