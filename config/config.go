package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func Load() (*config, error) {
	if err := godotenv.Load(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	cfg := &config{
		Exchange: ExchangeConfig{
			APIKey:    os.Getenv("BINANCE_API_KEY"),
			SecretKey: os.Getenv("BINANCE_SECRET_KEY"),
		},
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     EnvtoInt(os.Getenv("DB_PORT")),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   os.Getenv("DB_NAME"),
		},
		Backtest: loadBacktestConfig(),
		Symbols:  getSymbols(),
		Debug:    os.Getenv("DEBUG") == "true",
		Record:   os.Getenv("RECORD_CANDLES") == "true",
	}

	if cfg.Database.Host == "" || cfg.Database.DBName == "" {
		return nil, fmt.Errorf("database configuration is incomplete")
	}

	return cfg, nil
}

func loadBacktestConfig() BacktestConfig {
	cfg := BacktestConfig{
		InitialBalance:    EnvtoFloat("INITIAL_BALANCE", 1000),
		Leverage:          EnvtoFloat("LEVERAGE", 10),
		MarginMode:        getMarginMode(),
		RiskPerTrade:      EnvtoFloat("RISK_PER_TRADE", 0.02),
		MaxPositionSize:   EnvtoFloat("MAX_POSITION_SIZE", 0.09),
		StopLossPercent:   EnvtoFloat("STOP_LOSS_PERCENT", 0.005),
		TakeProfitPercent: EnvtoFloat("TAKE_PROFIT_PERCENT", 0.018),
		MakerFee:          EnvtoFloat("MAKER_FEE", 0.001),
		TakerFee:          EnvtoFloat("TAKER_FEE", 0.001),
		MaxDailyTrades:    EnvtoIntDefault("MAX_DAILY_TRADES", 10),
		MaxDailyLosses:    EnvtoIntDefault("MAX_DAILY_LOSSES", 3),
		DailyLossLimit:    EnvtoFloat("DAILY_LOSS_LIMIT", 0),
		MaxTotalTrades:    EnvtoIntDefault("MAX_TOTAL_TRADES", 1000),
		MinViableBalance:  EnvtoFloat("MIN_VIABLE_BALANCE", 10),
		MinOrderValue:     EnvtoFloat("MIN_ORDER_VALUE", 10),
		Strategy:          os.Getenv("STRATEGY"),
		TimeFrame:         os.Getenv("TIMEFRAME"),
		CandleLimit:       EnvtoIntDefault("CANDLE_LIMIT", 2000),
	}

	if cfg.Strategy == "" {
		cfg.Strategy = "momentum"
	}
	if cfg.TimeFrame == "" {
		cfg.TimeFrame = "5m"
	}

	return cfg
}

// helper env(string) to int
func EnvtoInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return i
}

func EnvtoIntDefault(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func EnvtoFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return f
}

func getMarginMode() string {
	mode := strings.ToLower(os.Getenv("MARGIN_MODE"))
	if mode != MarginModeCross {
		return MarginModeIsolated
	}
	return mode
}

// helper to get symbols
func getSymbols() []string {
	symbols := os.Getenv("TRADING_SYMBOLS")
	if symbols == "" {
		return []string{"BTCUSDT", "ETHUSDT"} // Default pairs if none specified
	}
	return strings.Split(symbols, ",")
}
