package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"CryptoBacktest/config"
	"CryptoBacktest/internal/models"
	"CryptoBacktest/internal/operations/backtest"
	"CryptoBacktest/internal/operations/binance"
	"CryptoBacktest/internal/operations/price"
	"CryptoBacktest/internal/repositories"
	"CryptoBacktest/internal/services/strategy"
	"CryptoBacktest/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load config:", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug)
	defer logger.GetLogger().Sync()

	// Setup database
	db := setupDatabase(cfg.Database)

	candleRepo := repositories.NewCandleRepository(db)
	backtestRepo := repositories.NewBacktestRepository(db)

	// Initialize exchange client
	client := binance.NewClient(cfg.Exchange.APIKey, cfg.Exchange.SecretKey)
	fetcher := price.NewFetcher(client, candleRepo, cfg.Symbols)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Fetch and persist candle history
	history, err := fetcher.FetchAndStore(ctx, cfg.Backtest.TimeFrame, cfg.Backtest.CandleLimit)
	if err != nil {
		logger.Fatal("failed to fetch candle history", zap.Error(err))
	}

	// Run one backtest per symbol. Each run gets its own engine, ledger
	// and strategy instance; they are not meant to be shared.
	for _, symbol := range cfg.Symbols {
		candles := history[symbol]

		strat, err := strategy.New(cfg.Backtest.Strategy, cfg.Backtest)
		if err != nil {
			logger.Fatal("failed to create strategy", zap.Error(err))
		}

		engine := backtest.NewEngine(cfg.Backtest, strat, symbol)
		report, err := engine.Run(candles)
		if err != nil {
			logger.Fatal("backtest failed",
				zap.String("symbol", symbol),
				zap.Error(err))
		}

		report.Print()

		out, err := report.JSON()
		if err != nil {
			logger.Error("failed to render report", zap.Error(err))
		} else {
			fmt.Println(string(out))
		}

		run, trades := reportToModels(report)
		if err := backtestRepo.SaveRun(run, trades); err != nil {
			logger.Error("failed to persist backtest run",
				zap.String("symbol", symbol),
				zap.Error(err))
		}
	}

	if !cfg.Record {
		return
	}

	// Keep recording fresh candles until interrupted
	recorder := price.NewRecorder(client, candleRepo, cfg.Symbols, cfg.Backtest.TimeFrame)
	go recorder.Start(ctx)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("shutting down")
	cancel()
}

func setupDatabase(dbConfig config.DatabaseConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		dbConfig.Host,
		dbConfig.Port,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Error),
	})
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(&models.Candle{}, &models.BacktestRun{}, &models.TradeRecord{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	return db
}

func reportToModels(report *backtest.Report) (*models.BacktestRun, []models.TradeRecord) {
	run := &models.BacktestRun{
		Symbol:         report.Symbol,
		TimeFrame:      report.TimeFrame,
		Strategy:       report.Strategy,
		InitialBalance: report.InitialBalance,
		FinalBalance:   report.FinalBalance,
		TotalReturn:    report.TotalReturnPercent,
		TotalFees:      report.TotalFees,
		MaxDrawdown:    report.MaxDrawdownPercent,
		SharpeRatio:    report.SharpeRatio,
		TotalTrades:    report.Stats.TotalTrades,
		WinningTrades:  report.Stats.WinningTrades,
		LosingTrades:   report.Stats.LosingTrades,
		WinRate:        report.Stats.WinRate,
		ProfitFactor:   report.Stats.ProfitFactor,
		StoppedEarly:   report.StoppedEarly,
		StopReason:     report.StopReason,
		StartTime:      report.PeriodStart,
		EndTime:        report.PeriodEnd,
	}

	trades := make([]models.TradeRecord, 0, len(report.Trades))
	for _, t := range report.Trades {
		trades = append(trades, models.TradeRecord{
			EntryPrice:      t.EntryPrice,
			ExitPrice:       t.ExitPrice,
			Quantity:        t.Quantity,
			GrossProfit:     t.GrossProfit,
			NetProfit:       t.NetProfit,
			ProfitPercent:   t.ProfitPercent,
			FeesPaid:        t.FeesPaid,
			Reason:          t.Reason,
			EntryTime:       t.EntryTime,
			ExitTime:        t.ExitTime,
			DurationMinutes: t.DurationMinutes,
		})
	}

	return run, trades
}
