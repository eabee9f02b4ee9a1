package repositories

import (
	"CryptoBacktest/internal/models"
	"errors"

	"gorm.io/gorm"
)

type BacktestRepository struct {
	db *gorm.DB
}

// NewBacktestRepository creates a new instance of BacktestRepository
func NewBacktestRepository(db *gorm.DB) *BacktestRepository {
	return &BacktestRepository{db: db}
}

// SaveRun stores a completed run and its trades in one transaction.
func (r *BacktestRepository) SaveRun(run *models.BacktestRun, trades []models.TradeRecord) error {
	if run == nil {
		return errors.New("run cannot be nil")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		for i := range trades {
			trades[i].RunID = run.ID
		}
		if len(trades) == 0 {
			return nil
		}
		return tx.CreateInBatches(trades, 200).Error
	})
}

// FindRunByID retrieves a run by its ID
func (r *BacktestRepository) FindRunByID(id uint) (*models.BacktestRun, error) {
	if id == 0 {
		return nil, errors.New("invalid id")
	}
	var run models.BacktestRun
	err := r.db.First(&run, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &run, err
}

// FindRunsBySymbol retrieves all runs for a symbol, newest first
func (r *BacktestRepository) FindRunsBySymbol(symbol string) ([]models.BacktestRun, error) {
	if symbol == "" {
		return nil, errors.New("invalid symbol")
	}
	var runs []models.BacktestRun
	err := r.db.Where("symbol = ?", symbol).
		Order("created_at DESC").
		Find(&runs).Error
	return runs, err
}

// FindTradesByRun retrieves the trades of a run, ascending by entry time
func (r *BacktestRepository) FindTradesByRun(runID uint) ([]models.TradeRecord, error) {
	if runID == 0 {
		return nil, errors.New("invalid run id")
	}
	var trades []models.TradeRecord
	err := r.db.Where("run_id = ?", runID).
		Order("entry_time ASC").
		Find(&trades).Error
	return trades, err
}
