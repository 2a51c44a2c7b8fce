package repository

import (
	"context"

	"gorm.io/gorm"

	"stocksim/internal/dto"
	"stocksim/internal/model"
	"stocksim/pkg/utils"
)

// TransactionRepository is append-only: there is deliberately no update or
// delete method on the ledger.
type TransactionRepository interface {
	Create(ctx context.Context, transaction *model.Transaction, opts ...utils.DBOption) error
	List(ctx context.Context, param dto.TransactionHistoryParam, opts ...utils.DBOption) ([]model.Transaction, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

func (r *transactionRepository) Create(ctx context.Context, transaction *model.Transaction, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(transaction).Error
}

func (r *transactionRepository) List(ctx context.Context, param dto.TransactionHistoryParam, opts ...utils.DBOption) ([]model.Transaction, error) {
	var transactions []model.Transaction
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	tx = tx.Where("portfolio_id = ?", param.PortfolioID)
	if param.Symbol != "" {
		tx = tx.Where("symbol = ?", param.Symbol)
	}

	// Ordering is by the sequential id, not trade_date: simulation dates
	// are user-advanceable and need not be monotonic with insertion.
	if param.Ascending {
		tx = tx.Order("id asc")
	} else {
		tx = tx.Order("id desc")
	}

	if param.Limit > 0 {
		tx = tx.Limit(param.Limit)
	}
	if param.Offset > 0 {
		tx = tx.Offset(param.Offset)
	}

	if err := tx.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}
