package repository

import (
	"gorm.io/gorm"

	"stocksim/config"
	"stocksim/pkg/logger"
)

type Repository struct {
	UserRepo        UserRepository
	PortfolioRepo   PortfolioRepository
	PositionRepo    PositionRepository
	TransactionRepo TransactionRepository
	SnapshotRepo    PortfolioSnapshotRepository
	StockRepo       StockRepository
	UnitOfWork      UnitOfWork
}

func NewRepository(cfg *config.Config, db *gorm.DB, log *logger.Logger) (*Repository, error) {
	return &Repository{
		UserRepo:        NewUserRepository(db),
		PortfolioRepo:   NewPortfolioRepository(db),
		PositionRepo:    NewPositionRepository(db),
		TransactionRepo: NewTransactionRepository(db),
		SnapshotRepo:    NewPortfolioSnapshotRepository(db),
		StockRepo:       NewStockRepository(db),
		UnitOfWork:      NewUnitOfWork(db),
	}, nil
}
