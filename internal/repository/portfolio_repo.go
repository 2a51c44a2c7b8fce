package repository

import (
	"context"

	"gorm.io/gorm"

	"stocksim/internal/model"
	"stocksim/pkg/utils"
)

type PortfolioRepository interface {
	GetByUserID(ctx context.Context, userID uint, opts ...utils.DBOption) (*model.Portfolio, error)
	ListAll(ctx context.Context, opts ...utils.DBOption) ([]model.Portfolio, error)
	Create(ctx context.Context, portfolio *model.Portfolio, opts ...utils.DBOption) error
	Save(ctx context.Context, portfolio *model.Portfolio, opts ...utils.DBOption) error
}

type portfolioRepository struct {
	db *gorm.DB
}

func NewPortfolioRepository(db *gorm.DB) PortfolioRepository {
	return &portfolioRepository{
		db: db,
	}
}

func (r *portfolioRepository) GetByUserID(ctx context.Context, userID uint, opts ...utils.DBOption) (*model.Portfolio, error) {
	var portfolio model.Portfolio
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where("user_id = ?", userID).First(&portfolio)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}

	return &portfolio, nil
}

func (r *portfolioRepository) ListAll(ctx context.Context, opts ...utils.DBOption) ([]model.Portfolio, error) {
	var portfolios []model.Portfolio
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Find(&portfolios).Error; err != nil {
		return nil, err
	}
	return portfolios, nil
}

func (r *portfolioRepository) Create(ctx context.Context, portfolio *model.Portfolio, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(portfolio).Error
}

// Save writes the full row. Updates would skip zero-valued decimals, which
// a drained cash balance legitimately is.
func (r *portfolioRepository) Save(ctx context.Context, portfolio *model.Portfolio, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Save(portfolio).Error
}
