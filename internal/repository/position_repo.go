package repository

import (
	"context"

	"gorm.io/gorm"

	"stocksim/internal/model"
	"stocksim/pkg/utils"
)

type PositionRepository interface {
	GetBySymbol(ctx context.Context, portfolioID uint, symbol string, opts ...utils.DBOption) (*model.Position, error)
	ListByPortfolio(ctx context.Context, portfolioID uint, opts ...utils.DBOption) ([]model.Position, error)
	Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) error
	Save(ctx context.Context, position *model.Position, opts ...utils.DBOption) error
	Delete(ctx context.Context, position *model.Position, opts ...utils.DBOption) error
}

type positionRepository struct {
	db *gorm.DB
}

func NewPositionRepository(db *gorm.DB) PositionRepository {
	return &positionRepository{
		db: db,
	}
}

func (r *positionRepository) GetBySymbol(ctx context.Context, portfolioID uint, symbol string, opts ...utils.DBOption) (*model.Position, error) {
	var position model.Position
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where("portfolio_id = ? AND symbol = ?", portfolioID, symbol).First(&position)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}

	return &position, nil
}

func (r *positionRepository) ListByPortfolio(ctx context.Context, portfolioID uint, opts ...utils.DBOption) ([]model.Position, error) {
	var positions []model.Position
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Where("portfolio_id = ?", portfolioID).Order("symbol asc").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *positionRepository) Create(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Create(position).Error
}

func (r *positionRepository) Save(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Save(position).Error
}

func (r *positionRepository) Delete(ctx context.Context, position *model.Position, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	return tx.Delete(position).Error
}
