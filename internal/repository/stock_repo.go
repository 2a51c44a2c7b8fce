package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stocksim/internal/model"
	"stocksim/pkg/utils"
)

type StockRepository interface {
	GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error)
	List(ctx context.Context, opts ...utils.DBOption) ([]model.Stock, error)
	UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal, opts ...utils.DBOption) error
}

type stockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepository{
		db: db,
	}
}

func (r *stockRepository) GetBySymbol(ctx context.Context, symbol string, opts ...utils.DBOption) (*model.Stock, error) {
	var stock model.Stock
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)

	result := tx.Where("symbol = ?", symbol).First(&stock)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}

	return &stock, nil
}

func (r *stockRepository) List(ctx context.Context, opts ...utils.DBOption) ([]model.Stock, error) {
	var stocks []model.Stock
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	if err := tx.Order("symbol asc").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stockRepository) UpdatePrice(ctx context.Context, symbol string, price decimal.Decimal, opts ...utils.DBOption) error {
	tx := utils.ApplyOptions(r.db.WithContext(ctx), opts...)
	result := tx.Model(&model.Stock{}).Where("symbol = ?", symbol).Updates(map[string]interface{}{
		"last_price": price,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
