package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"stocksim/config"
	"stocksim/internal/dto"
	"stocksim/internal/model"
	"stocksim/internal/repository"
	"stocksim/pkg/cache"
	"stocksim/pkg/common"
	"stocksim/pkg/logger"
)

type StockService interface {
	List(ctx context.Context) ([]model.Stock, error)
	SetPrice(ctx context.Context, symbol string, price decimal.Decimal) error
}

type stockService struct {
	cfg           *config.Config
	log           *logger.Logger
	stockRepo     repository.StockRepository
	inmemoryCache cache.Cache
}

func NewStockService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) StockService {
	return &stockService{
		cfg:           cfg,
		log:           log,
		stockRepo:     repo.StockRepo,
		inmemoryCache: inmemoryCache,
	}
}

func (s *stockService) List(ctx context.Context) ([]model.Stock, error) {
	return s.stockRepo.List(ctx)
}

// SetPrice records a new quote for a symbol. Open positions pick it up on
// their next revaluation; the engine itself never fetches prices.
func (s *stockService) SetPrice(ctx context.Context, symbol string, price decimal.Decimal) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return fmt.Errorf("%w: symbol is required", dto.ErrValidation)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", dto.ErrValidation)
	}

	if err := s.stockRepo.UpdatePrice(ctx, symbol, price); err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: %s", dto.ErrStockNotFound, symbol)
		}
		return err
	}

	s.inmemoryCache.Set(fmt.Sprintf(common.KeyLastPrice, symbol), price, s.cfg.Cache.DefaultExpiration)

	s.log.InfoContext(ctx, "Quote updated",
		logger.StringField("symbol", symbol),
		logger.StringField("price", price.String()),
	)
	return nil
}
