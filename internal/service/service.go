package service

import (
	"stocksim/config"
	"stocksim/internal/repository"
	"stocksim/pkg/cache"
	"stocksim/pkg/logger"
)

type Service struct {
	TradingService   TradingService
	PortfolioService PortfolioService
	StockService     StockService
	ValuationService ValuationService
}

func NewService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) *Service {
	return &Service{
		TradingService:   NewTradingService(cfg, log, repo),
		PortfolioService: NewPortfolioService(cfg, log, repo, inmemoryCache),
		StockService:     NewStockService(cfg, log, repo, inmemoryCache),
		ValuationService: NewValuationService(cfg, log, repo),
	}
}
