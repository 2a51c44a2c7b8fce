package service

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"stocksim/config"
	"stocksim/internal/model"
	"stocksim/internal/repository"
	"stocksim/pkg/logger"
	"stocksim/pkg/utils"
)

// ValuationService periodically revalues every portfolio against the
// latest quotes and refreshes the snapshot for its simulation date, so
// charts stay current between trades.
type ValuationService interface {
	Start(ctx context.Context) error
	Stop()
	RevalueAll(ctx context.Context) error
}

type valuationService struct {
	cfg           *config.Config
	log           *logger.Logger
	cron          *cron.Cron
	uow           repository.UnitOfWork
	portfolioRepo repository.PortfolioRepository
	positionRepo  repository.PositionRepository
	snapshotRepo  repository.PortfolioSnapshotRepository
	stockRepo     repository.StockRepository
}

func NewValuationService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
) ValuationService {
	return &valuationService{
		cfg:           cfg,
		log:           log,
		cron:          cron.New(),
		uow:           repo.UnitOfWork,
		portfolioRepo: repo.PortfolioRepo,
		positionRepo:  repo.PositionRepo,
		snapshotRepo:  repo.SnapshotRepo,
		stockRepo:     repo.StockRepo,
	}
}

func (s *valuationService) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cfg.Valuation.CronSpec, func() {
		if err := s.RevalueAll(ctx); err != nil {
			s.log.ErrorContext(ctx, "Valuation run failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Valuation scheduler started", logger.StringField("cron_spec", s.cfg.Valuation.CronSpec))
	return nil
}

func (s *valuationService) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("Valuation scheduler stopped")
}

func (s *valuationService) RevalueAll(ctx context.Context) error {
	stocks, err := s.stockRepo.List(ctx)
	if err != nil {
		return err
	}
	prices := make(map[string]decimal.Decimal, len(stocks))
	for _, stock := range stocks {
		prices[stock.Symbol] = stock.LastPrice
	}

	portfolios, err := s.portfolioRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Valuation.MaxConcurrency)
	for i := range portfolios {
		portfolio := portfolios[i]
		g.Go(func() error {
			if err := s.revalueOne(gctx, portfolio.UserID, prices); err != nil {
				s.log.ErrorContext(gctx, "Failed to revalue portfolio",
					logger.IntField("portfolio_id", int(portfolio.ID)),
					logger.ErrorField(err),
				)
			}
			// One bad portfolio should not abort the sweep.
			return nil
		})
	}
	return g.Wait()
}

func (s *valuationService) revalueOne(ctx context.Context, userID uint, prices map[string]decimal.Decimal) error {
	return s.uow.Run(func(opts ...utils.DBOption) error {
		lockOpts := append(opts, utils.WithLockForUpdate())
		portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID, lockOpts...)
		if err != nil {
			return err
		}
		if portfolio == nil {
			return nil
		}

		positions, err := s.positionRepo.ListByPortfolio(ctx, portfolio.ID, opts...)
		if err != nil {
			return err
		}
		for i := range positions {
			price, ok := prices[positions[i].Symbol]
			if !ok || price.IsZero() {
				continue
			}
			positions[i].Revalue(price)
			if err := s.positionRepo.Save(ctx, &positions[i], opts...); err != nil {
				return err
			}
		}
		Recalculate(portfolio, positions)

		if err := s.portfolioRepo.Save(ctx, portfolio, opts...); err != nil {
			return err
		}

		snapshot := &model.PortfolioSnapshot{
			PortfolioID:    portfolio.ID,
			SnapshotDate:   portfolio.SimulationDate,
			TotalValue:     portfolio.TotalValue,
			CashBalance:    portfolio.CashBalance,
			UnrealizedGain: portfolio.TotalValue.Sub(portfolio.CashBalance).Sub(portfolio.TotalCost),
		}
		return s.snapshotRepo.Upsert(ctx, snapshot, opts...)
	})
}
