package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/config"
	"stocksim/internal/dto"
	"stocksim/internal/model"
	"stocksim/internal/repository"
	"stocksim/pkg/cache"
	"stocksim/pkg/common"
	"stocksim/pkg/logger"
	"stocksim/pkg/utils"
)

type PortfolioService interface {
	Create(ctx context.Context, userID uint, initialBalance *decimal.Decimal) (*model.Portfolio, error)
	Get(ctx context.Context, userID uint) (*dto.PortfolioView, error)
	GetSnapshots(ctx context.Context, userID uint, from, to time.Time) ([]model.PortfolioSnapshot, error)
	AdvanceDate(ctx context.Context, userID uint, days int) (*model.Portfolio, error)
}

type portfolioService struct {
	cfg           *config.Config
	log           *logger.Logger
	uow           repository.UnitOfWork
	userRepo      repository.UserRepository
	portfolioRepo repository.PortfolioRepository
	positionRepo  repository.PositionRepository
	snapshotRepo  repository.PortfolioSnapshotRepository
	stockRepo     repository.StockRepository
	inmemoryCache cache.Cache
}

func NewPortfolioService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
	inmemoryCache cache.Cache,
) PortfolioService {
	return &portfolioService{
		cfg:           cfg,
		log:           log,
		uow:           repo.UnitOfWork,
		userRepo:      repo.UserRepo,
		portfolioRepo: repo.PortfolioRepo,
		positionRepo:  repo.PositionRepo,
		snapshotRepo:  repo.SnapshotRepo,
		stockRepo:     repo.StockRepo,
		inmemoryCache: inmemoryCache,
	}
}

// Recalculate derives the portfolio totals from cash plus the current set
// of positions. It is a pure derivation: no side effects, and running it
// twice in a row yields the same result.
func Recalculate(portfolio *model.Portfolio, positions []model.Position) {
	totalCost := decimal.Zero
	positionValue := decimal.Zero
	for i := range positions {
		totalCost = totalCost.Add(positions[i].TotalCost)
		positionValue = positionValue.Add(positions[i].CurrentValue)
	}

	portfolio.TotalCost = totalCost
	portfolio.TotalValue = portfolio.CashBalance.Add(positionValue)
	portfolio.TotalReturn = portfolio.TotalValue.Sub(portfolio.InitialBalance)
	if portfolio.InitialBalance.IsZero() {
		portfolio.TotalReturnPercent = decimal.Zero
		return
	}
	portfolio.TotalReturnPercent = portfolio.TotalReturn.Div(portfolio.InitialBalance).Mul(decimal.NewFromInt(100))
}

func (s *portfolioService) Create(ctx context.Context, userID uint, initialBalance *decimal.Decimal) (*model.Portfolio, error) {
	existing, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, dto.ErrPortfolioExists
	}

	balance := decimal.Zero
	if initialBalance != nil {
		balance = *initialBalance
	} else if s.cfg.Simulation.InitialBalance != "" {
		balance, err = decimal.NewFromString(s.cfg.Simulation.InitialBalance)
		if err != nil {
			return nil, fmt.Errorf("invalid configured initial balance: %w", err)
		}
	}
	if balance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", dto.ErrValidation)
	}

	startDate := utils.TruncateToDay(time.Now())
	if s.cfg.Simulation.StartDate != "" {
		startDate, err = utils.ParseDate(s.cfg.Simulation.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid configured start date: %w", err)
		}
	}

	portfolio := &model.Portfolio{
		UserID:         userID,
		CashBalance:    balance,
		InitialBalance: balance,
		TotalValue:     balance,
		SimulationDate: startDate,
	}
	err = s.uow.Run(func(opts ...utils.DBOption) error {
		user, err := s.userRepo.GetByID(ctx, userID, opts...)
		if err != nil {
			return err
		}
		if user == nil {
			// Identity lives with the external auth provider; we only
			// materialize the row the portfolio FK needs.
			user = &model.User{
				ID:       userID,
				Email:    fmt.Sprintf("user-%d@stocksim.local", userID),
				Username: fmt.Sprintf("user-%d", userID),
			}
			if err := s.userRepo.Create(ctx, user, opts...); err != nil {
				return err
			}
		}
		return s.portfolioRepo.Create(ctx, portfolio, opts...)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Portfolio created",
		logger.IntField("user_id", int(userID)),
		logger.StringField("initial_balance", balance.String()),
	)
	return portfolio, nil
}

func (s *portfolioService) Get(ctx context.Context, userID uint) (*dto.PortfolioView, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, dto.ErrPortfolioNotFound
	}

	positions, err := s.positionRepo.ListByPortfolio(ctx, portfolio.ID)
	if err != nil {
		return nil, err
	}

	for i := range positions {
		price, err := s.lastPrice(ctx, positions[i].Symbol)
		if err != nil {
			return nil, err
		}
		if !price.IsZero() {
			positions[i].Revalue(price)
		}
	}
	Recalculate(portfolio, positions)

	return &dto.PortfolioView{
		Portfolio: *portfolio,
		Positions: positions,
	}, nil
}

func (s *portfolioService) GetSnapshots(ctx context.Context, userID uint, from, to time.Time) ([]model.PortfolioSnapshot, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, dto.ErrPortfolioNotFound
	}

	return s.snapshotRepo.ListRange(ctx, dto.SnapshotRangeParam{
		PortfolioID: portfolio.ID,
		From:        from,
		To:          to,
	})
}

// AdvanceDate moves the simulated calendar forward, revaluing the
// portfolio and writing one snapshot for every day passed over.
func (s *portfolioService) AdvanceDate(ctx context.Context, userID uint, days int) (*model.Portfolio, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: days must be positive", dto.ErrValidation)
	}

	var result *model.Portfolio
	err := s.uow.Run(func(opts ...utils.DBOption) error {
		lockOpts := append(opts, utils.WithLockForUpdate())
		portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID, lockOpts...)
		if err != nil {
			return err
		}
		if portfolio == nil {
			return dto.ErrPortfolioNotFound
		}

		positions, err := s.positionRepo.ListByPortfolio(ctx, portfolio.ID, opts...)
		if err != nil {
			return err
		}
		for i := range positions {
			price, err := s.lastPrice(ctx, positions[i].Symbol)
			if err != nil {
				return err
			}
			if !price.IsZero() {
				positions[i].Revalue(price)
				if err := s.positionRepo.Save(ctx, &positions[i], opts...); err != nil {
					return err
				}
			}
		}
		Recalculate(portfolio, positions)

		for day := 0; day < days; day++ {
			portfolio.SimulationDate = utils.NextDay(portfolio.SimulationDate)
			snapshot := &model.PortfolioSnapshot{
				PortfolioID:    portfolio.ID,
				SnapshotDate:   portfolio.SimulationDate,
				TotalValue:     portfolio.TotalValue,
				CashBalance:    portfolio.CashBalance,
				UnrealizedGain: portfolio.TotalValue.Sub(portfolio.CashBalance).Sub(portfolio.TotalCost),
			}
			if err := s.snapshotRepo.Upsert(ctx, snapshot, opts...); err != nil {
				return err
			}
		}

		if err := s.portfolioRepo.Save(ctx, portfolio, opts...); err != nil {
			return err
		}
		result = portfolio
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Simulation date advanced",
		logger.IntField("user_id", int(userID)),
		logger.IntField("days", days),
		logger.StringField("simulation_date", utils.FormatDate(result.SimulationDate)),
	)
	return result, nil
}

func (s *portfolioService) lastPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	cacheKey := fmt.Sprintf(common.KeyLastPrice, symbol)
	if price, ok := cache.GetFromCache[decimal.Decimal](s.inmemoryCache, cacheKey); ok {
		return price, nil
	}

	stock, err := s.stockRepo.GetBySymbol(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	if stock == nil {
		return decimal.Zero, nil
	}
	s.inmemoryCache.Set(cacheKey, stock.LastPrice, s.cfg.Cache.DefaultExpiration)
	return stock.LastPrice, nil
}
