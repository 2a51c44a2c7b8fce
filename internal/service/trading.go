package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stocksim/config"
	"stocksim/internal/dto"
	"stocksim/internal/model"
	"stocksim/internal/repository"
	"stocksim/pkg/logger"
	"stocksim/pkg/utils"
)

// TradingService executes simulated BUY and SELL orders. Each order is one
// atomic unit of work: position update, cash adjustment, ledger append,
// portfolio recalculation and daily snapshot commit together or not at all.
type TradingService interface {
	ExecuteBuy(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal, tradeDate time.Time) (*dto.TradeResult, error)
	ExecuteSell(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal, tradeDate time.Time) (*dto.TradeResult, error)
	GetHistory(ctx context.Context, userID uint, limit, offset int) ([]model.Transaction, error)
	GetSymbolHistory(ctx context.Context, userID uint, symbol string) ([]model.Transaction, error)
}

type tradingService struct {
	cfg             *config.Config
	log             *logger.Logger
	uow             repository.UnitOfWork
	portfolioRepo   repository.PortfolioRepository
	positionRepo    repository.PositionRepository
	transactionRepo repository.TransactionRepository
	snapshotRepo    repository.PortfolioSnapshotRepository
	stockRepo       repository.StockRepository
}

func NewTradingService(
	cfg *config.Config,
	log *logger.Logger,
	repo *repository.Repository,
) TradingService {
	return &tradingService{
		cfg:             cfg,
		log:             log,
		uow:             repo.UnitOfWork,
		portfolioRepo:   repo.PortfolioRepo,
		positionRepo:    repo.PositionRepo,
		transactionRepo: repo.TransactionRepo,
		snapshotRepo:    repo.SnapshotRepo,
		stockRepo:       repo.StockRepo,
	}
}

func validateOrder(symbol string, shares int64, price decimal.Decimal, tradeDate time.Time) error {
	if strings.TrimSpace(symbol) == "" {
		return fmt.Errorf("%w: symbol is required", dto.ErrValidation)
	}
	if shares <= 0 {
		return fmt.Errorf("%w: shares must be a positive integer", dto.ErrValidation)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: price must be positive", dto.ErrValidation)
	}
	if tradeDate.IsZero() {
		return fmt.Errorf("%w: trade date is required", dto.ErrValidation)
	}
	return nil
}

func (s *tradingService) ExecuteBuy(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal, tradeDate time.Time) (*dto.TradeResult, error) {
	if err := validateOrder(symbol, shares, price, tradeDate); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	tradeDate = utils.TruncateToDay(tradeDate)
	total := price.Mul(decimal.NewFromInt(shares))

	var result *dto.TradeResult
	err := s.uow.Run(func(opts ...utils.DBOption) error {
		// The portfolio row lock serializes concurrent trades on the same
		// portfolio; trades on different portfolios do not contend.
		lockOpts := append(opts, utils.WithLockForUpdate())
		portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID, lockOpts...)
		if err != nil {
			return err
		}
		if portfolio == nil {
			return dto.ErrPortfolioNotFound
		}

		stock, err := s.stockRepo.GetBySymbol(ctx, symbol, opts...)
		if err != nil {
			return err
		}
		if stock == nil {
			return fmt.Errorf("%w: %s", dto.ErrStockNotFound, symbol)
		}

		if portfolio.CashBalance.LessThan(total) {
			return fmt.Errorf("%w: need %s, have %s", dto.ErrInsufficientFunds, total, portfolio.CashBalance)
		}

		position, err := s.positionRepo.GetBySymbol(ctx, portfolio.ID, symbol, opts...)
		if err != nil {
			return err
		}
		if position == nil {
			position = &model.Position{
				PortfolioID: portfolio.ID,
				Symbol:      symbol,
				Shares:      shares,
				AvgCost:     price,
			}
			position.Revalue(price)
			if err := s.positionRepo.Create(ctx, position, opts...); err != nil {
				return err
			}
		} else {
			position.ApplyBuy(shares, price)
			if err := s.positionRepo.Save(ctx, position, opts...); err != nil {
				return err
			}
		}

		portfolio.CashBalance = portfolio.CashBalance.Sub(total)

		transaction := &model.Transaction{
			PortfolioID: portfolio.ID,
			Type:        model.TransactionTypeBuy,
			Symbol:      symbol,
			Shares:      shares,
			Price:       price,
			Total:       total,
			CashAfter:   portfolio.CashBalance,
			TradeDate:   tradeDate,
		}
		if err := s.transactionRepo.Create(ctx, transaction, opts...); err != nil {
			return err
		}

		if err := s.finalizeTrade(ctx, portfolio, tradeDate, opts...); err != nil {
			return err
		}

		result = &dto.TradeResult{
			Transaction:   *transaction,
			RemainingCash: portfolio.CashBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Buy order executed",
		logger.IntField("user_id", int(userID)),
		logger.StringField("symbol", symbol),
		logger.IntField("shares", int(shares)),
		logger.StringField("price", price.String()),
	)
	return result, nil
}

func (s *tradingService) ExecuteSell(ctx context.Context, userID uint, symbol string, shares int64, price decimal.Decimal, tradeDate time.Time) (*dto.TradeResult, error) {
	if err := validateOrder(symbol, shares, price, tradeDate); err != nil {
		return nil, err
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	tradeDate = utils.TruncateToDay(tradeDate)
	total := price.Mul(decimal.NewFromInt(shares))

	var result *dto.TradeResult
	err := s.uow.Run(func(opts ...utils.DBOption) error {
		lockOpts := append(opts, utils.WithLockForUpdate())
		portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID, lockOpts...)
		if err != nil {
			return err
		}
		if portfolio == nil {
			return dto.ErrPortfolioNotFound
		}

		position, err := s.positionRepo.GetBySymbol(ctx, portfolio.ID, symbol, opts...)
		if err != nil {
			return err
		}
		if position == nil || position.Shares < shares {
			held := int64(0)
			if position != nil {
				held = position.Shares
			}
			return fmt.Errorf("%w: want to sell %d, hold %d", dto.ErrInsufficientShares, shares, held)
		}

		realized := price.Sub(position.AvgCost).Mul(decimal.NewFromInt(shares))

		if position.Shares == shares {
			// Full liquidation removes the row; realized P&L survives on
			// the transaction.
			if err := s.positionRepo.Delete(ctx, position, opts...); err != nil {
				return err
			}
		} else {
			position.ApplySell(shares, price)
			if err := s.positionRepo.Save(ctx, position, opts...); err != nil {
				return err
			}
		}

		portfolio.CashBalance = portfolio.CashBalance.Add(total)

		transaction := &model.Transaction{
			PortfolioID:  portfolio.ID,
			Type:         model.TransactionTypeSell,
			Symbol:       symbol,
			Shares:       shares,
			Price:        price,
			Total:        total,
			RealizedGain: &realized,
			CashAfter:    portfolio.CashBalance,
			TradeDate:    tradeDate,
		}
		if err := s.transactionRepo.Create(ctx, transaction, opts...); err != nil {
			return err
		}

		if err := s.finalizeTrade(ctx, portfolio, tradeDate, opts...); err != nil {
			return err
		}

		result = &dto.TradeResult{
			Transaction:   *transaction,
			RemainingCash: portfolio.CashBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "Sell order executed",
		logger.IntField("user_id", int(userID)),
		logger.StringField("symbol", symbol),
		logger.IntField("shares", int(shares)),
		logger.StringField("price", price.String()),
	)
	return result, nil
}

// finalizeTrade recomputes the portfolio totals from its surviving
// positions and upserts the snapshot for the trade date. Runs inside the
// trade's unit of work.
func (s *tradingService) finalizeTrade(ctx context.Context, portfolio *model.Portfolio, tradeDate time.Time, opts ...utils.DBOption) error {
	positions, err := s.positionRepo.ListByPortfolio(ctx, portfolio.ID, opts...)
	if err != nil {
		return err
	}
	Recalculate(portfolio, positions)

	if err := s.portfolioRepo.Save(ctx, portfolio, opts...); err != nil {
		return err
	}

	snapshot := &model.PortfolioSnapshot{
		PortfolioID:    portfolio.ID,
		SnapshotDate:   tradeDate,
		TotalValue:     portfolio.TotalValue,
		CashBalance:    portfolio.CashBalance,
		UnrealizedGain: portfolio.TotalValue.Sub(portfolio.CashBalance).Sub(portfolio.TotalCost),
	}
	return s.snapshotRepo.Upsert(ctx, snapshot, opts...)
}

func (s *tradingService) GetHistory(ctx context.Context, userID uint, limit, offset int) ([]model.Transaction, error) {
	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, dto.ErrPortfolioNotFound
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.transactionRepo.List(ctx, dto.TransactionHistoryParam{
		PortfolioID: portfolio.ID,
		Limit:       limit,
		Offset:      offset,
	})
}

func (s *tradingService) GetSymbolHistory(ctx context.Context, userID uint, symbol string) ([]model.Transaction, error) {
	if strings.TrimSpace(symbol) == "" {
		return nil, fmt.Errorf("%w: symbol is required", dto.ErrValidation)
	}

	portfolio, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolio == nil {
		return nil, dto.ErrPortfolioNotFound
	}

	return s.transactionRepo.List(ctx, dto.TransactionHistoryParam{
		PortfolioID: portfolio.ID,
		Symbol:      strings.ToUpper(strings.TrimSpace(symbol)),
		Ascending:   true,
	})
}
