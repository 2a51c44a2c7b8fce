package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksim/internal/dto"
	"stocksim/internal/model"
)

func newPortfolioFixture(t *testing.T) (*fakeStore, PortfolioService) {
	t.Helper()
	store := newFakeStore()
	store.seedStock("AAPL", "Apple Inc.", "150")
	svc := NewPortfolioService(newTestConfig(), newTestLogger(), newTestRepository(store), newTestCache())
	return store, svc
}

func TestRecalculate(t *testing.T) {
	portfolio := &model.Portfolio{
		CashBalance:    decimal.RequireFromString("6800"),
		InitialBalance: decimal.RequireFromString("10000"),
	}
	positions := []model.Position{
		{
			Shares:       20,
			AvgCost:      decimal.RequireFromString("160"),
			TotalCost:    decimal.RequireFromString("3200"),
			CurrentValue: decimal.RequireFromString("4000"),
		},
	}

	Recalculate(portfolio, positions)

	assertDecimal(t, "3200", portfolio.TotalCost)
	assertDecimal(t, "10800", portfolio.TotalValue)
	assertDecimal(t, "800", portfolio.TotalReturn)
	assertDecimal(t, "8", portfolio.TotalReturnPercent)

	// total_value == cash_balance + sum(position.current_value)
	assert.True(t, portfolio.TotalValue.Equal(portfolio.CashBalance.Add(positions[0].CurrentValue)))
}

func TestRecalculate_Idempotent(t *testing.T) {
	portfolio := &model.Portfolio{
		CashBalance:    decimal.RequireFromString("5000"),
		InitialBalance: decimal.RequireFromString("10000"),
	}
	positions := []model.Position{
		{TotalCost: decimal.RequireFromString("5000"), CurrentValue: decimal.RequireFromString("5500")},
	}

	Recalculate(portfolio, positions)
	firstValue := portfolio.TotalValue
	firstReturn := portfolio.TotalReturn

	Recalculate(portfolio, positions)
	assert.True(t, firstValue.Equal(portfolio.TotalValue))
	assert.True(t, firstReturn.Equal(portfolio.TotalReturn))
}

func TestRecalculate_ZeroInitialBalance(t *testing.T) {
	portfolio := &model.Portfolio{
		CashBalance:    decimal.RequireFromString("100"),
		InitialBalance: decimal.Zero,
	}

	Recalculate(portfolio, nil)

	assertDecimal(t, "0", portfolio.TotalReturnPercent)
}

func TestCreatePortfolio(t *testing.T) {
	_, svc := newPortfolioFixture(t)
	ctx := context.Background()

	portfolio, err := svc.Create(ctx, 1, nil)
	require.NoError(t, err)
	assertDecimal(t, "10000", portfolio.CashBalance)
	assertDecimal(t, "10000", portfolio.InitialBalance)
	assert.Equal(t, "2024-01-02", portfolio.SimulationDate.Format("2006-01-02"))

	_, err = svc.Create(ctx, 1, nil)
	assert.ErrorIs(t, err, dto.ErrPortfolioExists)
}

func TestCreatePortfolio_ExplicitBalance(t *testing.T) {
	_, svc := newPortfolioFixture(t)

	balance := decimal.RequireFromString("25000")
	portfolio, err := svc.Create(context.Background(), 2, &balance)
	require.NoError(t, err)
	assertDecimal(t, "25000", portfolio.InitialBalance)

	negative := decimal.RequireFromString("-1")
	_, err = svc.Create(context.Background(), 3, &negative)
	assert.ErrorIs(t, err, dto.ErrValidation)
}

func TestGetPortfolio_NotFound(t *testing.T) {
	_, svc := newPortfolioFixture(t)

	_, err := svc.Get(context.Background(), 404)
	assert.ErrorIs(t, err, dto.ErrPortfolioNotFound)
}

func TestGetPortfolio_RevaluesAgainstLastPrice(t *testing.T) {
	store, svc := newPortfolioFixture(t)
	portfolio := store.seedPortfolio(7, "8500", "2024-03-01")
	store.positions[portfolio.ID] = map[string]*model.Position{
		"AAPL": {
			PortfolioID: portfolio.ID,
			Symbol:      "AAPL",
			Shares:      10,
			AvgCost:     decimal.RequireFromString("120"),
		},
	}

	view, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, view.Positions, 1)

	// Last quote for AAPL is 150.
	assertDecimal(t, "1500", view.Positions[0].CurrentValue)
	assertDecimal(t, "300", view.Positions[0].UnrealizedGain)
	assertDecimal(t, "25", view.Positions[0].UnrealizedGainPercent)
	assertDecimal(t, "10000", view.Portfolio.TotalValue)
}

func TestAdvanceDate(t *testing.T) {
	store, svc := newPortfolioFixture(t)
	store.seedPortfolio(5, "10000", "2024-03-01")

	portfolio, err := svc.AdvanceDate(context.Background(), 5, 3)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", portfolio.SimulationDate.Format("2006-01-02"))

	var count int
	for _, s := range store.snapshots {
		if s.PortfolioID == portfolio.ID {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestAdvanceDate_Validation(t *testing.T) {
	store, svc := newPortfolioFixture(t)
	store.seedPortfolio(6, "10000", "2024-03-01")

	_, err := svc.AdvanceDate(context.Background(), 6, 0)
	assert.ErrorIs(t, err, dto.ErrValidation)

	_, err = svc.AdvanceDate(context.Background(), 99, 1)
	assert.ErrorIs(t, err, dto.ErrPortfolioNotFound)
}
