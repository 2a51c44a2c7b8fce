package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stocksim/internal/model"
)

type TradeRequest struct {
	Symbol string          `json:"symbol" validate:"required"`
	Shares int64           `json:"shares" validate:"required,gt=0"`
	Price  decimal.Decimal `json:"price" validate:"required"`
	// Optional simulation date, YYYY-MM-DD. When absent the handler
	// settles the trade on the day before the portfolio's simulation
	// date.
	Date string `json:"date,omitempty"`
}

type TradeResult struct {
	Transaction   model.Transaction `json:"transaction"`
	RemainingCash decimal.Decimal   `json:"remaining_cash"`
}

type TradeResponse struct {
	Type          model.TransactionType `json:"type"`
	Symbol        string                `json:"symbol"`
	Shares        int64                 `json:"shares"`
	Price         decimal.Decimal       `json:"price"`
	Total         decimal.Decimal       `json:"total"`
	RealizedGain  *decimal.Decimal      `json:"realized_gain,omitempty"`
	TradeDate     string                `json:"trade_date"`
	RemainingCash decimal.Decimal       `json:"remaining_cash"`
}

func NewTradeResponse(res *TradeResult) *TradeResponse {
	return &TradeResponse{
		Type:          res.Transaction.Type,
		Symbol:        res.Transaction.Symbol,
		Shares:        res.Transaction.Shares,
		Price:         res.Transaction.Price,
		Total:         res.Transaction.Total,
		RealizedGain:  res.Transaction.RealizedGain,
		TradeDate:     res.Transaction.TradeDate.Format("2006-01-02"),
		RemainingCash: res.RemainingCash,
	}
}

type TransactionHistoryParam struct {
	PortfolioID uint
	Symbol      string
	Limit       int
	Offset      int
	// Ascending orders by id oldest-first (per-symbol charting); the
	// default ledger view is newest-first.
	Ascending bool
}

type SnapshotRangeParam struct {
	PortfolioID uint
	From        time.Time
	To          time.Time
}
