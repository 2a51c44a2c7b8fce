package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeBuy  TransactionType = "BUY"
	TransactionTypeSell TransactionType = "SELL"
)

// Transaction is one executed trade. Rows are append-only: never updated,
// never deleted. RealizedGain is set on SELL only, so profit and loss stay
// derivable after a position is fully liquidated.
type Transaction struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	PortfolioID  uint             `gorm:"not null;index" json:"portfolio_id"`
	Type         TransactionType  `gorm:"not null" json:"type"`
	Symbol       string           `gorm:"not null;index" json:"symbol"`
	Shares       int64            `gorm:"not null" json:"shares"`
	Price        decimal.Decimal  `gorm:"type:numeric(18,4);not null" json:"price"`
	Total        decimal.Decimal  `gorm:"type:numeric(18,4);not null" json:"total"`
	RealizedGain *decimal.Decimal `gorm:"type:numeric(18,4)" json:"realized_gain,omitempty"`
	CashAfter    decimal.Decimal  `gorm:"type:numeric(18,4);not null" json:"cash_after"`
	TradeDate    time.Time        `gorm:"type:date;not null" json:"trade_date"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}
