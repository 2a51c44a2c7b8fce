package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio holds a user's cash plus derived valuation totals. The derived
// columns (total_value, total_cost, total_return) are recomputed after every
// mutation; cash_balance and initial_balance are the source of truth.
type Portfolio struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	UserID             uint            `gorm:"not null;uniqueIndex" json:"user_id"`
	CashBalance        decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"cash_balance"`
	InitialBalance     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"initial_balance"`
	TotalValue         decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total_value"`
	TotalCost          decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total_cost"`
	TotalReturn        decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total_return"`
	TotalReturnPercent decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"total_return_percent"`
	SimulationDate     time.Time       `gorm:"type:date;not null" json:"simulation_date"`
	User               User            `gorm:"foreignKey:UserID;references:ID" json:"-"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Portfolio) TableName() string {
	return "portfolios"
}
