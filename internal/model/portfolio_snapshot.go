package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioSnapshot is the once-per-day portfolio valuation used for
// charting. At most one row per (portfolio, date); a repeat write for the
// same date overwrites the value fields.
type PortfolioSnapshot struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PortfolioID    uint            `gorm:"not null;uniqueIndex:idx_portfolio_snapshots_portfolio_date" json:"portfolio_id"`
	SnapshotDate   time.Time       `gorm:"type:date;not null;uniqueIndex:idx_portfolio_snapshots_portfolio_date" json:"snapshot_date"`
	TotalValue     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total_value"`
	CashBalance    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"cash_balance"`
	UnrealizedGain decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unrealized_gain"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (PortfolioSnapshot) TableName() string {
	return "portfolio_snapshots"
}
