package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a single symbol holding. One row per (portfolio, symbol);
// a row with zero shares never exists, full liquidation deletes it.
type Position struct {
	ID                    uint            `gorm:"primaryKey" json:"id"`
	PortfolioID           uint            `gorm:"not null;uniqueIndex:idx_positions_portfolio_symbol" json:"portfolio_id"`
	Symbol                string          `gorm:"not null;uniqueIndex:idx_positions_portfolio_symbol" json:"symbol"`
	Shares                int64           `gorm:"not null" json:"shares"`
	AvgCost               decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"avg_cost"`
	TotalCost             decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total_cost"`
	CurrentPrice          decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"current_price"`
	CurrentValue          decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"current_value"`
	UnrealizedGain        decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unrealized_gain"`
	UnrealizedGainPercent decimal.Decimal `gorm:"type:numeric(10,4);not null" json:"unrealized_gain_percent"`
	CreatedAt             time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Position) TableName() string {
	return "positions"
}

// Revalue recomputes the derived fields against a market price.
func (p *Position) Revalue(price decimal.Decimal) {
	shares := decimal.NewFromInt(p.Shares)
	p.CurrentPrice = price
	p.CurrentValue = shares.Mul(price)
	p.TotalCost = shares.Mul(p.AvgCost)
	p.UnrealizedGain = p.CurrentValue.Sub(p.TotalCost)
	if p.TotalCost.IsZero() {
		p.UnrealizedGainPercent = decimal.Zero
		return
	}
	p.UnrealizedGainPercent = p.UnrealizedGain.Div(p.TotalCost).Mul(decimal.NewFromInt(100))
}

// ApplyBuy folds an additional purchase into the weighted-average cost.
func (p *Position) ApplyBuy(shares int64, price decimal.Decimal) {
	oldShares := decimal.NewFromInt(p.Shares)
	addShares := decimal.NewFromInt(shares)
	newShares := oldShares.Add(addShares)

	oldCost := oldShares.Mul(p.AvgCost)
	addCost := addShares.Mul(price)
	p.AvgCost = oldCost.Add(addCost).Div(newShares)
	p.Shares += shares
	p.Revalue(price)
}

// ApplySell reduces the holding. Average cost is unchanged by a partial
// sell; only the cost basis shrinks proportionally.
func (p *Position) ApplySell(shares int64, price decimal.Decimal) {
	p.Shares -= shares
	p.Revalue(price)
}
