package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a tradable instrument. last_price is whatever was pushed in
// last through the admin price endpoint; the engine itself never fetches
// market data.
type Stock struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Symbol    string          `gorm:"not null;uniqueIndex" json:"symbol"`
	Name      string          `gorm:"not null" json:"name"`
	LastPrice decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"last_price"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Stock) TableName() string {
	return "stocks"
}
