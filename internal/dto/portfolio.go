package dto

import (
	"github.com/shopspring/decimal"

	"stocksim/internal/model"
)

type CreatePortfolioRequest struct {
	InitialBalance *decimal.Decimal `json:"initial_balance,omitempty"`
}

type PortfolioView struct {
	Portfolio model.Portfolio  `json:"portfolio"`
	Positions []model.Position `json:"positions"`
}

type AdvanceDateRequest struct {
	Days int `json:"days" validate:"required,gt=0,lte=365"`
}

type SetPriceRequest struct {
	Price decimal.Decimal `json:"price" validate:"required"`
}
