package dto

import "errors"

// Domain errors raised by the trading and portfolio services. All are
// detected before any state mutation, or surface a rolled-back unit of
// work; callers match with errors.Is.
var (
	ErrValidation         = errors.New("invalid input")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrPortfolioNotFound  = errors.New("portfolio not found")
	ErrPortfolioExists    = errors.New("portfolio already exists")
	ErrPositionNotFound   = errors.New("position not found")
	ErrStockNotFound      = errors.New("unknown symbol")
	ErrUserNotFound       = errors.New("user not found")
)
