package dto

import "github.com/shopspring/decimal"

// CreateInvestmentRequest defines a new stake funded from the normal wallet.
type CreateInvestmentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
