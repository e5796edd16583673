package dto

import (
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest defines a move between two wallets of one member. MemberID
// is only honored for admin actors; regular members transfer their own funds.
type TransferRequest struct {
	MemberID   string            `json:"memberID"`
	FromWallet domain.WalletKind `json:"fromWallet" binding:"required,walletkind"`
	ToWallet   domain.WalletKind `json:"toWallet" binding:"required,walletkind"`
	Amount     decimal.Decimal   `json:"amount" binding:"required"`
}
