package dto

import (
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID string                     `json:"transactionID"`
	MemberID      string                     `json:"memberID"`
	Kind          domain.TransactionKind     `json:"kind"`
	Amount        decimal.Decimal            `json:"amount"`
	CurrencyCode  string                     `json:"currencyCode"`
	Metadata      domain.TransactionMetadata `json:"metadata"`
	CreatedAt     time.Time                  `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		MemberID:      t.MemberID,
		Kind:          t.Kind,
		Amount:        t.Amount,
		CurrencyCode:  t.CurrencyCode,
		Metadata:      t.Metadata,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(ts))
	for i := range ts {
		res[i] = ToTransactionResponse(&ts[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing a member's
// transaction history.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
