package models

import "github.com/shopspring/decimal"

// Transaction mirrors the transactions table. Metadata is stored as JSONB.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	MemberID      string          `db:"member_id"`
	Kind          string          `db:"kind"`
	Amount        decimal.Decimal `db:"amount"`
	CurrencyCode  string          `db:"currency_code"`
	Metadata      []byte          `db:"metadata"`
	AuditFields
}
