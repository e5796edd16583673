package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingRequest mirrors the pending_requests table.
type PendingRequest struct {
	RequestID   string          `db:"request_id"`
	MemberID    string          `db:"member_id"`
	Kind        string          `db:"kind"`
	Amount      decimal.Decimal `db:"amount"`
	Status      string          `db:"status"`
	Reason      string          `db:"reason"`
	ProcessedAt *time.Time      `db:"processed_at"`
	ProcessedBy *string         `db:"processed_by"`
	AuditFields
}
