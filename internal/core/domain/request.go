package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestKind identifies the workflow a pending request belongs to.
type RequestKind string

const (
	RequestDeposit   RequestKind = "DEPOSIT"
	RequestWithdraw  RequestKind = "WITHDRAWAL"
	RequestFranchise RequestKind = "FRANCHISE"
)

// RequestStatus is the state of a pending request. Approved and rejected are
// terminal; a request is processed at most once.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

// PendingRequest models the deposit / withdrawal / franchise-application state
// machine. Approval triggers exactly one ledger write.
type PendingRequest struct {
	RequestID   string          `json:"requestID"` // Primary Key (UUID)
	MemberID    string          `json:"memberID"`  // FK -> Member.memberID
	Kind        RequestKind     `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Status      RequestStatus   `json:"status"`
	Reason      string          `json:"reason,omitempty"` // set on rejection
	ProcessedAt *time.Time      `json:"processedAt,omitempty"`
	ProcessedBy string          `json:"processedBy,omitempty"`
	AuditFields
}
