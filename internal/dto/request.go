package dto

import (
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRequestRequest files a new pending request for the calling member.
type CreateRequestRequest struct {
	Kind   domain.RequestKind `json:"kind" binding:"required,oneof=DEPOSIT WITHDRAWAL FRANCHISE"`
	Amount decimal.Decimal    `json:"amount" binding:"required"`
}

// RejectRequestRequest carries the rejection reason.
type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestResponse defines the data returned for a pending request.
type RequestResponse struct {
	RequestID   string               `json:"requestID"`
	MemberID    string               `json:"memberID"`
	Kind        domain.RequestKind   `json:"kind"`
	Amount      decimal.Decimal      `json:"amount"`
	Status      domain.RequestStatus `json:"status"`
	Reason      string               `json:"reason,omitempty"`
	ProcessedAt *time.Time           `json:"processedAt,omitempty"`
	ProcessedBy string               `json:"processedBy,omitempty"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// ToRequestResponse converts a domain.PendingRequest to its DTO.
func ToRequestResponse(r *domain.PendingRequest) RequestResponse {
	return RequestResponse{
		RequestID:   r.RequestID,
		MemberID:    r.MemberID,
		Kind:        r.Kind,
		Amount:      r.Amount,
		Status:      r.Status,
		Reason:      r.Reason,
		ProcessedAt: r.ProcessedAt,
		ProcessedBy: r.ProcessedBy,
		CreatedAt:   r.CreatedAt,
	}
}

// ListRequestsParams defines query parameters for listing requests.
type ListRequestsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListRequestsResponse wraps the list of requests.
type ListRequestsResponse struct {
	Requests []RequestResponse `json:"requests"`
}
