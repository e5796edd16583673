package services

import (
	"context"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/shopspring/decimal"
)

// TransferSvcFacade validates and executes transfers between one member's
// wallets under the rule matrix.
type TransferSvcFacade interface {
	Transfer(ctx context.Context, memberID string, from domain.WalletKind, to domain.WalletKind, amount decimal.Decimal, actorID string, actorIsAdmin bool) (*domain.Transaction, error)
}

// InvestmentSvcFacade creates stakes and fans out the package-purchase
// commissions.
type InvestmentSvcFacade interface {
	CreateInvestment(ctx context.Context, memberID string, amount decimal.Decimal, actorID string) (*domain.Transaction, error)
}

// DistributionSvcFacade runs the idempotent monthly distribution batch.
type DistributionSvcFacade interface {
	RunDistribution(ctx context.Context, period string, actorID string) (*domain.DistributionReport, error)
	LastReport(ctx context.Context) (*domain.DistributionReport, error)
}

// RequestSvcFacade drives the pending request workflows.
type RequestSvcFacade interface {
	CreateRequest(ctx context.Context, memberID string, kind domain.RequestKind, amount decimal.Decimal) (*domain.PendingRequest, error)
	ApproveRequest(ctx context.Context, requestID string, actorID string) (*domain.PendingRequest, error)
	RejectRequest(ctx context.Context, requestID string, reason string, actorID string) (*domain.PendingRequest, error)
	ListRequestsByStatus(ctx context.Context, status domain.RequestStatus, params dto.ListRequestsParams) ([]domain.PendingRequest, error)
	ListRequestsByMember(ctx context.Context, memberID string, params dto.ListRequestsParams) ([]domain.PendingRequest, error)
}
