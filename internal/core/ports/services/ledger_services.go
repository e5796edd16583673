package services

import (
	"context"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the single point through which every balance change must
// pass. It never rejects on business grounds; validation belongs to callers.
type LedgerSvcFacade interface {
	Record(ctx context.Context, memberID string, kind domain.TransactionKind, amount decimal.Decimal, deltas domain.WalletDeltas, metadata domain.TransactionMetadata, actorID string) (*domain.Transaction, error)

	// RecordYield writes a staking-yield entry with the per-period idempotency
	// guard folded into the same write. credited is false when the member was
	// already credited for the period.
	RecordYield(ctx context.Context, memberID string, period string, amount decimal.Decimal, deltas domain.WalletDeltas, metadata domain.TransactionMetadata, actorID string) (*domain.Transaction, bool, error)

	ListMemberTransactions(ctx context.Context, memberID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
