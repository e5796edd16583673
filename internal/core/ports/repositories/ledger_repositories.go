package repositories

import (
	"context"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
)

// LedgerRepositoryFacade persists immutable transactions together with their
// wallet deltas. RecordTransaction is atomic per member: the member row update
// and the transaction insert commit or fail together. Cross-member atomicity
// is deliberately not offered; each leg of a cascade is its own step.
type LedgerRepositoryFacade interface {
	// RecordTransaction applies the wallet deltas to the owning member and
	// inserts the transaction. Deltas that would push any wallet negative fail
	// with apperrors.ErrInsufficientFunds and nothing is written.
	RecordTransaction(ctx context.Context, txn domain.Transaction, deltas domain.WalletDeltas) error

	// RecordYieldTransaction credits one period's staking yield. The wallet
	// deltas, the last_yield_period advance and the transaction insert commit
	// or fail together, so a member is never marked credited for a period
	// without the matching ledger entry. credited is false when the member was
	// already credited for that period; nothing is written then.
	RecordYieldTransaction(ctx context.Context, txn domain.Transaction, deltas domain.WalletDeltas, period string) (credited bool, err error)

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByMember pages through one member's history, newest
	// first. Append order equals chronological order within a member.
	ListTransactionsByMember(ctx context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
