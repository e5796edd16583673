package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
	"github.com/shopspring/decimal"
)

// DefaultCurrencyCode is used for every ledger entry until multi-currency
// support lands.
const DefaultCurrencyCode = "USD"

// ledgerService is the single choke point for balance changes. Every payout,
// fee and transfer in the system becomes exactly one Record call; the service
// stamps identity and audit fields and delegates atomicity to the repository.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Record writes one immutable transaction plus its wallet deltas. It validates
// shape only (known kind, known wallet kinds); business rules such as transfer
// eligibility or unlock gates belong to the calling services.
func (s *ledgerService) Record(ctx context.Context, memberID string, kind domain.TransactionKind, amount decimal.Decimal, deltas domain.WalletDeltas, metadata domain.TransactionMetadata, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.KnownTransactionKind(kind) {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, kind)
	}
	for walletKind := range deltas {
		if !domain.KnownWalletKind(walletKind) {
			return nil, fmt.Errorf("%w: unknown wallet kind %q", apperrors.ErrValidation, walletKind)
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		MemberID:      memberID,
		Kind:          kind,
		Amount:        amount,
		CurrencyCode:  DefaultCurrencyCode,
		Metadata:      metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.ledgerRepo.RecordTransaction(ctx, txn, deltas); err != nil {
		logger.Error("failed to record transaction",
			slog.String("member_id", memberID),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("member_id", memberID),
		slog.String("kind", string(kind)),
		slog.String("amount", amount.String()))
	return &txn, nil
}

// RecordYield writes one staking-yield entry with the per-period guard folded
// into the same repository write. The member row's lastYieldPeriod only
// advances together with the wallet credit and the ledger entry, so a failed
// write leaves the member claimable by the next run. credited is false when
// the period was already credited.
func (s *ledgerService) RecordYield(ctx context.Context, memberID string, period string, amount decimal.Decimal, deltas domain.WalletDeltas, metadata domain.TransactionMetadata, actorID string) (*domain.Transaction, bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	for walletKind := range deltas {
		if !domain.KnownWalletKind(walletKind) {
			return nil, false, fmt.Errorf("%w: unknown wallet kind %q", apperrors.ErrValidation, walletKind)
		}
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		MemberID:      memberID,
		Kind:          domain.KindStakingYield,
		Amount:        amount,
		CurrencyCode:  DefaultCurrencyCode,
		Metadata:      metadata,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	credited, err := s.ledgerRepo.RecordYieldTransaction(ctx, txn, deltas, period)
	if err != nil {
		logger.Error("failed to record yield transaction",
			slog.String("member_id", memberID),
			slog.String("period", period),
			slog.String("error", err.Error()))
		return nil, false, err
	}
	if !credited {
		return nil, false, nil
	}

	logger.Info("yield transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("member_id", memberID),
		slog.String("period", period),
		slog.String("amount", amount.String()))
	return &txn, true, nil
}

// ListMemberTransactions returns one page of a member's history, newest first.
func (s *ledgerService) ListMemberTransactions(ctx context.Context, memberID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	transactions, nextToken, err := s.ledgerRepo.ListTransactionsByMember(ctx, memberID, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for member %s: %w", memberID, err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(transactions),
		NextToken:    nextToken,
	}, nil
}
