package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
	"github.com/StakeNetHQ/stake_network_app/internal/utils/compensation"
	"github.com/shopspring/decimal"
)

var transferMaxToStaking = decimal.NewFromInt(1000)

// transferService moves funds between one member's wallets under the transfer
// rule matrix. Admin actors bypass the matrix entirely; everyone still goes
// through the ledger so the sufficient-funds guard applies.
type transferService struct {
	memberRepo portsrepo.MemberRepositoryFacade
	ledgerSvc  portssvc.LedgerSvcFacade
}

// NewTransferService creates a new TransferService.
func NewTransferService(memberRepo portsrepo.MemberRepositoryFacade, ledgerSvc portssvc.LedgerSvcFacade) portssvc.TransferSvcFacade {
	return &transferService{memberRepo: memberRepo, ledgerSvc: ledgerSvc}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// validateTransferRule enforces the wallet pair rules for non-admin actors:
//
//	normal -> franchise : amount >= 100
//	normal -> staking   : 100 <= amount <= 1000
//	staking -> normal   : admin only
//
// Every other pair is rejected.
func validateTransferRule(from, to domain.WalletKind, amount decimal.Decimal) error {
	switch {
	case from == domain.WalletNormal && to == domain.WalletFranchise:
		if amount.LessThan(compensation.MinimumStake) {
			return fmt.Errorf("%w: transfers to the franchise wallet require at least %s", apperrors.ErrValidation, compensation.MinimumStake)
		}
	case from == domain.WalletNormal && to == domain.WalletStaking:
		if amount.LessThan(compensation.MinimumStake) || amount.GreaterThan(transferMaxToStaking) {
			return fmt.Errorf("%w: transfers to the staking wallet must be between %s and %s", apperrors.ErrValidation, compensation.MinimumStake, transferMaxToStaking)
		}
	case from == domain.WalletStaking && to == domain.WalletNormal:
		return fmt.Errorf("%w: unstaking requires an administrator", apperrors.ErrForbidden)
	default:
		return fmt.Errorf("%w: transfers from %s to %s are not allowed", apperrors.ErrValidation, from, to)
	}
	return nil
}

// Transfer validates and executes a move between two wallets of one member.
func (s *transferService) Transfer(ctx context.Context, memberID string, from domain.WalletKind, to domain.WalletKind, amount decimal.Decimal, actorID string, actorIsAdmin bool) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !domain.KnownWalletKind(from) || !domain.KnownWalletKind(to) {
		return nil, fmt.Errorf("%w: unknown wallet kind", apperrors.ErrValidation)
	}
	if from == to {
		return nil, fmt.Errorf("%w: source and destination wallets must differ", apperrors.ErrValidation)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}

	if !actorIsAdmin {
		if actorID != memberID {
			return nil, fmt.Errorf("%w: members may only transfer their own funds", apperrors.ErrForbidden)
		}
		if err := validateTransferRule(from, to, amount); err != nil {
			return nil, err
		}
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	actorRole := domain.RoleMember
	if actorIsAdmin {
		actorRole = domain.RoleAdmin
	}

	deltas := domain.WalletDeltas{
		from: amount.Neg(),
		to:   amount,
	}
	metadata := domain.TransactionMetadata{
		Transfer: &domain.TransferMeta{
			FromWallet: from,
			ToWallet:   to,
			ActorRole:  actorRole,
			Direction:  domain.DirectionInternal,
		},
	}

	txn, err := s.ledgerSvc.Record(ctx, member.MemberID, domain.KindTransfer, amount, deltas, metadata, actorID)
	if err != nil {
		return nil, err
	}

	logger.Info("wallet transfer executed",
		slog.String("member_id", member.MemberID),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("amount", amount.String()),
		slog.Bool("admin", actorIsAdmin))
	return txn, nil
}
