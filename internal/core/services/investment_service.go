package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
	"github.com/StakeNetHQ/stake_network_app/internal/utils/compensation"
	"github.com/shopspring/decimal"
)

// Referral table markers stored in transaction metadata so the two percentage
// tables stay distinguishable in the ledger.
const (
	referralTablePackage = "package"
	referralTableYield   = "yield"
)

// investmentService creates stakes and fans out the package-purchase
// commissions to the upline. The stake itself is a normal -> staking move
// recorded as an activation fee; the fan-out credits each eligible upline
// independently, so a failed leg never claws back earlier legs.
type investmentService struct {
	memberRepo portsrepo.MemberRepositoryFacade
	ledgerSvc  portssvc.LedgerSvcFacade
	treeSvc    portssvc.TreeSvcFacade
}

// NewInvestmentService creates a new InvestmentService.
func NewInvestmentService(memberRepo portsrepo.MemberRepositoryFacade, ledgerSvc portssvc.LedgerSvcFacade, treeSvc portssvc.TreeSvcFacade) portssvc.InvestmentSvcFacade {
	return &investmentService{memberRepo: memberRepo, ledgerSvc: ledgerSvc, treeSvc: treeSvc}
}

var _ portssvc.InvestmentSvcFacade = (*investmentService)(nil)

// CreateInvestment funds a stake from the normal wallet and pays out the
// package commissions.
func (s *investmentService) CreateInvestment(ctx context.Context, memberID string, amount decimal.Decimal, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThan(compensation.MinimumStake) {
		return nil, fmt.Errorf("%w: minimum investment is %s", apperrors.ErrValidation, compensation.MinimumStake)
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if !member.IsActive {
		return nil, fmt.Errorf("%w: inactive members cannot invest", apperrors.ErrForbidden)
	}

	deltas := domain.WalletDeltas{
		domain.WalletNormal:  amount.Neg(),
		domain.WalletStaking: amount,
	}
	metadata := domain.TransactionMetadata{
		Activation: &domain.ActivationMeta{PackageAmount: amount},
	}

	txn, err := s.ledgerSvc.Record(ctx, member.MemberID, domain.KindActivationFee, amount, deltas, metadata, actorID)
	if err != nil {
		return nil, err
	}

	if err := s.memberRepo.AddPrincipal(ctx, member.MemberID, amount, actorID, time.Now().UTC()); err != nil {
		logger.Error("failed to add principal after stake",
			slog.String("member_id", member.MemberID),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.fanOutPackageCommissions(ctx, member.MemberID, amount, actorID)

	logger.Info("investment created",
		slog.String("member_id", member.MemberID),
		slog.String("amount", amount.String()))
	return txn, nil
}

// fanOutPackageCommissions pays the generation commission (levels 1-5) and the
// package referral credit (levels 1-3) to the upline. Both payouts are gated:
// an upline earns at level N only with at least N direct referrals. Failures
// are logged and skipped so one bad leg never blocks the rest.
func (s *investmentService) fanOutPackageCommissions(ctx context.Context, sourceMemberID string, amount decimal.Decimal, actorID string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	uplines, err := s.treeSvc.UplineChain(ctx, sourceMemberID, MaxUplineLevels)
	if err != nil {
		logger.Error("failed to walk upline for package fan-out",
			slog.String("source_member_id", sourceMemberID),
			slog.String("error", err.Error()))
		return
	}

	for _, entry := range uplines {
		upline := entry.Member
		level := entry.Level

		if !upline.IsActive {
			continue
		}
		if !compensation.IsLevelUnlocked(upline.DirectReferralCount(), level) {
			continue
		}

		commission := compensation.GenerationCommission(level)
		if commission.IsPositive() {
			_, err := s.ledgerSvc.Record(ctx, upline.MemberID, domain.KindGenerationCommission, commission,
				domain.WalletDeltas{domain.WalletNormal: commission},
				domain.TransactionMetadata{Commission: &domain.CommissionMeta{
					Level:          level,
					SourceMemberID: sourceMemberID,
				}}, actorID)
			if err != nil {
				logger.Error("generation commission leg failed",
					slog.String("upline_id", upline.MemberID),
					slog.Int("level", level),
					slog.String("error", err.Error()))
			}
		}

		credit := compensation.ReferralCredit(level, amount)
		if credit.IsPositive() {
			_, err := s.ledgerSvc.Record(ctx, upline.MemberID, domain.KindReferralIncome, credit,
				domain.WalletDeltas{domain.WalletNormal: credit},
				domain.TransactionMetadata{Referral: &domain.ReferralMeta{
					Level:          level,
					SourceMemberID: sourceMemberID,
					Rate:           compensation.ReferralCreditRate(level),
					Table:          referralTablePackage,
				}}, actorID)
			if err != nil {
				logger.Error("referral credit leg failed",
					slog.String("upline_id", upline.MemberID),
					slog.Int("level", level),
					slog.String("error", err.Error()))
			}
		}
	}
}
