package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
	"github.com/StakeNetHQ/stake_network_app/internal/utils/compensation"
	"github.com/shopspring/decimal"
)

// periodLayout is the YYYY-MM label distributions are keyed on.
const periodLayout = "2006-01"

// distributionService runs the monthly yield batch. Idempotency is per member
// per period: each member's lastYieldPeriod advances in the same database
// transaction as the yield credit, so re-running a period only touches members
// the previous run failed to credit.
type distributionService struct {
	memberRepo portsrepo.MemberRepositoryFacade
	ledgerSvc  portssvc.LedgerSvcFacade
	treeSvc    portssvc.TreeSvcFacade

	mu         sync.Mutex
	lastReport *domain.DistributionReport
}

// NewDistributionService creates a new DistributionService.
func NewDistributionService(memberRepo portsrepo.MemberRepositoryFacade, ledgerSvc portssvc.LedgerSvcFacade, treeSvc portssvc.TreeSvcFacade) portssvc.DistributionSvcFacade {
	return &distributionService{memberRepo: memberRepo, ledgerSvc: ledgerSvc, treeSvc: treeSvc}
}

var _ portssvc.DistributionSvcFacade = (*distributionService)(nil)

// RunDistribution processes every investor for the given period. Members whose
// period was already credited count as skipped; per-member failures are
// recorded and do not stop the batch. Re-running the same period heals
// partial runs without double-crediting.
func (s *distributionService) RunDistribution(ctx context.Context, period string, actorID string) (*domain.DistributionReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := time.Parse(periodLayout, period); err != nil {
		return nil, fmt.Errorf("%w: period must look like 2025-01, got %q", apperrors.ErrValidation, period)
	}

	investors, err := s.memberRepo.ListInvestors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list investors: %w", err)
	}

	report := domain.DistributionReport{
		Period:        period,
		TotalYield:    decimal.Zero,
		TotalReferral: decimal.Zero,
		StartedAt:     time.Now().UTC(),
	}

	for _, investor := range investors {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if !investor.IsActive {
			report.Skipped++
			continue
		}

		yield := compensation.StakingYield(investor.Principal)
		if !yield.IsPositive() {
			report.Skipped++
			continue
		}

		_, credited, err := s.ledgerSvc.RecordYield(ctx, investor.MemberID, period, yield,
			domain.WalletDeltas{domain.WalletNormal: yield},
			domain.TransactionMetadata{Yield: &domain.YieldMeta{
				Period:    period,
				Principal: investor.Principal,
				Rate:      compensation.RealizedRate(yield, investor.Principal),
			}}, actorID)
		if err != nil {
			// The credit and the period advance roll back together, so this
			// member stays claimable by the next run.
			logger.Error("failed to credit yield",
				slog.String("member_id", investor.MemberID),
				slog.String("period", period),
				slog.String("error", err.Error()))
			report.Failed++
			continue
		}
		if !credited {
			report.Skipped++
			continue
		}

		report.Processed++
		report.TotalYield = report.TotalYield.Add(yield)
		report.TotalReferral = report.TotalReferral.Add(
			s.cascadeYieldReferral(ctx, investor.MemberID, yield, period, actorID))
	}

	report.FinishedAt = time.Now().UTC()

	s.mu.Lock()
	s.lastReport = &report
	s.mu.Unlock()

	logger.Info("distribution run finished",
		slog.String("period", period),
		slog.Int("processed", report.Processed),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slog.String("total_yield", report.TotalYield.String()),
		slog.String("total_referral", report.TotalReferral.String()))
	return &report, nil
}

// cascadeYieldReferral pays the yield referral table to uplines 1-5. Unlike
// the package fan-out this path has no unlock gate; inactive uplines are
// still skipped. Returns the total credited.
func (s *distributionService) cascadeYieldReferral(ctx context.Context, sourceMemberID string, yield decimal.Decimal, period string, actorID string) decimal.Decimal {
	logger := middleware.GetLoggerFromCtx(ctx)
	total := decimal.Zero

	uplines, err := s.treeSvc.UplineChain(ctx, sourceMemberID, MaxUplineLevels)
	if err != nil {
		logger.Error("failed to walk upline for yield cascade",
			slog.String("source_member_id", sourceMemberID),
			slog.String("error", err.Error()))
		return total
	}

	for _, entry := range uplines {
		upline := entry.Member
		level := entry.Level

		if !upline.IsActive {
			continue
		}

		credit := compensation.YieldReferral(level, yield)
		if !credit.IsPositive() {
			continue
		}

		_, err := s.ledgerSvc.Record(ctx, upline.MemberID, domain.KindReferralIncome, credit,
			domain.WalletDeltas{domain.WalletNormal: credit},
			domain.TransactionMetadata{Referral: &domain.ReferralMeta{
				Level:          level,
				SourceMemberID: sourceMemberID,
				Rate:           compensation.YieldReferralRate(level),
				Table:          referralTableYield,
				Period:         period,
			}}, actorID)
		if err != nil {
			logger.Error("yield referral leg failed",
				slog.String("upline_id", upline.MemberID),
				slog.Int("level", level),
				slog.String("error", err.Error()))
			continue
		}
		total = total.Add(credit)
	}

	return total
}

// LastReport returns the report of the most recent run in this process, or
// ErrNotFound when no run has happened yet.
func (s *distributionService) LastReport(ctx context.Context) (*domain.DistributionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastReport == nil {
		return nil, apperrors.ErrNotFound
	}
	reportCopy := *s.lastReport
	return &reportCopy, nil
}
