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
	"github.com/StakeNetHQ/stake_network_app/internal/utils/compensation"
	"github.com/shopspring/decimal"
)

const maxRequestPageSize = 100

// requestService drives the deposit / withdrawal / franchise-application
// workflows. A request is processed at most once: the status transition is a
// conditional update, and the single ledger write happens only after the
// transition is won.
type requestService struct {
	requestRepo portsrepo.RequestRepositoryFacade
	memberRepo  portsrepo.MemberRepositoryFacade
	ledgerSvc   portssvc.LedgerSvcFacade
}

// NewRequestService creates a new RequestService.
func NewRequestService(requestRepo portsrepo.RequestRepositoryFacade, memberRepo portsrepo.MemberRepositoryFacade, ledgerSvc portssvc.LedgerSvcFacade) portssvc.RequestSvcFacade {
	return &requestService{requestRepo: requestRepo, memberRepo: memberRepo, ledgerSvc: ledgerSvc}
}

var _ portssvc.RequestSvcFacade = (*requestService)(nil)

// CreateRequest files a new pending request for the member.
func (s *requestService) CreateRequest(ctx context.Context, memberID string, kind domain.RequestKind, amount decimal.Decimal) (*domain.PendingRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	switch kind {
	case domain.RequestDeposit, domain.RequestWithdraw, domain.RequestFranchise:
	default:
		return nil, fmt.Errorf("%w: unknown request kind %q", apperrors.ErrValidation, kind)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: request amount must be positive", apperrors.ErrValidation)
	}

	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	request := domain.PendingRequest{
		RequestID: uuid.NewString(),
		MemberID:  member.MemberID,
		Kind:      kind,
		Amount:    amount,
		Status:    domain.RequestPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     member.MemberID,
			LastUpdatedAt: now,
			LastUpdatedBy: member.MemberID,
		},
	}

	if err := s.requestRepo.SaveRequest(ctx, request); err != nil {
		return nil, err
	}

	logger.Info("request created",
		slog.String("request_id", request.RequestID),
		slog.String("member_id", member.MemberID),
		slog.String("kind", string(kind)),
		slog.String("amount", amount.String()))
	return &request, nil
}

// ApproveRequest processes a pending request. The status transition is won
// first; the ledger write follows, so at most one wallet mutation can ever
// come out of one request. An already-processed request yields ErrConflict.
func (s *requestService) ApproveRequest(ctx context.Context, requestID string, actorID string) (*domain.PendingRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.requestRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.RequestPending {
		return nil, fmt.Errorf("%w: request %s was already processed", apperrors.ErrConflict, requestID)
	}

	// Withdrawals re-check the live balance before the transition so a stale
	// request cannot be approved into an overdraft.
	if request.Kind == domain.RequestWithdraw {
		member, err := s.memberRepo.FindMemberByID(ctx, request.MemberID)
		if err != nil {
			return nil, err
		}
		if member.NormalWallet.LessThan(request.Amount) {
			return nil, fmt.Errorf("%w: normal wallet holds %s, withdrawal asks %s",
				apperrors.ErrInsufficientFunds, member.NormalWallet, request.Amount)
		}
	}

	now := time.Now().UTC()
	claimed, err := s.requestRepo.MarkProcessed(ctx, requestID, domain.RequestApproved, "", actorID, now)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: request %s was already processed", apperrors.ErrConflict, requestID)
	}

	if err := s.settleApproved(ctx, request, actorID); err != nil {
		logger.Error("ledger settlement failed for approved request",
			slog.String("request_id", requestID),
			slog.String("kind", string(request.Kind)),
			slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("request approved",
		slog.String("request_id", requestID),
		slog.String("kind", string(request.Kind)),
		slog.String("actor_id", actorID))
	return s.requestRepo.FindRequestByID(ctx, requestID)
}

// settleApproved performs the single ledger write for an approved request.
func (s *requestService) settleApproved(ctx context.Context, request *domain.PendingRequest, actorID string) error {
	switch request.Kind {
	case domain.RequestDeposit:
		_, err := s.ledgerSvc.Record(ctx, request.MemberID, domain.KindTransfer, request.Amount,
			domain.WalletDeltas{domain.WalletNormal: request.Amount},
			domain.TransactionMetadata{Transfer: &domain.TransferMeta{
				ToWallet:  domain.WalletNormal,
				ActorRole: domain.RoleAdmin,
				Direction: domain.DirectionDeposit,
				RequestID: request.RequestID,
			}}, actorID)
		return err

	case domain.RequestWithdraw:
		_, err := s.ledgerSvc.Record(ctx, request.MemberID, domain.KindTransfer, request.Amount,
			domain.WalletDeltas{domain.WalletNormal: request.Amount.Neg()},
			domain.TransactionMetadata{Transfer: &domain.TransferMeta{
				FromWallet: domain.WalletNormal,
				ActorRole:  domain.RoleAdmin,
				Direction:  domain.DirectionWithdrawal,
				RequestID:  request.RequestID,
			}}, actorID)
		return err

	case domain.RequestFranchise:
		bonus := compensation.FranchiseBonus(request.Amount)
		total := request.Amount.Add(bonus)
		_, err := s.ledgerSvc.Record(ctx, request.MemberID, domain.KindFranchiseFee, total,
			domain.WalletDeltas{domain.WalletFranchise: total},
			domain.TransactionMetadata{Franchise: &domain.FranchiseMeta{
				BaseAmount:  request.Amount,
				BonusAmount: bonus,
				BonusRate:   compensation.FranchiseBonusRate(request.Amount),
				RequestID:   request.RequestID,
			}}, actorID)
		if err != nil {
			return err
		}
		return s.memberRepo.UpdateRole(ctx, request.MemberID, domain.RoleFranchise, actorID, time.Now().UTC())

	default:
		return fmt.Errorf("%w: unknown request kind %q", apperrors.ErrValidation, request.Kind)
	}
}

// RejectRequest stores the reason and closes the request. Wallets are never
// touched.
func (s *requestService) RejectRequest(ctx context.Context, requestID string, reason string, actorID string) (*domain.PendingRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	claimed, err := s.requestRepo.MarkProcessed(ctx, requestID, domain.RequestRejected, reason, actorID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("%w: request %s was already processed", apperrors.ErrConflict, requestID)
	}

	logger.Info("request rejected",
		slog.String("request_id", requestID),
		slog.String("actor_id", actorID))
	return s.requestRepo.FindRequestByID(ctx, requestID)
}

// ListRequestsByStatus lists the admin approval queue.
func (s *requestService) ListRequestsByStatus(ctx context.Context, status domain.RequestStatus, params dto.ListRequestsParams) ([]domain.PendingRequest, error) {
	limit, offset := clampRequestPage(params)
	return s.requestRepo.ListRequestsByStatus(ctx, status, limit, offset)
}

// ListRequestsByMember lists one member's requests.
func (s *requestService) ListRequestsByMember(ctx context.Context, memberID string, params dto.ListRequestsParams) ([]domain.PendingRequest, error) {
	limit, offset := clampRequestPage(params)
	return s.requestRepo.ListRequestsByMember(ctx, memberID, limit, offset)
}

func clampRequestPage(params dto.ListRequestsParams) (int, int) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > maxRequestPageSize {
		limit = maxRequestPageSize
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
