package services

import (
	"context"
	"errors"
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
	"github.com/StakeNetHQ/stake_network_app/internal/utils"
	"github.com/shopspring/decimal"
)

const memberCodeLength = 8

// memberCodeAttempts bounds the retry loop on code collisions.
const memberCodeAttempts = 5

// memberService exposes member lifecycle operations: registration with sponsor
// resolution and binary placement, profile retrieval, and the admin-facing
// activation toggle.
type memberService struct {
	memberRepo portsrepo.MemberRepositoryFacade
	treeSvc    portssvc.TreeSvcFacade
}

// NewMemberService creates a new MemberService.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade, treeSvc portssvc.TreeSvcFacade) portssvc.MemberSvcFacade {
	return &memberService{memberRepo: memberRepo, treeSvc: treeSvc}
}

var _ portssvc.MemberSvcFacade = (*memberService)(nil)

// RegisterMember creates a new member under the sponsor named by SponsorCode.
// The sponsor edge is set once here and never reassigned. Placement into the
// binary tree happens after the save; a full sponsor (both slots taken) still
// keeps the referral edge.
func (s *memberService) RegisterMember(ctx context.Context, req dto.RegisterMemberRequest) (*domain.Member, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	var sponsor *domain.Member
	if req.SponsorCode != "" {
		found, err := s.memberRepo.FindMemberByCode(ctx, req.SponsorCode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: sponsor code %s not found", apperrors.ErrValidation, req.SponsorCode)
			}
			return nil, err
		}
		sponsor = found
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	memberID := uuid.NewString()

	member := domain.Member{
		MemberID:        memberID,
		Name:            req.Name,
		PasswordHash:    passwordHash,
		Role:            domain.RoleMember,
		IsActive:        true,
		NormalWallet:    decimal.Zero,
		FranchiseWallet: decimal.Zero,
		StakingWallet:   decimal.Zero,
		Principal:       decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     memberID,
			LastUpdatedAt: now,
			LastUpdatedBy: memberID,
		},
	}
	if sponsor != nil {
		sponsorID := sponsor.MemberID
		member.SponsorID = &sponsorID
	}

	// Member codes are short and human-typed, so collisions are possible.
	// Retry with a fresh code instead of surfacing the duplicate.
	var saveErr error
	for attempt := 0; attempt < memberCodeAttempts; attempt++ {
		code, err := utils.GenerateMemberCode(memberCodeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate member code: %w", err)
		}
		member.MemberCode = code
		saveErr = s.memberRepo.SaveMember(ctx, member)
		if saveErr == nil {
			break
		}
		if !errors.Is(saveErr, apperrors.ErrDuplicate) {
			return nil, saveErr
		}
	}
	if saveErr != nil {
		return nil, fmt.Errorf("failed to save member after %d code attempts: %w", memberCodeAttempts, saveErr)
	}

	if sponsor != nil {
		side, placed, err := s.treeSvc.PlaceInTree(ctx, sponsor.MemberID, member.MemberID, member.MemberID)
		if err != nil {
			logger.Error("binary placement failed after registration",
				slog.String("member_id", member.MemberID),
				slog.String("sponsor_id", sponsor.MemberID),
				slog.String("error", err.Error()))
			return nil, err
		}
		if placed {
			logger.Info("member placed in tree",
				slog.String("member_id", member.MemberID),
				slog.String("sponsor_id", sponsor.MemberID),
				slog.String("side", string(side)))
		}
	}

	logger.Info("member registered",
		slog.String("member_id", member.MemberID),
		slog.String("member_code", member.MemberCode))
	return &member, nil
}

// GetMemberByID retrieves a member by ID.
func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return s.memberRepo.FindMemberByID(ctx, memberID)
}

// GetMemberByCode retrieves a member by its human-readable code.
func (s *memberService) GetMemberByCode(ctx context.Context, memberCode string) (*domain.Member, error) {
	return s.memberRepo.FindMemberByCode(ctx, memberCode)
}

// SetActive toggles the lifecycle flag. Inactive members keep their balances
// and tree position; they are skipped by payouts and cannot log in.
func (s *memberService) SetActive(ctx context.Context, memberID string, active bool, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.memberRepo.SetActive(ctx, memberID, active, actorID, time.Now().UTC()); err != nil {
		return err
	}
	logger.Info("member active flag updated",
		slog.String("member_id", memberID),
		slog.Bool("is_active", active),
		slog.String("actor_id", actorID))
	return nil
}
