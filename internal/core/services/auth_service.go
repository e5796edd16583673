package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/StakeNetHQ/stake_network_app/internal/middleware"
	"github.com/StakeNetHQ/stake_network_app/internal/utils"
)

// authService resolves member credentials to signed JWTs. Password mismatches
// and unknown codes both come back as ErrForbidden so login failures do not
// leak which part was wrong.
type authService struct {
	memberRepo portsrepo.MemberRepositoryFacade
	jwtSecret  string
	jwtExpiry  time.Duration
	jwtIssuer  string
}

// NewAuthService creates a new AuthService.
func NewAuthService(memberRepo portsrepo.MemberRepositoryFacade, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.AuthSvcFacade {
	return &authService{
		memberRepo: memberRepo,
		jwtSecret:  jwtSecret,
		jwtExpiry:  jwtExpiry,
		jwtIssuer:  jwtIssuer,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Login verifies the password for the member code and issues a JWT whose
// subject is the member ID and whose role claim feeds the admin checks.
// Deactivated members cannot log in; admins are excepted.
func (s *authService) Login(ctx context.Context, memberCode string, password string) (*dto.LoginResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	member, err := s.memberRepo.FindMemberByCode(ctx, memberCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, member.PasswordHash) {
		logger.Warn("failed login attempt", slog.String("member_code", memberCode))
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrForbidden)
	}

	if !member.IsActive && member.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: account is deactivated", apperrors.ErrForbidden)
	}

	token, err := utils.GenerateJWT(member.MemberID, string(member.Role), s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	logger.Info("member logged in", slog.String("member_id", member.MemberID))
	return &dto.LoginResponse{
		Token:      token,
		MemberID:   member.MemberID,
		MemberCode: member.MemberCode,
		Role:       member.Role,
	}, nil
}
