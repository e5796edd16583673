package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/core/services"
	"github.com/StakeNetHQ/stake_network_app/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	mockMemberRepo *MockMemberRepository
	service        portssvc.AuthSvcFacade

	memberID     string
	passwordHash string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.service = services.NewAuthService(suite.mockMemberRepo, "test-secret", time.Hour, "test-issuer")
	suite.memberID = uuid.NewString()

	hash, err := utils.HashPassword("correct-horse")
	suite.Require().NoError(err)
	suite.passwordHash = hash
}

func (suite *AuthServiceTestSuite) member(active bool, role domain.Role) *domain.Member {
	return &domain.Member{
		MemberID:     suite.memberID,
		MemberCode:   "ABCD1234",
		PasswordHash: suite.passwordHash,
		IsActive:     active,
		Role:         role,
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByCode", ctx, "ABCD1234").Return(suite.member(true, domain.RoleMember), nil).Once()

	resp, err := suite.service.Login(ctx, "ABCD1234", "correct-horse")

	suite.Require().NoError(err)
	suite.NotEmpty(resp.Token)
	suite.Equal(suite.memberID, resp.MemberID)
	suite.Equal(domain.RoleMember, resp.Role)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByCode", ctx, "ABCD1234").Return(suite.member(true, domain.RoleMember), nil).Once()

	_, err := suite.service.Login(ctx, "ABCD1234", "wrong-horse")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownCodeDoesNotLeak() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByCode", ctx, "GHOST999").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, "GHOST999", "correct-horse")

	suite.Require().Error(err)
	// Same error as a wrong password so callers cannot probe for codes.
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestLogin_DeactivatedMemberBlocked() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByCode", ctx, "ABCD1234").Return(suite.member(false, domain.RoleMember), nil).Once()

	_, err := suite.service.Login(ctx, "ABCD1234", "correct-horse")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AuthServiceTestSuite) TestLogin_DeactivatedAdminStillAllowed() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByCode", ctx, "ABCD1234").Return(suite.member(false, domain.RoleAdmin), nil).Once()

	resp, err := suite.service.Login(ctx, "ABCD1234", "correct-horse")

	suite.Require().NoError(err)
	suite.NotEmpty(resp.Token)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
