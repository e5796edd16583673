package services_test

import (
	"context"
	"testing"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/core/services"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type MemberServiceTestSuite struct {
	suite.Suite
	mockMemberRepo *MockMemberRepository
	mockTreeSvc    *MockTreeSvc
	service        portssvc.MemberSvcFacade
}

func (suite *MemberServiceTestSuite) SetupTest() {
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockTreeSvc = new(MockTreeSvc)
	suite.service = services.NewMemberService(suite.mockMemberRepo, suite.mockTreeSvc)
}

func (suite *MemberServiceTestSuite) TestRegisterMember_WithSponsorPlacesInTree() {
	ctx := context.Background()
	sponsorID := uuid.NewString()
	sponsor := &domain.Member{MemberID: sponsorID, MemberCode: "SPON1234", IsActive: true}
	suite.mockMemberRepo.On("FindMemberByCode", ctx, "SPON1234").Return(sponsor, nil).Once()
	suite.mockMemberRepo.On("SaveMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.SponsorID != nil && *m.SponsorID == sponsorID &&
			m.Role == domain.RoleMember &&
			m.IsActive &&
			m.NormalWallet.IsZero() && m.StakingWallet.IsZero() && m.FranchiseWallet.IsZero() &&
			m.MemberCode != "" &&
			m.PasswordHash != "hunter22"
	})).Return(nil).Once()
	suite.mockTreeSvc.On("PlaceInTree", ctx, sponsorID, mock.Anything, mock.Anything).Return(domain.LegLeft, true, nil).Once()

	member, err := suite.service.RegisterMember(ctx, dto.RegisterMemberRequest{
		Name:        "New Member",
		Password:    "hunter22",
		SponsorCode: "SPON1234",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(member.SponsorID)
	suite.Equal(sponsorID, *member.SponsorID)
	suite.mockTreeSvc.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestRegisterMember_WithoutSponsor() {
	ctx := context.Background()
	suite.mockMemberRepo.On("SaveMember", ctx, mock.MatchedBy(func(m domain.Member) bool {
		return m.SponsorID == nil
	})).Return(nil).Once()

	member, err := suite.service.RegisterMember(ctx, dto.RegisterMemberRequest{
		Name:     "Root Member",
		Password: "hunter22",
	})

	suite.Require().NoError(err)
	suite.Nil(member.SponsorID)
	suite.mockTreeSvc.AssertNotCalled(suite.T(), "PlaceInTree", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestRegisterMember_UnknownSponsorCodeRejected() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByCode", ctx, "NOPE").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RegisterMember(ctx, dto.RegisterMemberRequest{
		Name:        "Orphan",
		Password:    "hunter22",
		SponsorCode: "NOPE",
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockMemberRepo.AssertNotCalled(suite.T(), "SaveMember", mock.Anything, mock.Anything)
}

func (suite *MemberServiceTestSuite) TestRegisterMember_RetriesOnCodeCollision() {
	ctx := context.Background()
	suite.mockMemberRepo.On("SaveMember", ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()
	suite.mockMemberRepo.On("SaveMember", ctx, mock.Anything).Return(nil).Once()

	member, err := suite.service.RegisterMember(ctx, dto.RegisterMemberRequest{
		Name:     "Unlucky",
		Password: "hunter22",
	})

	suite.Require().NoError(err)
	suite.NotEmpty(member.MemberCode)
	suite.mockMemberRepo.AssertExpectations(suite.T())
}

func (suite *MemberServiceTestSuite) TestRegisterMember_FullSponsorKeepsReferralEdge() {
	ctx := context.Background()
	sponsorID := uuid.NewString()
	sponsor := &domain.Member{MemberID: sponsorID, MemberCode: "FULL0001", IsActive: true}
	suite.mockMemberRepo.On("FindMemberByCode", ctx, "FULL0001").Return(sponsor, nil).Once()
	suite.mockMemberRepo.On("SaveMember", ctx, mock.Anything).Return(nil).Once()
	// Both binary slots are taken; registration still succeeds.
	suite.mockTreeSvc.On("PlaceInTree", ctx, sponsorID, mock.Anything, mock.Anything).Return(domain.LegSide(""), false, nil).Once()

	member, err := suite.service.RegisterMember(ctx, dto.RegisterMemberRequest{
		Name:        "Late Joiner",
		Password:    "hunter22",
		SponsorCode: "FULL0001",
	})

	suite.Require().NoError(err)
	suite.Require().NotNil(member.SponsorID)
	suite.Equal(sponsorID, *member.SponsorID)
}

func TestMemberServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MemberServiceTestSuite))
}
