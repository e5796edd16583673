package services_test

import (
	"context"
	"testing"

	"github.com/StakeNetHQ/stake_network_app/internal/apperrors"
	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type TransferServiceTestSuite struct {
	suite.Suite
	mockMemberRepo *MockMemberRepository
	mockLedgerSvc  *MockLedgerSvc
	service        portssvc.TransferSvcFacade
	memberID       string
}

func (suite *TransferServiceTestSuite) SetupTest() {
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockLedgerSvc = new(MockLedgerSvc)
	suite.service = services.NewTransferService(suite.mockMemberRepo, suite.mockLedgerSvc)
	suite.memberID = uuid.NewString()
}

func (suite *TransferServiceTestSuite) member() *domain.Member {
	return &domain.Member{
		MemberID:     suite.memberID,
		NormalWallet: decimal.NewFromInt(5000),
	}
}

func (suite *TransferServiceTestSuite) expectRecord(txn *domain.Transaction) {
	suite.mockLedgerSvc.On("Record", mock.Anything, suite.memberID, domain.KindTransfer,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(txn, nil).Once()
}

func (suite *TransferServiceTestSuite) TestTransfer_NormalToFranchise_BelowMinimumRejected() {
	_, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletNormal, domain.WalletFranchise, decimal.NewFromInt(50), suite.memberID, false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Record",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferServiceTestSuite) TestTransfer_NormalToFranchise_AtMinimumAccepted() {
	suite.mockMemberRepo.On("FindMemberByID", mock.Anything, suite.memberID).Return(suite.member(), nil).Once()
	suite.expectRecord(&domain.Transaction{TransactionID: uuid.NewString()})

	txn, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletNormal, domain.WalletFranchise, decimal.NewFromInt(100), suite.memberID, false)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransfer_NormalToStaking_UpperBoundInclusive() {
	suite.mockMemberRepo.On("FindMemberByID", mock.Anything, suite.memberID).Return(suite.member(), nil).Once()
	suite.expectRecord(&domain.Transaction{TransactionID: uuid.NewString()})

	_, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletNormal, domain.WalletStaking, decimal.NewFromInt(1000), suite.memberID, false)

	suite.Require().NoError(err)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransfer_NormalToStaking_JustAboveCapRejected() {
	_, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletNormal, domain.WalletStaking, decimal.RequireFromString("1000.01"), suite.memberID, false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestTransfer_StakingToNormal_RequiresAdmin() {
	_, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletStaking, domain.WalletNormal, decimal.NewFromInt(500), suite.memberID, false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransferServiceTestSuite) TestTransfer_AdminBypassesRules() {
	adminID := uuid.NewString()
	suite.mockMemberRepo.On("FindMemberByID", mock.Anything, suite.memberID).Return(suite.member(), nil).Once()
	suite.expectRecord(&domain.Transaction{TransactionID: uuid.NewString()})

	txn, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletStaking, domain.WalletNormal, decimal.NewFromInt(50), adminID, true)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *TransferServiceTestSuite) TestTransfer_CannotActOnAnotherMember() {
	otherID := uuid.NewString()

	_, err := suite.service.Transfer(context.Background(), otherID,
		domain.WalletNormal, domain.WalletFranchise, decimal.NewFromInt(200), suite.memberID, false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransferServiceTestSuite) TestTransfer_SameWalletRejected() {
	_, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletNormal, domain.WalletNormal, decimal.NewFromInt(200), suite.memberID, false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestTransfer_NonPositiveAmountRejected() {
	_, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletNormal, domain.WalletFranchise, decimal.Zero, suite.memberID, false)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransferServiceTestSuite) TestTransfer_DeltasBalanceToZero() {
	suite.mockMemberRepo.On("FindMemberByID", mock.Anything, suite.memberID).Return(suite.member(), nil).Once()

	amount := decimal.NewFromInt(250)
	suite.mockLedgerSvc.On("Record", mock.Anything, suite.memberID, domain.KindTransfer, amount,
		mock.MatchedBy(func(deltas domain.WalletDeltas) bool {
			return deltas[domain.WalletNormal].Equal(amount.Neg()) &&
				deltas[domain.WalletFranchise].Equal(amount)
		}),
		mock.MatchedBy(func(meta domain.TransactionMetadata) bool {
			return meta.Transfer != nil &&
				meta.Transfer.Direction == domain.DirectionInternal &&
				meta.Transfer.FromWallet == domain.WalletNormal &&
				meta.Transfer.ToWallet == domain.WalletFranchise
		}),
		suite.memberID).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()

	_, err := suite.service.Transfer(context.Background(), suite.memberID,
		domain.WalletNormal, domain.WalletFranchise, amount, suite.memberID, false)

	suite.Require().NoError(err)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func TestTransferServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransferServiceTestSuite))
}
