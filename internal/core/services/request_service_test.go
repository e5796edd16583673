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

type RequestServiceTestSuite struct {
	suite.Suite
	mockRequestRepo *MockRequestRepository
	mockMemberRepo  *MockMemberRepository
	mockLedgerSvc   *MockLedgerSvc
	service         portssvc.RequestSvcFacade

	memberID  string
	adminID   string
	requestID string
}

func (suite *RequestServiceTestSuite) SetupTest() {
	suite.mockRequestRepo = new(MockRequestRepository)
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockLedgerSvc = new(MockLedgerSvc)
	suite.service = services.NewRequestService(suite.mockRequestRepo, suite.mockMemberRepo, suite.mockLedgerSvc)

	suite.memberID = uuid.NewString()
	suite.adminID = uuid.NewString()
	suite.requestID = uuid.NewString()
}

func (suite *RequestServiceTestSuite) pendingRequest(kind domain.RequestKind, amount int64) *domain.PendingRequest {
	return &domain.PendingRequest{
		RequestID: suite.requestID,
		MemberID:  suite.memberID,
		Kind:      kind,
		Amount:    decimal.NewFromInt(amount),
		Status:    domain.RequestPending,
	}
}

func (suite *RequestServiceTestSuite) processedCopy(req *domain.PendingRequest, status domain.RequestStatus) *domain.PendingRequest {
	out := *req
	out.Status = status
	return &out
}

func (suite *RequestServiceTestSuite) TestCreateRequest_SavesPending() {
	ctx := context.Background()
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&domain.Member{MemberID: suite.memberID}, nil).Once()
	suite.mockRequestRepo.On("SaveRequest", ctx, mock.MatchedBy(func(req domain.PendingRequest) bool {
		return req.MemberID == suite.memberID &&
			req.Kind == domain.RequestDeposit &&
			req.Status == domain.RequestPending &&
			req.Amount.Equal(decimal.NewFromInt(500))
	})).Return(nil).Once()

	req, err := suite.service.CreateRequest(ctx, suite.memberID, domain.RequestDeposit, decimal.NewFromInt(500))

	suite.Require().NoError(err)
	suite.Equal(domain.RequestPending, req.Status)
	suite.NotEmpty(req.RequestID)
	suite.mockRequestRepo.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestCreateRequest_UnknownKindRejected() {
	_, err := suite.service.CreateRequest(context.Background(), suite.memberID, domain.RequestKind("BONUS"), decimal.NewFromInt(100))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "SaveRequest", mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestApproveRequest_DepositCreditsNormalWallet() {
	ctx := context.Background()
	request := suite.pendingRequest(domain.RequestDeposit, 500)
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(request, nil).Once()
	suite.mockRequestRepo.On("MarkProcessed", ctx, suite.requestID, domain.RequestApproved, "", suite.adminID, mock.Anything).Return(true, nil).Once()
	suite.mockLedgerSvc.On("Record", ctx, suite.memberID, domain.KindTransfer,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(500)) }),
		mock.MatchedBy(func(deltas domain.WalletDeltas) bool {
			return deltas[domain.WalletNormal].Equal(decimal.NewFromInt(500))
		}),
		mock.MatchedBy(func(meta domain.TransactionMetadata) bool {
			return meta.Transfer != nil &&
				meta.Transfer.Direction == domain.DirectionDeposit &&
				meta.Transfer.RequestID == suite.requestID
		}),
		suite.adminID).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(suite.processedCopy(request, domain.RequestApproved), nil).Once()

	approved, err := suite.service.ApproveRequest(ctx, suite.requestID, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.RequestApproved, approved.Status)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestApproveRequest_FranchiseCreditsAmountPlusBonus() {
	ctx := context.Background()
	// A 500 application earns the 15 percent bonus: 575 lands in the wallet.
	request := suite.pendingRequest(domain.RequestFranchise, 500)
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(request, nil).Once()
	suite.mockRequestRepo.On("MarkProcessed", ctx, suite.requestID, domain.RequestApproved, "", suite.adminID, mock.Anything).Return(true, nil).Once()
	suite.mockLedgerSvc.On("Record", ctx, suite.memberID, domain.KindFranchiseFee,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(575)) }),
		mock.MatchedBy(func(deltas domain.WalletDeltas) bool {
			return deltas[domain.WalletFranchise].Equal(decimal.NewFromInt(575))
		}),
		mock.MatchedBy(func(meta domain.TransactionMetadata) bool {
			return meta.Franchise != nil &&
				meta.Franchise.BaseAmount.Equal(decimal.NewFromInt(500)) &&
				meta.Franchise.BonusAmount.Equal(decimal.NewFromInt(75)) &&
				meta.Franchise.BonusRate.Equal(decimal.NewFromInt(15))
		}),
		suite.adminID).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()
	suite.mockMemberRepo.On("UpdateRole", ctx, suite.memberID, domain.RoleFranchise, suite.adminID, mock.Anything).Return(nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(suite.processedCopy(request, domain.RequestApproved), nil).Once()

	_, err := suite.service.ApproveRequest(ctx, suite.requestID, suite.adminID)

	suite.Require().NoError(err)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
	suite.mockMemberRepo.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestApproveRequest_AlreadyProcessedConflicts() {
	ctx := context.Background()
	request := suite.pendingRequest(domain.RequestDeposit, 500)
	request.Status = domain.RequestApproved
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(request, nil).Once()

	_, err := suite.service.ApproveRequest(ctx, suite.requestID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Record",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestApproveRequest_LostRaceConflicts() {
	ctx := context.Background()
	request := suite.pendingRequest(domain.RequestDeposit, 500)
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(request, nil).Once()
	// Another admin won the transition between the read and the update.
	suite.mockRequestRepo.On("MarkProcessed", ctx, suite.requestID, domain.RequestApproved, "", suite.adminID, mock.Anything).Return(false, nil).Once()

	_, err := suite.service.ApproveRequest(ctx, suite.requestID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Record",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestApproveRequest_WithdrawalBlockedByLiveBalance() {
	ctx := context.Background()
	request := suite.pendingRequest(domain.RequestWithdraw, 500)
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(request, nil).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&domain.Member{
		MemberID:     suite.memberID,
		NormalWallet: decimal.NewFromInt(300),
	}, nil).Once()

	_, err := suite.service.ApproveRequest(ctx, suite.requestID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	// The request must stay pending when the balance check fails.
	suite.mockRequestRepo.AssertNotCalled(suite.T(), "MarkProcessed",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestApproveRequest_WithdrawalDebitsNormalWallet() {
	ctx := context.Background()
	request := suite.pendingRequest(domain.RequestWithdraw, 500)
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(request, nil).Once()
	suite.mockMemberRepo.On("FindMemberByID", ctx, suite.memberID).Return(&domain.Member{
		MemberID:     suite.memberID,
		NormalWallet: decimal.NewFromInt(800),
	}, nil).Once()
	suite.mockRequestRepo.On("MarkProcessed", ctx, suite.requestID, domain.RequestApproved, "", suite.adminID, mock.Anything).Return(true, nil).Once()
	suite.mockLedgerSvc.On("Record", ctx, suite.memberID, domain.KindTransfer,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(500)) }),
		mock.MatchedBy(func(deltas domain.WalletDeltas) bool {
			return deltas[domain.WalletNormal].Equal(decimal.NewFromInt(-500))
		}),
		mock.MatchedBy(func(meta domain.TransactionMetadata) bool {
			return meta.Transfer != nil && meta.Transfer.Direction == domain.DirectionWithdrawal
		}),
		suite.adminID).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(suite.processedCopy(request, domain.RequestApproved), nil).Once()

	_, err := suite.service.ApproveRequest(ctx, suite.requestID, suite.adminID)

	suite.Require().NoError(err)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *RequestServiceTestSuite) TestRejectRequest_StoresReasonWithoutLedgerWrite() {
	ctx := context.Background()
	request := suite.pendingRequest(domain.RequestWithdraw, 500)
	rejected := suite.processedCopy(request, domain.RequestRejected)
	rejected.Reason = "document mismatch"
	suite.mockRequestRepo.On("MarkProcessed", ctx, suite.requestID, domain.RequestRejected, "document mismatch", suite.adminID, mock.Anything).Return(true, nil).Once()
	suite.mockRequestRepo.On("FindRequestByID", ctx, suite.requestID).Return(rejected, nil).Once()

	result, err := suite.service.RejectRequest(ctx, suite.requestID, "document mismatch", suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.RequestRejected, result.Status)
	suite.Equal("document mismatch", result.Reason)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Record",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RequestServiceTestSuite) TestRejectRequest_AlreadyProcessedConflicts() {
	ctx := context.Background()
	suite.mockRequestRepo.On("MarkProcessed", ctx, suite.requestID, domain.RequestRejected, "late", suite.adminID, mock.Anything).Return(false, nil).Once()

	_, err := suite.service.RejectRequest(ctx, suite.requestID, "late", suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func TestRequestServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RequestServiceTestSuite))
}
