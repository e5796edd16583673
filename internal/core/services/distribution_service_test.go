package services_test

import (
	"context"
	"errors"
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

type DistributionServiceTestSuite struct {
	suite.Suite
	mockMemberRepo *MockMemberRepository
	mockLedgerSvc  *MockLedgerSvc
	mockTreeSvc    *MockTreeSvc
	service        portssvc.DistributionSvcFacade

	investorID string
	uplineBID  string
	uplineCID  string
	period     string
}

func (suite *DistributionServiceTestSuite) SetupTest() {
	suite.mockMemberRepo = new(MockMemberRepository)
	suite.mockLedgerSvc = new(MockLedgerSvc)
	suite.mockTreeSvc = new(MockTreeSvc)
	suite.service = services.NewDistributionService(suite.mockMemberRepo, suite.mockLedgerSvc, suite.mockTreeSvc)

	suite.investorID = uuid.NewString()
	suite.uplineBID = uuid.NewString()
	suite.uplineCID = uuid.NewString()
	suite.period = "2026-08"
}

func (suite *DistributionServiceTestSuite) investor(principal int64) domain.Member {
	return domain.Member{
		MemberID:  suite.investorID,
		IsActive:  true,
		Principal: decimal.NewFromInt(principal),
	}
}

func (suite *DistributionServiceTestSuite) uplineChain(bActive, cActive bool) []domain.UplineEntry {
	return []domain.UplineEntry{
		{Member: domain.Member{MemberID: suite.uplineBID, IsActive: bActive}, Level: 1},
		{Member: domain.Member{MemberID: suite.uplineCID, IsActive: cActive}, Level: 2},
	}
}

func (suite *DistributionServiceTestSuite) TestRunDistribution_CreditsYieldAndCascade() {
	ctx := context.Background()
	suite.mockMemberRepo.On("ListInvestors", ctx).Return([]domain.Member{suite.investor(5000)}, nil).Once()

	// 5000 sits in the 6% tier: yield 300.
	suite.mockLedgerSvc.On("RecordYield", ctx, suite.investorID, suite.period,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(300)) }),
		mock.Anything,
		mock.MatchedBy(func(meta domain.TransactionMetadata) bool {
			return meta.Yield != nil && meta.Yield.Period == suite.period &&
				meta.Yield.Rate.Equal(decimal.RequireFromString("0.06"))
		}),
		mock.Anything).Return(&domain.Transaction{TransactionID: uuid.NewString()}, true, nil).Once()

	suite.mockTreeSvc.On("UplineChain", ctx, suite.investorID, 5).Return(suite.uplineChain(true, true), nil).Once()

	// Level 1 takes 20% of 300, level 2 takes 17%.
	suite.mockLedgerSvc.On("Record", ctx, suite.uplineBID, domain.KindReferralIncome,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(60)) }),
		mock.Anything, mock.Anything, mock.Anything).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()
	suite.mockLedgerSvc.On("Record", ctx, suite.uplineCID, domain.KindReferralIncome,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(51)) }),
		mock.Anything, mock.Anything, mock.Anything).Return(&domain.Transaction{TransactionID: uuid.NewString()}, nil).Once()

	report, err := suite.service.RunDistribution(ctx, suite.period, "admin")

	suite.Require().NoError(err)
	suite.Equal(1, report.Processed)
	suite.Equal(0, report.Skipped)
	suite.Equal(0, report.Failed)
	suite.True(decimal.NewFromInt(300).Equal(report.TotalYield))
	suite.True(decimal.NewFromInt(111).Equal(report.TotalReferral))
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *DistributionServiceTestSuite) TestRunDistribution_SecondRunDoesNotDoubleCredit() {
	ctx := context.Background()
	suite.mockMemberRepo.On("ListInvestors", ctx).Return([]domain.Member{suite.investor(5000)}, nil).Once()
	// The period was already credited by a previous run.
	suite.mockLedgerSvc.On("RecordYield", ctx, suite.investorID, suite.period,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, false, nil).Once()

	report, err := suite.service.RunDistribution(ctx, suite.period, "admin")

	suite.Require().NoError(err)
	suite.Equal(0, report.Processed)
	suite.Equal(1, report.Skipped)
	suite.mockTreeSvc.AssertNotCalled(suite.T(), "UplineChain", mock.Anything, mock.Anything, mock.Anything)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Record",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DistributionServiceTestSuite) TestRunDistribution_RetryAfterFailureCreditsYield() {
	ctx := context.Background()
	suite.mockMemberRepo.On("ListInvestors", ctx).Return([]domain.Member{suite.investor(5000)}, nil).Twice()

	// First run: the write fails, so neither the credit nor the period advance
	// happened. Second run: the same member is credited in full.
	suite.mockLedgerSvc.On("RecordYield", ctx, suite.investorID, suite.period,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, false, errors.New("storage unavailable")).Once()
	suite.mockLedgerSvc.On("RecordYield", ctx, suite.investorID, suite.period,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&domain.Transaction{TransactionID: uuid.NewString()}, true, nil).Once()
	suite.mockTreeSvc.On("UplineChain", ctx, suite.investorID, 5).Return([]domain.UplineEntry{}, nil).Once()

	first, err := suite.service.RunDistribution(ctx, suite.period, "admin")
	suite.Require().NoError(err)
	suite.Equal(1, first.Failed)
	suite.Equal(0, first.Processed)
	suite.Equal(0, first.Skipped)

	second, err := suite.service.RunDistribution(ctx, suite.period, "admin")
	suite.Require().NoError(err)
	suite.Equal(1, second.Processed)
	suite.Equal(0, second.Skipped)
	suite.True(decimal.NewFromInt(300).Equal(second.TotalYield))
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *DistributionServiceTestSuite) TestRunDistribution_InactiveInvestorSkipped() {
	ctx := context.Background()
	inactive := suite.investor(5000)
	inactive.IsActive = false
	suite.mockMemberRepo.On("ListInvestors", ctx).Return([]domain.Member{inactive}, nil).Once()

	report, err := suite.service.RunDistribution(ctx, suite.period, "admin")

	suite.Require().NoError(err)
	suite.Equal(1, report.Skipped)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "RecordYield",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DistributionServiceTestSuite) TestRunDistribution_PrincipalBelowMinimumSkippedWithoutWrite() {
	ctx := context.Background()
	suite.mockMemberRepo.On("ListInvestors", ctx).Return([]domain.Member{suite.investor(50)}, nil).Once()

	report, err := suite.service.RunDistribution(ctx, suite.period, "admin")

	suite.Require().NoError(err)
	suite.Equal(1, report.Skipped)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "RecordYield",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DistributionServiceTestSuite) TestRunDistribution_InactiveUplineSkippedInCascade() {
	ctx := context.Background()
	suite.mockMemberRepo.On("ListInvestors", ctx).Return([]domain.Member{suite.investor(5000)}, nil).Once()
	suite.mockLedgerSvc.On("RecordYield", ctx, suite.investorID, suite.period,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&domain.Transaction{}, true, nil).Once()

	// B is inactive; C still earns its level 2 cut.
	suite.mockTreeSvc.On("UplineChain", ctx, suite.investorID, 5).Return(suite.uplineChain(false, true), nil).Once()
	suite.mockLedgerSvc.On("Record", ctx, suite.uplineCID, domain.KindReferralIncome,
		mock.MatchedBy(func(amount decimal.Decimal) bool { return amount.Equal(decimal.NewFromInt(51)) }),
		mock.Anything, mock.Anything, mock.Anything).Return(&domain.Transaction{}, nil).Once()

	report, err := suite.service.RunDistribution(ctx, suite.period, "admin")

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(51).Equal(report.TotalReferral))
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "Record",
		ctx, suite.uplineBID, domain.KindReferralIncome, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DistributionServiceTestSuite) TestRunDistribution_InvalidPeriodRejected() {
	_, err := suite.service.RunDistribution(context.Background(), "August 2026", "admin")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DistributionServiceTestSuite) TestLastReport_EmptyThenPopulated() {
	ctx := context.Background()

	_, err := suite.service.LastReport(ctx)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.mockMemberRepo.On("ListInvestors", ctx).Return([]domain.Member{}, nil).Once()
	_, err = suite.service.RunDistribution(ctx, suite.period, "admin")
	suite.Require().NoError(err)

	report, err := suite.service.LastReport(ctx)
	suite.Require().NoError(err)
	suite.Equal(suite.period, report.Period)
}

func TestDistributionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DistributionServiceTestSuite))
}
