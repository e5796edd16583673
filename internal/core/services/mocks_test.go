package services_test

import (
	"context"
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock MemberRepository ---

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindMemberByCode(ctx context.Context, memberCode string) (*domain.Member, error) {
	args := m.Called(ctx, memberCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) FindMembersByIDs(ctx context.Context, memberIDs []string) (map[string]domain.Member, error) {
	args := m.Called(ctx, memberIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) ListInvestors(ctx context.Context) ([]domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberRepository) PlaceChild(ctx context.Context, sponsorID string, childID string, side domain.LegSide, userID string, now time.Time) (bool, error) {
	args := m.Called(ctx, sponsorID, childID, side, userID, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockMemberRepository) SetBooster(ctx context.Context, memberID string, userID string, now time.Time) error {
	args := m.Called(ctx, memberID, userID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) AddPrincipal(ctx context.Context, memberID string, amount decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, memberID, amount, userID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateRole(ctx context.Context, memberID string, role domain.Role, userID string, now time.Time) error {
	args := m.Called(ctx, memberID, role, userID, now)
	return args.Error(0)
}

func (m *MockMemberRepository) SetActive(ctx context.Context, memberID string, active bool, userID string, now time.Time) error {
	args := m.Called(ctx, memberID, active, userID, now)
	return args.Error(0)
}

// --- Mock LedgerRepository ---

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) RecordTransaction(ctx context.Context, txn domain.Transaction, deltas domain.WalletDeltas) error {
	args := m.Called(ctx, txn, deltas)
	return args.Error(0)
}

func (m *MockLedgerRepository) RecordYieldTransaction(ctx context.Context, txn domain.Transaction, deltas domain.WalletDeltas, period string) (bool, error) {
	args := m.Called(ctx, txn, deltas, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByMember(ctx context.Context, memberID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, memberID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

// --- Mock RequestRepository ---

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) SaveRequest(ctx context.Context, request domain.PendingRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.PendingRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingRequest), args.Error(1)
}

func (m *MockRequestRepository) ListRequestsByStatus(ctx context.Context, status domain.RequestStatus, limit int, offset int) ([]domain.PendingRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingRequest), args.Error(1)
}

func (m *MockRequestRepository) ListRequestsByMember(ctx context.Context, memberID string, limit int, offset int) ([]domain.PendingRequest, error) {
	args := m.Called(ctx, memberID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PendingRequest), args.Error(1)
}

func (m *MockRequestRepository) MarkProcessed(ctx context.Context, requestID string, status domain.RequestStatus, reason string, processedBy string, now time.Time) (bool, error) {
	args := m.Called(ctx, requestID, status, reason, processedBy, now)
	return args.Bool(0), args.Error(1)
}

// --- Mock LedgerSvc ---

type MockLedgerSvc struct {
	mock.Mock
}

func (m *MockLedgerSvc) Record(ctx context.Context, memberID string, kind domain.TransactionKind, amount decimal.Decimal, deltas domain.WalletDeltas, metadata domain.TransactionMetadata, actorID string) (*domain.Transaction, error) {
	args := m.Called(ctx, memberID, kind, amount, deltas, metadata, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerSvc) RecordYield(ctx context.Context, memberID string, period string, amount decimal.Decimal, deltas domain.WalletDeltas, metadata domain.TransactionMetadata, actorID string) (*domain.Transaction, bool, error) {
	args := m.Called(ctx, memberID, period, amount, deltas, metadata, actorID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.Transaction), args.Bool(1), args.Error(2)
}

func (m *MockLedgerSvc) ListMemberTransactions(ctx context.Context, memberID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, memberID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

// --- Mock TreeSvc ---

type MockTreeSvc struct {
	mock.Mock
}

func (m *MockTreeSvc) UplineChain(ctx context.Context, memberID string, maxLevel int) ([]domain.UplineEntry, error) {
	args := m.Called(ctx, memberID, maxLevel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UplineEntry), args.Error(1)
}

func (m *MockTreeSvc) SubtreeSize(ctx context.Context, rootID string) (int, error) {
	args := m.Called(ctx, rootID)
	return args.Int(0), args.Error(1)
}

func (m *MockTreeSvc) TreeStats(ctx context.Context, memberID string) (*domain.TreeStats, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TreeStats), args.Error(1)
}

func (m *MockTreeSvc) MaterializeTree(ctx context.Context, rootID string, maxDepth int) (*dto.TreeNode, error) {
	args := m.Called(ctx, rootID, maxDepth)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TreeNode), args.Error(1)
}

func (m *MockTreeSvc) PlaceInTree(ctx context.Context, sponsorID string, newMemberID string, actorID string) (domain.LegSide, bool, error) {
	args := m.Called(ctx, sponsorID, newMemberID, actorID)
	return args.Get(0).(domain.LegSide), args.Bool(1), args.Error(2)
}
