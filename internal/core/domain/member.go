package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role defines the access level of a member.
type Role string

const (
	RoleMember    Role = "MEMBER"
	RoleFranchise Role = "FRANCHISE"
	RoleAdmin     Role = "ADMIN"
)

// WalletKind identifies one of the three wallets every member owns.
type WalletKind string

const (
	WalletNormal    WalletKind = "normal"    // spendable earnings
	WalletFranchise WalletKind = "franchise" // franchise operating fund
	WalletStaking   WalletKind = "staking"   // locked investment principal
)

// KnownWalletKind reports whether the given kind is one of the three wallets.
func KnownWalletKind(k WalletKind) bool {
	switch k {
	case WalletNormal, WalletFranchise, WalletStaking:
		return true
	}
	return false
}

// LegSide identifies a binary placement slot under a sponsor.
type LegSide string

const (
	LegLeft  LegSide = "LEFT"
	LegRight LegSide = "RIGHT"
)

// Member is both the account and the tree node. Sponsor is set once at creation
// and never reassigned; each binary child slot is settable exactly once.
type Member struct {
	MemberID     string `json:"memberID"`   // Primary Key (UUID)
	MemberCode   string `json:"memberCode"` // Unique human-readable code
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
	IsActive     bool   `json:"isActive"` // gates payouts and login (admins excepted)
	Booster      bool   `json:"booster"`  // set once both direct counts reach 1

	NormalWallet    decimal.Decimal `json:"normalWallet"`
	FranchiseWallet decimal.Decimal `json:"franchiseWallet"`
	StakingWallet   decimal.Decimal `json:"stakingWallet"`

	SponsorID        *string `json:"sponsorID"` // nil for tree roots
	LeftChildID      *string `json:"leftChildID"`
	RightChildID     *string `json:"rightChildID"`
	LeftDirectCount  int     `json:"leftDirectCount"`
	RightDirectCount int     `json:"rightDirectCount"`

	Principal          decimal.Decimal `json:"principal"` // cumulative staked amount
	InvestmentOpenedAt *time.Time      `json:"investmentOpenedAt,omitempty"`
	LastYieldPeriod    string          `json:"lastYieldPeriod"` // "YYYY-MM"; idempotency key

	AuditFields
}

// DirectReferralCount is the total number of direct referrals across both legs.
// It drives the commission unlock gate.
func (m *Member) DirectReferralCount() int {
	return m.LeftDirectCount + m.RightDirectCount
}

// WalletBalance returns the balance of the given wallet kind.
func (m *Member) WalletBalance(kind WalletKind) decimal.Decimal {
	switch kind {
	case WalletNormal:
		return m.NormalWallet
	case WalletFranchise:
		return m.FranchiseWallet
	case WalletStaking:
		return m.StakingWallet
	}
	return decimal.Zero
}

// WalletDeltas maps wallet kinds to signed balance changes. All deltas for one
// member are applied atomically together with the transaction insert.
type WalletDeltas map[WalletKind]decimal.Decimal

// UplineEntry is one hop of a sponsor-chain walk. Level is 1-based from the
// member the walk started at.
type UplineEntry struct {
	Member Member `json:"member"`
	Level  int    `json:"level"`
}
