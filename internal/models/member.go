package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member mirrors the members table.
type Member struct {
	MemberID     string `db:"member_id"`
	MemberCode   string `db:"member_code"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	IsActive     bool   `db:"is_active"`
	Booster      bool   `db:"booster"`

	NormalWallet    decimal.Decimal `db:"normal_wallet"`
	FranchiseWallet decimal.Decimal `db:"franchise_wallet"`
	StakingWallet   decimal.Decimal `db:"staking_wallet"`

	SponsorID        *string `db:"sponsor_id"`
	LeftChildID      *string `db:"left_child_id"`
	RightChildID     *string `db:"right_child_id"`
	LeftDirectCount  int     `db:"left_direct_count"`
	RightDirectCount int     `db:"right_direct_count"`

	Principal          decimal.Decimal `db:"principal"`
	InvestmentOpenedAt *time.Time      `db:"investment_opened_at"`
	LastYieldPeriod    string          `db:"last_yield_period"`

	AuditFields
}
