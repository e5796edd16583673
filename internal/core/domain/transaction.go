package domain

import "github.com/shopspring/decimal"

// TransactionKind identifies what produced a ledger entry.
type TransactionKind string

const (
	KindStakingYield         TransactionKind = "staking-yield"
	KindGenerationCommission TransactionKind = "generation-commission"
	KindReferralIncome       TransactionKind = "referral-income"
	KindActivationFee        TransactionKind = "activation-fee"
	KindTransfer             TransactionKind = "transfer"
	KindFranchiseFee         TransactionKind = "franchise-fee"
)

// KnownTransactionKind reports whether the kind is part of the fixed set.
func KnownTransactionKind(k TransactionKind) bool {
	switch k {
	case KindStakingYield, KindGenerationCommission, KindReferralIncome,
		KindActivationFee, KindTransfer, KindFranchiseFee:
		return true
	}
	return false
}

// TransferDirection distinguishes internal wallet moves from the two external
// movements that reuse the transfer kind.
type TransferDirection string

const (
	DirectionInternal   TransferDirection = "internal"
	DirectionDeposit    TransferDirection = "deposit"
	DirectionWithdrawal TransferDirection = "withdrawal"
)

// YieldMeta accompanies staking-yield entries.
type YieldMeta struct {
	Period    string          `json:"period"`
	Principal decimal.Decimal `json:"principal"`
	Rate      decimal.Decimal `json:"rate"` // realized rate, amount/principal rounded
}

// CommissionMeta accompanies generation-commission entries.
type CommissionMeta struct {
	Level          int    `json:"level"`
	SourceMemberID string `json:"sourceMemberID"`
}

// ReferralMeta accompanies referral-income entries. Table names which of the
// two percentage tables produced the amount.
type ReferralMeta struct {
	Level          int             `json:"level"`
	SourceMemberID string          `json:"sourceMemberID"`
	Rate           decimal.Decimal `json:"rate"` // percentage applied
	Table          string          `json:"table"`
	Period         string          `json:"period,omitempty"` // set on the periodic path
}

// TransferMeta accompanies transfer entries.
type TransferMeta struct {
	FromWallet WalletKind        `json:"fromWallet,omitempty"`
	ToWallet   WalletKind        `json:"toWallet,omitempty"`
	ActorRole  Role              `json:"actorRole"`
	Direction  TransferDirection `json:"direction"`
	RequestID  string            `json:"requestID,omitempty"`
}

// ActivationMeta accompanies activation-fee entries.
type ActivationMeta struct {
	PackageAmount decimal.Decimal `json:"packageAmount"`
}

// FranchiseMeta accompanies franchise-fee entries.
type FranchiseMeta struct {
	BaseAmount  decimal.Decimal `json:"baseAmount"`
	BonusAmount decimal.Decimal `json:"bonusAmount"`
	BonusRate   decimal.Decimal `json:"bonusRate"` // percentage
	RequestID   string          `json:"requestID,omitempty"`
}

// TransactionMetadata is a tagged union keyed by the transaction kind. Exactly
// one variant is populated per entry.
type TransactionMetadata struct {
	Yield      *YieldMeta      `json:"yield,omitempty"`
	Commission *CommissionMeta `json:"commission,omitempty"`
	Referral   *ReferralMeta   `json:"referral,omitempty"`
	Transfer   *TransferMeta   `json:"transfer,omitempty"`
	Activation *ActivationMeta `json:"activation,omitempty"`
	Franchise  *FranchiseMeta  `json:"franchise,omitempty"`
}

// Transaction is an immutable, append-only ledger entry. Entries are never
// mutated or deleted; every wallet balance delta has exactly one of these.
type Transaction struct {
	TransactionID string              `json:"transactionID"` // Primary Key (UUID)
	MemberID      string              `json:"memberID"`      // FK -> Member.memberID
	Kind          TransactionKind     `json:"kind"`
	Amount        decimal.Decimal     `json:"amount"` // signed
	CurrencyCode  string              `json:"currencyCode"`
	Metadata      TransactionMetadata `json:"metadata"`
	AuditFields
}
