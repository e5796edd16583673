package dto

import (
	"time"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RegisterMemberRequest defines the data needed to register a new member under
// a sponsor. SponsorCode is optional only for the very first (root) member.
type RegisterMemberRequest struct {
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	SponsorCode string `json:"sponsorCode"`
}

// MemberResponse defines the data returned for a member.
type MemberResponse struct {
	MemberID         string          `json:"memberID"`
	MemberCode       string          `json:"memberCode"`
	Name             string          `json:"name"`
	Role             domain.Role     `json:"role"`
	IsActive         bool            `json:"isActive"`
	Booster          bool            `json:"booster"`
	NormalWallet     decimal.Decimal `json:"normalWallet"`
	FranchiseWallet  decimal.Decimal `json:"franchiseWallet"`
	StakingWallet    decimal.Decimal `json:"stakingWallet"`
	SponsorID        *string         `json:"sponsorID,omitempty"`
	LeftDirectCount  int             `json:"leftDirectCount"`
	RightDirectCount int             `json:"rightDirectCount"`
	Principal        decimal.Decimal `json:"principal"`
	LastYieldPeriod  string          `json:"lastYieldPeriod,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:         m.MemberID,
		MemberCode:       m.MemberCode,
		Name:             m.Name,
		Role:             m.Role,
		IsActive:         m.IsActive,
		Booster:          m.Booster,
		NormalWallet:     m.NormalWallet,
		FranchiseWallet:  m.FranchiseWallet,
		StakingWallet:    m.StakingWallet,
		SponsorID:        m.SponsorID,
		LeftDirectCount:  m.LeftDirectCount,
		RightDirectCount: m.RightDirectCount,
		Principal:        m.Principal,
		LastYieldPeriod:  m.LastYieldPeriod,
		CreatedAt:        m.CreatedAt,
	}
}

// SetActiveRequest toggles the lifecycle flag of a member.
type SetActiveRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
