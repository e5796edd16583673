package dto

import "github.com/StakeNetHQ/stake_network_app/internal/core/domain"

// LoginRequest defines the credentials for password login.
type LoginRequest struct {
	MemberCode string `json:"memberCode" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and basic identity.
type LoginResponse struct {
	Token      string      `json:"token"`
	MemberID   string      `json:"memberID"`
	MemberCode string      `json:"memberCode"`
	Role       domain.Role `json:"role"`
}
