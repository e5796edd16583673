package services

import (
	"context"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
)

// MemberSvcFacade exposes member lifecycle operations.
type MemberSvcFacade interface {
	RegisterMember(ctx context.Context, req dto.RegisterMemberRequest) (*domain.Member, error)
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)
	GetMemberByCode(ctx context.Context, memberCode string) (*domain.Member, error)
	SetActive(ctx context.Context, memberID string, active bool, actorID string) error
}
