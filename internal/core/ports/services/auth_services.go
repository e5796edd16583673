package services

import (
	"context"

	"github.com/StakeNetHQ/stake_network_app/internal/dto"
)

// AuthSvcFacade resolves credentials to an identity token.
type AuthSvcFacade interface {
	Login(ctx context.Context, memberCode string, password string) (*dto.LoginResponse, error)
}
