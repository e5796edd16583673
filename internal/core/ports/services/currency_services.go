package services

import (
	"context"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
	"github.com/StakeNetHQ/stake_network_app/internal/dto"
)

// CurrencySvcFacade manages the currency reference table.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, actorID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
