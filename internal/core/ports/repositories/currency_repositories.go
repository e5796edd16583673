package repositories

import (
	"context"

	"github.com/StakeNetHQ/stake_network_app/internal/core/domain"
)

// CurrencyRepositoryFacade provides access to the currency reference table.
type CurrencyRepositoryFacade interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
