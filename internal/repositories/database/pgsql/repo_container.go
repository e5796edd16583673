package pgsql

import (
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	memberRepo := newPgxMemberRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	requestRepo := newPgxRequestRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		MemberRepo:   memberRepo,
		LedgerRepo:   ledgerRepo,
		RequestRepo:  requestRepo,
		CurrencyRepo: currencyRepo,
	}
}
