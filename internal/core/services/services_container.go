package services

import (
	portsrepo "github.com/StakeNetHQ/stake_network_app/internal/core/ports/repositories"
	portssvc "github.com/StakeNetHQ/stake_network_app/internal/core/ports/services"
	"github.com/StakeNetHQ/stake_network_app/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Ledger and tree first; the compensation services all depend on them.
	container.Ledger = NewLedgerService(repos.LedgerRepo)
	container.Tree = NewTreeService(repos.MemberRepo)

	container.Member = NewMemberService(repos.MemberRepo, container.Tree)
	container.Transfer = NewTransferService(repos.MemberRepo, container.Ledger)
	container.Investment = NewInvestmentService(repos.MemberRepo, container.Ledger, container.Tree)
	container.Distribution = NewDistributionService(repos.MemberRepo, container.Ledger, container.Tree)
	container.Request = NewRequestService(repos.RequestRepo, repos.MemberRepo, container.Ledger)
	container.Currency = NewCurrencyService(repos.CurrencyRepo)

	container.Auth = NewAuthService(repos.MemberRepo, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return container
}
