package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This simplifies passing repository dependencies around.
type RepositoryProvider struct {
	MemberRepo   MemberRepositoryFacade
	LedgerRepo   LedgerRepositoryFacade
	RequestRepo  RequestRepositoryFacade
	CurrencyRepo CurrencyRepositoryFacade
}
