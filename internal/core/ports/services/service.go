package services

// ServiceContainer bundles every service facade for route registration.
type ServiceContainer struct {
	Auth         AuthSvcFacade
	Member       MemberSvcFacade
	Ledger       LedgerSvcFacade
	Tree         TreeSvcFacade
	Transfer     TransferSvcFacade
	Investment   InvestmentSvcFacade
	Distribution DistributionSvcFacade
	Request      RequestSvcFacade
	Currency     CurrencySvcFacade
}
