package repositories

// RepositoryProvider aggregates the repository implementations handed to the
// service container.
type RepositoryProvider struct {
	PartyRepo     PartyRepositoryFacade
	DocumentRepo  DocumentRepositoryFacade
	PaymentRepo   PaymentRepositoryFacade
	RecurringRepo RecurringRepositoryFacade
	ExpenseRepo   ExpenseRepositoryFacade
	RateRepo      ExchangeRateRepositoryFacade
	ReportingRepo ReportingRepository
}
