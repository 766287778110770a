package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	EntityRepo    EntityRepositoryFacade
	AccountRepo   AccountRepositoryFacade
	PeriodRepo    PeriodRepositoryFacade
	JournalRepo   JournalRepositoryFacade
	ReportingRepo ReportingRepository
	RateRepo      ExchangeRateRepositoryFacade
	UnitOfWork    UnitOfWork
}
