package repositories

// RepositoryProvider bundles the repository facades handed to service construction.
type RepositoryProvider struct {
	AccountRepo   AccountRepositoryFacade
	EntryRepo     EntryRepositoryFacade
	ReportingRepo ReportingRepository
	ReadModelRepo ReadModelRepository
}
