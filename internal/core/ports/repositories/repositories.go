package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	RequisitionRepo   RequisitionRepositoryFacade
	RecurrenceDayRepo RecurrenceDayRepositoryFacade
	WorkdayRepo       WorkdayRepositoryFacade
	TimesheetRepo     TimesheetRepositoryFacade
	InvoiceRepo       InvoiceRepositoryFacade
	FeeConfigRepo     FeeConfigRepositoryFacade
	ClientRepo        ClientRepositoryFacade
	UserRepo          UserRepositoryFacade
}
