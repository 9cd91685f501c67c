package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) repositories.RepositoryProvider {
	return repositories.RepositoryProvider{
		RequisitionRepo:   NewPgxRequisitionRepository(pool),
		RecurrenceDayRepo: NewPgxRecurrenceDayRepository(pool),
		WorkdayRepo:       NewPgxWorkdayRepository(pool),
		TimesheetRepo:     NewPgxTimesheetRepository(pool),
		InvoiceRepo:       NewPgxInvoiceRepository(pool),
		FeeConfigRepo:     NewPgxFeeConfigRepository(pool),
		ClientRepo:        NewPgxClientRepository(pool),
		UserRepo:          NewPgxUserRepository(pool),
	}
}
