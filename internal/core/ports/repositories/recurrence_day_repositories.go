package repositories

import (
	"context"
	"time"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// RecurrenceDayReader defines read operations for shift instances.
type RecurrenceDayReader interface {
	// FindRecurrenceDayByID retrieves a single shift instance.
	FindRecurrenceDayByID(ctx context.Context, recurrenceDayID string) (*domain.RecurrenceDay, error)

	// ListRecurrenceDaysByRequisition retrieves all non-archived shifts under a
	// requisition, ordered by date.
	ListRecurrenceDaysByRequisition(ctx context.Context, requisitionID string) ([]domain.RecurrenceDay, error)

	// ListRecurrenceDaysInWeek retrieves a requisition's shifts whose dates
	// fall in [weekBegin, weekBegin+7d), ordered by date.
	ListRecurrenceDaysInWeek(ctx context.Context, requisitionID string, weekBegin time.Time) ([]domain.RecurrenceDay, error)
}

// RecurrenceDayWriter defines write operations for shift instances.
type RecurrenceDayWriter interface {
	// SaveRecurrenceDays bulk-inserts shift instances in one transaction.
	SaveRecurrenceDays(ctx context.Context, days []domain.RecurrenceDay) error

	UpdateRecurrenceDay(ctx context.Context, day domain.RecurrenceDay) error

	UpdateRecurrenceDayStatus(ctx context.Context, recurrenceDayID string, status domain.RecurrenceDayStatus, updatedBy string, updatedAt time.Time) error

	// DeleteRecurrenceDay removes a shift instance. When force is set, the
	// deletion cascades to the shift's workday and any still-DRAFT timesheet
	// reference in the same transaction; a submitted timesheet is never
	// touched.
	DeleteRecurrenceDay(ctx context.Context, recurrenceDayID string, force bool) error
}

// RecurrenceDayRepositoryFacade combines all recurrence day repository interfaces.
type RecurrenceDayRepositoryFacade interface {
	RecurrenceDayReader
	RecurrenceDayWriter
}
