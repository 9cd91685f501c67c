package repositories

import (
	"context"
	"time"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// WorkdayReader defines read operations for candidate-shift bindings.
type WorkdayReader interface {
	FindWorkdayByID(ctx context.Context, workdayID string) (*domain.Workday, error)

	// FindWorkdayByRecurrenceDay returns the occupant of a shift, or
	// apperrors.ErrNotFound when the shift is unclaimed.
	FindWorkdayByRecurrenceDay(ctx context.Context, recurrenceDayID string) (*domain.Workday, error)

	// ListWorkdaysForWeek retrieves a candidate's workdays under a requisition
	// whose shift dates fall in the pay week starting at weekBegin.
	ListWorkdaysForWeek(ctx context.Context, candidateID, requisitionID string, weekBegin time.Time) ([]domain.Workday, error)
}

// WorkdayWriter defines the transactional claim mutations. Both operations
// span several tables and must commit or roll back as a unit; exclusivity
// comes from the workdays table's unique constraint on recurrence_day_id, not
// from any in-process lock.
type WorkdayWriter interface {
	// CreateClaim inserts the workday, provisions the draft timesheet when one
	// is supplied, and transitions the shift to FILLED in one transaction.
	// A unique-constraint violation on the shift surfaces as
	// apperrors.ErrAlreadyClaimed.
	CreateClaim(ctx context.Context, workday domain.Workday, draft *domain.Timesheet) error

	// DeleteClaim is the symmetric inverse: removes the workday, deletes the
	// linked timesheet only while it is still DRAFT, and reverts the shift to
	// OPEN, all in one transaction.
	DeleteClaim(ctx context.Context, workdayID string) error
}

// WorkdayRepositoryFacade combines all workday repository interfaces.
type WorkdayRepositoryFacade interface {
	WorkdayReader
	WorkdayWriter
}
