package repositories

import (
	"context"
	"time"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// TimesheetReader defines read operations for timesheet data.
type TimesheetReader interface {
	FindTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error)

	// FindTimesheetForWeek retrieves the unique sheet for a (candidate,
	// requisition, week-begin) triple, or apperrors.ErrNotFound.
	FindTimesheetForWeek(ctx context.Context, candidateID, requisitionID string, weekBegin time.Time) (*domain.Timesheet, error)

	// ListTimesheetsByStatus retrieves a paginated list of sheets in a given
	// status using token-based pagination.
	ListTimesheetsByStatus(ctx context.Context, status domain.TimesheetStatus, limit int, nextToken *string) ([]domain.Timesheet, *string, error)

	// ListAuditTrail returns the status transition history of a sheet, oldest first.
	ListAuditTrail(ctx context.Context, timesheetID string) ([]domain.TimesheetAudit, error)
}

// TimesheetWriter defines write operations for timesheet data.
type TimesheetWriter interface {
	SaveTimesheet(ctx context.Context, sheet domain.Timesheet) error

	// UpdateTimesheetSubmission persists the candidate's hours, rates, totals
	// and the DRAFT -> PENDING transition in one statement.
	UpdateTimesheetSubmission(ctx context.Context, sheet domain.Timesheet) error

	// TransitionTimesheetStatus moves a sheet from one status to another and
	// appends the audit record in the same transaction. The update is guarded
	// by the expected current status; a guard miss surfaces as
	// apperrors.ErrConflict so racing reviewers cannot double-apply a
	// transition.
	TransitionTimesheetStatus(ctx context.Context, timesheetID string, from, to domain.TimesheetStatus, actorID, note string, at time.Time) error

	// UpdateTimesheetValidated flips the validated flag after a clean
	// reconciliation run.
	UpdateTimesheetValidated(ctx context.Context, timesheetID string, validated bool, updatedBy string, updatedAt time.Time) error
}

// TimesheetRepositoryFacade combines all timesheet repository interfaces.
type TimesheetRepositoryFacade interface {
	TimesheetReader
	TimesheetWriter
}
