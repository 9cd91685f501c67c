package services

import (
	"context"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/dto"
)

// TimesheetSvcFacade owns hour submission and scheduled-vs-reported
// reconciliation.
type TimesheetSvcFacade interface {
	// SubmitTimesheet records the candidate's hours for the workday's week and
	// moves the sheet DRAFT -> PENDING. A week whose sheet is already
	// submitted rejects with apperrors.ErrConflict.
	SubmitTimesheet(ctx context.Context, workdayID string, req dto.SubmitTimesheetRequest, actorID string) (*domain.Timesheet, error)

	GetTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error)

	ListTimesheets(ctx context.Context, status domain.TimesheetStatus, params dto.ListParams) ([]domain.Timesheet, *string, error)

	// ValidateTimesheet loads the sheet's scheduled week and runs the pure
	// reconciliation, returning the discrepancy list without changing the
	// sheet's status. An empty list marks the sheet validated.
	ValidateTimesheet(ctx context.Context, timesheetID string) ([]domain.Discrepancy, error)

	// MarkDiscrepancy is the explicit reviewer action that persists
	// DISCREPANCY as the sheet's status.
	MarkDiscrepancy(ctx context.Context, timesheetID string, actorID, note string) error

	GetAuditTrail(ctx context.Context, timesheetID string) ([]domain.TimesheetAudit, error)
}
