package services

import (
	"context"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// ClaimSvcFacade turns open shifts into candidate workdays and back.
type ClaimSvcFacade interface {
	// ClaimShift atomically assigns the candidate to the shift: the workday
	// insert, draft timesheet provisioning and OPEN -> FILLED transition
	// commit together. At most one workday ever exists per shift; losing the
	// race surfaces as apperrors.ErrAlreadyClaimed. A week whose timesheet is
	// already submitted refuses new claims with apperrors.ErrConflict. The
	// location-contact notification afterwards is fire-and-forget.
	ClaimShift(ctx context.Context, candidateID, recurrenceDayID string) (*domain.Workday, error)

	// CancelShift is the transactional inverse of ClaimShift. It deletes the
	// workday and any still-DRAFT timesheet and reverts the shift to OPEN.
	CancelShift(ctx context.Context, workdayID string, actorID string) error
}
