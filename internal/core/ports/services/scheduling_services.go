package services

import (
	"context"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/dto"
)

// SchedulingSvcFacade owns the catalog of shift instances under a
// requisition.
type SchedulingSvcFacade interface {
	// CreateRecurrenceDays bulk-creates shift instances, converting each
	// wall-clock field to UTC with the requisition's reference timezone.
	// Any shift violating the day/lunch window invariant rejects the whole
	// batch with apperrors.ErrValidation.
	CreateRecurrenceDays(ctx context.Context, requisitionID string, req dto.CreateRecurrenceDaysRequest, actorID string) ([]domain.RecurrenceDay, error)

	ListRecurrenceDays(ctx context.Context, requisitionID string) ([]domain.RecurrenceDay, error)

	// UpdateRecurrenceDay edits a single shift. Refused with
	// apperrors.ErrConflict once the shift is claimed.
	UpdateRecurrenceDay(ctx context.Context, recurrenceDayID string, req dto.UpdateRecurrenceDayRequest, actorID string) (*domain.RecurrenceDay, error)

	// DeleteRecurrenceDay removes a shift. A claimed shift requires force,
	// which cancels the claim and deletes a still-DRAFT timesheet; a
	// submitted timesheet blocks the deletion entirely.
	DeleteRecurrenceDay(ctx context.Context, recurrenceDayID string, force bool, actorID string) error
}
