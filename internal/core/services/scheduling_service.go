package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portsrepo "github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
	"github.com/shiftbridge/staffing_app/internal/utils/timeconv"
)

var (
	ErrLunchOutsideDay   = errors.New("lunch window must fall inside the day window")
	ErrDayEndBeforeStart = errors.New("day end must be after day start")
	ErrLunchHalfOpen     = errors.New("lunch start and end must be provided together")
	ErrShiftClaimed      = errors.New("shift already has an occupant")
)

// schedulingService owns the catalog of shift instances under requisitions.
type schedulingService struct {
	requisitionRepo   portsrepo.RequisitionReader
	recurrenceDayRepo portsrepo.RecurrenceDayRepositoryFacade
	workdayRepo       portsrepo.WorkdayReader
}

// NewSchedulingService creates a new SchedulingService.
func NewSchedulingService(requisitionRepo portsrepo.RequisitionReader, recurrenceDayRepo portsrepo.RecurrenceDayRepositoryFacade, workdayRepo portsrepo.WorkdayReader) portssvc.SchedulingSvcFacade {
	return &schedulingService{
		requisitionRepo:   requisitionRepo,
		recurrenceDayRepo: recurrenceDayRepo,
		workdayRepo:       workdayRepo,
	}
}

var _ portssvc.SchedulingSvcFacade = (*schedulingService)(nil)

// convertShiftInput turns one client-authored local-time shift definition into
// canonical UTC instants and checks the window invariant.
func convertShiftInput(date, dayStart, dayEnd, lunchStart, lunchEnd, tz string) (start, end time.Time, lStart, lEnd *time.Time, err error) {
	start, err = timeconv.LocalToUTC(date, dayStart, tz)
	if err != nil {
		return
	}
	end, err = timeconv.LocalToUTC(date, dayEnd, tz)
	if err != nil {
		return
	}
	if !end.After(start) {
		err = fmt.Errorf("%w: %v on %s", apperrors.ErrValidation, ErrDayEndBeforeStart, date)
		return
	}

	if (lunchStart == "") != (lunchEnd == "") {
		err = fmt.Errorf("%w: %v on %s", apperrors.ErrValidation, ErrLunchHalfOpen, date)
		return
	}
	if lunchStart != "" {
		var ls, le time.Time
		ls, err = timeconv.LocalToUTC(date, lunchStart, tz)
		if err != nil {
			return
		}
		le, err = timeconv.LocalToUTC(date, lunchEnd, tz)
		if err != nil {
			return
		}
		// Invariant: dayStart < lunchStart <= lunchEnd < dayEnd.
		if !ls.After(start) || le.Before(ls) || !le.Before(end) {
			err = fmt.Errorf("%w: %v on %s", apperrors.ErrValidation, ErrLunchOutsideDay, date)
			return
		}
		lStart, lEnd = &ls, &le
	}
	return
}

// CreateRecurrenceDays bulk-creates shift instances under a requisition. Any
// invalid shift rejects the entire batch; nothing is silently coerced.
func (s *schedulingService) CreateRecurrenceDays(ctx context.Context, requisitionID string, req dto.CreateRecurrenceDaysRequest, actorID string) ([]domain.RecurrenceDay, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	days := make([]domain.RecurrenceDay, len(req.Days))
	for i, input := range req.Days {
		start, end, lStart, lEnd, err := convertShiftInput(input.Date, input.DayStart, input.DayEnd, input.LunchStart, input.LunchEnd, requisition.ReferenceTimezone)
		if err != nil {
			return nil, err
		}
		days[i] = domain.RecurrenceDay{
			RecurrenceDayID: uuid.NewString(),
			RequisitionID:   requisitionID,
			Date:            input.Date,
			DayStart:        start,
			DayEnd:          end,
			LunchStart:      lStart,
			LunchEnd:        lEnd,
			Status:          domain.RecurrenceDayOpen,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}

	if err := s.recurrenceDayRepo.SaveRecurrenceDays(ctx, days); err != nil {
		logger.Error("Failed to save recurrence days", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
		return nil, fmt.Errorf("failed to save recurrence days: %w", err)
	}

	logger.Info("Recurrence days created", slog.String("requisition_id", requisitionID), slog.Int("count", len(days)))
	return days, nil
}

// ListRecurrenceDays retrieves all shifts under a requisition.
func (s *schedulingService) ListRecurrenceDays(ctx context.Context, requisitionID string) ([]domain.RecurrenceDay, error) {
	if _, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID); err != nil {
		return nil, err
	}
	return s.recurrenceDayRepo.ListRecurrenceDaysByRequisition(ctx, requisitionID)
}

// UpdateRecurrenceDay edits a single unclaimed shift. Provided wall-clock
// fields are re-interpreted in the requisition's reference timezone; omitted
// fields keep their stored wall-clock value, re-anchored when the date moves.
func (s *schedulingService) UpdateRecurrenceDay(ctx context.Context, recurrenceDayID string, req dto.UpdateRecurrenceDayRequest, actorID string) (*domain.RecurrenceDay, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	day, err := s.recurrenceDayRepo.FindRecurrenceDayByID(ctx, recurrenceDayID)
	if err != nil {
		return nil, err
	}

	if _, err := s.workdayRepo.FindWorkdayByRecurrenceDay(ctx, recurrenceDayID); err == nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrShiftClaimed)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check shift occupancy: %w", err)
	}

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, day.RequisitionID)
	if err != nil {
		return nil, err
	}
	tz := requisition.ReferenceTimezone

	date := day.Date
	if req.Date != nil {
		date = *req.Date
	}

	// Resolve each wall-clock field: the request value when provided,
	// otherwise the stored instant rendered back into the reference zone.
	clockOr := func(override *string, stored *time.Time) (string, error) {
		if override != nil {
			return *override, nil
		}
		if stored == nil {
			return "", nil
		}
		_, clock, err := timeconv.UTCToLocal(*stored, tz)
		return clock, err
	}

	dayStartClock, err := clockOr(req.DayStart, &day.DayStart)
	if err != nil {
		return nil, err
	}
	dayEndClock, err := clockOr(req.DayEnd, &day.DayEnd)
	if err != nil {
		return nil, err
	}
	lunchStartClock, err := clockOr(req.LunchStart, day.LunchStart)
	if err != nil {
		return nil, err
	}
	lunchEndClock, err := clockOr(req.LunchEnd, day.LunchEnd)
	if err != nil {
		return nil, err
	}

	start, end, lStart, lEnd, err := convertShiftInput(date, dayStartClock, dayEndClock, lunchStartClock, lunchEndClock, tz)
	if err != nil {
		return nil, err
	}

	day.Date = date
	day.DayStart = start
	day.DayEnd = end
	day.LunchStart = lStart
	day.LunchEnd = lEnd
	day.LastUpdatedAt = time.Now().UTC()
	day.LastUpdatedBy = actorID

	if err := s.recurrenceDayRepo.UpdateRecurrenceDay(ctx, *day); err != nil {
		logger.Error("Failed to update recurrence day", slog.String("error", err.Error()), slog.String("recurrence_day_id", recurrenceDayID))
		return nil, fmt.Errorf("failed to update recurrence day: %w", err)
	}
	return day, nil
}

// DeleteRecurrenceDay removes a shift. A claimed shift requires force, which
// cancels the occupant's workday and a still-DRAFT timesheet in the same
// transaction; a submitted timesheet is never deleted.
func (s *schedulingService) DeleteRecurrenceDay(ctx context.Context, recurrenceDayID string, force bool, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.recurrenceDayRepo.FindRecurrenceDayByID(ctx, recurrenceDayID); err != nil {
		return err
	}

	if _, err := s.workdayRepo.FindWorkdayByRecurrenceDay(ctx, recurrenceDayID); err == nil {
		if !force {
			return fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrShiftClaimed)
		}
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to check shift occupancy: %w", err)
	}

	if err := s.recurrenceDayRepo.DeleteRecurrenceDay(ctx, recurrenceDayID, force); err != nil {
		logger.Error("Failed to delete recurrence day", slog.String("error", err.Error()), slog.String("recurrence_day_id", recurrenceDayID))
		return err
	}

	logger.Info("Recurrence day deleted", slog.String("recurrence_day_id", recurrenceDayID), slog.Bool("force", force))
	return nil
}
