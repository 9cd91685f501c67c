package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portsrepo "github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
	"github.com/shiftbridge/staffing_app/internal/utils/scheduling"
	"github.com/shiftbridge/staffing_app/internal/utils/timeconv"
)

// clockToleranceMinutes is the slack allowed between a scheduled and a
// reported clock value before the pair counts as a time mismatch.
const clockToleranceMinutes = 5.0

var (
	ErrAlreadySubmitted = errors.New("timesheet has already been submitted")
	ErrEntryOutsideWeek = errors.New("entry date falls outside the timesheet week")
	ErrNotSheetOwner    = errors.New("only the claiming candidate may submit hours")
)

// timesheetService owns hour submission and scheduled-vs-reported
// reconciliation.
type timesheetService struct {
	timesheetRepo     portsrepo.TimesheetRepositoryFacade
	workdayRepo       portsrepo.WorkdayReader
	recurrenceDayRepo portsrepo.RecurrenceDayReader
	requisitionRepo   portsrepo.RequisitionReader
}

// NewTimesheetService creates a new TimesheetService.
func NewTimesheetService(
	timesheetRepo portsrepo.TimesheetRepositoryFacade,
	workdayRepo portsrepo.WorkdayReader,
	recurrenceDayRepo portsrepo.RecurrenceDayReader,
	requisitionRepo portsrepo.RequisitionReader,
) portssvc.TimesheetSvcFacade {
	return &timesheetService{
		timesheetRepo:     timesheetRepo,
		workdayRepo:       workdayRepo,
		recurrenceDayRepo: recurrenceDayRepo,
		requisitionRepo:   requisitionRepo,
	}
}

var _ portssvc.TimesheetSvcFacade = (*timesheetService)(nil)

// SubmitTimesheet records the candidate's hours for the workday's week and
// moves the sheet DRAFT -> PENDING. Entries are stored verbatim; judging them
// against the schedule is ValidateTimesheet's job.
func (s *timesheetService) SubmitTimesheet(ctx context.Context, workdayID string, req dto.SubmitTimesheetRequest, actorID string) (*domain.Timesheet, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	workday, err := s.workdayRepo.FindWorkdayByID(ctx, workdayID)
	if err != nil {
		return nil, err
	}
	if workday.CandidateID != actorID {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrForbidden, ErrNotSheetOwner)
	}

	sheet, err := s.timesheetRepo.FindTimesheetByID(ctx, workday.TimesheetID)
	if err != nil {
		return nil, err
	}
	if sheet.Status != domain.TimesheetDraft {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrAlreadySubmitted)
	}

	weekEnd := sheet.WeekBeginDate.AddDate(0, 0, 7)
	entries := make([]domain.HoursEntry, len(req.Entries))
	total := decimal.Zero
	for i, in := range req.Entries {
		day, err := time.Parse(timeconv.DateLayout, in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", apperrors.ErrInvalidTimeFormat, in.Date)
		}
		if day.Before(sheet.WeekBeginDate) || !day.Before(weekEnd) {
			return nil, fmt.Errorf("%w: %v (%s)", apperrors.ErrValidation, ErrEntryOutsideWeek, in.Date)
		}
		if _, err := timeconv.ElapsedHours(in.StartTime, in.EndTime); err != nil {
			return nil, err
		}
		if in.Hours.IsNegative() {
			return nil, fmt.Errorf("%w: negative hours on %s", apperrors.ErrValidation, in.Date)
		}
		entries[i] = domain.HoursEntry{
			Date:      in.Date,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
			Hours:     in.Hours,
		}
		total = total.Add(in.Hours)
	}

	sheet.HoursRaw = entries
	sheet.TotalHoursWorked = total
	sheet.TotalHoursBilled = total
	sheet.CandidateRateBase = req.RateBase
	sheet.CandidateRateOT = req.RateOT
	sheet.Status = domain.TimesheetPending
	sheet.AwaitingClientSignature = true
	sheet.Validated = false
	sheet.LastUpdatedAt = time.Now().UTC()
	sheet.LastUpdatedBy = actorID

	if err := s.timesheetRepo.UpdateTimesheetSubmission(ctx, *sheet); err != nil {
		logger.Error("Failed to submit timesheet", slog.String("error", err.Error()), slog.String("timesheet_id", sheet.TimesheetID))
		return nil, fmt.Errorf("failed to submit timesheet: %w", err)
	}

	logger.Info("Timesheet submitted",
		slog.String("timesheet_id", sheet.TimesheetID),
		slog.String("candidate_id", actorID),
		slog.String("total_hours", total.String()))
	return sheet, nil
}

// GetTimesheetByID retrieves a timesheet.
func (s *timesheetService) GetTimesheetByID(ctx context.Context, timesheetID string) (*domain.Timesheet, error) {
	return s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
}

// ListTimesheets retrieves a paginated list of sheets in a given status.
func (s *timesheetService) ListTimesheets(ctx context.Context, status domain.TimesheetStatus, params dto.ListParams) ([]domain.Timesheet, *string, error) {
	return s.timesheetRepo.ListTimesheetsByStatus(ctx, status, params.Limit, params.NextToken)
}

// ValidateTimesheet loads the sheet's scheduled week and reconciles it
// against the reported hours. A clean run marks the sheet validated;
// discrepancies are returned for review without changing the sheet's status.
func (s *timesheetService) ValidateTimesheet(ctx context.Context, timesheetID string) ([]domain.Discrepancy, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sheet, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		return nil, err
	}
	if sheet.Status == domain.TimesheetDraft {
		return nil, fmt.Errorf("%w: timesheet has no submitted hours yet", apperrors.ErrConflict)
	}

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, sheet.RequisitionID)
	if err != nil {
		return nil, err
	}

	// Only shifts this candidate actually claimed count as their schedule.
	workdays, err := s.workdayRepo.ListWorkdaysForWeek(ctx, sheet.CandidateID, sheet.RequisitionID, sheet.WeekBeginDate)
	if err != nil {
		return nil, err
	}
	weekDays, err := s.recurrenceDayRepo.ListRecurrenceDaysInWeek(ctx, sheet.RequisitionID, sheet.WeekBeginDate)
	if err != nil {
		return nil, err
	}
	claimed := make(map[string]bool, len(workdays))
	for _, w := range workdays {
		claimed[w.RecurrenceDayID] = true
	}
	scheduled := make([]domain.RecurrenceDay, 0, len(workdays))
	for _, d := range weekDays {
		if claimed[d.RecurrenceDayID] {
			scheduled = append(scheduled, d)
		}
	}

	discrepancies, err := ReconcileTimesheet(sheet, scheduled, requisition.ReferenceTimezone)
	if err != nil {
		return nil, err
	}

	clean := len(discrepancies) == 0
	if clean != sheet.Validated {
		if err := s.timesheetRepo.UpdateTimesheetValidated(ctx, timesheetID, clean, "system:validation", time.Now().UTC()); err != nil {
			logger.Error("Failed to persist validation flag", slog.String("error", err.Error()), slog.String("timesheet_id", timesheetID))
			return nil, fmt.Errorf("failed to persist validation flag: %w", err)
		}
	}

	logger.Info("Timesheet validated",
		slog.String("timesheet_id", timesheetID),
		slog.Int("discrepancies", len(discrepancies)))
	return discrepancies, nil
}

// ReconcileTimesheet compares a sheet's reported entries against the
// candidate's scheduled shifts for the week. Scheduled UTC instants are
// rendered back into the requisition's reference timezone first, so the
// comparison happens in the clock the candidate actually worked in.
//
// The function is pure; it touches no storage and mutates nothing.
func ReconcileTimesheet(sheet *domain.Timesheet, scheduled []domain.RecurrenceDay, referenceTimezone string) ([]domain.Discrepancy, error) {
	reported := make(map[string]domain.HoursEntry, len(sheet.HoursRaw))
	for _, e := range sheet.HoursRaw {
		reported[e.Date] = e
	}

	var out []domain.Discrepancy
	matched := make(map[string]bool, len(scheduled))

	for _, day := range scheduled {
		localDate, startClock, err := timeconv.UTCToLocal(day.DayStart, referenceTimezone)
		if err != nil {
			return nil, err
		}
		_, endClock, err := timeconv.UTCToLocal(day.DayEnd, referenceTimezone)
		if err != nil {
			return nil, err
		}
		maxHours, err := scheduling.CalculateMaxHours(scheduling.WindowOf(day.DayStart, day.DayEnd, day.LunchStart, day.LunchEnd))
		if err != nil {
			return nil, err
		}

		entry, ok := reported[localDate]
		if !ok {
			out = append(out, domain.Discrepancy{
				Kind:            domain.DiscrepancyMissingDay,
				Date:            localDate,
				ScheduledStart:  startClock,
				ScheduledEnd:    endClock,
				ScheduledHours:  maxHours,
				ReportedHours:   decimal.Zero,
				Detail:          "scheduled shift has no reported hours",
				RecurrenceDayID: day.RecurrenceDayID,
			})
			continue
		}
		matched[localDate] = true

		startDrift, err := clockDriftMinutes(startClock, entry.StartTime)
		if err != nil {
			return nil, err
		}
		endDrift, err := clockDriftMinutes(endClock, entry.EndTime)
		if err != nil {
			return nil, err
		}
		if startDrift > clockToleranceMinutes || endDrift > clockToleranceMinutes {
			out = append(out, domain.Discrepancy{
				Kind:            domain.DiscrepancyTimeMismatch,
				Date:            localDate,
				ScheduledStart:  startClock,
				ScheduledEnd:    endClock,
				ReportedStart:   entry.StartTime,
				ReportedEnd:     entry.EndTime,
				ScheduledHours:  maxHours,
				ReportedHours:   entry.Hours,
				Detail:          "reported times differ from the scheduled window",
				RecurrenceDayID: day.RecurrenceDayID,
			})
		}

		if entry.Hours.GreaterThan(maxHours) {
			out = append(out, domain.Discrepancy{
				Kind:            domain.DiscrepancyHoursExceeded,
				Date:            localDate,
				ScheduledStart:  startClock,
				ScheduledEnd:    endClock,
				ReportedStart:   entry.StartTime,
				ReportedEnd:     entry.EndTime,
				ScheduledHours:  maxHours,
				ReportedHours:   entry.Hours,
				Detail:          "reported hours exceed the scheduled ceiling",
				RecurrenceDayID: day.RecurrenceDayID,
			})
		}
	}

	for _, e := range sheet.HoursRaw {
		if matched[e.Date] {
			continue
		}
		out = append(out, domain.Discrepancy{
			Kind:           domain.DiscrepancyUnscheduledDay,
			Date:           e.Date,
			ReportedStart:  e.StartTime,
			ReportedEnd:    e.EndTime,
			ScheduledHours: decimal.Zero,
			ReportedHours:  e.Hours,
			Detail:         "hours reported on a day with no claimed shift",
		})
	}

	return out, nil
}

// clockDriftMinutes returns the distance in minutes between two bare HH:MM
// values, measured the short way around the clock face so a few minutes
// across midnight (23:58 vs 00:03) is a small drift, not a near-full day.
func clockDriftMinutes(a, b string) (float64, error) {
	ta, err := timeconv.ParseClock(a)
	if err != nil {
		return 0, err
	}
	tb, err := timeconv.ParseClock(b)
	if err != nil {
		return 0, err
	}
	drift := tb.Sub(ta).Minutes()
	if drift < 0 {
		drift = -drift
	}
	if wrapped := 24*60 - drift; wrapped < drift {
		drift = wrapped
	}
	return drift, nil
}

// MarkDiscrepancy is the explicit reviewer action that parks a PENDING sheet
// in DISCREPANCY until the candidate or reviewer resolves it.
func (s *timesheetService) MarkDiscrepancy(ctx context.Context, timesheetID string, actorID, note string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.timesheetRepo.TransitionTimesheetStatus(ctx, timesheetID, domain.TimesheetPending, domain.TimesheetDiscrepancy, actorID, note, time.Now().UTC()); err != nil {
		logger.Error("Failed to mark discrepancy", slog.String("error", err.Error()), slog.String("timesheet_id", timesheetID))
		return err
	}
	logger.Info("Timesheet marked as discrepancy", slog.String("timesheet_id", timesheetID), slog.String("actor_id", actorID))
	return nil
}

// GetAuditTrail returns a sheet's status transition history, oldest first.
func (s *timesheetService) GetAuditTrail(ctx context.Context, timesheetID string) ([]domain.TimesheetAudit, error) {
	if _, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID); err != nil {
		return nil, err
	}
	return s.timesheetRepo.ListAuditTrail(ctx, timesheetID)
}
