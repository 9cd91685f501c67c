package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portsrepo "github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/middleware"
	"github.com/shiftbridge/staffing_app/internal/utils/scheduling"
)

var (
	ErrShiftNotOpen          = errors.New("shift is not open for claims")
	ErrRequisitionNotOpen    = errors.New("requisition is not accepting claims")
	ErrDisciplineMismatch    = errors.New("candidate does not hold the required discipline")
	ErrTimesheetNotDeletable = errors.New("timesheet has already been submitted")
	ErrWeekAlreadySubmitted  = errors.New("hours for this week have already been submitted")
)

// claimService turns open shifts into candidate workdays. Exclusivity is a
// database guarantee, not an in-process one: the repository's CreateClaim
// surfaces the unique-constraint race as apperrors.ErrAlreadyClaimed.
type claimService struct {
	requisitionRepo   portsrepo.RequisitionReader
	recurrenceDayRepo portsrepo.RecurrenceDayRepositoryFacade
	workdayRepo       portsrepo.WorkdayRepositoryFacade
	timesheetRepo     portsrepo.TimesheetReader
	userRepo          portsrepo.UserReader
	clientRepo        portsrepo.ClientReader
	notifier          portssvc.Notifier
}

// NewClaimService creates a new ClaimService.
func NewClaimService(
	requisitionRepo portsrepo.RequisitionReader,
	recurrenceDayRepo portsrepo.RecurrenceDayRepositoryFacade,
	workdayRepo portsrepo.WorkdayRepositoryFacade,
	timesheetRepo portsrepo.TimesheetReader,
	userRepo portsrepo.UserReader,
	clientRepo portsrepo.ClientReader,
	notifier portssvc.Notifier,
) portssvc.ClaimSvcFacade {
	return &claimService{
		requisitionRepo:   requisitionRepo,
		recurrenceDayRepo: recurrenceDayRepo,
		workdayRepo:       workdayRepo,
		timesheetRepo:     timesheetRepo,
		userRepo:          userRepo,
		clientRepo:        clientRepo,
		notifier:          notifier,
	}
}

var _ portssvc.ClaimSvcFacade = (*claimService)(nil)

// ClaimShift assigns the candidate to an open shift. The workday insert, the
// draft timesheet provisioning and the shift's OPEN -> FILLED transition
// commit in one repository transaction; losing a concurrent race surfaces as
// apperrors.ErrAlreadyClaimed with no partial state left behind.
func (s *claimService) ClaimShift(ctx context.Context, candidateID, recurrenceDayID string) (*domain.Workday, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	day, err := s.recurrenceDayRepo.FindRecurrenceDayByID(ctx, recurrenceDayID)
	if err != nil {
		return nil, err
	}
	if day.Status != domain.RecurrenceDayOpen {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrShiftNotOpen)
	}

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, day.RequisitionID)
	if err != nil {
		return nil, err
	}
	// A requisition that is not accepting claims is invisible to candidates,
	// so this reports NotFound rather than a state conflict.
	if requisition.Status != domain.RequisitionOpen {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrNotFound, ErrRequisitionNotOpen)
	}

	candidate, err := s.userRepo.FindUserByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !candidate.HasDiscipline(requisition.Discipline) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrForbidden, ErrDisciplineMismatch)
	}

	now := time.Now().UTC()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     candidateID,
		LastUpdatedAt: now,
		LastUpdatedBy: candidateID,
	}

	workday := domain.Workday{
		WorkdayID:       uuid.NewString(),
		RequisitionID:   day.RequisitionID,
		RecurrenceDayID: recurrenceDayID,
		CandidateID:     candidateID,
		AuditFields:     audit,
	}

	// Provision the week's draft sheet alongside the claim. When the
	// candidate already holds a sheet for this week the repository keeps the
	// existing row and links the workday to it instead.
	weekBegin, err := scheduling.WeekBegin(day.Date)
	if err != nil {
		return nil, err
	}

	// Once the week's hours are submitted the sheet is frozen for review;
	// a new claim in that week would land on a sheet reconciliation has
	// already seen.
	existing, err := s.timesheetRepo.FindTimesheetForWeek(ctx, candidateID, day.RequisitionID, weekBegin)
	switch {
	case err == nil:
		if existing.Status != domain.TimesheetDraft {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrWeekAlreadySubmitted)
		}
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, err
	}

	draft := &domain.Timesheet{
		TimesheetID:       uuid.NewString(),
		CandidateID:       candidateID,
		RequisitionID:     day.RequisitionID,
		WorkdayID:         workday.WorkdayID,
		WeekBeginDate:     weekBegin,
		HoursRaw:          []domain.HoursEntry{},
		TotalHoursWorked:  decimal.Zero,
		TotalHoursBilled:  decimal.Zero,
		CandidateRateBase: requisition.HourlyRate,
		CandidateRateOT:   requisition.HourlyRate.Mul(decimal.NewFromFloat(1.5)),
		Status:            domain.TimesheetDraft,
		AuditFields:       audit,
	}
	workday.TimesheetID = draft.TimesheetID

	if err := s.workdayRepo.CreateClaim(ctx, workday, draft); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyClaimed) {
			logger.Info("Claim lost race", slog.String("recurrence_day_id", recurrenceDayID), slog.String("candidate_id", candidateID))
			return nil, err
		}
		logger.Error("Failed to create claim", slog.String("error", err.Error()), slog.String("recurrence_day_id", recurrenceDayID))
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}

	logger.Info("Shift claimed",
		slog.String("workday_id", workday.WorkdayID),
		slog.String("recurrence_day_id", recurrenceDayID),
		slog.String("candidate_id", candidateID))

	s.notifyClient(ctx, requisition, candidate, day)

	claimed, err := s.workdayRepo.FindWorkdayByID(ctx, workday.WorkdayID)
	if err != nil {
		// The claim committed; fall back to the in-memory copy.
		return &workday, nil
	}
	return claimed, nil
}

// notifyClient tells the location contact a shift was filled. Delivery
// failures are the notifier's problem; a dead broker never fails a claim.
func (s *claimService) notifyClient(ctx context.Context, requisition *domain.Requisition, candidate *domain.User, day *domain.RecurrenceDay) {
	client, err := s.clientRepo.FindClientByID(ctx, requisition.ClientID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Skipping claim notification, client lookup failed",
			slog.String("error", err.Error()), slog.String("client_id", requisition.ClientID))
		return
	}
	s.notifier.Notify(ctx, "shift_claimed", client.ContactEmail, map[string]any{
		"requisitionTitle": requisition.Title,
		"candidateName":    candidate.Name,
		"date":             day.Date,
		"location":         requisition.Location,
	})
}

// CancelShift releases a claimed shift. Allowed only while the linked
// timesheet is still DRAFT; once hours are submitted the claim is frozen and
// release becomes a reviewer workflow.
func (s *claimService) CancelShift(ctx context.Context, workdayID string, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	workday, err := s.workdayRepo.FindWorkdayByID(ctx, workdayID)
	if err != nil {
		return err
	}
	if workday.CandidateID != actorID {
		actor, err := s.userRepo.FindUserByID(ctx, actorID)
		if err != nil {
			return err
		}
		if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleStaff {
			return apperrors.ErrForbidden
		}
	}

	if workday.TimesheetID != "" {
		sheet, err := s.timesheetRepo.FindTimesheetByID(ctx, workday.TimesheetID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		if sheet != nil && sheet.Status != domain.TimesheetDraft {
			return fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrTimesheetNotDeletable)
		}
	}

	if err := s.workdayRepo.DeleteClaim(ctx, workdayID); err != nil {
		logger.Error("Failed to cancel claim", slog.String("error", err.Error()), slog.String("workday_id", workdayID))
		return fmt.Errorf("failed to cancel claim: %w", err)
	}

	logger.Info("Shift claim canceled", slog.String("workday_id", workdayID), slog.String("actor_id", actorID))
	return nil
}
