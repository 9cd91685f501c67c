package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portsrepo "github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
	"github.com/shiftbridge/staffing_app/internal/utils/timeconv"
)

// agingCutoffDays is how long past its last shift a requisition stays OPEN
// before the daily batch closes it out.
const agingCutoffDays = 7

var (
	ErrRequisitionNotPending = errors.New("requisition must be PENDING to open")
	ErrUnknownTimezone       = errors.New("unknown reference timezone")
)

// requisitionService owns the requisition lifecycle, including the daily
// aging batch.
type requisitionService struct {
	requisitionRepo portsrepo.RequisitionRepositoryFacade
	clientRepo      portsrepo.ClientReader
}

// NewRequisitionService creates a new RequisitionService.
func NewRequisitionService(requisitionRepo portsrepo.RequisitionRepositoryFacade, clientRepo portsrepo.ClientReader) portssvc.RequisitionSvcFacade {
	return &requisitionService{
		requisitionRepo: requisitionRepo,
		clientRepo:      clientRepo,
	}
}

var _ portssvc.RequisitionSvcFacade = (*requisitionService)(nil)

// CreateRequisition persists a new staffing need in PENDING status.
func (s *requisitionService) CreateRequisition(ctx context.Context, req dto.CreateRequisitionRequest, creatorUserID string) (*domain.Requisition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.HourlyRate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: hourly rate must be positive", apperrors.ErrValidation)
	}
	// The reference timezone interprets every child shift's wall-clock
	// times; reject it up front rather than at first shift creation.
	if _, err := time.LoadLocation(req.ReferenceTimezone); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, req.ReferenceTimezone)
	}

	if _, err := s.clientRepo.FindClientByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: client %s", apperrors.ErrNotFound, req.ClientID)
		}
		return nil, fmt.Errorf("failed to verify client: %w", err)
	}

	now := time.Now().UTC()
	requisition := domain.Requisition{
		RequisitionID:     uuid.NewString(),
		ClientID:          req.ClientID,
		Title:             req.Title,
		Location:          req.Location,
		Discipline:        req.Discipline,
		ExperienceLevel:   req.ExperienceLevel,
		HourlyRate:        req.HourlyRate,
		PermanentPosition: req.PermanentPosition,
		ReferenceTimezone: req.ReferenceTimezone,
		Status:            domain.RequisitionPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.requisitionRepo.SaveRequisition(ctx, requisition); err != nil {
		logger.Error("Failed to save requisition", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save requisition: %w", err)
	}

	logger.Info("Requisition created", slog.String("requisition_id", requisition.RequisitionID))
	return &requisition, nil
}

// GetRequisitionByID retrieves a single requisition.
func (s *requisitionService) GetRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find requisition %s: %w", requisitionID, err)
	}
	return requisition, nil
}

// ListRequisitions retrieves a paginated list of requisitions.
func (s *requisitionService) ListRequisitions(ctx context.Context, params dto.ListParams) ([]domain.Requisition, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	requisitions, nextToken, err := s.requisitionRepo.ListRequisitions(ctx, limit, params.NextToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list requisitions: %w", err)
	}
	return requisitions, nextToken, nil
}

// UpdateRequisition applies the mutable fields of a requisition.
func (s *requisitionService) UpdateRequisition(ctx context.Context, requisitionID string, req dto.UpdateRequisitionRequest, actorID string) (*domain.Requisition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Title != nil {
		requisition.Title = *req.Title
		updated = true
	}
	if req.Location != nil {
		requisition.Location = *req.Location
		updated = true
	}
	if req.ExperienceLevel != nil {
		requisition.ExperienceLevel = *req.ExperienceLevel
		updated = true
	}
	if req.HourlyRate != nil {
		if req.HourlyRate.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: hourly rate must be positive", apperrors.ErrValidation)
		}
		requisition.HourlyRate = *req.HourlyRate
		updated = true
	}
	if !updated {
		return requisition, nil
	}

	requisition.LastUpdatedAt = time.Now().UTC()
	requisition.LastUpdatedBy = actorID

	if err := s.requisitionRepo.UpdateRequisition(ctx, *requisition); err != nil {
		logger.Error("Failed to update requisition", slog.String("error", err.Error()), slog.String("requisition_id", requisitionID))
		return nil, fmt.Errorf("failed to update requisition: %w", err)
	}
	return requisition, nil
}

// OpenRequisition publishes a PENDING requisition to candidates.
func (s *requisitionService) OpenRequisition(ctx context.Context, requisitionID string, actorID string) error {
	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID)
	if err != nil {
		return err
	}
	if requisition.Status != domain.RequisitionPending {
		return fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrRequisitionNotPending)
	}
	return s.requisitionRepo.UpdateRequisitionStatus(ctx, requisitionID, domain.RequisitionOpen, actorID, time.Now().UTC())
}

// ArchiveRequisition soft-deletes a requisition.
func (s *requisitionService) ArchiveRequisition(ctx context.Context, requisitionID string, actorID string) error {
	if _, err := s.requisitionRepo.FindRequisitionByID(ctx, requisitionID); err != nil {
		return err
	}
	return s.requisitionRepo.ArchiveRequisition(ctx, requisitionID, actorID, time.Now().UTC())
}

// CloseOutdatedRequisitions is the daily aging batch. All qualifying
// requisitions are read in one pass so the run is consistent as of a single
// observation time; a row that fails to close is logged and skipped, never
// fatal to the batch.
func (s *requisitionService) CloseOutdatedRequisitions(ctx context.Context, now time.Time) (*portssvc.AgingSummary, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	rows, err := s.requisitionRepo.ListAgingCandidates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan aging candidates: %w", err)
	}

	summary := &portssvc.AgingSummary{ObservedAt: now.UTC()}
	cutoff := now.UTC().AddDate(0, 0, -agingCutoffDays)

	for _, row := range rows {
		summary.Scanned++

		if row.LatestDate == "" {
			// No shifts were ever scheduled; nothing to age against.
			continue
		}
		latest, err := time.Parse(timeconv.DateLayout, row.LatestDate)
		if err != nil {
			logger.Error("Skipping requisition with unparseable latest shift date",
				slog.String("requisition_id", row.Requisition.RequisitionID),
				slog.String("latest_date", row.LatestDate))
			summary.Failed++
			continue
		}
		if !latest.Before(cutoff) {
			continue
		}

		target := domain.RequisitionCanceled
		if row.FilledDays > 0 {
			target = domain.RequisitionUnfulfilled
		}
		if err := s.requisitionRepo.UpdateRequisitionStatus(ctx, row.Requisition.RequisitionID, target, "system:aging-job", now.UTC()); err != nil {
			logger.Error("Failed to close outdated requisition",
				slog.String("requisition_id", row.Requisition.RequisitionID),
				slog.String("error", err.Error()))
			summary.Failed++
			continue
		}

		if target == domain.RequisitionCanceled {
			summary.Canceled++
		} else {
			summary.Unfulfilled++
		}
		logger.Info("Closed outdated requisition",
			slog.String("requisition_id", row.Requisition.RequisitionID),
			slog.String("status", string(target)),
			slog.Int("filled_days", row.FilledDays),
			slog.Int("total_days", row.TotalDays))
	}

	logger.Info("Aging batch completed",
		slog.Int("scanned", summary.Scanned),
		slog.Int("canceled", summary.Canceled),
		slog.Int("unfulfilled", summary.Unfulfilled),
		slog.Int("failed", summary.Failed))
	return summary, nil
}
