package services

import (
	"context"
	"time"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/dto"
)

// AgingSummary reports one run of the daily requisition close-out batch.
type AgingSummary struct {
	Scanned     int       `json:"scanned"`
	Canceled    int       `json:"canceled"`
	Unfulfilled int       `json:"unfulfilled"`
	Failed      int       `json:"failed"`
	ObservedAt  time.Time `json:"observedAt"`
}

// RequisitionSvcFacade exposes requisition lifecycle operations, including
// the time-driven aging batch.
type RequisitionSvcFacade interface {
	CreateRequisition(ctx context.Context, req dto.CreateRequisitionRequest, creatorUserID string) (*domain.Requisition, error)

	GetRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error)

	ListRequisitions(ctx context.Context, params dto.ListParams) ([]domain.Requisition, *string, error)

	UpdateRequisition(ctx context.Context, requisitionID string, req dto.UpdateRequisitionRequest, actorID string) (*domain.Requisition, error)

	// OpenRequisition publishes a PENDING requisition to candidates.
	OpenRequisition(ctx context.Context, requisitionID string, actorID string) error

	// ArchiveRequisition soft-deletes; requisitions are never hard-deleted.
	ArchiveRequisition(ctx context.Context, requisitionID string, actorID string) error

	// CloseOutdatedRequisitions is the daily aging batch: every non-archived,
	// non-permanent OPEN requisition whose latest shift date is more than
	// seven days before now is closed as CANCELED (nothing ever filled) or
	// UNFULFILLED (at least one shift filled). Per-row failures are logged
	// and counted, never fatal to the batch.
	CloseOutdatedRequisitions(ctx context.Context, now time.Time) (*AgingSummary, error)
}
