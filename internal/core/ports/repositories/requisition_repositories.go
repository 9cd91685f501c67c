package repositories

import (
	"context"
	"time"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// RequisitionAging is one row of the daily aging scan: a requisition together
// with the fill statistics the close-out decision needs, all observed at the
// same snapshot time.
type RequisitionAging struct {
	Requisition domain.Requisition
	TotalDays   int
	FilledDays  int
	LatestDate  string // YYYY-MM-DD of the most recent recurrence day, empty when none exist
}

// RequisitionReader defines read operations for requisition data.
type RequisitionReader interface {
	// FindRequisitionByID retrieves a requisition by its unique identifier.
	FindRequisitionByID(ctx context.Context, requisitionID string) (*domain.Requisition, error)

	// ListRequisitions retrieves a paginated list of non-archived requisitions
	// using token-based pagination.
	ListRequisitions(ctx context.Context, limit int, nextToken *string) ([]domain.Requisition, *string, error)

	// ListAgingCandidates returns every non-archived, non-permanent OPEN
	// requisition with its fill statistics, read in one pass so the daily
	// close-out job observes a consistent snapshot.
	ListAgingCandidates(ctx context.Context) ([]RequisitionAging, error)
}

// RequisitionWriter defines write operations for requisition data.
type RequisitionWriter interface {
	SaveRequisition(ctx context.Context, requisition domain.Requisition) error

	UpdateRequisition(ctx context.Context, requisition domain.Requisition) error

	// UpdateRequisitionStatus transitions a requisition's status.
	UpdateRequisitionStatus(ctx context.Context, requisitionID string, status domain.RequisitionStatus, updatedBy string, updatedAt time.Time) error

	// ArchiveRequisition marks a requisition archived; requisitions are never
	// hard-deleted.
	ArchiveRequisition(ctx context.Context, requisitionID string, updatedBy string, updatedAt time.Time) error
}

// RequisitionRepositoryFacade combines all requisition repository interfaces.
type RequisitionRepositoryFacade interface {
	RequisitionReader
	RequisitionWriter
}
