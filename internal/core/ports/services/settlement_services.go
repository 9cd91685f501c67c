package services

import (
	"context"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/dto"
)

// SettlementSvcFacade turns approved timesheets into external invoices.
type SettlementSvcFacade interface {
	// ApproveTimesheet transitions PENDING -> APPROVED, computes the billable
	// amount in integer cents, requests the external invoice and persists the
	// local invoice row. A sheet that has not passed a clean validation run,
	// or that sits in DISCREPANCY, may only be approved with the override
	// flag. Any failure after the approval committed reverts the
	// sheet to PENDING before the error surfaces, so a sheet is never left
	// APPROVED without an invoice. Re-approving an already-invoiced sheet
	// returns the existing invoice.
	ApproveTimesheet(ctx context.Context, timesheetID, approverID string, overrideDiscrepancies bool) (*domain.Invoice, error)

	RejectTimesheet(ctx context.Context, timesheetID, actorID, note string) error

	// VoidTimesheet is terminal. An existing invoice is not retroactively
	// voided; that is a separate operation against the external provider.
	VoidTimesheet(ctx context.Context, timesheetID, actorID, note string) error

	// RevertTimesheetToPending is the compensation primitive used by the
	// approval saga and by explicit admin rollback.
	RevertTimesheetToPending(ctx context.Context, timesheetID, actorID, note string) error

	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	ListInvoicesByClient(ctx context.Context, clientID string, params dto.ListParams) ([]domain.Invoice, *string, error)

	GetFeeConfig(ctx context.Context) (*domain.AdminFeeConfig, error)

	UpdateFeeConfig(ctx context.Context, req dto.UpdateFeeConfigRequest, actorID string) (*domain.AdminFeeConfig, error)
}
