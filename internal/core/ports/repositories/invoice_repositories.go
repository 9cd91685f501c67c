package repositories

import (
	"context"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoiceByTimesheet returns the invoice settled against a timesheet,
	// or apperrors.ErrNotFound. Backs the settlement engine's idempotency
	// check.
	FindInvoiceByTimesheet(ctx context.Context, timesheetID string) (*domain.Invoice, error)

	// ListInvoicesByClient retrieves a paginated list of a client's invoices
	// using token-based pagination.
	ListInvoicesByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Invoice, *string, error)
}

// InvoiceWriter defines write operations for invoice data.
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice. The unique constraint on
	// timesheet_id surfaces as apperrors.ErrDuplicate so one timesheet can
	// never settle twice.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// UpdateInvoiceStatus syncs the local row with the external provider's
	// lifecycle. Amount fields are never rewritten here.
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, amountPaid, amountRemaining string, updatedBy string) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
