package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	"github.com/shiftbridge/staffing_app/internal/utils/pagination"
)

type PgxInvoiceRepository struct {
	pool *pgxpool.Pool
}

// NewPgxInvoiceRepository creates a new repository for invoice data.
func NewPgxInvoiceRepository(pool *pgxpool.Pool) repositories.InvoiceRepositoryFacade {
	return &PgxInvoiceRepository{pool: pool}
}

var _ repositories.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, invoice_number, client_id, candidate_id, requisition_id, timesheet_id, status, source_type, subtotal, tax_amount, total, amount_due, amount_paid, amount_remaining, external_invoice_id, hosted_url, pdf_url, due_date, created_at, created_by, last_updated_at, last_updated_by`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	var externalID, hostedURL, pdfURL *string
	err := row.Scan(
		&inv.InvoiceID,
		&inv.InvoiceNumber,
		&inv.ClientID,
		&inv.CandidateID,
		&inv.RequisitionID,
		&inv.TimesheetID,
		&inv.Status,
		&inv.SourceType,
		&inv.Subtotal,
		&inv.TaxAmount,
		&inv.Total,
		&inv.AmountDue,
		&inv.AmountPaid,
		&inv.AmountRemaining,
		&externalID,
		&hostedURL,
		&pdfURL,
		&inv.DueDate,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	if externalID != nil {
		inv.ExternalInvoiceID = *externalID
	}
	if hostedURL != nil {
		inv.HostedURL = *hostedURL
	}
	if pdfURL != nil {
		inv.PDFURL = *pdfURL
	}
	return &inv, nil
}

// SaveInvoice persists a new invoice. The unique constraints on timesheet_id
// and invoice_number surface as apperrors.ErrDuplicate.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := r.pool.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.InvoiceNumber,
		invoice.ClientID,
		invoice.CandidateID,
		invoice.RequisitionID,
		invoice.TimesheetID,
		invoice.Status,
		invoice.SourceType,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.Total,
		invoice.AmountDue,
		invoice.AmountPaid,
		invoice.AmountRemaining,
		invoice.ExternalInvoiceID,
		invoice.HostedURL,
		invoice.PDFURL,
		invoice.DueDate,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return apperrors.ErrDuplicate
		}
		return fmt.Errorf("failed to save invoice %s: %w", invoice.InvoiceID, err)
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE invoice_id = $1;
	`
	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by ID %s: %w", invoiceID, err)
	}
	return inv, nil
}

func (r *PgxInvoiceRepository) FindInvoiceByTimesheet(ctx context.Context, timesheetID string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE timesheet_id = $1;
	`
	inv, err := scanInvoice(r.pool.QueryRow(ctx, query, timesheetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice for timesheet %s: %w", timesheetID, err)
	}
	return inv, nil
}

func (r *PgxInvoiceRepository) ListInvoicesByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Invoice, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	args := []interface{}{clientID, limit + 1}
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE client_id = $1
	`
	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, invoice_id) < ($3, $4)`
		args = append(args, createdAt, id)
	}
	query += ` ORDER BY created_at DESC, invoice_id DESC LIMIT $2;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query invoices for client %s: %w", clientID, err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan invoice row: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating invoice rows: %w", err)
	}

	var token *string
	if len(invoices) > limit {
		invoices = invoices[:limit]
		last := invoices[len(invoices)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.InvoiceID)
		token = &t
	}
	return invoices, token, nil
}

func (r *PgxInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, amountPaid, amountRemaining string, updatedBy string) error {
	query := `
		UPDATE invoices
		SET status = $1, amount_paid = $2, amount_remaining = $3, last_updated_at = NOW(), last_updated_by = $4
		WHERE invoice_id = $5;
	`
	cmdTag, err := r.pool.Exec(ctx, query, status, amountPaid, amountRemaining, updatedBy, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to update invoice status %s: %w", invoiceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
