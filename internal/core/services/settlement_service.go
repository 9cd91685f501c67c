package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	portsrepo "github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
	portssvc "github.com/shiftbridge/staffing_app/internal/core/ports/services"
	"github.com/shiftbridge/staffing_app/internal/dto"
	"github.com/shiftbridge/staffing_app/internal/middleware"
	"github.com/shiftbridge/staffing_app/internal/utils/money"
)

// overtimeThresholdHours is the weekly hour count past which the overtime
// rate applies.
var overtimeThresholdHours = decimal.NewFromInt(40)

var (
	ErrDiscrepanciesOutstanding = errors.New("timesheet has unresolved discrepancies")
	ErrNotApprovable            = errors.New("timesheet is not in an approvable status")
	ErrInvoiceOnVoid            = errors.New("an approved invoice exists; void it at the provider first")
)

// BillableAmount is the settlement arithmetic result: everything in integer
// cents plus the hour split it was derived from.
type BillableAmount struct {
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	BaseCents     int64
	FeeCents      int64
	TotalCents    int64
}

// ComputeBillableCents splits the sheet's worked hours at the weekly overtime
// threshold, prices each bucket at its rate and applies the platform fee.
// All arithmetic is in integer cents; rounding happens once per bucket.
//
// The function is pure, so concurrent approvals with different fee snapshots
// cannot interfere.
func ComputeBillableCents(sheet *domain.Timesheet, feeCfg *domain.AdminFeeConfig) BillableAmount {
	total := sheet.TotalHoursBilled
	regular := total
	overtime := decimal.Zero
	if total.GreaterThan(overtimeThresholdHours) {
		regular = overtimeThresholdHours
		overtime = total.Sub(overtimeThresholdHours)
	}

	base := money.MulHoursCents(regular, money.RateToCents(sheet.CandidateRateBase)) +
		money.MulHoursCents(overtime, money.RateToCents(sheet.CandidateRateOT))

	var fee int64
	switch feeCfg.FeeType {
	case domain.FeeFixed:
		fee = money.RateToCents(feeCfg.FeeAmount)
	default:
		fee = money.PercentOfCents(base, feeCfg.FeeAmount)
	}

	return BillableAmount{
		RegularHours:  regular,
		OvertimeHours: overtime,
		BaseCents:     base,
		FeeCents:      fee,
		TotalCents:    base + fee,
	}
}

// settlementService turns approved timesheets into external invoices. The
// approval is a saga: the status transition commits first, and every failure
// after it runs the compensating revert so a sheet is never left APPROVED
// without an invoice.
type settlementService struct {
	timesheetRepo   portsrepo.TimesheetRepositoryFacade
	invoiceRepo     portsrepo.InvoiceRepositoryFacade
	feeConfigRepo   portsrepo.FeeConfigRepositoryFacade
	requisitionRepo portsrepo.RequisitionReader
	clientRepo      portsrepo.ClientReader
	billing         portssvc.BillingProvider
	notifier        portssvc.Notifier
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(
	timesheetRepo portsrepo.TimesheetRepositoryFacade,
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	feeConfigRepo portsrepo.FeeConfigRepositoryFacade,
	requisitionRepo portsrepo.RequisitionReader,
	clientRepo portsrepo.ClientReader,
	billing portssvc.BillingProvider,
	notifier portssvc.Notifier,
) portssvc.SettlementSvcFacade {
	return &settlementService{
		timesheetRepo:   timesheetRepo,
		invoiceRepo:     invoiceRepo,
		feeConfigRepo:   feeConfigRepo,
		requisitionRepo: requisitionRepo,
		clientRepo:      clientRepo,
		billing:         billing,
		notifier:        notifier,
	}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// ApproveTimesheet settles a sheet. Re-approving an already-invoiced sheet is
// idempotent and returns the existing invoice.
func (s *settlementService) ApproveTimesheet(ctx context.Context, timesheetID, approverID string, overrideDiscrepancies bool) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sheet, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		return nil, err
	}

	if sheet.Status == domain.TimesheetApproved {
		existing, err := s.invoiceRepo.FindInvoiceByTimesheet(ctx, timesheetID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		// Approved without an invoice should not happen; surface it rather
		// than silently re-settling.
		return nil, fmt.Errorf("%w: timesheet approved but no invoice found", apperrors.ErrConflict)
	}

	switch sheet.Status {
	case domain.TimesheetPending:
		// A PENDING sheet must have passed a clean validation run before it
		// settles; otherwise the approver has to override explicitly.
		if !sheet.Validated && !overrideDiscrepancies {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrDiscrepanciesOutstanding)
		}
	case domain.TimesheetDiscrepancy:
		if !overrideDiscrepancies {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrDiscrepanciesOutstanding)
		}
	default:
		return nil, fmt.Errorf("%w: %v (%s)", apperrors.ErrConflict, ErrNotApprovable, sheet.Status)
	}

	requisition, err := s.requisitionRepo.FindRequisitionByID(ctx, sheet.RequisitionID)
	if err != nil {
		return nil, err
	}
	client, err := s.clientRepo.FindClientByID(ctx, requisition.ClientID)
	if err != nil {
		return nil, err
	}
	if client.BillingCustomerID == "" {
		return nil, fmt.Errorf("%w: client %s has no billing account", apperrors.ErrBillingNotConfigured, client.ClientID)
	}

	feeCfg, err := s.feeConfigRepo.GetFeeConfig(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fromStatus := sheet.Status
	note := ""
	if fromStatus == domain.TimesheetDiscrepancy || !sheet.Validated {
		note = "approved with discrepancy override"
	}
	if err := s.timesheetRepo.TransitionTimesheetStatus(ctx, timesheetID, fromStatus, domain.TimesheetApproved, approverID, note, now); err != nil {
		return nil, err
	}

	invoice, err := s.settle(ctx, sheet, requisition, client, feeCfg, approverID, now)
	if err != nil {
		// Compensate: the approval committed, the settlement did not. Put the
		// sheet back in PENDING so the approver can retry.
		if revertErr := s.RevertTimesheetToPending(ctx, timesheetID, "system:settlement", "settlement failed: "+err.Error()); revertErr != nil {
			logger.Error("Compensating revert failed, timesheet left approved without invoice",
				slog.String("timesheet_id", timesheetID),
				slog.String("settle_error", err.Error()),
				slog.String("revert_error", revertErr.Error()))
		}
		return nil, err
	}

	logger.Info("Timesheet approved and settled",
		slog.String("timesheet_id", timesheetID),
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("total", invoice.Total.String()))

	s.notifier.Notify(ctx, "invoice_created", client.ContactEmail, map[string]any{
		"invoiceNumber": invoice.InvoiceNumber,
		"total":         invoice.Total.StringFixed(2),
		"hostedURL":     invoice.HostedURL,
	})
	return invoice, nil
}

// settle computes the billable amount, requests the external invoice and
// persists the local row. Called only after the approval committed.
func (s *settlementService) settle(ctx context.Context, sheet *domain.Timesheet, requisition *domain.Requisition, client *domain.Client, feeCfg *domain.AdminFeeConfig, approverID string, now time.Time) (*domain.Invoice, error) {
	amount := ComputeBillableCents(sheet, feeCfg)

	weekLabel := sheet.WeekBeginDate.Format("2006-01-02")
	lineItems := []portssvc.BillingLineItem{
		{
			AmountCents: amount.BaseCents,
			Description: fmt.Sprintf("%s, week of %s: %s hours at %s/hr", requisition.Title, weekLabel, sheet.TotalHoursBilled.StringFixed(2), money.FormatCents(money.RateToCents(sheet.CandidateRateBase))),
			Quantity:    1,
		},
	}
	if amount.FeeCents > 0 {
		lineItems = append(lineItems, portssvc.BillingLineItem{
			AmountCents: amount.FeeCents,
			Description: "Platform service fee",
			Quantity:    1,
		})
	}

	dueDate := now.AddDate(0, 0, 30)
	external, err := s.billing.CreateInvoice(ctx, client.BillingCustomerID, lineItems, map[string]string{
		"timesheetID":   sheet.TimesheetID,
		"requisitionID": sheet.RequisitionID,
		"weekBegin":     weekLabel,
	}, &dueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExternalProvider, err)
	}

	totalDec := money.CentsToDecimal(amount.TotalCents)
	candidateID := sheet.CandidateID
	requisitionID := sheet.RequisitionID
	timesheetID := sheet.TimesheetID
	invoice := domain.Invoice{
		InvoiceID:         uuid.NewString(),
		InvoiceNumber:     newInvoiceNumber(now),
		ClientID:          client.ClientID,
		CandidateID:       &candidateID,
		RequisitionID:     &requisitionID,
		TimesheetID:       &timesheetID,
		Status:            domain.InvoiceOpen,
		SourceType:        domain.InvoiceSourceTimesheet,
		Subtotal:          money.CentsToDecimal(amount.BaseCents),
		TaxAmount:         decimal.Zero,
		Total:             totalDec,
		AmountDue:         totalDec,
		AmountPaid:        decimal.Zero,
		AmountRemaining:   totalDec,
		ExternalInvoiceID: external.ExternalID,
		HostedURL:         external.HostedURL,
		PDFURL:            external.PDFURL,
		DueDate:           &dueDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     approverID,
			LastUpdatedAt: now,
			LastUpdatedBy: approverID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent approval won; theirs is the invoice of record.
			return s.invoiceRepo.FindInvoiceByTimesheet(ctx, sheet.TimesheetID)
		}
		return nil, fmt.Errorf("failed to save invoice: %w", err)
	}
	return &invoice, nil
}

// newInvoiceNumber produces a human-referenceable invoice number.
func newInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

// RejectTimesheet sends a sheet back to the candidate.
func (s *settlementService) RejectTimesheet(ctx context.Context, timesheetID, actorID, note string) error {
	sheet, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		return err
	}
	if sheet.Status != domain.TimesheetPending && sheet.Status != domain.TimesheetDiscrepancy {
		return fmt.Errorf("%w: cannot reject a %s timesheet", apperrors.ErrConflict, sheet.Status)
	}
	return s.timesheetRepo.TransitionTimesheetStatus(ctx, timesheetID, sheet.Status, domain.TimesheetRejected, actorID, note, time.Now().UTC())
}

// VoidTimesheet is terminal. A sheet that already settled cannot be voided
// here; the invoice must be voided at the provider first.
func (s *settlementService) VoidTimesheet(ctx context.Context, timesheetID, actorID, note string) error {
	sheet, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		return err
	}
	if sheet.Status == domain.TimesheetVoid {
		return nil
	}
	if sheet.Status == domain.TimesheetApproved {
		if _, err := s.invoiceRepo.FindInvoiceByTimesheet(ctx, timesheetID); err == nil {
			return fmt.Errorf("%w: %v", apperrors.ErrConflict, ErrInvoiceOnVoid)
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
	}
	return s.timesheetRepo.TransitionTimesheetStatus(ctx, timesheetID, sheet.Status, domain.TimesheetVoid, actorID, note, time.Now().UTC())
}

// RevertTimesheetToPending is the compensation primitive used by the approval
// saga and by explicit admin rollback.
func (s *settlementService) RevertTimesheetToPending(ctx context.Context, timesheetID, actorID, note string) error {
	sheet, err := s.timesheetRepo.FindTimesheetByID(ctx, timesheetID)
	if err != nil {
		return err
	}
	if sheet.Status == domain.TimesheetPending {
		return nil
	}
	if sheet.Status == domain.TimesheetDraft {
		return fmt.Errorf("%w: cannot revert an unsubmitted timesheet", apperrors.ErrConflict)
	}
	return s.timesheetRepo.TransitionTimesheetStatus(ctx, timesheetID, sheet.Status, domain.TimesheetPending, actorID, note, time.Now().UTC())
}

// GetInvoiceByID retrieves an invoice.
func (s *settlementService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

// ListInvoicesByClient retrieves a paginated list of a client's invoices.
func (s *settlementService) ListInvoicesByClient(ctx context.Context, clientID string, params dto.ListParams) ([]domain.Invoice, *string, error) {
	if _, err := s.clientRepo.FindClientByID(ctx, clientID); err != nil {
		return nil, nil, err
	}
	return s.invoiceRepo.ListInvoicesByClient(ctx, clientID, params.Limit, params.NextToken)
}

// GetFeeConfig returns the current platform fee configuration.
func (s *settlementService) GetFeeConfig(ctx context.Context) (*domain.AdminFeeConfig, error) {
	return s.feeConfigRepo.GetFeeConfig(ctx)
}

// UpdateFeeConfig replaces the platform fee configuration.
func (s *settlementService) UpdateFeeConfig(ctx context.Context, req dto.UpdateFeeConfigRequest, actorID string) (*domain.AdminFeeConfig, error) {
	if req.FeeAmount.IsNegative() {
		return nil, fmt.Errorf("%w: fee amount cannot be negative", apperrors.ErrValidation)
	}
	feeType := domain.FeeType(req.FeeType)
	if feeType == domain.FeePercentage && req.FeeAmount.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: percentage fee cannot exceed 100", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	cfg := domain.AdminFeeConfig{
		FeeAmount: req.FeeAmount,
		FeeType:   feeType,
		AuditFields: domain.AuditFields{
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
	if err := s.feeConfigRepo.UpdateFeeConfig(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to update fee config: %w", err)
	}
	return &cfg, nil
}
