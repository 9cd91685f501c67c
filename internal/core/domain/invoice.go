package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus mirrors the external billing provider's invoice lifecycle.
type InvoiceStatus string

const (
	InvoiceDraft         InvoiceStatus = "draft"
	InvoiceOpen          InvoiceStatus = "open"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceUncollectible InvoiceStatus = "uncollectible"
	InvoiceVoid          InvoiceStatus = "void"
)

// InvoiceSourceType records what originated an invoice.
type InvoiceSourceType string

const (
	InvoiceSourceTimesheet InvoiceSourceType = "timesheet"
	InvoiceSourceManual    InvoiceSourceType = "manual"
	InvoiceSourceRecurring InvoiceSourceType = "recurring"
	InvoiceSourceOther     InvoiceSourceType = "other"
)

// Invoice is the settlement artifact linking an approved timesheet to the
// external billing provider. Amount fields are fixed-point decimals and are
// immutable once the external invoice is finalized; the candidate,
// requisition and timesheet references are nullable so the invoice survives
// deletion of its source records.
type Invoice struct {
	InvoiceID     string            `json:"invoiceID"`
	InvoiceNumber string            `json:"invoiceNumber"`
	ClientID      string            `json:"clientID"`
	CandidateID   *string           `json:"candidateID,omitempty"`
	RequisitionID *string           `json:"requisitionID,omitempty"`
	TimesheetID   *string           `json:"timesheetID,omitempty"`
	Status        InvoiceStatus     `json:"status"`
	SourceType    InvoiceSourceType `json:"sourceType"`

	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	Total           decimal.Decimal `json:"total"`
	AmountDue       decimal.Decimal `json:"amountDue"`
	AmountPaid      decimal.Decimal `json:"amountPaid"`
	AmountRemaining decimal.Decimal `json:"amountRemaining"`

	ExternalInvoiceID string     `json:"externalInvoiceID,omitempty"`
	HostedURL         string     `json:"hostedURL,omitempty"`
	PDFURL            string     `json:"pdfURL,omitempty"`
	DueDate           *time.Time `json:"dueDate,omitempty"`
	AuditFields
}
