package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID         string          `json:"invoiceID"`
	InvoiceNumber     string          `json:"invoiceNumber"`
	ClientID          string          `json:"clientID"`
	CandidateID       *string         `json:"candidateID,omitempty"`
	RequisitionID     *string         `json:"requisitionID,omitempty"`
	TimesheetID       *string         `json:"timesheetID,omitempty"`
	Status            string          `json:"status"`
	SourceType        string          `json:"sourceType"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	TaxAmount         decimal.Decimal `json:"taxAmount"`
	Total             decimal.Decimal `json:"total"`
	AmountDue         decimal.Decimal `json:"amountDue"`
	AmountPaid        decimal.Decimal `json:"amountPaid"`
	AmountRemaining   decimal.Decimal `json:"amountRemaining"`
	ExternalInvoiceID string          `json:"externalInvoiceID,omitempty"`
	HostedURL         string          `json:"hostedURL,omitempty"`
	DueDate           *time.Time      `json:"dueDate,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// ListInvoicesResponse is the paginated list envelope.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// UpdateFeeConfigRequest defines the administrative fee update payload.
type UpdateFeeConfigRequest struct {
	FeeAmount decimal.Decimal `json:"feeAmount" binding:"required"`
	FeeType   string          `json:"feeType" binding:"required,oneof=PERCENTAGE FIXED"`
}

// FeeConfigResponse defines the data returned for the platform fee config.
type FeeConfigResponse struct {
	FeeAmount     decimal.Decimal `json:"feeAmount"`
	FeeType       string          `json:"feeType"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
}

// ToInvoiceResponse converts a domain.Invoice to its response DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:         inv.InvoiceID,
		InvoiceNumber:     inv.InvoiceNumber,
		ClientID:          inv.ClientID,
		CandidateID:       inv.CandidateID,
		RequisitionID:     inv.RequisitionID,
		TimesheetID:       inv.TimesheetID,
		Status:            string(inv.Status),
		SourceType:        string(inv.SourceType),
		Subtotal:          inv.Subtotal,
		TaxAmount:         inv.TaxAmount,
		Total:             inv.Total,
		AmountDue:         inv.AmountDue,
		AmountPaid:        inv.AmountPaid,
		AmountRemaining:   inv.AmountRemaining,
		ExternalInvoiceID: inv.ExternalInvoiceID,
		HostedURL:         inv.HostedURL,
		DueDate:           inv.DueDate,
		CreatedAt:         inv.CreatedAt,
	}
}

// ToInvoiceResponses converts a slice of invoices.
func ToInvoiceResponses(invs []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invs))
	for i := range invs {
		responses[i] = ToInvoiceResponse(&invs[i])
	}
	return responses
}

// ToFeeConfigResponse converts the fee config to its response DTO.
func ToFeeConfigResponse(cfg *domain.AdminFeeConfig) FeeConfigResponse {
	return FeeConfigResponse{
		FeeAmount:     cfg.FeeAmount,
		FeeType:       string(cfg.FeeType),
		LastUpdatedAt: cfg.LastUpdatedAt,
		LastUpdatedBy: cfg.LastUpdatedBy,
	}
}
