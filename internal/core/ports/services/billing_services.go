package services

import (
	"context"
	"time"
)

// BillingLineItem is one line of an external invoice. Amounts are integer
// cents; the provider owns all further money handling.
type BillingLineItem struct {
	AmountCents int64  `json:"amountCents"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
}

// ExternalInvoice is the provider's view of a created invoice.
type ExternalInvoice struct {
	ExternalID     string `json:"externalID"`
	HostedURL      string `json:"hostedURL"`
	PDFURL         string `json:"pdfURL"`
	AmountDueCents int64  `json:"amountDueCents"`
	Status         string `json:"status"`
}

// BillingCustomer is the provider's view of a billing account.
type BillingCustomer struct {
	Email   string `json:"email"`
	Deleted bool   `json:"deleted"`
}

// BillingProvider is the external settlement collaborator. Calls block on
// network I/O and must be context-bounded by the caller; a timeout is a
// failure, never an ambiguous success.
type BillingProvider interface {
	CreateInvoice(ctx context.Context, customerHandle string, lineItems []BillingLineItem, metadata map[string]string, dueDate *time.Time) (*ExternalInvoice, error)

	RetrieveCustomer(ctx context.Context, customerHandle string) (*BillingCustomer, error)
}
