package repositories

import (
	"context"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// ClientReader defines read operations for client companies.
type ClientReader interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)
}

// ClientWriter defines write operations for client companies.
type ClientWriter interface {
	SaveClient(ctx context.Context, client domain.Client) error

	// UpdateClientBillingCustomer records the external billing provider handle
	// once an admin links the client's account.
	UpdateClientBillingCustomer(ctx context.Context, clientID, billingCustomerID, updatedBy string) error
}

// ClientRepositoryFacade combines all client repository interfaces.
type ClientRepositoryFacade interface {
	ClientReader
	ClientWriter
}
