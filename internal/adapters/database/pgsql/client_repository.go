package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
)

type PgxClientRepository struct {
	pool *pgxpool.Pool
}

// NewPgxClientRepository creates a new repository for client company data.
func NewPgxClientRepository(pool *pgxpool.Pool) repositories.ClientRepositoryFacade {
	return &PgxClientRepository{pool: pool}
}

var _ repositories.ClientRepositoryFacade = (*PgxClientRepository)(nil)

func (r *PgxClientRepository) SaveClient(ctx context.Context, client domain.Client) error {
	query := `
		INSERT INTO clients (client_id, name, contact_email, billing_customer_id, archived, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (client_id) DO UPDATE SET
			name = EXCLUDED.name,
			contact_email = EXCLUDED.contact_email,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.pool.Exec(ctx, query,
		client.ClientID,
		client.Name,
		client.ContactEmail,
		nullable(client.BillingCustomerID),
		client.Archived,
		client.CreatedAt,
		client.CreatedBy,
		client.LastUpdatedAt,
		client.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save client %s: %w", client.ClientID, err)
	}
	return nil
}

func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
		SELECT client_id, name, contact_email, billing_customer_id, archived, created_at, created_by, last_updated_at, last_updated_by
		FROM clients
		WHERE client_id = $1 AND NOT archived;
	`
	var client domain.Client
	var billingCustomerID *string
	err := r.pool.QueryRow(ctx, query, clientID).Scan(
		&client.ClientID,
		&client.Name,
		&client.ContactEmail,
		&billingCustomerID,
		&client.Archived,
		&client.CreatedAt,
		&client.CreatedBy,
		&client.LastUpdatedAt,
		&client.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find client by ID %s: %w", clientID, err)
	}
	if billingCustomerID != nil {
		client.BillingCustomerID = *billingCustomerID
	}
	return &client, nil
}

func (r *PgxClientRepository) UpdateClientBillingCustomer(ctx context.Context, clientID, billingCustomerID, updatedBy string) error {
	query := `
		UPDATE clients
		SET billing_customer_id = $1, last_updated_at = $2, last_updated_by = $3
		WHERE client_id = $4 AND NOT archived;
	`
	cmdTag, err := r.pool.Exec(ctx, query, billingCustomerID, time.Now().UTC(), updatedBy, clientID)
	if err != nil {
		return fmt.Errorf("failed to update client billing customer %s: %w", clientID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// nullable maps an empty string to NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
