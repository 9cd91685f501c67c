package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shiftbridge/staffing_app/internal/apperrors"
	"github.com/shiftbridge/staffing_app/internal/core/domain"
	"github.com/shiftbridge/staffing_app/internal/core/ports/repositories"
)

type PgxFeeConfigRepository struct {
	pool *pgxpool.Pool
}

// NewPgxFeeConfigRepository creates a new repository for the single-row
// platform fee configuration.
func NewPgxFeeConfigRepository(pool *pgxpool.Pool) repositories.FeeConfigRepositoryFacade {
	return &PgxFeeConfigRepository{pool: pool}
}

var _ repositories.FeeConfigRepositoryFacade = (*PgxFeeConfigRepository)(nil)

func (r *PgxFeeConfigRepository) GetFeeConfig(ctx context.Context) (*domain.AdminFeeConfig, error) {
	query := `
		SELECT fee_amount, fee_type, created_at, created_by, last_updated_at, last_updated_by
		FROM admin_fee_config
		WHERE singleton = TRUE;
	`
	var cfg domain.AdminFeeConfig
	err := r.pool.QueryRow(ctx, query).Scan(
		&cfg.FeeAmount,
		&cfg.FeeType,
		&cfg.CreatedAt,
		&cfg.CreatedBy,
		&cfg.LastUpdatedAt,
		&cfg.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load fee config: %w", err)
	}
	return &cfg, nil
}

func (r *PgxFeeConfigRepository) UpdateFeeConfig(ctx context.Context, cfg domain.AdminFeeConfig) error {
	query := `
		INSERT INTO admin_fee_config (singleton, fee_amount, fee_type, created_at, created_by, last_updated_at, last_updated_by)
		VALUES (TRUE, $1, $2, $3, $4, $3, $4)
		ON CONFLICT (singleton) DO UPDATE SET
			fee_amount = EXCLUDED.fee_amount,
			fee_type = EXCLUDED.fee_type,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.pool.Exec(ctx, query,
		cfg.FeeAmount,
		cfg.FeeType,
		cfg.LastUpdatedAt,
		cfg.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee config: %w", err)
	}
	return nil
}
