package repositories

import (
	"context"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// FeeConfigRepositoryFacade provides access to the single-row platform fee
// configuration. The settlement engine reads one snapshot per approval; the
// row changes only through administrative action.
type FeeConfigRepositoryFacade interface {
	GetFeeConfig(ctx context.Context) (*domain.AdminFeeConfig, error)

	UpdateFeeConfig(ctx context.Context, cfg domain.AdminFeeConfig) error
}
