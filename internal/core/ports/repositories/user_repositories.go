package repositories

import (
	"context"

	"github.com/shiftbridge/staffing_app/internal/core/domain"
)

// UserReader defines read operations for platform identities. The user's
// declared disciplines are loaded alongside the row because claim
// authorization gates on them.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriter defines write operations for platform identities.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
