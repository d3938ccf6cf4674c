package port

import (
	"context"
	"time"

	"github.com/ryabko/account-service/internal/core/domain"
)

// AccountRepository owns persisted account records. Implementations must
// enforce email uniqueness at the storage level and surface violations as
// repository.ErrDuplicate; a missing row is repository.ErrNotFound.
type AccountRepository interface {
	// Create inserts a new account. The store's unique index on email is the
	// final arbiter for concurrent creations with the same address.
	Create(ctx context.Context, account domain.Account) error
	// GetByID retrieves an account by identifier, credential hash included.
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// GetByEmail retrieves an account by normalized email, credential hash included.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// UpdateStatus persists a status transition.
	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error
	// UpdateLastLogin records a successful login timestamp.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// UpdateProfile changes email and/or full name, re-checking email uniqueness.
	UpdateProfile(ctx context.Context, id string, email, fullName string) error
	// UpdatePassword replaces the stored credential hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}
