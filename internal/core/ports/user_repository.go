package ports

import (
	"context"

	"github.com/99minutos/admin-console/internal/core/domain"
)

// UserRepository is the Mock Data Store: the ground truth for user records.
// Every returned user is a copy; callers never alias stored records.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) ([]domain.User, error)
	// Create assigns ID = max existing ID + 1 and appends the record.
	Create(ctx context.Context, user domain.User) (*domain.User, error)
	// Update applies mutate to the stored record atomically.
	Update(ctx context.Context, id int, mutate func(*domain.User)) (*domain.User, error)
	Delete(ctx context.Context, id int) error
}
