package ports

import (
	"context"

	"github.com/amirhosseinghanipour/accounts/internal/domain"
)

// UserRepository defines persistence for users.
//
// Create returns domerrors.ErrDuplicateEmail when the email is already taken. GetByEmail and
// GetByID return domerrors.ErrUserNotFound when nothing matches. Update replaces the stored
// email, password hash, profile and updated_at of the user with user.ID and returns the stored row;
// it reports ErrUserNotFound or ErrDuplicateEmail like the others. Delete returns ErrUserNotFound
// when no row was removed.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	Delete(ctx context.Context, userID domain.UserID) error
}
