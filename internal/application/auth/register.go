package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
	"github.com/amirhosseinghanipour/accounts/internal/domain"
	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
)

type RegisterUserInput struct {
	Email    string
	Password string
	Profile  domain.Profile
}

type RegisterUser struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	now    func() time.Time
}

func NewRegisterUser(users ports.UserRepository, hasher ports.PasswordHasher) *RegisterUser {
	return &RegisterUser{users: users, hasher: hasher, now: time.Now}
}

// Execute creates the account. Email uniqueness is left to the repository: a conflict
// surfaces as ErrDuplicateEmail from Create rather than from a prior lookup.
func (uc *RegisterUser) Execute(ctx context.Context, input RegisterUserInput) (*domain.PublicUser, error) {
	if input.Email == "" || input.Password == "" {
		return nil, domerrors.ErrInvalidInput
	}
	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w: %v", domerrors.ErrInternal, err)
	}
	now := uc.now().UTC()
	user := &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        input.Email,
		PasswordHash: hash,
		Profile:      input.Profile.Clean(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domerrors.ErrDuplicateEmail) {
			return nil, domerrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w: %v", domerrors.ErrInternal, err)
	}
	return user.Public(), nil
}
