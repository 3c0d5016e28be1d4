package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
	"github.com/amirhosseinghanipour/accounts/internal/domain"
	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
)

// dummyPasswordHash is verified when the email is unknown so both failure paths cost one
// Argon2 run. It is not a credential and matches no password.
//
//nolint:gosec // G101: fake hash
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=3,p=2$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	Token string
	User  *domain.PublicUser
}

type Login struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenCodec
	now    func() time.Time
}

func NewLogin(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenCodec) *Login {
	return &Login{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

func (uc *Login) Execute(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := uc.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if !errors.Is(err, domerrors.ErrUserNotFound) {
			return nil, fmt.Errorf("get user by email: %w: %v", domerrors.ErrInternal, err)
		}
		_ = uc.hasher.Verify(input.Password, dummyPasswordHash)
		return nil, domerrors.ErrInvalidCredentials
	}
	if !uc.hasher.Verify(input.Password, user.PasswordHash) {
		return nil, domerrors.ErrInvalidCredentials
	}
	token, err := uc.tokens.Sign(ports.SessionClaims{
		UserID:   user.ID.String(),
		Email:    user.Email,
		IssuedAt: uc.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("sign token: %w: %v", domerrors.ErrInternal, err)
	}
	return &LoginResult{Token: token, User: user.Public()}, nil
}
