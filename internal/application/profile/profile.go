// Package profile implements the authenticated operations a user performs on their own record.
// Every operation is keyed by the domain.Identity resolved from the session token; no
// operation accepts a user id from the request.
package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
	"github.com/amirhosseinghanipour/accounts/internal/domain"
	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
)

// DeletedMessage is the confirmation returned by DeleteSelf.
const DeletedMessage = "User deleted"

type GetSelf struct {
	users ports.UserRepository
}

func NewGetSelf(users ports.UserRepository) *GetSelf {
	return &GetSelf{users: users}
}

func (uc *GetSelf) Execute(ctx context.Context, who domain.Identity) (*domain.PublicUser, error) {
	user, err := uc.users.GetByID(ctx, who.UserID)
	if err != nil {
		if errors.Is(err, domerrors.ErrUserNotFound) {
			return nil, domerrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w: %v", domerrors.ErrInternal, err)
	}
	return user.Public(), nil
}

// UpdateSelfInput is a partial update. Nil fields are left unchanged.
type UpdateSelfInput struct {
	Email    *string
	Password *string
	Profile  domain.Profile
}

type UpdateSelf struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	now    func() time.Time
}

func NewUpdateSelf(users ports.UserRepository, hasher ports.PasswordHasher) *UpdateSelf {
	return &UpdateSelf{users: users, hasher: hasher, now: time.Now}
}

// Execute applies input to the caller's record. Every failure, including an email already
// held by another account, is reported as ErrUpdateRejected.
func (uc *UpdateSelf) Execute(ctx context.Context, who domain.Identity, input UpdateSelfInput) (*domain.PublicUser, error) {
	current, err := uc.users.GetByID(ctx, who.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrUpdateRejected, err)
	}
	next := *current
	if input.Email != nil {
		if *input.Email == "" {
			return nil, fmt.Errorf("%w: empty email", domerrors.ErrUpdateRejected)
		}
		next.Email = *input.Email
	}
	if input.Password != nil {
		if *input.Password == "" {
			return nil, fmt.Errorf("%w: empty password", domerrors.ErrUpdateRejected)
		}
		hash, err := uc.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: hash password: %v", domerrors.ErrUpdateRejected, err)
		}
		next.PasswordHash = hash
	}
	if input.Profile != nil {
		next.Profile = current.Profile.Merge(input.Profile)
	}
	next.ID = who.UserID
	next.UpdatedAt = uc.now().UTC()

	updated, err := uc.users.Update(ctx, &next)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domerrors.ErrUpdateRejected, err)
	}
	return updated.Public(), nil
}

type DeleteSelf struct {
	users ports.UserRepository
}

func NewDeleteSelf(users ports.UserRepository) *DeleteSelf {
	return &DeleteSelf{users: users}
}

// Execute removes the caller's record. Deleting an account that is already gone succeeds.
func (uc *DeleteSelf) Execute(ctx context.Context, who domain.Identity) (string, error) {
	if err := uc.users.Delete(ctx, who.UserID); err != nil && !errors.Is(err, domerrors.ErrUserNotFound) {
		return "", fmt.Errorf("delete user: %w: %v", domerrors.ErrInternal, err)
	}
	return DeletedMessage, nil
}
