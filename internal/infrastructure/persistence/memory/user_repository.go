package memory

import (
	"context"
	"sync"

	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
	"github.com/amirhosseinghanipour/accounts/internal/domain"
	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
)

// UserRepository is an in-memory ports.UserRepository suitable for single-instance development
// and tests. Data is lost on restart; use the postgres repository for anything durable.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[domain.UserID]*domain.User
	byEmail map[string]domain.UserID
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[domain.UserID]*domain.User),
		byEmail: make(map[string]domain.UserID),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[user.Email]; taken {
		return domerrors.ErrDuplicateEmail
	}
	if _, exists := r.byID[user.ID]; exists {
		return domerrors.ErrDuplicateEmail
	}
	stored := clone(user)
	r.byID[user.ID] = stored
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domerrors.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[userID]
	if !ok {
		return nil, domerrors.ErrUserNotFound
	}
	return clone(u), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[user.ID]
	if !ok {
		return nil, domerrors.ErrUserNotFound
	}
	if owner, taken := r.byEmail[user.Email]; taken && owner != user.ID {
		return nil, domerrors.ErrDuplicateEmail
	}
	next := clone(user)
	next.CreatedAt = current.CreatedAt
	delete(r.byEmail, current.Email)
	r.byEmail[next.Email] = next.ID
	r.byID[next.ID] = next
	return clone(next), nil
}

func (r *UserRepository) Delete(ctx context.Context, userID domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domerrors.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, userID)
	return nil
}

// Len returns the number of stored users.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func clone(u *domain.User) *domain.User {
	c := *u
	c.Profile = make(domain.Profile, len(u.Profile))
	for k, v := range u.Profile {
		c.Profile[k] = v
	}
	return &c
}

var _ ports.UserRepository = (*UserRepository)(nil)
