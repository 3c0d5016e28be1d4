package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
	"github.com/amirhosseinghanipour/accounts/internal/domain"
	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
)

const (
	userColumns = `id, email, password_hash, profile, created_at, updated_at`

	createUserSQL = `INSERT INTO users (id, email, password_hash, profile, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	getUserByEmailSQL = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	getUserByIDSQL    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	updateUserSQL     = `UPDATE users SET email = $2, password_hash = $3, profile = $4, updated_at = $5
WHERE id = $1
RETURNING ` + userColumns
	deleteUserSQL = `DELETE FROM users WHERE id = $1`
)

// DBTX is the subset of pgx used by the repository. *pgxpool.Pool, pgx.Tx and
// pgxmock pools all satisfy it.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements ports.UserRepository on PostgreSQL. The users.email unique
// index is the only uniqueness guard.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	profile, err := marshalProfile(user.Profile)
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").With("operation", "marshal profile").Wrap(err)
	}
	_, err = r.db.Exec(ctx, createUserSQL,
		user.ID.String(),
		user.Email,
		user.PasswordHash,
		profile,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("USER_EMAIL_TAKEN").With("user_id", user.ID.String()).Wrap(domerrors.ErrDuplicateEmail)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, getUserByEmailSQL, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").Wrap(domerrors.ErrUserNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_EMAIL_FAILED").With("operation", "get user by email").Wrap(err)
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID domain.UserID) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, getUserByIDSQL, userID.String()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").With("user_id", userID.String()).Wrap(domerrors.ErrUserNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("user_id", userID.String()).
			Wrap(err)
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	profile, err := marshalProfile(user.Profile)
	if err != nil {
		return nil, oops.Code("USER_UPDATE_FAILED").With("operation", "marshal profile").Wrap(err)
	}
	updated, err := scanUser(r.db.QueryRow(ctx, updateUserSQL,
		user.ID.String(),
		user.Email,
		user.PasswordHash,
		profile,
		user.UpdatedAt,
	))
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, pgx.ErrNoRows):
		return nil, oops.Code("USER_NOT_FOUND").With("user_id", user.ID.String()).Wrap(domerrors.ErrUserNotFound)
	case isUniqueViolation(err):
		return nil, oops.Code("USER_EMAIL_TAKEN").With("user_id", user.ID.String()).Wrap(domerrors.ErrDuplicateEmail)
	default:
		return nil, oops.Code("USER_UPDATE_FAILED").
			With("operation", "update user").
			With("user_id", user.ID.String()).
			Wrap(err)
	}
}

func (r *UserRepository) Delete(ctx context.Context, userID domain.UserID) error {
	tag, err := r.db.Exec(ctx, deleteUserSQL, userID.String())
	if err != nil {
		return oops.Code("USER_DELETE_FAILED").
			With("operation", "delete user").
			With("user_id", userID.String()).
			Wrap(err)
	}
	if tag.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").With("user_id", userID.String()).Wrap(domerrors.ErrUserNotFound)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id        string
		email     string
		hash      string
		profile   []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &email, &hash, &profile, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	userID, err := domain.ParseUserID(id)
	if err != nil {
		return nil, err
	}
	p := domain.Profile{}
	if len(profile) > 0 {
		if err := json.Unmarshal(profile, &p); err != nil {
			return nil, err
		}
	}
	return &domain.User{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
		Profile:      p,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}, nil
}

func marshalProfile(p domain.Profile) ([]byte, error) {
	if p == nil {
		p = domain.Profile{}
	}
	return json.Marshal(p)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Ensure UserRepository implements ports.UserRepository.
var _ ports.UserRepository = (*UserRepository)(nil)
