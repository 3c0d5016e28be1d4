package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/accounts/internal/domain"
	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
)

var userCols = []string{"id", "email", "password_hash", "profile", "created_at", "updated_at"}

func newMockRepo(t *testing.T) (*UserRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock")
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return NewUserRepository(mock), mock
}

func testUser() *domain.User {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.User{
		ID:           domain.NewUserID(uuid.New()),
		Email:        "a@x.com",
		PasswordHash: "$argon2id$hash",
		Profile:      domain.Profile{"name": "Ada"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name    string
		execErr error
		wantIs  error
		wantErr bool
	}{
		{name: "inserts user"},
		{
			name:    "unique violation maps to duplicate email",
			execErr: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_email_key"},
			wantIs:  domerrors.ErrDuplicateEmail,
			wantErr: true,
		},
		{
			name:    "other errors are wrapped",
			execErr: errors.New("connection refused"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			u := testUser()

			exp := mock.ExpectExec(regexp.QuoteMeta(createUserSQL)).
				WithArgs(u.ID.String(), u.Email, u.PasswordHash, []byte(`{"name":"Ada"}`), u.CreatedAt, u.UpdatedAt)
			if tt.execErr != nil {
				exp.WillReturnError(tt.execErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := repo.Create(context.Background(), u)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			} else {
				assert.Contains(t, err.Error(), "connection refused")
				assert.False(t, errors.Is(err, domerrors.ErrDuplicateEmail))
			}
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		u := testUser()
		mock.ExpectQuery(regexp.QuoteMeta(getUserByEmailSQL)).
			WithArgs("a@x.com").
			WillReturnRows(pgxmock.NewRows(userCols).
				AddRow(u.ID.String(), u.Email, u.PasswordHash, []byte(`{"name":"Ada"}`), u.CreatedAt, u.UpdatedAt))

		got, err := repo.GetByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(getUserByEmailSQL)).
			WithArgs("ghost@x.com").
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByEmail(context.Background(), "ghost@x.com")
		assert.ErrorIs(t, err, domerrors.ErrUserNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta(getUserByEmailSQL)).
			WithArgs("a@x.com").
			WillReturnError(errors.New("db down"))

		_, err := repo.GetByEmail(context.Background(), "a@x.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
		assert.False(t, errors.Is(err, domerrors.ErrUserNotFound))
	})
}

func TestUserRepository_GetByID(t *testing.T) {
	t.Run("found with empty profile", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		u := testUser()
		mock.ExpectQuery(regexp.QuoteMeta(getUserByIDSQL)).
			WithArgs(u.ID.String()).
			WillReturnRows(pgxmock.NewRows(userCols).
				AddRow(u.ID.String(), u.Email, u.PasswordHash, []byte(`{}`), u.CreatedAt, u.UpdatedAt))

		got, err := repo.GetByID(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Empty(t, got.Profile)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := domain.NewUserID(uuid.New())
		mock.ExpectQuery(regexp.QuoteMeta(getUserByIDSQL)).
			WithArgs(id.String()).
			WillReturnError(pgx.ErrNoRows)

		_, err := repo.GetByID(context.Background(), id)
		assert.ErrorIs(t, err, domerrors.ErrUserNotFound)
	})
}

func TestUserRepository_Update(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{name: "updates user"},
		{name: "missing row", err: pgx.ErrNoRows, wantIs: domerrors.ErrUserNotFound},
		{name: "email taken", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, wantIs: domerrors.ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			u := testUser()
			u.Email = "b@x.com"
			u.UpdatedAt = u.CreatedAt.Add(time.Hour)

			exp := mock.ExpectQuery(regexp.QuoteMeta(updateUserSQL)).
				WithArgs(u.ID.String(), u.Email, u.PasswordHash, []byte(`{"name":"Ada"}`), u.UpdatedAt)
			if tt.err != nil {
				exp.WillReturnError(tt.err)
			} else {
				exp.WillReturnRows(pgxmock.NewRows(userCols).
					AddRow(u.ID.String(), u.Email, u.PasswordHash, []byte(`{"name":"Ada"}`), u.CreatedAt, u.UpdatedAt))
			}

			got, err := repo.Update(context.Background(), u)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "b@x.com", got.Email)
			assert.Equal(t, u.UpdatedAt, got.UpdatedAt)
		})
	}
}

func TestUserRepository_Delete(t *testing.T) {
	t.Run("deletes row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := domain.NewUserID(uuid.New())
		mock.ExpectExec(regexp.QuoteMeta(deleteUserSQL)).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, repo.Delete(context.Background(), id))
	})

	t.Run("no row", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		id := domain.NewUserID(uuid.New())
		mock.ExpectExec(regexp.QuoteMeta(deleteUserSQL)).
			WithArgs(id.String()).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), id), domerrors.ErrUserNotFound)
	})
}

func TestMigrationsEmbedded(t *testing.T) {
	raw, err := migrationsFS.ReadFile("migrations/00001_create_users.sql")
	require.NoError(t, err)
	assert.Contains(t, string(raw), "-- +goose Up")
	assert.Contains(t, string(raw), "CREATE UNIQUE INDEX IF NOT EXISTS users_email_key ON users (email)")
}
