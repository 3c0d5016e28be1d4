package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicUser_MarshalJSON(t *testing.T) {
	id := NewUserID(uuid.New())
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &User{
		ID:           id,
		Email:        "a@x.com",
		PasswordHash: "$argon2id$v=19$m=8,t=1,p=1$c2FsdA$aGFzaA",
		Profile:      Profile{"name": "Ada", "password": "leak", "id": "other"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	raw, err := json.Marshal(u.Public())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, id.String(), got["id"])
	assert.Equal(t, "a@x.com", got["email"])
	assert.Equal(t, "Ada", got["name"])
	assert.Equal(t, "2026-01-02T03:04:05Z", got["created_at"])
	assert.NotContains(t, got, "password")
	assert.NotContains(t, got, "password_hash")
	assert.NotContains(t, string(raw), "argon2id")
}

func TestUser_MarshalOmitsHash(t *testing.T) {
	raw, err := json.Marshal(User{Email: "a@x.com", PasswordHash: "secret-hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-hash")
}

func TestProfile_Merge(t *testing.T) {
	base := Profile{"name": "Ada", "city": "London"}
	got := base.Merge(Profile{"city": nil, "age": float64(36), "id": "x"})

	assert.Equal(t, Profile{"name": "Ada", "age": float64(36)}, got)
	assert.Equal(t, "London", base["city"], "merge must not mutate the receiver")
}

func TestParseUserID(t *testing.T) {
	id := uuid.New()
	got, err := ParseUserID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, got.UUID)

	_, err = ParseUserID("not-a-uuid")
	assert.Error(t, err)
}
