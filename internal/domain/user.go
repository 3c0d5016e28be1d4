package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UserID is a value object for user identity.
type UserID struct{ uuid.UUID }

// NewUserID creates a new UserID from uuid.
func NewUserID(id uuid.UUID) UserID { return UserID{UUID: id} }

// ParseUserID parses the canonical string form.
func ParseUserID(s string) (UserID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID{UUID: id}, nil
}

// String returns the canonical string form.
func (u UserID) String() string { return u.UUID.String() }

// Profile holds the caller-defined attributes of a user. The core never inspects them.
type Profile map[string]any

// Reserved keys never stored in a Profile; they are owned by User itself.
var reservedProfileKeys = map[string]struct{}{
	"id":         {},
	"email":      {},
	"password":   {},
	"created_at": {},
	"updated_at": {},
}

// IsReservedProfileKey reports whether key belongs to the user record rather than the profile.
func IsReservedProfileKey(key string) bool {
	_, ok := reservedProfileKeys[key]
	return ok
}

// Clean returns a copy of p without reserved keys.
func (p Profile) Clean() Profile {
	out := make(Profile, len(p))
	for k, v := range p {
		if IsReservedProfileKey(k) {
			continue
		}
		out[k] = v
	}
	return out
}

// Merge applies patch onto a copy of p. A nil value in patch removes the key.
func (p Profile) Merge(patch Profile) Profile {
	out := make(Profile, len(p)+len(patch))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range patch.Clean() {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// User is a registered account.
type User struct {
	ID           UserID
	Email        string
	PasswordHash string `json:"-"`
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns the representation of u that may leave the service.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Profile:   u.Profile.Clean(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicUser is a User without its credential. It marshals as one flat JSON object
// with the profile attributes next to id and email.
type PublicUser struct {
	ID        UserID
	Email     string
	Profile   Profile
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *PublicUser) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Profile)+4)
	for k, v := range p.Profile {
		out[k] = v
	}
	out["id"] = p.ID.String()
	out["email"] = p.Email
	out["created_at"] = p.CreatedAt.UTC().Format(time.RFC3339)
	out["updated_at"] = p.UpdatedAt.UTC().Format(time.RFC3339)
	return json.Marshal(out)
}

// Identity is the caller resolved from a verified session token.
type Identity struct {
	UserID UserID
	Email  string
}
