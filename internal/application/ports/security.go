package ports

import "time"

// PasswordHasher hashes and verifies passwords (Argon2id).
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches hash. Malformed hashes never match.
	Verify(password, hash string) bool
}

// SessionClaims are the identity data embedded in a session token.
type SessionClaims struct {
	UserID   string
	Email    string
	IssuedAt time.Time
}

// TokenCodec signs and verifies stateless session tokens (HS256).
type TokenCodec interface {
	Sign(claims SessionClaims) (string, error)
	Verify(token string) (SessionClaims, error)
}
