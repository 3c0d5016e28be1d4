package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
)

var (
	// ErrEmptySecret is returned when a codec is built without a signing secret.
	ErrEmptySecret = errors.New("jwt secret must not be empty")
	// ErrInvalidToken is returned for any token that fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// TokenCodec implements ports.TokenCodec with HS256 over a shared secret.
// Tokens carry no expiry; they stay valid for as long as the secret does.
type TokenCodec struct {
	secret []byte
}

type sessionClaims struct {
	jwt.RegisteredClaims
	ID    string `json:"id"`
	Email string `json:"email"`
}

func NewTokenCodec(secret []byte) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	s := make([]byte, len(secret))
	copy(s, secret)
	return &TokenCodec{secret: s}, nil
}

func (c *TokenCodec) Sign(claims ports.SessionClaims) (string, error) {
	issuedAt := claims.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  claims.UserID,
			IssuedAt: jwt.NewNumericDate(issuedAt),
		},
		ID:    claims.UserID,
		Email: claims.Email,
	})
	return token.SignedString(c.secret)
}

func (c *TokenCodec) Verify(tokenString string) (ports.SessionClaims, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ports.SessionClaims{}, errors.Join(ErrInvalidToken, err)
	}
	if !token.Valid || claims.ID == "" {
		return ports.SessionClaims{}, ErrInvalidToken
	}
	out := ports.SessionClaims{UserID: claims.ID, Email: claims.Email}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

var _ ports.TokenCodec = (*TokenCodec)(nil)
