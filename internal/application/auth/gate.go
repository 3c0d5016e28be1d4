package auth

import (
	"strings"

	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
	"github.com/amirhosseinghanipour/accounts/internal/domain"
	domerrors "github.com/amirhosseinghanipour/accounts/internal/domain/errors"
)

// BearerPrefix is the scheme prefix expected in the Authorization header.
const BearerPrefix = "Bearer "

// Gate resolves an Authorization header value to the caller's identity.
// It keeps no state and never touches the repository.
type Gate struct {
	tokens ports.TokenCodec
}

func NewGate(tokens ports.TokenCodec) *Gate {
	return &Gate{tokens: tokens}
}

// Authorize returns the identity carried by a valid bearer token, or ErrUnauthorized.
func (g *Gate) Authorize(header string) (domain.Identity, error) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return domain.Identity{}, domerrors.ErrUnauthorized
	}
	token := header[len(BearerPrefix):]
	if token == "" {
		return domain.Identity{}, domerrors.ErrUnauthorized
	}
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, domerrors.ErrUnauthorized
	}
	id, err := domain.ParseUserID(claims.UserID)
	if err != nil {
		return domain.Identity{}, domerrors.ErrUnauthorized
	}
	return domain.Identity{UserID: id, Email: claims.Email}, nil
}
