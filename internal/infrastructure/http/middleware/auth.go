package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/amirhosseinghanipour/accounts/internal/domain"
)

// Authorizer resolves an Authorization header value to an identity.
type Authorizer interface {
	Authorize(header string) (domain.Identity, error)
}

// IdentityHandlerFunc is a handler that runs only for an authenticated caller.
type IdentityHandlerFunc func(w http.ResponseWriter, r *http.Request, who domain.Identity)

// AuthValidator puts the authorization gate in front of identity handlers. The identity is
// passed as an argument so handlers never read a user id from the request.
type AuthValidator struct {
	gate Authorizer
}

func NewAuthValidator(gate Authorizer) *AuthValidator {
	return &AuthValidator{gate: gate}
}

func (m *AuthValidator) Wrap(next IdentityHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, err := m.gate.Authorize(r.Header.Get("Authorization"))
		if err != nil {
			writeErr(w, http.StatusUnauthorized, err.Error())
			return
		}
		next(w, r, who)
	}
}

func writeErr(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": "unauthorized"})
}
