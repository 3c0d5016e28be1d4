package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirhosseinghanipour/accounts/internal/application/ports"
)

func newCodec(t *testing.T, secret string) *TokenCodec {
	t.Helper()
	c, err := NewTokenCodec([]byte(secret))
	require.NoError(t, err)
	return c
}

func TestTokenCodec_SignVerify(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "super-secret")
	issued := time.Unix(1_700_000_000, 0)
	tok, err := c.Sign(ports.SessionClaims{UserID: "user-123", Email: "a@x.com", IssuedAt: issued})
	require.NoError(t, err)

	got, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got.UserID)
	assert.Equal(t, "a@x.com", got.Email)
	assert.True(t, issued.Equal(got.IssuedAt))
}

func TestTokenCodec_NoExpiry(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "k")
	tok, err := c.Sign(ports.SessionClaims{UserID: "u1", IssuedAt: time.Now().Add(-24 * 365 * time.Hour)})
	require.NoError(t, err)

	_, err = c.Verify(tok)
	assert.NoError(t, err)
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := newCodec(t, "right-secret").Sign(ports.SessionClaims{UserID: "u2"})
	require.NoError(t, err)

	_, err = newCodec(t, "wrong-secret").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_Truncated(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "k")
	tok, err := c.Sign(ports.SessionClaims{UserID: "u3"})
	require.NoError(t, err)

	for _, cut := range []int{1, 5, len(tok) / 2, len(tok) - 1} {
		_, err := c.Verify(tok[:len(tok)-cut])
		assert.ErrorIs(t, err, ErrInvalidToken, "cut %d", cut)
	}
}

func TestTokenCodec_TamperedPayload(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "k")
	tok, err := c.Sign(ports.SessionClaims{UserID: "victim", Email: "v@x.com"})
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"id":"attacker","email":"v@x.com","sub":"attacker"}`))
	_, err = c.Verify(parts[0] + "." + forged + "." + parts[2])
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "k")
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": "u4"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = c.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"id": "u4"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = c.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_MissingIDClaim(t *testing.T) {
	t.Parallel()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@x.com"}).SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = newCodec(t, "k").Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	c := newCodec(t, "k")
	for _, s := range []string{"", "not.a.jwt", "abc", "a.b.c.d"} {
		_, err := c.Verify(s)
		assert.ErrorIs(t, err, ErrInvalidToken, "%q", s)
	}
}

func TestNewTokenCodec_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenCodec(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
