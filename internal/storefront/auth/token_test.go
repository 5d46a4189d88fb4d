package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokens(t *testing.T) {
	tokens := NewTokens("test-secret", 0)

	t.Run("round trip", func(t *testing.T) {
		raw, err := tokens.Issue("user-1")
		require.NoError(t, err)

		res := tokens.Verify(raw)
		assert.Equal(t, Authenticated, res.Status)
		assert.Equal(t, "user-1", res.UserID)
	})

	t.Run("absent token is anonymous", func(t *testing.T) {
		assert.Equal(t, Anonymous, tokens.Verify("").Status)
		assert.Equal(t, Anonymous, tokens.Verify("   ").Status)
	})

	t.Run("malformed token is invalid", func(t *testing.T) {
		res := tokens.Verify("not-a-jwt")
		assert.Equal(t, Invalid, res.Status)
		assert.NotEmpty(t, res.Reason)
	})

	t.Run("foreign signature is invalid", func(t *testing.T) {
		raw, err := NewTokens("other-secret", 0).Issue("user-1")
		require.NoError(t, err)

		res := tokens.Verify(raw)
		assert.Equal(t, Invalid, res.Status)
		assert.Empty(t, res.UserID)
	})

	t.Run("expired token is invalid", func(t *testing.T) {
		old := NewTokens("test-secret", time.Hour)
		old.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
		raw, err := old.Issue("user-1")
		require.NoError(t, err)

		res := tokens.Verify(raw)
		assert.Equal(t, Invalid, res.Status)
		assert.Equal(t, "token expired", res.Reason)
	})

	t.Run("alg none is rejected", func(t *testing.T) {
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims{UserID: "user-1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		assert.Equal(t, Invalid, tokens.Verify(raw).Status)
	})

	t.Run("expiry is 24h by default", func(t *testing.T) {
		fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		tk := NewTokens("s", 0)
		tk.now = func() time.Time { return fixed }
		raw, err := tk.Issue("u")
		require.NoError(t, err)

		var c claims
		_, _, err = new(jwt.Parser).ParseUnverified(raw, &c)
		require.NoError(t, err)
		assert.Equal(t, fixed.Add(24*time.Hour).Unix(), c.ExpiresAt.Unix())
	})
}

func TestParseBearer(t *testing.T) {
	assert.Equal(t, "abc", ParseBearer("Bearer abc"))
	assert.Equal(t, "abc", ParseBearer("bearer  abc "))
	assert.Equal(t, "", ParseBearer("Basic abc"))
	assert.Equal(t, "", ParseBearer("abc"))
	assert.Equal(t, "", ParseBearer(""))
}

func TestPasswords(t *testing.T) {
	p := Passwords{Cost: bcrypt.MinCost}

	hash, err := p.Hash("securepassword123")
	require.NoError(t, err)
	assert.NotEqual(t, "securepassword123", hash)

	assert.NoError(t, p.Compare(hash, "securepassword123"))
	assert.ErrorIs(t, p.Compare(hash, "wrong"), ErrPasswordMismatch)

	again, err := p.Hash("securepassword123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salted hashes must differ")
}
