package auth

import (
	"errors"
	"testing"
	"time"

	"safvacut-wallet-go/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", "safvacut-wallet", time.Hour)
	token, err := tm.Generate(models.Identity{Uid: "uid-1", Email: "a@b.co", Provider: ProviderEmail})
	require.NoError(t, err)

	claims, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Subject)
	assert.Equal(t, "a@b.co", claims.Email)
	assert.Equal(t, ProviderEmail, claims.Provider)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestTokenRejections(t *testing.T) {
	tm := NewTokenManager("secret", "safvacut-wallet", time.Hour)
	token, err := tm.Generate(models.Identity{Uid: "uid-1"})
	require.NoError(t, err)

	other := NewTokenManager("other", "safvacut-wallet", time.Hour)
	_, err = other.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken), "wrong secret")

	wrongIssuer := NewTokenManager("secret", "someone-else", time.Hour)
	_, err = wrongIssuer.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken), "wrong issuer")

	expired := NewTokenManager("secret", "safvacut-wallet", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Generate(models.Identity{Uid: "uid-1"})
	require.NoError(t, err)
	_, err = tm.Parse(old)
	assert.True(t, errors.Is(err, ErrInvalidToken), "expired")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "uid-1", "iss": "safvacut-wallet"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tm.Parse(unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken), "alg none")
}
