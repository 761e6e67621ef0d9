package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signAssertion(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func googleClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":            ProviderGoogle,
		"sub":            "g-123",
		"email":          "grace@example.com",
		"name":           "Grace Hopper",
		"picture":        "https://example.com/grace.png",
		"email_verified": true,
		"exp":            time.Now().Add(time.Minute).Unix(),
	}
}

func providerCode(t *testing.T, err error) string {
	t.Helper()
	pe, ok := err.(*ProviderError)
	require.True(t, ok, "expected *ProviderError, got %T", err)
	return pe.Code
}

func TestVerifyAssertion(t *testing.T) {
	v := NewAssertionVerifier(map[string]string{ProviderGoogle: "g-secret"})

	claims, err := v.Verify(ProviderGoogle, signAssertion(t, "g-secret", googleClaims()))
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", claims.Email)
	assert.Equal(t, "Grace Hopper", claims.DisplayName)
	assert.True(t, claims.EmailVerified)
	assert.Equal(t, ProviderGoogle, claims.Provider)
}

func TestVerifyAssertionFailures(t *testing.T) {
	v := NewAssertionVerifier(map[string]string{ProviderGoogle: "g-secret", "myspace": "x"})

	_, err := v.Verify(ProviderGithub, "anything")
	assert.Equal(t, CodeOperationNotAllowed, providerCode(t, err), "no secret configured")

	_, err = v.Verify("myspace", "anything")
	assert.Equal(t, CodeOperationNotAllowed, providerCode(t, err), "unsupported provider")

	_, err = v.Verify(ProviderGoogle, "")
	assert.Equal(t, CodePopupClosedByUser, providerCode(t, err))

	_, err = v.Verify(ProviderGoogle, signAssertion(t, "wrong", googleClaims()))
	assert.Equal(t, CodeInvalidCredential, providerCode(t, err))

	wrongIssuer := googleClaims()
	wrongIssuer["iss"] = ProviderApple
	_, err = v.Verify(ProviderGoogle, signAssertion(t, "g-secret", wrongIssuer))
	assert.Equal(t, CodeInvalidCredential, providerCode(t, err))

	expired := googleClaims()
	expired["exp"] = time.Now().Add(-time.Minute).Unix()
	_, err = v.Verify(ProviderGoogle, signAssertion(t, "g-secret", expired))
	assert.Equal(t, CodeInvalidCredential, providerCode(t, err))

	noEmail := googleClaims()
	delete(noEmail, "email")
	_, err = v.Verify(ProviderGoogle, signAssertion(t, "g-secret", noEmail))
	assert.Equal(t, CodeInvalidEmail, providerCode(t, err))
}

func TestAvatarURL(t *testing.T) {
	got := AvatarURL("Ada Lovelace")
	assert.Contains(t, got, "https://ui-avatars.com/api/?")
	assert.Contains(t, got, "name=Ada+Lovelace")
	assert.Contains(t, got, "background=00ffff")
	assert.Contains(t, got, "rounded=true")
}
