package auth

import (
	"context"
	"testing"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *LocalProvider {
	t.Helper()
	return NewLocalProvider(storetest.NewBackend(t), models.AuthConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   15 * time.Minute,
	})
}

func TestLocalProviderCreateAndSignIn(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	created, err := p.CreateUser(ctx, "  Ada@Example.com ", "analytical")
	require.NoError(t, err)
	assert.True(t, created.IsNewUser)
	assert.Equal(t, "ada@example.com", created.Email)
	assert.Equal(t, ProviderEmail, created.Provider)

	_, err = p.CreateUser(ctx, "ada@example.com", "analytical")
	assert.Equal(t, CodeEmailAlreadyInUse, providerCode(t, err))

	identity, err := p.SignInWithPassword(ctx, "ADA@example.com", "analytical")
	require.NoError(t, err)
	assert.Equal(t, created.Uid, identity.Uid)
	assert.False(t, identity.IsNewUser)

	_, err = p.SignInWithPassword(ctx, "nobody@example.com", "analytical")
	assert.Equal(t, CodeUserNotFound, providerCode(t, err))
}

func TestLocalProviderLockout(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	_, err := p.CreateUser(ctx, "ada@example.com", "analytical")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = p.SignInWithPassword(ctx, "ada@example.com", "wrong-password")
		assert.Equal(t, CodeWrongPassword, providerCode(t, err))
	}

	// Locked now, even with the right password.
	_, err = p.SignInWithPassword(ctx, "ada@example.com", "analytical")
	assert.Equal(t, CodeTooManyRequests, providerCode(t, err))

	now = now.Add(16 * time.Minute)
	_, err = p.SignInWithPassword(ctx, "ada@example.com", "analytical")
	assert.NoError(t, err)
}

func TestLocalProviderFederated(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	claims := FederatedClaims{Provider: ProviderGoogle, Subject: "g-1", Email: "grace@example.com", DisplayName: "Grace", EmailVerified: true}
	first, err := p.SignInWithFederated(ctx, claims)
	require.NoError(t, err)
	assert.True(t, first.IsNewUser)
	assert.True(t, first.EmailVerified)

	second, err := p.SignInWithFederated(ctx, claims)
	require.NoError(t, err)
	assert.False(t, second.IsNewUser)
	assert.Equal(t, first.Uid, second.Uid)

	claims.Provider = ProviderGithub
	_, err = p.SignInWithFederated(ctx, claims)
	assert.Equal(t, CodeAccountExists, providerCode(t, err))

	// federated accounts have no password
	_, err = p.SignInWithPassword(ctx, "grace@example.com", "whatever1")
	assert.Equal(t, CodeAccountExists, providerCode(t, err))
}

func TestLocalProviderPasswordChange(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	identity, err := p.CreateUser(ctx, "ada@example.com", "analytical")
	require.NoError(t, err)

	assert.Equal(t, CodeWrongPassword, providerCode(t, p.Reauthenticate(ctx, identity.Uid, "nope")))
	require.NoError(t, p.Reauthenticate(ctx, identity.Uid, "analytical"))
	require.NoError(t, p.UpdatePassword(ctx, identity.Uid, "engine-2"))

	_, err = p.SignInWithPassword(ctx, "ada@example.com", "engine-2")
	assert.NoError(t, err)

	require.NoError(t, p.UpdateProfile(ctx, identity.Uid, "Ada", ""))
	require.NoError(t, p.SendEmailVerification(ctx, identity.Uid))
	assert.Equal(t, CodeUserNotFound, providerCode(t, p.UpdateProfile(ctx, "missing", "x", "")))
}

func TestLocalProviderReauthenticateLockout(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	identity, err := p.CreateUser(ctx, "ada@example.com", "analytical")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.Equal(t, CodeWrongPassword, providerCode(t, p.Reauthenticate(ctx, identity.Uid, "guess")))
	}

	// The lock applies to re-authentication and sign-in alike.
	assert.Equal(t, CodeTooManyRequests, providerCode(t, p.Reauthenticate(ctx, identity.Uid, "analytical")))
	_, err = p.SignInWithPassword(ctx, "ada@example.com", "analytical")
	assert.Equal(t, CodeTooManyRequests, providerCode(t, err))

	now = now.Add(16 * time.Minute)
	assert.Equal(t, CodeWrongPassword, providerCode(t, p.Reauthenticate(ctx, identity.Uid, "guess")))
	require.NoError(t, p.Reauthenticate(ctx, identity.Uid, "analytical"))

	account, err := p.accounts.GetAccount(ctx, identity.Uid)
	require.NoError(t, err)
	assert.Zero(t, account.FailedAttempts)
}
