package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProvider implements IdentityProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateUser(ctx context.Context, email, password string) (*models.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}

func (m *MockProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.Identity, error) {
	args := m.Called(ctx, email, password)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}

func (m *MockProvider) SignInWithFederated(ctx context.Context, claims FederatedClaims) (*models.Identity, error) {
	args := m.Called(ctx, claims)
	identity, _ := args.Get(0).(*models.Identity)
	return identity, args.Error(1)
}

func (m *MockProvider) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	return m.Called(ctx, uid, displayName, photoURL).Error(0)
}

func (m *MockProvider) SendEmailVerification(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *MockProvider) Reauthenticate(ctx context.Context, uid, password string) error {
	return m.Called(ctx, uid, password).Error(0)
}

func (m *MockProvider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	return m.Called(ctx, uid, newPassword).Error(0)
}

type trackedEvent struct {
	name   string
	params map[string]any
}

type recordingTracker struct {
	mu     sync.Mutex
	events []trackedEvent
}

func (r *recordingTracker) Track(event string, params map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, trackedEvent{event, params})
}

func (r *recordingTracker) last() trackedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func newTestSession(p IdentityProvider, tracker Tracker) (*Session, *MemorySnapshotStore) {
	snapshots := NewMemorySnapshotStore()
	verifier := NewAssertionVerifier(map[string]string{ProviderGoogle: "g-secret"})
	tokens := NewTokenManager("secret", "safvacut-wallet", time.Hour)
	return NewSession(p, verifier, tokens, snapshots, tracker), snapshots
}

func TestSignUpValidationSkipsProvider(t *testing.T) {
	p := new(MockProvider)
	s, _ := newTestSession(p, &recordingTracker{})

	in := validInput()
	in.ConfirmPassword = "different1"
	_, err := s.SignUpWithEmail(context.Background(), in)

	assert.Equal(t, MsgPasswordMatch, apperr.Message(err))
	p.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUpWithEmail(t *testing.T) {
	p := new(MockProvider)
	tracker := &recordingTracker{}
	s, snapshots := newTestSession(p, tracker)
	ctx := context.Background()

	created := &models.Identity{Uid: "uid-1", Email: "ada@example.com", Provider: ProviderEmail, IsNewUser: true}
	p.On("CreateUser", ctx, "ada@example.com", "analytical").Return(created, nil)
	p.On("UpdateProfile", ctx, "uid-1", "Ada Lovelace", AvatarURL("Ada Lovelace")).Return(nil)
	p.On("SendEmailVerification", ctx, "uid-1").Return(nil)

	result, err := s.SignUpWithEmail(ctx, validInput())
	require.NoError(t, err)
	p.AssertExpectations(t)

	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "Ada Lovelace", result.Identity.DisplayName)
	assert.True(t, result.Identity.IsNewUser)

	snap, err := snapshots.Load(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", snap.Email)

	ev := tracker.last()
	assert.Equal(t, EventLogin, ev.name)
	assert.Equal(t, ProviderEmail, ev.params["method"])
	assert.Equal(t, true, ev.params["is_new_user"])
}

func TestSignInWithEmailMapsProviderError(t *testing.T) {
	p := new(MockProvider)
	tracker := &recordingTracker{}
	s, _ := newTestSession(p, tracker)
	ctx := context.Background()

	p.On("SignInWithPassword", ctx, "ada@example.com", "bad").
		Return(nil, newProviderError(CodeWrongPassword, "auth/wrong-password"))

	_, err := s.SignInWithEmail(ctx, "ada@example.com", "bad")
	assert.Equal(t, "Incorrect password", apperr.Message(err))
	assert.Equal(t, apperr.Unauthorized, apperr.TypeOf(err))

	ev := tracker.last()
	assert.Equal(t, EventLoginError, ev.name)
	assert.Equal(t, CodeWrongPassword, ev.params["error_code"])
	assert.Equal(t, "email-login", ev.params["context"])
}

func TestSignInEmptyFields(t *testing.T) {
	p := new(MockProvider)
	s, _ := newTestSession(p, &recordingTracker{})

	_, err := s.SignInWithEmail(context.Background(), "", "")
	assert.Equal(t, MsgFillAllFields, apperr.Message(err))
	p.AssertNotCalled(t, "SignInWithPassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignInWithProviderAndSignOut(t *testing.T) {
	p := new(MockProvider)
	s, _ := newTestSession(p, &recordingTracker{})
	ctx := context.Background()

	assertion := signAssertion(t, "g-secret", googleClaims())
	identity := &models.Identity{Uid: "uid-g", Email: "grace@example.com", Provider: ProviderGoogle, PhotoURL: "https://example.com/grace.png"}
	p.On("SignInWithFederated", ctx, mock.MatchedBy(func(c FederatedClaims) bool {
		return c.Email == "grace@example.com" && c.Provider == ProviderGoogle
	})).Return(identity, nil)

	result, err := s.SignInWithProvider(ctx, ProviderGoogle, assertion)
	require.NoError(t, err)

	current, err := s.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, "uid-g", current.Uid)

	require.NoError(t, s.SignOut(ctx, "uid-g"))
	_, err = s.Authenticate(ctx, result.Token)
	assert.Equal(t, apperr.Unauthorized, apperr.TypeOf(err))
}

func TestSignInWithUnknownProvider(t *testing.T) {
	p := new(MockProvider)
	s, _ := newTestSession(p, &recordingTracker{})

	_, err := s.SignInWithProvider(context.Background(), "myspace", "x")
	// unmapped code falls back to the provider's message
	assert.Equal(t, "Sign-in provider myspace is not enabled", apperr.Message(err))
}

func TestUpdateProfileRefreshesSnapshot(t *testing.T) {
	p := new(MockProvider)
	s, snapshots := newTestSession(p, &recordingTracker{})
	ctx := context.Background()

	require.NoError(t, snapshots.Save(ctx, models.Identity{Uid: "uid-1", Email: "ada@example.com", DisplayName: "Ada", PhotoURL: "https://a/1.png"}))
	p.On("UpdateProfile", ctx, "uid-1", "Ada Lovelace", "").Return(nil).Once()

	require.NoError(t, s.UpdateProfile(ctx, "uid-1", "Ada Lovelace", ""))
	p.AssertExpectations(t)

	identity, err := s.Current(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", identity.DisplayName)
	assert.Equal(t, "https://a/1.png", identity.PhotoURL)

	// Signed out users have no snapshot to refresh.
	p.On("UpdateProfile", ctx, "uid-2", "Grace", "").Return(nil).Once()
	require.NoError(t, s.UpdateProfile(ctx, "uid-2", "Grace", ""))
	_, err = snapshots.Load(ctx, "uid-2")
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
