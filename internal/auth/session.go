package auth

import (
	"context"
	"errors"
	"strings"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/models"

	"go.uber.org/zap"
)

// Result is a completed sign-in.
type Result struct {
	Token    string
	Identity models.Identity
}

// Session runs the sign-up, sign-in and sign-out flows against an identity
// provider and keeps the signed-in snapshot.
type Session struct {
	provider  IdentityProvider
	verifier  *AssertionVerifier
	tokens    *TokenManager
	snapshots SnapshotStore
	tracker   Tracker
}

func NewSession(provider IdentityProvider, verifier *AssertionVerifier, tokens *TokenManager, snapshots SnapshotStore, tracker Tracker) *Session {
	if tracker == nil {
		tracker = LogTracker{}
	}
	return &Session{
		provider:  provider,
		verifier:  verifier,
		tokens:    tokens,
		snapshots: snapshots,
		tracker:   tracker,
	}
}

// SignUpWithEmail validates the form before contacting the provider, then
// sets the display name and avatar and requests email verification.
func (s *Session) SignUpWithEmail(ctx context.Context, in SignUpInput) (*Result, error) {
	const op = "auth.SignUpWithEmail"

	if err := ValidateSignUp(in); err != nil {
		return nil, err
	}

	identity, err := s.provider.CreateUser(ctx, in.Email, in.Password)
	if err != nil {
		return nil, s.fail(op, "email-signup", err)
	}

	name := strings.TrimSpace(in.Name)
	photo := identity.PhotoURL
	if photo == "" {
		photo = AvatarURL(name)
	}
	if err := s.provider.UpdateProfile(ctx, identity.Uid, name, photo); err != nil {
		return nil, s.fail(op, "email-signup", err)
	}
	identity.DisplayName = name
	identity.PhotoURL = photo

	if err := s.provider.SendEmailVerification(ctx, identity.Uid); err != nil {
		return nil, s.fail(op, "email-signup", err)
	}

	return s.succeed(ctx, op, *identity, ProviderEmail)
}

func (s *Session) SignInWithEmail(ctx context.Context, email, password string) (*Result, error) {
	const op = "auth.SignInWithEmail"

	if err := ValidateSignIn(email, password); err != nil {
		return nil, err
	}

	identity, err := s.provider.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, s.fail(op, "email-login", err)
	}
	return s.succeed(ctx, op, *identity, ProviderEmail)
}

// SignInWithProvider completes a federated popup sign-in from the provider's
// signed assertion.
func (s *Session) SignInWithProvider(ctx context.Context, providerId, assertion string) (*Result, error) {
	const op = "auth.SignInWithProvider"

	claims, err := s.verifier.Verify(providerId, assertion)
	if err != nil {
		return nil, s.fail(op, providerId, err)
	}

	identity, err := s.provider.SignInWithFederated(ctx, *claims)
	if err != nil {
		return nil, s.fail(op, providerId, err)
	}

	if identity.PhotoURL == "" {
		photo := AvatarURL(firstNonEmpty(identity.DisplayName, identity.Email))
		if err := s.provider.UpdateProfile(ctx, identity.Uid, "", photo); err != nil {
			zap.L().Warn("Failed to set generated avatar", zap.String("uid", identity.Uid), zap.Error(err))
		} else {
			identity.PhotoURL = photo
		}
	}
	return s.succeed(ctx, op, *identity, providerId)
}

// SignOut clears the snapshot. Tokens issued earlier stop authenticating
// because Current requires a snapshot.
func (s *Session) SignOut(ctx context.Context, uid string) error {
	if err := s.snapshots.Delete(ctx, uid); err != nil {
		return apperr.NewInternal("auth.SignOut", err)
	}
	s.tracker.Track(EventLogout, map[string]any{"uid": uid})
	return nil
}

// Authenticate resolves a bearer token to the signed-in identity.
func (s *Session) Authenticate(ctx context.Context, token string) (*models.Identity, error) {
	const op = "auth.Authenticate"

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperr.NewAuth(op, CodeInvalidCredential, "Please sign in again", err)
	}
	return s.Current(ctx, claims.Subject)
}

// Current returns the stored snapshot for uid.
func (s *Session) Current(ctx context.Context, uid string) (*models.Identity, error) {
	identity, err := s.snapshots.Load(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			return nil, apperr.NewAuth("auth.Current", CodeUserNotFound, "Please sign in again", err)
		}
		return nil, apperr.NewInternal("auth.Current", err)
	}
	return identity, nil
}

// Provider exposes the identity provider for profile operations that
// write through to it.
func (s *Session) Provider() IdentityProvider {
	return s.provider
}

// UpdateProfile writes the display name or photo through to the provider
// and refreshes the signed-in snapshot. Empty values are left unchanged.
func (s *Session) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	if err := s.provider.UpdateProfile(ctx, uid, displayName, photoURL); err != nil {
		return err
	}

	identity, err := s.snapshots.Load(ctx, uid)
	if errors.Is(err, ErrNoSnapshot) {
		return nil
	}
	if err != nil {
		zap.L().Warn("Failed to load snapshot for update", zap.String("uid", uid), zap.Error(err))
		return nil
	}
	if displayName != "" {
		identity.DisplayName = displayName
	}
	if photoURL != "" {
		identity.PhotoURL = photoURL
	}
	if err := s.snapshots.Save(ctx, *identity); err != nil {
		zap.L().Warn("Failed to refresh snapshot", zap.String("uid", uid), zap.Error(err))
	}
	return nil
}

func (s *Session) Reauthenticate(ctx context.Context, uid, password string) error {
	return s.provider.Reauthenticate(ctx, uid, password)
}

func (s *Session) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	return s.provider.UpdatePassword(ctx, uid, newPassword)
}

func (s *Session) succeed(ctx context.Context, op string, identity models.Identity, method string) (*Result, error) {
	if err := s.snapshots.Save(ctx, identity); err != nil {
		return nil, apperr.NewInternal(op, err)
	}

	token, err := s.tokens.Generate(identity)
	if err != nil {
		return nil, apperr.NewInternal(op, err)
	}

	s.tracker.Track(EventLogin, map[string]any{
		"method":      method,
		"is_new_user": identity.IsNewUser,
	})
	zap.L().Info("Signed in",
		zap.String("uid", identity.Uid),
		zap.String("method", method),
		zap.Bool("new_user", identity.IsNewUser))

	return &Result{Token: token, Identity: identity}, nil
}

func (s *Session) fail(op, where string, err error) error {
	appErr := toAppError(op, err)
	s.tracker.Track(EventLoginError, map[string]any{
		"error_code": codeOf(appErr),
		"context":    where,
	})
	zap.L().Warn("Authentication failed", zap.String("context", where), zap.Error(err))
	return appErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
