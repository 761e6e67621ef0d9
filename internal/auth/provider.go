package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// IdentityProvider is the account system behind a Session. Rejections are
// returned as *ProviderError.
type IdentityProvider interface {
	CreateUser(ctx context.Context, email, password string) (*models.Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*models.Identity, error)
	SignInWithFederated(ctx context.Context, claims FederatedClaims) (*models.Identity, error)
	UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error
	SendEmailVerification(ctx context.Context, uid string) error
	Reauthenticate(ctx context.Context, uid, password string) error
	UpdatePassword(ctx context.Context, uid, newPassword string) error
}

// LocalProvider keeps accounts in the wallet's own store.
type LocalProvider struct {
	accounts          store.AccountStore
	maxFailedAttempts int
	lockoutDuration   time.Duration
	now               func() time.Time
}

var _ IdentityProvider = (*LocalProvider)(nil)

func NewLocalProvider(accounts store.AccountStore, cfg models.AuthConfig) *LocalProvider {
	return &LocalProvider{
		accounts:          accounts,
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (p *LocalProvider) CreateUser(ctx context.Context, email, password string) (*models.Identity, error) {
	email = normalizeEmail(email)
	if !IsValidEmail(email) {
		return nil, newProviderError(CodeInvalidEmail, "")
	}
	if len(password) < 6 {
		return nil, newProviderError(CodeWeakPassword, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := p.now()
	account := models.Account{
		Uid:          uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     ProviderEmail,
		CreatedAt:    now,
		LastLoginAt:  now,
	}
	if err := p.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, newProviderError(CodeEmailAlreadyInUse, "")
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	zap.L().Info("Account created", zap.String("uid", account.Uid), zap.String("provider", account.Provider))
	return identityFrom(account, true), nil
}

func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (*models.Identity, error) {
	account, err := p.accounts.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newProviderError(CodeUserNotFound, "")
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if account.Disabled {
		return nil, newProviderError(CodeUserDisabled, "")
	}

	now := p.now()
	if account.LockedUntil.After(now) {
		return nil, newProviderError(CodeTooManyRequests, "")
	}
	if account.PasswordHash == "" {
		return nil, newProviderError(CodeAccountExists, "This account signs in with "+account.Provider)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		p.recordFailure(ctx, account, now)
		return nil, newProviderError(CodeWrongPassword, "")
	}

	account.FailedAttempts = 0
	account.LockedUntil = time.Time{}
	account.LastLoginAt = now
	if err := p.accounts.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	return identityFrom(*account, false), nil
}

// recordFailure counts a bad password and starts a lockout once the limit
// is reached. Store errors are logged only; the caller already failed.
func (p *LocalProvider) recordFailure(ctx context.Context, account *models.Account, now time.Time) {
	account.FailedAttempts++
	if p.maxFailedAttempts > 0 && account.FailedAttempts >= p.maxFailedAttempts {
		account.LockedUntil = now.Add(p.lockoutDuration)
		account.FailedAttempts = 0
		zap.L().Warn("Account locked after repeated failures",
			zap.String("uid", account.Uid),
			zap.Time("locked_until", account.LockedUntil))
	}
	if err := p.accounts.UpdateAccount(ctx, *account); err != nil {
		zap.L().Error("Failed to record failed login", zap.String("uid", account.Uid), zap.Error(err))
	}
}

func (p *LocalProvider) SignInWithFederated(ctx context.Context, claims FederatedClaims) (*models.Identity, error) {
	email := normalizeEmail(claims.Email)
	now := p.now()

	account, err := p.accounts.GetAccountByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		account := models.Account{
			Uid:           uuid.New().String(),
			Email:         email,
			DisplayName:   claims.DisplayName,
			PhotoURL:      claims.PhotoURL,
			Provider:      claims.Provider,
			EmailVerified: claims.EmailVerified,
			CreatedAt:     now,
			LastLoginAt:   now,
		}
		if err := p.accounts.CreateAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return nil, newProviderError(CodeAccountExists, "An account already exists with the same email address but different sign-in credentials")
			}
			return nil, fmt.Errorf("failed to create account: %w", err)
		}
		zap.L().Info("Federated account created", zap.String("uid", account.Uid), zap.String("provider", account.Provider))
		return identityFrom(account, true), nil
	case err != nil:
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if account.Provider != claims.Provider {
		return nil, newProviderError(CodeAccountExists, "An account already exists with the same email address but different sign-in credentials")
	}
	if account.Disabled {
		return nil, newProviderError(CodeUserDisabled, "")
	}

	account.LastLoginAt = now
	if account.PhotoURL == "" && claims.PhotoURL != "" {
		account.PhotoURL = claims.PhotoURL
	}
	if claims.EmailVerified {
		account.EmailVerified = true
	}
	if err := p.accounts.UpdateAccount(ctx, *account); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	return identityFrom(*account, false), nil
}

func (p *LocalProvider) UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error {
	account, err := p.load(ctx, uid)
	if err != nil {
		return err
	}
	if displayName != "" {
		account.DisplayName = displayName
	}
	if photoURL != "" {
		account.PhotoURL = photoURL
	}
	return p.accounts.UpdateAccount(ctx, *account)
}

// SendEmailVerification records the request. Delivery is out of scope for
// the local provider.
func (p *LocalProvider) SendEmailVerification(ctx context.Context, uid string) error {
	account, err := p.load(ctx, uid)
	if err != nil {
		return err
	}
	account.VerificationSentAt = p.now()
	if err := p.accounts.UpdateAccount(ctx, *account); err != nil {
		return err
	}
	zap.L().Info("Email verification requested", zap.String("uid", uid), zap.String("email", account.Email))
	return nil
}

func (p *LocalProvider) Reauthenticate(ctx context.Context, uid, password string) error {
	account, err := p.load(ctx, uid)
	if err != nil {
		return err
	}
	if account.PasswordHash == "" {
		return newProviderError(CodeOperationNotAllowed, "This account has no password")
	}

	now := p.now()
	if account.LockedUntil.After(now) {
		return newProviderError(CodeTooManyRequests, "")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		p.recordFailure(ctx, account, now)
		return newProviderError(CodeWrongPassword, "")
	}
	if account.FailedAttempts > 0 {
		account.FailedAttempts = 0
		if err := p.accounts.UpdateAccount(ctx, *account); err != nil {
			return fmt.Errorf("failed to reset failed attempts: %w", err)
		}
	}
	return nil
}

func (p *LocalProvider) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	if len(newPassword) < 6 {
		return newProviderError(CodeWeakPassword, "")
	}
	account, err := p.load(ctx, uid)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	account.PasswordHash = string(hash)
	return p.accounts.UpdateAccount(ctx, *account)
}

func (p *LocalProvider) load(ctx context.Context, uid string) (*models.Account, error) {
	account, err := p.accounts.GetAccount(ctx, uid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newProviderError(CodeUserNotFound, "")
		}
		return nil, err
	}
	return account, nil
}

func identityFrom(a models.Account, isNew bool) *models.Identity {
	return &models.Identity{
		Uid:           a.Uid,
		Email:         a.Email,
		DisplayName:   a.DisplayName,
		PhotoURL:      a.PhotoURL,
		EmailVerified: a.EmailVerified,
		Provider:      a.Provider,
		IsNewUser:     isNew,
		CreatedAt:     a.CreatedAt,
		LastLoginAt:   a.LastLoginAt,
	}
}
