package postgres

import (
	"context"
	"fmt"
	"time"

	"safvacut-wallet-go/internal/models"
)

const accountColumns = `uid, email, display_name, photo_url, password_hash, provider, email_verified,
	disabled, failed_attempts, locked_until, verification_sent_at, created_at, last_login_at`

// CreateAccount inserts a new account row.
func (s *Store) CreateAccount(ctx context.Context, a models.Account) error {
	const query = `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.pool.Exec(ctx, query, a.Uid, a.Email, a.DisplayName, a.PhotoURL, a.PasswordHash,
		a.Provider, a.EmailVerified, a.Disabled, a.FailedAttempts, nullTime(a.LockedUntil),
		nullTime(a.VerificationSentAt), a.CreatedAt, nullTime(a.LastLoginAt))
	if err != nil {
		return fmt.Errorf("insert account: %w", mapWriteError(err))
	}
	return nil
}

// GetAccount fetches an account by uid.
func (s *Store) GetAccount(ctx context.Context, uid string) (*models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE uid = $1`
	return s.scanAccount(ctx, query, uid)
}

// GetAccountByEmail fetches an account by case-insensitive email.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	const query = `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	return s.scanAccount(ctx, query, email)
}

func (s *Store) scanAccount(ctx context.Context, query, key string) (*models.Account, error) {
	var a models.Account
	var lockedUntil, verificationSentAt, lastLoginAt *time.Time
	err := s.pool.QueryRow(ctx, query, key).Scan(&a.Uid, &a.Email, &a.DisplayName, &a.PhotoURL,
		&a.PasswordHash, &a.Provider, &a.EmailVerified, &a.Disabled, &a.FailedAttempts,
		&lockedUntil, &verificationSentAt, &a.CreatedAt, &lastLoginAt)
	if err != nil {
		return nil, mapReadError(err, "account "+key)
	}
	a.LockedUntil = derefTime(lockedUntil)
	a.VerificationSentAt = derefTime(verificationSentAt)
	a.LastLoginAt = derefTime(lastLoginAt)
	return &a, nil
}

// UpdateAccount overwrites the mutable account columns.
func (s *Store) UpdateAccount(ctx context.Context, a models.Account) error {
	const query = `
		UPDATE accounts
		SET display_name = $1, photo_url = $2, password_hash = $3, email_verified = $4, disabled = $5,
		    failed_attempts = $6, locked_until = $7, verification_sent_at = $8, last_login_at = $9
		WHERE uid = $10`
	tag, err := s.pool.Exec(ctx, query, a.DisplayName, a.PhotoURL, a.PasswordHash, a.EmailVerified,
		a.Disabled, a.FailedAttempts, nullTime(a.LockedUntil), nullTime(a.VerificationSentAt),
		nullTime(a.LastLoginAt), a.Uid)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	return expectOne(tag, "account "+a.Uid)
}
