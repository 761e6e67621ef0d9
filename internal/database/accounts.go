/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) CreateAccount(ctx context.Context, account models.Account) error {
	zap.L().Info("Creating account",
		zap.String("uid", account.Uid),
		zap.String("email", account.Email),
		zap.String("provider", account.Provider))

	_, err := s.db.ExecContext(ctx, queryInsertAccount,
		account.Uid, account.Email, account.DisplayName, account.PhotoURL, account.PasswordHash,
		account.Provider, account.EmailVerified, account.Disabled, account.FailedAttempts,
		nullTime(account.LockedUntil), nullTime(account.VerificationSentAt),
		account.CreatedAt.UTC(), nullTime(account.LastLoginAt))
	if err != nil {
		err = mapWriteError(err)
		if !errors.Is(err, store.ErrAlreadyExists) {
			zap.L().Error("Failed to insert account", zap.String("email", account.Email), zap.Error(err))
		}
		return fmt.Errorf("unable to insert account: %w", err)
	}
	return nil
}

func (s *Service) GetAccount(ctx context.Context, uid string) (*models.Account, error) {
	return s.getAccount(ctx, queryGetAccountByUid, uid)
}

func (s *Service) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getAccount(ctx, queryGetAccountByEmail, email)
}

func (s *Service) getAccount(ctx context.Context, query, key string) (*models.Account, error) {
	var account models.Account
	var lockedUntil, verificationSentAt, lastLoginAt sql.NullTime
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&account.Uid, &account.Email, &account.DisplayName, &account.PhotoURL, &account.PasswordHash,
		&account.Provider, &account.EmailVerified, &account.Disabled, &account.FailedAttempts,
		&lockedUntil, &verificationSentAt, &account.CreatedAt, &lastLoginAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", key, store.ErrNotFound)
		}
		zap.L().Error("Failed to query account", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("unable to query account: %w", err)
	}

	account.LockedUntil = timeOrZero(lockedUntil)
	account.VerificationSentAt = timeOrZero(verificationSentAt)
	account.LastLoginAt = timeOrZero(lastLoginAt)
	return &account, nil
}

func (s *Service) UpdateAccount(ctx context.Context, account models.Account) error {
	result, err := s.db.ExecContext(ctx, queryUpdateAccount,
		account.DisplayName, account.PhotoURL, account.PasswordHash, account.EmailVerified,
		account.Disabled, account.FailedAttempts, nullTime(account.LockedUntil),
		nullTime(account.VerificationSentAt), nullTime(account.LastLoginAt), account.Uid)
	if err != nil {
		zap.L().Error("Failed to update account", zap.String("uid", account.Uid), zap.Error(err))
		return fmt.Errorf("unable to update account: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account %s: %w", account.Uid, store.ErrNotFound)
	}
	return nil
}
