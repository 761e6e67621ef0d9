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
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.Backend.
var _ store.Backend = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, closeErr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

// Ping checks the connection without touching any table.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema(ctx context.Context) error {
	schema := `
	-- Locally managed identities
	CREATE TABLE IF NOT EXISTS accounts (
		uid TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		display_name TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		provider TEXT NOT NULL,
		email_verified BOOLEAN NOT NULL DEFAULT 0,
		disabled BOOLEAN NOT NULL DEFAULT 0,
		failed_attempts INTEGER NOT NULL DEFAULT 0,
		locked_until TIMESTAMP,
		verification_sent_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_login_at TIMESTAMP
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email ON accounts(email COLLATE NOCASE);

	-- One profile document per identity
	CREATE TABLE IF NOT EXISTS profiles (
		uid TEXT PRIMARY KEY,
		display_name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		country TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT 'Unknown',
		device TEXT NOT NULL DEFAULT '',
		wallet_id INTEGER NOT NULL,
		total_balance TEXT NOT NULL DEFAULT '0',
		daily_income TEXT NOT NULL DEFAULT '0',
		daily_expense TEXT NOT NULL DEFAULT '0',
		total_transactions INTEGER NOT NULL DEFAULT 0,
		total_wallets INTEGER NOT NULL DEFAULT 0,
		email_verified BOOLEAN NOT NULL DEFAULT 0,
		registration_date TIMESTAMP,
		last_login_date TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Seeded holdings; one row per user and symbol
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		balance TEXT NOT NULL DEFAULT '0',
		price TEXT NOT NULL DEFAULT '0',
		change_24h TEXT NOT NULL DEFAULT '0',
		value TEXT NOT NULL DEFAULT '0',
		address TEXT NOT NULL,
		last_transaction_id TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_assets_user_symbol ON assets(user_id, symbol);

	-- Connected wallets; address is intentionally not unique
	CREATE TABLE IF NOT EXISTS wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		address TEXT NOT NULL,
		balance TEXT NOT NULL DEFAULT '0',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_used TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_wallets_user ON wallets(user_id);

	-- Append-only send records
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		crypto TEXT NOT NULL,
		amount TEXT NOT NULL,
		fee TEXT NOT NULL,
		recipient TEXT NOT NULL,
		status TEXT NOT NULL,
		hash TEXT NOT NULL,
		balance_before TEXT NOT NULL DEFAULT '0',
		balance_after TEXT NOT NULL DEFAULT '0',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		confirmed_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_user_created ON transactions(user_id, created_at);
	CREATE INDEX IF NOT EXISTS idx_transactions_user_crypto ON transactions(user_id, crypto);

	-- One settings document per identity
	CREATE TABLE IF NOT EXISTS settings (
		user_id TEXT PRIMARY KEY,
		notify_email BOOLEAN NOT NULL DEFAULT 1,
		notify_push BOOLEAN NOT NULL DEFAULT 1,
		notify_transactions BOOLEAN NOT NULL DEFAULT 1,
		notify_price_alerts BOOLEAN NOT NULL DEFAULT 1,
		two_factor_enabled BOOLEAN NOT NULL DEFAULT 0,
		transaction_pin_hash TEXT NOT NULL DEFAULT '',
		login_alerts BOOLEAN NOT NULL DEFAULT 1,
		currency TEXT NOT NULL DEFAULT 'USD',
		language TEXT NOT NULL DEFAULT 'en',
		theme TEXT NOT NULL DEFAULT 'dark',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Append-only user-facing events
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		title TEXT NOT NULL,
		message TEXT NOT NULL,
		type TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT 0,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_user_created ON notifications(user_id, created_at);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// mapWriteError translates constraint violations into store sentinels.
func mapWriteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
		}
	}
	return err
}

// closeRows logs instead of failing; the result set was already consumed.
func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zap.L().Warn("Failed to close rows", zap.Error(err))
	}
}

// nullTime maps a zero time to NULL so optional timestamps round-trip.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC()
}

func timeOrZero(nt sql.NullTime) time.Time {
	if nt.Valid {
		return nt.Time
	}
	return time.Time{}
}
