package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"safvacut-wallet-go/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Ensure Store satisfies the store.Backend interface at compile time.
var _ store.Backend = (*Store)(nil)

// Store provides Postgres-backed persistence for accounts and user documents.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to Postgres and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url cannot be empty")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	zap.L().Info("Postgres store initialized", zap.String("host", cfg.ConnConfig.Host))
	return s, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			uid TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL DEFAULT '',
			provider TEXT NOT NULL,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			disabled BOOLEAN NOT NULL DEFAULT FALSE,
			failed_attempts INTEGER NOT NULL DEFAULT 0,
			locked_until TIMESTAMPTZ,
			verification_sent_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_login_at TIMESTAMPTZ
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_unique_idx ON accounts (LOWER(email));`,
		`CREATE TABLE IF NOT EXISTS profiles (
			uid TEXT PRIMARY KEY,
			display_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			photo_url TEXT NOT NULL DEFAULT '',
			phone_number TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			ip_address TEXT NOT NULL DEFAULT 'Unknown',
			device TEXT NOT NULL DEFAULT '',
			wallet_id BIGINT NOT NULL,
			total_balance NUMERIC(38,18) NOT NULL DEFAULT 0,
			daily_income NUMERIC(38,18) NOT NULL DEFAULT 0,
			daily_expense NUMERIC(38,18) NOT NULL DEFAULT 0,
			total_transactions INTEGER NOT NULL DEFAULT 0,
			total_wallets INTEGER NOT NULL DEFAULT 0,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			registration_date TIMESTAMPTZ,
			last_login_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS assets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			symbol TEXT NOT NULL,
			name TEXT NOT NULL,
			balance NUMERIC(38,18) NOT NULL DEFAULT 0,
			price NUMERIC(38,18) NOT NULL DEFAULT 0,
			change_24h NUMERIC(12,4) NOT NULL DEFAULT 0,
			value NUMERIC(38,18) NOT NULL DEFAULT 0,
			address TEXT NOT NULL,
			last_transaction_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE UNIQUE INDEX IF NOT EXISTS assets_user_symbol_unique_idx ON assets (user_id, symbol);`,
		`CREATE TABLE IF NOT EXISTS wallets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			address TEXT NOT NULL,
			balance NUMERIC(38,18) NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			last_used TIMESTAMPTZ
		);`,
		`CREATE INDEX IF NOT EXISTS wallets_user_idx ON wallets (user_id);`,
		`ALTER TABLE wallets ADD COLUMN IF NOT EXISTS seq BIGSERIAL;`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			crypto TEXT NOT NULL,
			amount NUMERIC(38,18) NOT NULL,
			fee NUMERIC(38,18) NOT NULL,
			recipient TEXT NOT NULL,
			status TEXT NOT NULL,
			hash TEXT NOT NULL,
			balance_before NUMERIC(38,18) NOT NULL DEFAULT 0,
			balance_after NUMERIC(38,18) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			confirmed_at TIMESTAMPTZ
		);`,
		`CREATE INDEX IF NOT EXISTS transactions_user_created_idx ON transactions (user_id, created_at DESC);`,
		`ALTER TABLE transactions ADD COLUMN IF NOT EXISTS seq BIGSERIAL;`,
		`CREATE TABLE IF NOT EXISTS settings (
			user_id TEXT PRIMARY KEY,
			notify_email BOOLEAN NOT NULL DEFAULT TRUE,
			notify_push BOOLEAN NOT NULL DEFAULT TRUE,
			notify_transactions BOOLEAN NOT NULL DEFAULT TRUE,
			notify_price_alerts BOOLEAN NOT NULL DEFAULT TRUE,
			two_factor_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			transaction_pin_hash TEXT NOT NULL DEFAULT '',
			login_alerts BOOLEAN NOT NULL DEFAULT TRUE,
			currency TEXT NOT NULL DEFAULT 'USD',
			language TEXT NOT NULL DEFAULT 'en',
			theme TEXT NOT NULL DEFAULT 'dark',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			type TEXT NOT NULL,
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS notifications_user_created_idx ON notifications (user_id, created_at DESC);`,
		`ALTER TABLE notifications ADD COLUMN IF NOT EXISTS seq BIGSERIAL;`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// mapWriteError translates unique violations into store.ErrAlreadyExists.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", store.ErrAlreadyExists, pgErr.ConstraintName)
	}
	return err
}

// mapReadError translates pgx.ErrNoRows into store.ErrNotFound.
func mapReadError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return err
}

func expectOne(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", what, store.ErrNotFound)
	}
	return nil
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
