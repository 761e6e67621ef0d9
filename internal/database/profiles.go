package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"go.uber.org/zap"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var p models.Profile
	var registrationDate, lastLoginDate sql.NullTime
	err := row.Scan(&p.Uid, &p.DisplayName, &p.Email, &p.PhotoURL, &p.PhoneNumber, &p.Country,
		&p.IpAddress, &p.Device, &p.WalletId, &p.TotalBalance, &p.DailyIncome, &p.DailyExpense,
		&p.TotalTransactions, &p.TotalWallets, &p.EmailVerified, &registrationDate, &lastLoginDate,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.RegistrationDate = timeOrZero(registrationDate)
	p.LastLoginDate = timeOrZero(lastLoginDate)
	return &p, nil
}

func (s *Service) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	zap.L().Debug("Querying profile", zap.String("uid", uid))

	p, err := scanProfile(s.db.QueryRowContext(ctx, queryGetProfile, uid))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile %s: %w", uid, store.ErrNotFound)
		}
		zap.L().Error("Failed to query profile", zap.String("uid", uid), zap.Error(err))
		return nil, fmt.Errorf("unable to query profile: %w", err)
	}
	return p, nil
}

func (s *Service) CreateProfile(ctx context.Context, p models.Profile) error {
	zap.L().Info("Creating profile", zap.String("uid", p.Uid), zap.Int64("wallet_id", p.WalletId))

	_, err := s.db.ExecContext(ctx, queryInsertProfile,
		p.Uid, p.DisplayName, p.Email, p.PhotoURL, p.PhoneNumber, p.Country, p.IpAddress, p.Device,
		p.WalletId, p.TotalBalance, p.DailyIncome, p.DailyExpense, p.TotalTransactions,
		p.TotalWallets, p.EmailVerified, nullTime(p.RegistrationDate), nullTime(p.LastLoginDate),
		p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("unable to insert profile: %w", mapWriteError(err))
	}
	return nil
}

// UpdateProfile re-writes only the fields set on update plus updated_at.
func (s *Service) UpdateProfile(ctx context.Context, uid string, update store.ProfileUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if update.DisplayName != nil {
		add("display_name", *update.DisplayName)
	}
	if update.PhoneNumber != nil {
		add("phone_number", *update.PhoneNumber)
	}
	if update.Country != nil {
		add("country", *update.Country)
	}
	if update.PhotoURL != nil {
		add("photo_url", *update.PhotoURL)
	}
	if update.EmailVerified != nil {
		add("email_verified", *update.EmailVerified)
	}
	if update.TotalTransactions != nil {
		add("total_transactions", *update.TotalTransactions)
	}
	if update.TotalWallets != nil {
		add("total_wallets", *update.TotalWallets)
	}
	if update.LastLoginDate != nil {
		add("last_login_date", update.LastLoginDate.UTC())
	}
	add("updated_at", time.Now().UTC())
	args = append(args, uid)

	query := fmt.Sprintf("UPDATE profiles SET %s WHERE uid = ?", strings.Join(sets, ", "))
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		zap.L().Error("Failed to update profile", zap.String("uid", uid), zap.Error(err))
		return fmt.Errorf("unable to update profile: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("profile %s: %w", uid, store.ErrNotFound)
	}
	return nil
}

func (s *Service) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.db.QueryContext(ctx, queryListProfiles)
	if err != nil {
		zap.L().Error("Failed to query profiles", zap.Error(err))
		return nil, fmt.Errorf("unable to query profiles: %w", err)
	}
	defer closeRows(rows)

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan profile row: %w", err)
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}

	zap.L().Debug("Retrieved profiles", zap.Int("count", len(profiles)))
	return profiles, nil
}
