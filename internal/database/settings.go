package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"
)

func (s *Service) GetSettings(ctx context.Context, userId string) (*models.Settings, error) {
	var st models.Settings
	err := s.db.QueryRowContext(ctx, queryGetSettings, userId).Scan(
		&st.UserId,
		&st.Notifications.Email, &st.Notifications.Push, &st.Notifications.Transactions,
		&st.Notifications.PriceAlerts,
		&st.Security.TwoFactorEnabled, &st.Security.TransactionPinHash, &st.Security.LoginAlerts,
		&st.Preferences.Currency, &st.Preferences.Language, &st.Preferences.Theme,
		&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("settings %s: %w", userId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query settings: %w", err)
	}
	return &st, nil
}

func (s *Service) CreateSettings(ctx context.Context, st models.Settings) error {
	_, err := s.db.ExecContext(ctx, queryInsertSettings,
		st.UserId,
		st.Notifications.Email, st.Notifications.Push, st.Notifications.Transactions,
		st.Notifications.PriceAlerts,
		st.Security.TwoFactorEnabled, st.Security.TransactionPinHash, st.Security.LoginAlerts,
		st.Preferences.Currency, st.Preferences.Language, st.Preferences.Theme,
		st.CreatedAt.UTC(), st.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("unable to insert settings: %w", mapWriteError(err))
	}
	return nil
}

func (s *Service) UpdateSettings(ctx context.Context, st models.Settings) error {
	result, err := s.db.ExecContext(ctx, queryUpdateSettings,
		st.Notifications.Email, st.Notifications.Push, st.Notifications.Transactions,
		st.Notifications.PriceAlerts,
		st.Security.TwoFactorEnabled, st.Security.TransactionPinHash, st.Security.LoginAlerts,
		st.Preferences.Currency, st.Preferences.Language, st.Preferences.Theme,
		st.UpdatedAt.UTC(), st.UserId)
	if err != nil {
		return fmt.Errorf("unable to update settings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("settings %s: %w", st.UserId, store.ErrNotFound)
	}
	return nil
}
