package database

import (
	"context"
	"database/sql"
	"fmt"

	"safvacut-wallet-go/internal/models"
)

func (s *Service) CreateWallet(ctx context.Context, w models.Wallet) error {
	_, err := s.db.ExecContext(ctx, queryInsertWallet,
		w.Id, w.UserId, w.Type, w.Address, w.Balance, w.IsActive, w.CreatedAt.UTC(), nullTime(w.LastUsed))
	if err != nil {
		return fmt.Errorf("unable to insert wallet: %w", mapWriteError(err))
	}
	return nil
}

func (s *Service) ListWallets(ctx context.Context, userId string) ([]models.Wallet, error) {
	rows, err := s.db.QueryContext(ctx, queryListWallets, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query wallets: %w", err)
	}
	defer closeRows(rows)

	var wallets []models.Wallet
	for rows.Next() {
		var w models.Wallet
		var lastUsed sql.NullTime
		if err := rows.Scan(&w.Id, &w.UserId, &w.Type, &w.Address, &w.Balance, &w.IsActive,
			&w.CreatedAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("unable to scan wallet row: %w", err)
		}
		w.LastUsed = timeOrZero(lastUsed)
		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet rows: %w", err)
	}
	return wallets, nil
}
