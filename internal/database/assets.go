package database

import (
	"context"
	"fmt"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) CreateAsset(ctx context.Context, a models.Asset) error {
	_, err := s.db.ExecContext(ctx, queryInsertAsset,
		a.Id, a.UserId, a.Symbol, a.Name, a.Balance, a.Price, a.Change24h, a.Value, a.Address,
		a.LastTransactionId, a.CreatedAt.UTC(), a.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("unable to insert asset %s: %w", a.Symbol, mapWriteError(err))
	}

	zap.L().Debug("Asset created",
		zap.String("user_id", a.UserId),
		zap.String("symbol", a.Symbol),
		zap.String("address", a.Address))
	return nil
}

func (s *Service) ListAssets(ctx context.Context, userId string) ([]models.Asset, error) {
	rows, err := s.db.QueryContext(ctx, queryListAssets, userId)
	if err != nil {
		zap.L().Error("Failed to query assets", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query assets: %w", err)
	}
	defer closeRows(rows)

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.Id, &a.UserId, &a.Symbol, &a.Name, &a.Balance, &a.Price, &a.Change24h,
			&a.Value, &a.Address, &a.LastTransactionId, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan asset row: %w", err)
		}
		assets = append(assets, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating asset rows: %w", err)
	}
	return assets, nil
}

func (s *Service) UpdateAsset(ctx context.Context, a models.Asset, expectedLastTxId string) error {
	result, err := s.db.ExecContext(ctx, queryUpdateAsset,
		a.Balance, a.Value, a.Price, a.Change24h, a.LastTransactionId, a.UpdatedAt.UTC(), a.Id, a.UserId,
		expectedLastTxId)
	if err != nil {
		zap.L().Error("Failed to update asset", zap.String("asset_id", a.Id), zap.Error(err))
		return fmt.Errorf("unable to update asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var count int
		if err := s.db.QueryRowContext(ctx, queryAssetExists, a.Id, a.UserId).Scan(&count); err != nil {
			return fmt.Errorf("unable to check asset: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("asset %s: %w", a.Id, store.ErrConcurrentModification)
		}
		return fmt.Errorf("asset %s: %w", a.Id, store.ErrNotFound)
	}
	return nil
}
