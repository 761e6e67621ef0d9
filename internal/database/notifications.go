package database

import (
	"context"
	"fmt"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"
)

func (s *Service) CreateNotification(ctx context.Context, n models.Notification) error {
	_, err := s.db.ExecContext(ctx, queryInsertNotification,
		n.Id, n.UserId, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("unable to insert notification: %w", mapWriteError(err))
	}
	return nil
}

func (s *Service) ListNotifications(ctx context.Context, userId string, limit int) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, queryListNotifications, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query notifications: %w", err)
	}
	defer closeRows(rows)

	var list []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.Id, &n.UserId, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("unable to scan notification row: %w", err)
		}
		list = append(list, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notification rows: %w", err)
	}
	return list, nil
}

func (s *Service) SetNotificationRead(ctx context.Context, userId, id string, read bool) error {
	result, err := s.db.ExecContext(ctx, querySetNotificationRead, read, id, userId)
	if err != nil {
		return fmt.Errorf("unable to update notification: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, store.ErrNotFound)
	}
	return nil
}
