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

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var tx models.Transaction
	var confirmedAt sql.NullTime
	if err := row.Scan(&tx.Id, &tx.UserId, &tx.Type, &tx.Crypto, &tx.Amount, &tx.Fee, &tx.Recipient,
		&tx.Status, &tx.Hash, &tx.BalanceBefore, &tx.BalanceAfter, &tx.CreatedAt, &confirmedAt); err != nil {
		return nil, err
	}
	tx.ConfirmedAt = timeOrZero(confirmedAt)
	return &tx, nil
}

func (s *Service) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	_, err := s.db.ExecContext(ctx, queryInsertTransaction,
		tx.Id, tx.UserId, tx.Type, tx.Crypto, tx.Amount, tx.Fee, tx.Recipient, tx.Status, tx.Hash,
		tx.BalanceBefore, tx.BalanceAfter, tx.CreatedAt.UTC(), nullTime(tx.ConfirmedAt))
	if err != nil {
		zap.L().Error("Failed to insert transaction", zap.String("tx_id", tx.Id), zap.Error(err))
		return fmt.Errorf("unable to insert transaction: %w", mapWriteError(err))
	}

	zap.L().Info("Transaction recorded",
		zap.String("tx_id", tx.Id),
		zap.String("user_id", tx.UserId),
		zap.String("crypto", tx.Crypto),
		zap.String("amount", tx.Amount.String()))
	return nil
}

// ListTransactions returns the most recent transactions, newest first.
func (s *Service) ListTransactions(ctx context.Context, userId string, limit int) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, queryListTransactions, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("unable to query transactions: %w", err)
	}
	defer closeRows(rows)

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan transaction row: %w", err)
		}
		txs = append(txs, *tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txs, nil
}

func (s *Service) LatestTransaction(ctx context.Context, userId, crypto string) (*models.Transaction, error) {
	tx, err := scanTransaction(s.db.QueryRowContext(ctx, queryLatestTransaction, userId, crypto))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no %s transaction for %s: %w", crypto, userId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query latest transaction: %w", err)
	}
	return tx, nil
}
