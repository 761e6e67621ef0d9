package postgres

import (
	"context"
	"fmt"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/jackc/pgx/v5"
)

const assetColumns = `id, user_id, symbol, name, balance::text, price::text, change_24h::text, value::text,
	address, last_transaction_id, created_at, updated_at`

// CreateAsset inserts a seed asset; (user_id, symbol) is unique.
func (s *Store) CreateAsset(ctx context.Context, a models.Asset) error {
	const query = `
		INSERT INTO assets (id, user_id, symbol, name, balance, price, change_24h, value, address,
		                    last_transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := s.pool.Exec(ctx, query, a.Id, a.UserId, a.Symbol, a.Name, a.Balance, a.Price,
		a.Change24h, a.Value, a.Address, a.LastTransactionId, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert asset %s: %w", a.Symbol, mapWriteError(err))
	}
	return nil
}

// ListAssets returns a user's assets in creation order.
func (s *Store) ListAssets(ctx context.Context, userId string) ([]models.Asset, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+assetColumns+` FROM assets WHERE user_id = $1 ORDER BY created_at, symbol`, userId)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.Id, &a.UserId, &a.Symbol, &a.Name, &a.Balance, &a.Price, &a.Change24h,
			&a.Value, &a.Address, &a.LastTransactionId, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// UpdateAsset writes balance, value, pricing and the last applied
// transaction, guarded by the previously applied transaction id.
func (s *Store) UpdateAsset(ctx context.Context, a models.Asset, expectedLastTxId string) error {
	const query = `
		UPDATE assets
		SET balance = $1, value = $2, price = $3, change_24h = $4, last_transaction_id = $5, updated_at = $6
		WHERE id = $7 AND user_id = $8 AND last_transaction_id = $9`
	tag, err := s.pool.Exec(ctx, query, a.Balance, a.Value, a.Price, a.Change24h, a.LastTransactionId,
		a.UpdatedAt, a.Id, a.UserId, expectedLastTxId)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM assets WHERE id = $1 AND user_id = $2)`,
		a.Id, a.UserId).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check asset: %w", err)
	}
	if exists {
		return fmt.Errorf("asset %s: %w", a.Id, store.ErrConcurrentModification)
	}
	return fmt.Errorf("asset %s: %w", a.Id, store.ErrNotFound)
}

// CreateWallet inserts a connected wallet.
func (s *Store) CreateWallet(ctx context.Context, w models.Wallet) error {
	const query = `
		INSERT INTO wallets (id, user_id, type, address, balance, is_active, created_at, last_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.pool.Exec(ctx, query, w.Id, w.UserId, w.Type, w.Address, w.Balance, w.IsActive,
		w.CreatedAt, nullTime(w.LastUsed))
	if err != nil {
		return fmt.Errorf("insert wallet: %w", mapWriteError(err))
	}
	return nil
}

// ListWallets returns a user's wallets in creation order.
func (s *Store) ListWallets(ctx context.Context, userId string) ([]models.Wallet, error) {
	const query = `
		SELECT id, user_id, type, address, balance::text, is_active, created_at, last_used
		FROM wallets WHERE user_id = $1 ORDER BY created_at, seq`
	rows, err := s.pool.Query(ctx, query, userId)
	if err != nil {
		return nil, fmt.Errorf("query wallets: %w", err)
	}
	defer rows.Close()

	var wallets []models.Wallet
	for rows.Next() {
		var w models.Wallet
		var lastUsed *time.Time
		if err := rows.Scan(&w.Id, &w.UserId, &w.Type, &w.Address, &w.Balance, &w.IsActive,
			&w.CreatedAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("scan wallet: %w", err)
		}
		w.LastUsed = derefTime(lastUsed)
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

const transactionColumns = `id, user_id, type, crypto, amount::text, fee::text, recipient, status, hash,
	balance_before::text, balance_after::text, created_at, confirmed_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var tx models.Transaction
	var confirmedAt *time.Time
	if err := row.Scan(&tx.Id, &tx.UserId, &tx.Type, &tx.Crypto, &tx.Amount, &tx.Fee, &tx.Recipient,
		&tx.Status, &tx.Hash, &tx.BalanceBefore, &tx.BalanceAfter, &tx.CreatedAt, &confirmedAt); err != nil {
		return nil, err
	}
	tx.ConfirmedAt = derefTime(confirmedAt)
	return &tx, nil
}

// CreateTransaction appends a send record.
func (s *Store) CreateTransaction(ctx context.Context, tx models.Transaction) error {
	const query = `
		INSERT INTO transactions (id, user_id, type, crypto, amount, fee, recipient, status, hash,
		                          balance_before, balance_after, created_at, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.pool.Exec(ctx, query, tx.Id, tx.UserId, tx.Type, tx.Crypto, tx.Amount, tx.Fee,
		tx.Recipient, tx.Status, tx.Hash, tx.BalanceBefore, tx.BalanceAfter, tx.CreatedAt,
		nullTime(tx.ConfirmedAt))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", mapWriteError(err))
	}
	return nil
}

// ListTransactions returns the newest transactions first.
func (s *Store) ListTransactions(ctx context.Context, userId string, limit int) ([]models.Transaction, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1 ORDER BY created_at DESC, seq DESC LIMIT $2`, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

// LatestTransaction returns the newest completed transaction for one asset.
func (s *Store) LatestTransaction(ctx context.Context, userId, crypto string) (*models.Transaction, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions
		WHERE user_id = $1 AND crypto = $2 AND status = 'completed'
		ORDER BY created_at DESC, seq DESC LIMIT 1`, userId, crypto)
	tx, err := scanTransaction(row)
	if err != nil {
		return nil, mapReadError(err, "latest "+crypto+" transaction")
	}
	return tx, nil
}

// GetSettings fetches the settings document.
func (s *Store) GetSettings(ctx context.Context, userId string) (*models.Settings, error) {
	const query = `
		SELECT user_id, notify_email, notify_push, notify_transactions, notify_price_alerts,
		       two_factor_enabled, transaction_pin_hash, login_alerts, currency, language, theme,
		       created_at, updated_at
		FROM settings WHERE user_id = $1`
	var st models.Settings
	err := s.pool.QueryRow(ctx, query, userId).Scan(&st.UserId,
		&st.Notifications.Email, &st.Notifications.Push, &st.Notifications.Transactions,
		&st.Notifications.PriceAlerts,
		&st.Security.TwoFactorEnabled, &st.Security.TransactionPinHash, &st.Security.LoginAlerts,
		&st.Preferences.Currency, &st.Preferences.Language, &st.Preferences.Theme,
		&st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, mapReadError(err, "settings "+userId)
	}
	return &st, nil
}

// CreateSettings inserts the settings document.
func (s *Store) CreateSettings(ctx context.Context, st models.Settings) error {
	const query = `
		INSERT INTO settings (user_id, notify_email, notify_push, notify_transactions,
		                      notify_price_alerts, two_factor_enabled, transaction_pin_hash,
		                      login_alerts, currency, language, theme, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := s.pool.Exec(ctx, query, st.UserId,
		st.Notifications.Email, st.Notifications.Push, st.Notifications.Transactions,
		st.Notifications.PriceAlerts,
		st.Security.TwoFactorEnabled, st.Security.TransactionPinHash, st.Security.LoginAlerts,
		st.Preferences.Currency, st.Preferences.Language, st.Preferences.Theme,
		st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert settings: %w", mapWriteError(err))
	}
	return nil
}

// UpdateSettings overwrites the settings document.
func (s *Store) UpdateSettings(ctx context.Context, st models.Settings) error {
	const query = `
		UPDATE settings
		SET notify_email = $1, notify_push = $2, notify_transactions = $3, notify_price_alerts = $4,
		    two_factor_enabled = $5, transaction_pin_hash = $6, login_alerts = $7, currency = $8,
		    language = $9, theme = $10, updated_at = $11
		WHERE user_id = $12`
	tag, err := s.pool.Exec(ctx, query,
		st.Notifications.Email, st.Notifications.Push, st.Notifications.Transactions,
		st.Notifications.PriceAlerts,
		st.Security.TwoFactorEnabled, st.Security.TransactionPinHash, st.Security.LoginAlerts,
		st.Preferences.Currency, st.Preferences.Language, st.Preferences.Theme,
		st.UpdatedAt, st.UserId)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return expectOne(tag, "settings "+st.UserId)
}

// CreateNotification appends a notification.
func (s *Store) CreateNotification(ctx context.Context, n models.Notification) error {
	const query = `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.pool.Exec(ctx, query, n.Id, n.UserId, n.Title, n.Message, n.Type, n.IsRead, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", mapWriteError(err))
	}
	return nil
}

// ListNotifications returns the newest notifications first.
func (s *Store) ListNotifications(ctx context.Context, userId string, limit int) ([]models.Notification, error) {
	const query = `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, seq DESC LIMIT $2`
	rows, err := s.pool.Query(ctx, query, userId, limit)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var list []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.Id, &n.UserId, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// SetNotificationRead flips the read flag of one notification.
func (s *Store) SetNotificationRead(ctx context.Context, userId, id string, read bool) error {
	tag, err := s.pool.Exec(ctx, `UPDATE notifications SET is_read = $1 WHERE id = $2 AND user_id = $3`, read, id, userId)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}
	return expectOne(tag, "notification "+id)
}
