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

const (
	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (uid, email, display_name, photo_url, password_hash, provider,
		                      email_verified, disabled, failed_attempts, locked_until,
		                      verification_sent_at, created_at, last_login_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetAccountByUid = `
		SELECT uid, email, display_name, photo_url, password_hash, provider, email_verified,
		       disabled, failed_attempts, locked_until, verification_sent_at, created_at, last_login_at
		FROM accounts
		WHERE uid = ?`

	queryGetAccountByEmail = `
		SELECT uid, email, display_name, photo_url, password_hash, provider, email_verified,
		       disabled, failed_attempts, locked_until, verification_sent_at, created_at, last_login_at
		FROM accounts
		WHERE LOWER(email) = LOWER(?)`

	queryUpdateAccount = `
		UPDATE accounts
		SET display_name = ?, photo_url = ?, password_hash = ?, email_verified = ?, disabled = ?,
		    failed_attempts = ?, locked_until = ?, verification_sent_at = ?, last_login_at = ?
		WHERE uid = ?`

	// Profile queries
	queryInsertProfile = `
		INSERT INTO profiles (uid, display_name, email, photo_url, phone_number, country, ip_address,
		                      device, wallet_id, total_balance, daily_income, daily_expense,
		                      total_transactions, total_wallets, email_verified, registration_date,
		                      last_login_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryProfileColumns = `
		SELECT uid, display_name, email, photo_url, phone_number, country, ip_address, device,
		       wallet_id, total_balance, daily_income, daily_expense, total_transactions,
		       total_wallets, email_verified, registration_date, last_login_date, created_at, updated_at
		FROM profiles`

	queryGetProfile = queryProfileColumns + `
		WHERE uid = ?`

	queryListProfiles = queryProfileColumns + `
		ORDER BY created_at`

	// Asset queries
	queryInsertAsset = `
		INSERT INTO assets (id, user_id, symbol, name, balance, price, change_24h, value, address,
		                    last_transaction_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryListAssets = `
		SELECT id, user_id, symbol, name, balance, price, change_24h, value, address,
		       last_transaction_id, created_at, updated_at
		FROM assets
		WHERE user_id = ?
		ORDER BY created_at, rowid`

	queryUpdateAsset = `
		UPDATE assets
		SET balance = ?, value = ?, price = ?, change_24h = ?, last_transaction_id = ?, updated_at = ?
		WHERE id = ? AND user_id = ? AND last_transaction_id = ?`

	queryAssetExists = `
		SELECT COUNT(1) FROM assets WHERE id = ? AND user_id = ?`

	// Wallet queries
	queryInsertWallet = `
		INSERT INTO wallets (id, user_id, type, address, balance, is_active, created_at, last_used)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryListWallets = `
		SELECT id, user_id, type, address, balance, is_active, created_at, last_used
		FROM wallets
		WHERE user_id = ?
		ORDER BY created_at, rowid`

	// Transaction queries
	queryInsertTransaction = `
		INSERT INTO transactions (id, user_id, type, crypto, amount, fee, recipient, status, hash,
		                          balance_before, balance_after, created_at, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryTransactionColumns = `
		SELECT id, user_id, type, crypto, amount, fee, recipient, status, hash,
		       balance_before, balance_after, created_at, confirmed_at
		FROM transactions`

	queryListTransactions = queryTransactionColumns + `
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	queryLatestTransaction = queryTransactionColumns + `
		WHERE user_id = ? AND crypto = ? AND status = 'completed'
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1`

	// Settings queries
	queryInsertSettings = `
		INSERT INTO settings (user_id, notify_email, notify_push, notify_transactions,
		                      notify_price_alerts, two_factor_enabled, transaction_pin_hash,
		                      login_alerts, currency, language, theme, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetSettings = `
		SELECT user_id, notify_email, notify_push, notify_transactions, notify_price_alerts,
		       two_factor_enabled, transaction_pin_hash, login_alerts, currency, language, theme,
		       created_at, updated_at
		FROM settings
		WHERE user_id = ?`

	queryUpdateSettings = `
		UPDATE settings
		SET notify_email = ?, notify_push = ?, notify_transactions = ?, notify_price_alerts = ?,
		    two_factor_enabled = ?, transaction_pin_hash = ?, login_alerts = ?, currency = ?,
		    language = ?, theme = ?, updated_at = ?
		WHERE user_id = ?`

	// Notification queries
	queryInsertNotification = `
		INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryListNotifications = `
		SELECT id, user_id, title, message, type, is_read, created_at
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?`

	querySetNotificationRead = `
		UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?`
)
