package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/jackc/pgx/v5"
)

const profileColumns = `uid, display_name, email, photo_url, phone_number, country, ip_address, device,
	wallet_id, total_balance::text, daily_income::text, daily_expense::text, total_transactions,
	total_wallets, email_verified, registration_date, last_login_date, created_at, updated_at`

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	var registrationDate, lastLoginDate *time.Time
	if err := row.Scan(&p.Uid, &p.DisplayName, &p.Email, &p.PhotoURL, &p.PhoneNumber, &p.Country,
		&p.IpAddress, &p.Device, &p.WalletId, &p.TotalBalance, &p.DailyIncome, &p.DailyExpense,
		&p.TotalTransactions, &p.TotalWallets, &p.EmailVerified, &registrationDate, &lastLoginDate,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.RegistrationDate = derefTime(registrationDate)
	p.LastLoginDate = derefTime(lastLoginDate)
	return &p, nil
}

// GetProfile fetches a profile by uid.
func (s *Store) GetProfile(ctx context.Context, uid string) (*models.Profile, error) {
	p, err := scanProfile(s.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE uid = $1`, uid))
	if err != nil {
		return nil, mapReadError(err, "profile "+uid)
	}
	return p, nil
}

// CreateProfile inserts the profile document.
func (s *Store) CreateProfile(ctx context.Context, p models.Profile) error {
	const query = `
		INSERT INTO profiles (uid, display_name, email, photo_url, phone_number, country, ip_address,
		                      device, wallet_id, total_balance, daily_income, daily_expense,
		                      total_transactions, total_wallets, email_verified, registration_date,
		                      last_login_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := s.pool.Exec(ctx, query, p.Uid, p.DisplayName, p.Email, p.PhotoURL, p.PhoneNumber,
		p.Country, p.IpAddress, p.Device, p.WalletId, p.TotalBalance, p.DailyIncome, p.DailyExpense,
		p.TotalTransactions, p.TotalWallets, p.EmailVerified, nullTime(p.RegistrationDate),
		nullTime(p.LastLoginDate), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", mapWriteError(err))
	}
	return nil
}

// UpdateProfile re-writes only the fields set on update plus updated_at.
func (s *Store) UpdateProfile(ctx context.Context, uid string, update store.ProfileUpdate) error {
	if update.IsEmpty() {
		return nil
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
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
		add("last_login_date", *update.LastLoginDate)
	}
	add("updated_at", time.Now().UTC())
	args = append(args, uid)

	query := fmt.Sprintf("UPDATE profiles SET %s WHERE uid = $%d", strings.Join(sets, ", "), len(args))
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return expectOne(tag, "profile "+uid)
}

// ListProfiles returns every profile, oldest first.
func (s *Store) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
