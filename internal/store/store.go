package store

import (
	"context"
	"errors"
	"time"

	"safvacut-wallet-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotFound               = errors.New("document not found")
	ErrAlreadyExists          = errors.New("document already exists")
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// ProfileUpdate lists the profile fields to re-write. Nil fields are left
// untouched; updated_at is always refreshed.
type ProfileUpdate struct {
	DisplayName       *string
	PhoneNumber       *string
	Country           *string
	PhotoURL          *string
	EmailVerified     *bool
	TotalTransactions *int
	TotalWallets      *int
	LastLoginDate     *time.Time
}

// IsEmpty reports whether the update carries no field.
func (u ProfileUpdate) IsEmpty() bool {
	return u.DisplayName == nil && u.PhoneNumber == nil && u.Country == nil && u.PhotoURL == nil &&
		u.EmailVerified == nil && u.TotalTransactions == nil && u.TotalWallets == nil && u.LastLoginDate == nil
}

// AccountStore persists locally managed identities.
type AccountStore interface {
	CreateAccount(ctx context.Context, account models.Account) error
	GetAccount(ctx context.Context, uid string) (*models.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	UpdateAccount(ctx context.Context, account models.Account) error
}

// DocumentStore is the per-user document database: users, assets, wallets,
// transactions, settings and notifications. Every method is an independent
// write; no method spans collections.
type DocumentStore interface {
	// Profiles
	GetProfile(ctx context.Context, uid string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile models.Profile) error
	UpdateProfile(ctx context.Context, uid string, update ProfileUpdate) error
	ListProfiles(ctx context.Context) ([]models.Profile, error)

	// Assets
	CreateAsset(ctx context.Context, asset models.Asset) error
	ListAssets(ctx context.Context, userId string) ([]models.Asset, error)
	// UpdateAsset applies only while the stored last transaction id still
	// equals expectedLastTxId; otherwise it returns ErrConcurrentModification.
	UpdateAsset(ctx context.Context, asset models.Asset, expectedLastTxId string) error

	// Wallets
	CreateWallet(ctx context.Context, wallet models.Wallet) error
	ListWallets(ctx context.Context, userId string) ([]models.Wallet, error)

	// Transactions
	CreateTransaction(ctx context.Context, tx models.Transaction) error
	ListTransactions(ctx context.Context, userId string, limit int) ([]models.Transaction, error)
	LatestTransaction(ctx context.Context, userId, crypto string) (*models.Transaction, error)

	// Settings
	GetSettings(ctx context.Context, userId string) (*models.Settings, error)
	CreateSettings(ctx context.Context, settings models.Settings) error
	UpdateSettings(ctx context.Context, settings models.Settings) error

	// Notifications
	CreateNotification(ctx context.Context, n models.Notification) error
	ListNotifications(ctx context.Context, userId string, limit int) ([]models.Notification, error)
	SetNotificationRead(ctx context.Context, userId, id string, read bool) error
}

// Backend is what a concrete database implements.
type Backend interface {
	AccountStore
	DocumentStore
	Ping(ctx context.Context) error
	Close()
}
