package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/ipinfo"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Identities is the part of the identity provider profile edits write
// through to.
type Identities interface {
	UpdateProfile(ctx context.Context, uid, displayName, photoURL string) error
	Reauthenticate(ctx context.Context, uid, password string) error
	UpdatePassword(ctx context.Context, uid, newPassword string) error
}

// Service owns the per-user profile, seed assets and settings documents.
type Service struct {
	docs       store.DocumentStore
	identities Identities
	catalogue  []common.AssetConfig
	addresses  AddressSource
	ip         ipinfo.Resolver
	blobs      BlobStore
	now        func() time.Time
}

type Option func(*Service)

func WithAddressSource(src AddressSource) Option {
	return func(s *Service) { s.addresses = src }
}

func WithIpResolver(r ipinfo.Resolver) Option {
	return func(s *Service) { s.ip = r }
}

func WithBlobStore(b BlobStore) Option {
	return func(s *Service) { s.blobs = b }
}

func NewService(docs store.DocumentStore, identities Identities, catalogue []common.AssetConfig, opts ...Option) *Service {
	s := &Service{
		docs:       docs,
		identities: identities,
		catalogue:  catalogue,
		addresses:  RandomAddresses{},
		ip:         ipinfo.Static(""),
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize returns the caller's profile, creating it with seed assets and
// settings on first login. On later logins it refreshes the last-login time
// and writes any seed document a previous attempt failed to create.
func (s *Service) Initialize(ctx context.Context, identity models.Identity, client models.ClientInfo) (*models.Profile, error) {
	const op = "profile.Initialize"

	existing, err := s.docs.GetProfile(ctx, identity.Uid)
	switch {
	case err == nil:
		return s.resume(ctx, existing)
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("%s: failed to load profile: %w", op, err)
	}

	now := s.now()
	profile := models.Profile{
		Uid:              identity.Uid,
		DisplayName:      identity.DisplayName,
		Email:            identity.Email,
		PhotoURL:         identity.PhotoURL,
		IpAddress:        s.ip.PublicIP(ctx),
		Device:           client.UserAgent,
		WalletId:         NewWalletId(),
		TotalBalance:     decimal.Zero,
		DailyIncome:      decimal.Zero,
		DailyExpense:     decimal.Zero,
		EmailVerified:    identity.EmailVerified,
		RegistrationDate: now,
		LastLoginDate:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.docs.CreateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// Lost a race with a concurrent first login.
			existing, getErr := s.docs.GetProfile(ctx, identity.Uid)
			if getErr != nil {
				return nil, fmt.Errorf("%s: failed to reload profile: %w", op, getErr)
			}
			return existing, nil
		}
		return nil, fmt.Errorf("%s: failed to create profile: %w", op, err)
	}

	zap.L().Info("Profile created",
		zap.String("uid", profile.Uid),
		zap.Int64("wallet_id", profile.WalletId))

	// Seed writes are independent of the profile write. A failure leaves the
	// profile without full seed data until the next login repairs it.
	if err := s.seed(ctx, identity.Uid, nil, false); err != nil {
		zap.L().Warn("Seed data incomplete", zap.String("uid", identity.Uid), zap.Error(err))
	}
	return &profile, nil
}

func (s *Service) resume(ctx context.Context, profile *models.Profile) (*models.Profile, error) {
	now := s.now()
	if err := s.docs.UpdateProfile(ctx, profile.Uid, store.ProfileUpdate{LastLoginDate: &now}); err != nil {
		zap.L().Warn("Failed to refresh last login", zap.String("uid", profile.Uid), zap.Error(err))
	} else {
		profile.LastLoginDate = now
	}

	if err := s.Reconcile(ctx, profile.Uid); err != nil {
		zap.L().Warn("Seed reconciliation failed", zap.String("uid", profile.Uid), zap.Error(err))
	}
	return profile, nil
}

// Reconcile writes any seed asset or settings document missing for uid.
// Running it repeatedly never duplicates documents.
func (s *Service) Reconcile(ctx context.Context, uid string) error {
	assets, err := s.docs.ListAssets(ctx, uid)
	if err != nil {
		return fmt.Errorf("failed to list assets: %w", err)
	}
	have := make(map[string]bool, len(assets))
	for _, a := range assets {
		have[a.Symbol] = true
	}

	_, err = s.docs.GetSettings(ctx, uid)
	settingsMissing := errors.Is(err, store.ErrNotFound)
	if err != nil && !settingsMissing {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	return s.seed(ctx, uid, have, !settingsMissing)
}

// seed writes the catalogue assets not in have, then the settings document
// unless haveSettings. It stops at the first failing write.
func (s *Service) seed(ctx context.Context, uid string, have map[string]bool, haveSettings bool) error {
	now := s.now()
	created := 0

	for _, cfg := range s.catalogue {
		if have[cfg.Symbol] {
			continue
		}
		address, err := s.addresses.Address(ctx, cfg)
		if err != nil {
			return fmt.Errorf("address for %s: %w", cfg.Symbol, err)
		}
		asset := models.Asset{
			Id:        uuid.New().String(),
			UserId:    uid,
			Symbol:    cfg.Symbol,
			Name:      cfg.Name,
			Balance:   decimal.Zero,
			Price:     cfg.PriceDecimal(),
			Change24h: cfg.ChangeDecimal(),
			Value:     decimal.Zero,
			Address:   address,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.docs.CreateAsset(ctx, asset); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				continue
			}
			return fmt.Errorf("asset %s: %w", cfg.Symbol, err)
		}
		created++
	}

	if !haveSettings {
		err := s.docs.CreateSettings(ctx, models.DefaultSettings(uid, now))
		if err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return fmt.Errorf("settings: %w", err)
		}
		if err == nil {
			created++
		}
	}

	if created > 0 {
		zap.L().Info("Seed documents written", zap.String("uid", uid), zap.Int("count", created))
	}
	return nil
}

// Get loads the stored profile.
func (s *Service) Get(ctx context.Context, uid string) (*models.Profile, error) {
	return s.docs.GetProfile(ctx, uid)
}
