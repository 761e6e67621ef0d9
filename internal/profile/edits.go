package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/auth"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgNotAnImage          = "Please select an image file"
	MsgImageTooLarge       = "Image size must be less than 5MB"
	MsgNewPasswordMismatch = "New passwords do not match"
	MsgCurrentPassword     = "Current password is incorrect"
	MsgPinMismatch         = "PINs do not match"
	MsgPinFormat           = "PIN must be exactly 6 digits"

	maxAvatarSize = 5 * 1024 * 1024
	pinLength     = 6
)

// BlobStore stores uploaded files and returns their public URL.
type BlobStore interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
}

// EditProfile updates the display name at the identity provider, then the
// edited profile fields. The two writes are independent.
func (s *Service) EditProfile(ctx context.Context, uid string, edit models.ProfileEdit) (*models.Profile, error) {
	const op = "profile.EditProfile"

	name := strings.TrimSpace(edit.DisplayName)
	if utf8.RuneCountInString(name) < 2 {
		return nil, apperr.NewValidation(op, auth.MsgFullName)
	}

	if err := s.identities.UpdateProfile(ctx, uid, name, ""); err != nil {
		return nil, apperr.NewFailure(op, "Error updating profile", err)
	}

	phone := strings.TrimSpace(edit.PhoneNumber)
	country := strings.TrimSpace(edit.Country)
	update := store.ProfileUpdate{DisplayName: &name, PhoneNumber: &phone, Country: &country}
	if err := s.docs.UpdateProfile(ctx, uid, update); err != nil {
		return nil, apperr.NewFailure(op, "Error updating profile", err)
	}

	return s.docs.GetProfile(ctx, uid)
}

// UploadAvatar stores the image under avatars/<uid> and points both the
// identity and the profile at it.
func (s *Service) UploadAvatar(ctx context.Context, uid, contentType string, data []byte) (string, error) {
	const op = "profile.UploadAvatar"

	if !strings.HasPrefix(contentType, "image/") {
		return "", apperr.NewValidation(op, MsgNotAnImage)
	}
	if len(data) > maxAvatarSize {
		return "", apperr.NewValidation(op, MsgImageTooLarge)
	}
	if s.blobs == nil {
		return "", apperr.NewFailure(op, "Error uploading avatar", errors.New("no blob store configured"))
	}

	url, err := s.blobs.Put(ctx, "avatars/"+uid, contentType, data)
	if err != nil {
		return "", apperr.NewFailure(op, "Error uploading avatar", err)
	}
	if err := s.identities.UpdateProfile(ctx, uid, "", url); err != nil {
		return "", apperr.NewFailure(op, "Error uploading avatar", err)
	}
	if err := s.docs.UpdateProfile(ctx, uid, store.ProfileUpdate{PhotoURL: &url}); err != nil {
		return "", apperr.NewFailure(op, "Error uploading avatar", err)
	}

	zap.L().Info("Avatar updated", zap.String("uid", uid), zap.Int("bytes", len(data)))
	return url, nil
}

func (s *Service) ChangePassword(ctx context.Context, uid, current, newPassword, confirm string) error {
	const op = "profile.ChangePassword"

	if newPassword != confirm {
		return apperr.NewValidation(op, MsgNewPasswordMismatch)
	}
	if len(newPassword) < auth.MinPasswordLength {
		return apperr.NewValidation(op, auth.MsgPasswordLength)
	}

	if err := s.identities.Reauthenticate(ctx, uid, current); err != nil {
		var pe *auth.ProviderError
		if errors.As(err, &pe) {
			switch pe.Code {
			case auth.CodeWrongPassword:
				return apperr.NewAuth(op, pe.Code, MsgCurrentPassword, err)
			case auth.CodeTooManyRequests:
				return apperr.NewAuth(op, pe.Code, auth.MapErrorCode(pe.Code, ""), err)
			}
		}
		return apperr.NewFailure(op, "Error changing password", err)
	}
	if err := s.identities.UpdatePassword(ctx, uid, newPassword); err != nil {
		return apperr.NewFailure(op, "Error changing password", err)
	}

	zap.L().Info("Password changed", zap.String("uid", uid))
	return nil
}

// ChangePin stores a bcrypt hash of the transaction PIN.
func (s *Service) ChangePin(ctx context.Context, uid, pin, confirm string) error {
	const op = "profile.ChangePin"

	if pin != confirm {
		return apperr.NewValidation(op, MsgPinMismatch)
	}
	if !isPin(pin) {
		return apperr.NewValidation(op, MsgPinFormat)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return apperr.NewFailure(op, "Error setting PIN", err)
	}

	settings, err := s.settings(ctx, uid)
	if err != nil {
		return apperr.NewFailure(op, "Error setting PIN", err)
	}
	settings.Security.TransactionPinHash = string(hash)
	settings.UpdatedAt = s.now()
	if err := s.docs.UpdateSettings(ctx, *settings); err != nil {
		return apperr.NewFailure(op, "Error setting PIN", err)
	}
	return nil
}

// VerifyPin reports whether pin matches the stored hash. No PIN set means
// nothing matches.
func (s *Service) VerifyPin(ctx context.Context, uid, pin string) (bool, error) {
	settings, err := s.settings(ctx, uid)
	if err != nil {
		return false, err
	}
	if settings.Security.TransactionPinHash == "" {
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(settings.Security.TransactionPinHash), []byte(pin))
	return err == nil, nil
}

func isPin(pin string) bool {
	if len(pin) != pinLength {
		return false
	}
	for _, r := range pin {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Settings returns the settings document, falling back to the defaults when
// none has been written yet.
func (s *Service) Settings(ctx context.Context, uid string) (*models.Settings, error) {
	return s.settings(ctx, uid)
}

func (s *Service) settings(ctx context.Context, uid string) (*models.Settings, error) {
	settings, err := s.docs.GetSettings(ctx, uid)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	defaults := models.DefaultSettings(uid, s.now())
	if err := s.docs.CreateSettings(ctx, defaults); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
		return nil, fmt.Errorf("failed to create settings: %w", err)
	}
	return s.docs.GetSettings(ctx, uid)
}

func (s *Service) LoadNotificationSettings(ctx context.Context, uid string) (models.NotificationPreferences, error) {
	settings, err := s.settings(ctx, uid)
	if err != nil {
		return models.NotificationPreferences{}, apperr.NewFailure("profile.LoadNotificationSettings", "Error loading settings", err)
	}
	return models.NotificationPreferences{
		Email:        settings.Notifications.Email,
		PriceAlerts:  settings.Notifications.PriceAlerts,
		Transactions: settings.Notifications.Transactions,
		LoginAlerts:  settings.Security.LoginAlerts,
	}, nil
}

func (s *Service) SaveNotificationSettings(ctx context.Context, uid string, prefs models.NotificationPreferences) error {
	const op = "profile.SaveNotificationSettings"

	settings, err := s.settings(ctx, uid)
	if err != nil {
		return apperr.NewFailure(op, "Error saving settings", err)
	}
	settings.Notifications.Email = prefs.Email
	settings.Notifications.PriceAlerts = prefs.PriceAlerts
	settings.Notifications.Transactions = prefs.Transactions
	settings.Security.LoginAlerts = prefs.LoginAlerts
	settings.UpdatedAt = s.now()

	if err := s.docs.UpdateSettings(ctx, *settings); err != nil {
		return apperr.NewFailure(op, "Error saving settings", err)
	}
	return nil
}
