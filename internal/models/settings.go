package models

import "time"

type NotificationFlags struct {
	Email        bool `json:"email"`
	Push         bool `json:"push"`
	Transactions bool `json:"transactions"`
	PriceAlerts  bool `json:"priceAlerts"`
}

// SecurityFlags never exposes the PIN hash over JSON.
type SecurityFlags struct {
	TwoFactorEnabled   bool   `json:"twoFactorEnabled"`
	TransactionPinHash string `json:"-"`
	LoginAlerts        bool   `json:"loginAlerts"`
}

type Preferences struct {
	Currency string `json:"currency"`
	Language string `json:"language"`
	Theme    string `json:"theme"`
}

// Settings is the single per-user settings document
type Settings struct {
	UserId        string            `json:"userId"`
	Notifications NotificationFlags `json:"notifications"`
	Security      SecurityFlags     `json:"security"`
	Preferences   Preferences       `json:"preferences"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// NotificationPreferences is the subset edited from the settings screen.
type NotificationPreferences struct {
	Email        bool `json:"email"`
	PriceAlerts  bool `json:"priceAlerts"`
	Transactions bool `json:"transactions"`
	LoginAlerts  bool `json:"loginAlerts"`
}

func DefaultSettings(userId string, now time.Time) Settings {
	return Settings{
		UserId: userId,
		Notifications: NotificationFlags{
			Email:        true,
			Push:         true,
			Transactions: true,
			PriceAlerts:  true,
		},
		Security: SecurityFlags{
			TwoFactorEnabled: false,
			LoginAlerts:      true,
		},
		Preferences: Preferences{
			Currency: "USD",
			Language: "en",
			Theme:    "dark",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
