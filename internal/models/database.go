package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a locally managed identity record (email/password or federated).
type Account struct {
	Uid                string    `db:"uid"`
	Email              string    `db:"email"`
	DisplayName        string    `db:"display_name"`
	PhotoURL           string    `db:"photo_url"`
	PasswordHash       string    `db:"password_hash"`
	Provider           string    `db:"provider"`
	EmailVerified      bool      `db:"email_verified"`
	Disabled           bool      `db:"disabled"`
	FailedAttempts     int       `db:"failed_attempts"`
	LockedUntil        time.Time `db:"locked_until"`
	VerificationSentAt time.Time `db:"verification_sent_at"`
	CreatedAt          time.Time `db:"created_at"`
	LastLoginAt        time.Time `db:"last_login_at"`
}

// Profile is the per-user business document, distinct from the identity
type Profile struct {
	Uid               string          `db:"uid" json:"uid"`
	DisplayName       string          `db:"display_name" json:"displayName"`
	Email             string          `db:"email" json:"email"`
	PhotoURL          string          `db:"photo_url" json:"photoURL"`
	PhoneNumber       string          `db:"phone_number" json:"phoneNumber"`
	Country           string          `db:"country" json:"country"`
	IpAddress         string          `db:"ip_address" json:"ipAddress"`
	Device            string          `db:"device" json:"device"`
	WalletId          int64           `db:"wallet_id" json:"walletId"`
	TotalBalance      decimal.Decimal `db:"total_balance" json:"totalBalance"`
	DailyIncome       decimal.Decimal `db:"daily_income" json:"dailyIncome"`
	DailyExpense      decimal.Decimal `db:"daily_expense" json:"dailyExpense"`
	TotalTransactions int             `db:"total_transactions" json:"totalTransactions"`
	TotalWallets      int             `db:"total_wallets" json:"totalWallets"`
	EmailVerified     bool            `db:"email_verified" json:"emailVerified"`
	RegistrationDate  time.Time       `db:"registration_date" json:"registrationDate"`
	LastLoginDate     time.Time       `db:"last_login_date" json:"lastLoginDate"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`
}

// ProfileEdit is the mutable subset of a profile
type ProfileEdit struct {
	DisplayName string
	PhoneNumber string
	Country     string
}

// Asset is a named holding with a unit price and a generated receive address
type Asset struct {
	Id                string          `db:"id" json:"id"`
	UserId            string          `db:"user_id" json:"userId"`
	Symbol            string          `db:"symbol" json:"symbol"`
	Name              string          `db:"name" json:"name"`
	Balance           decimal.Decimal `db:"balance" json:"balance"`
	Price             decimal.Decimal `db:"price" json:"price"`
	Change24h         decimal.Decimal `db:"change_24h" json:"change"`
	Value             decimal.Decimal `db:"value" json:"value"`
	Address           string          `db:"address" json:"address"`
	LastTransactionId string          `db:"last_transaction_id" json:"lastTransactionId,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updatedAt"`
}

// Wallet is an external or imported address record
type Wallet struct {
	Id        string          `db:"id" json:"id"`
	UserId    string          `db:"user_id" json:"userId"`
	Type      string          `db:"type" json:"type"`
	Address   string          `db:"address" json:"address"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	IsActive  bool            `db:"is_active" json:"isActive"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	LastUsed  time.Time       `db:"last_used" json:"lastUsed"`
}

// Transaction represents an immutable send record
type Transaction struct {
	Id            string          `db:"id" json:"id"`
	UserId        string          `db:"user_id" json:"userId"`
	Type          string          `db:"type" json:"type"`
	Crypto        string          `db:"crypto" json:"crypto"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Fee           decimal.Decimal `db:"fee" json:"fee"`
	Recipient     string          `db:"recipient" json:"recipient"`
	Status        string          `db:"status" json:"status"`
	Hash          string          `db:"hash" json:"hash"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balanceAfter"`
	CreatedAt     time.Time       `db:"created_at" json:"createdAt"`
	ConfirmedAt   time.Time       `db:"confirmed_at" json:"confirmedAt"`
}

// Notification severities
const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Notification is an append-only user-facing event; only IsRead changes
type Notification struct {
	Id        string    `db:"id" json:"id"`
	UserId    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Type      string    `db:"type" json:"type"`
	IsRead    bool      `db:"is_read" json:"isRead"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
