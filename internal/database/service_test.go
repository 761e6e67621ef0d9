package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Each :memory: connection is a separate database.
	db.SetMaxOpenConns(1)

	service := &Service{db: db}
	if err := service.initSchema(context.Background()); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func testProfile(uid string) models.Profile {
	now := time.Now().UTC()
	return models.Profile{
		Uid:              uid,
		DisplayName:      "Test User",
		Email:            uid + "@example.com",
		IpAddress:        "Unknown",
		Device:           "LINUX",
		WalletId:         4242424242,
		TotalBalance:     decimal.Zero,
		DailyIncome:      decimal.Zero,
		DailyExpense:     decimal.Zero,
		RegistrationDate: now,
		LastLoginDate:    now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func TestNewServiceValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  models.DatabaseConfig
	}{
		{"empty path", models.DatabaseConfig{MaxOpenConns: 1, PingTimeout: time.Second}},
		{"zero open conns", models.DatabaseConfig{Path: "x.db", PingTimeout: time.Second}},
		{"negative idle", models.DatabaseConfig{Path: "x.db", MaxOpenConns: 1, MaxIdleConns: -1, PingTimeout: time.Second}},
		{"zero ping timeout", models.DatabaseConfig{Path: "x.db", MaxOpenConns: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewService(context.Background(), tt.cfg); err == nil {
				t.Errorf("Expected error for %s", tt.name)
			}
		})
	}
}

func TestInitSchemaIsIdempotent(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.initSchema(context.Background()); err != nil {
		t.Fatalf("Second initSchema failed: %v", err)
	}
}

func TestPing(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}

	service.Close()
	if err := service.Ping(context.Background()); err == nil {
		t.Error("Expected Ping to fail on a closed database")
	}
}

func TestAccountRoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()
	ctx := context.Background()

	account := models.Account{
		Uid:          "uid-1",
		Email:        "Alice@Example.com",
		DisplayName:  "Alice",
		PasswordHash: "hash",
		Provider:     "password",
		CreatedAt:    time.Now().UTC(),
	}
	if err := service.CreateAccount(ctx, account); err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	got, err := service.GetAccountByEmail(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("GetAccountByEmail failed: %v", err)
	}
	if got.Uid != "uid-1" || got.DisplayName != "Alice" {
		t.Errorf("Unexpected account: %+v", got)
	}
	if !got.LockedUntil.IsZero() {
		t.Errorf("Expected zero LockedUntil, got %v", got.LockedUntil)
	}

	duplicate := account
	duplicate.Uid = "uid-2"
	duplicate.Email = "ALICE@example.com"
	err = service.CreateAccount(ctx, duplicate)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists for duplicate email, got %v", err)
	}

	got.FailedAttempts = 3
	got.LockedUntil = time.Now().Add(time.Minute).UTC()
	if err := service.UpdateAccount(ctx, *got); err != nil {
		t.Fatalf("UpdateAccount failed: %v", err)
	}
	reloaded, err := service.GetAccount(ctx, "uid-1")
	if err != nil {
		t.Fatalf("GetAccount failed: %v", err)
	}
	if reloaded.FailedAttempts != 3 || reloaded.LockedUntil.IsZero() {
		t.Errorf("Expected lockout fields to persist, got %+v", reloaded)
	}
}

func TestGetAccountNotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetAccount(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
