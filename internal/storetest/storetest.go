// Package storetest opens throwaway SQLite backends for package tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"safvacut-wallet-go/internal/database"
	"safvacut-wallet-go/internal/models"
)

// NewBackend returns a fresh SQLite-backed store in a temp directory.
// It is closed when the test finishes.
func NewBackend(t testing.TB) *database.Service {
	t.Helper()

	cfg := models.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "wallet.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  5 * time.Second,
	}
	svc, err := database.NewService(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test backend: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}
