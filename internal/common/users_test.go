package common

import (
	"context"
	"testing"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/storetest"
)

func TestResolveProfiles(t *testing.T) {
	backend := storetest.NewBackend(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, uid := range []string{"u1", "u2"} {
		if err := backend.CreateAccount(ctx, models.Account{Uid: uid, Email: uid + "@example.com", Provider: "password", CreatedAt: now}); err != nil {
			t.Fatalf("CreateAccount failed: %v", err)
		}
		if err := backend.CreateProfile(ctx, models.Profile{Uid: uid, Email: uid + "@example.com", DisplayName: uid, CreatedAt: now, UpdatedAt: now}); err != nil {
			t.Fatalf("CreateProfile failed: %v", err)
		}
	}

	all, err := ResolveProfiles(ctx, backend, "")
	if err != nil {
		t.Fatalf("ResolveProfiles failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 profiles, got %d", len(all))
	}

	one, err := ResolveProfiles(ctx, backend, "u2@example.com")
	if err != nil {
		t.Fatalf("ResolveProfiles with filter failed: %v", err)
	}
	if len(one) != 1 || one[0].Uid != "u2" {
		t.Errorf("Expected u2, got %+v", one)
	}

	if _, err := ResolveProfiles(ctx, backend, "nobody@example.com"); err == nil {
		t.Error("Expected error for unknown email")
	}
}
