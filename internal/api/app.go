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

package api

import (
	"context"
	"fmt"

	"safvacut-wallet-go/internal/auth"
	"safvacut-wallet-go/internal/blob"
	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/dashboard"
	"safvacut-wallet-go/internal/ipinfo"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/profile"
	"safvacut-wallet-go/internal/session"

	"go.uber.org/zap"
)

// App bundles the services the HTTP handlers call into
type App struct {
	services *common.Services
	Auth     *auth.Session
	Profiles *profile.Service
	Sessions *session.Registry
}

// NewApp wires the auth flows, profile service and session registry on top
// of the initialized services.
func NewApp(cfg *models.Config, services *common.Services) (*App, error) {
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	verifier := auth.NewAssertionVerifier(cfg.Auth.ProviderSecrets)
	provider := auth.NewLocalProvider(services.Backend, cfg.Auth)

	var snapshots auth.SnapshotStore = auth.NewMemorySnapshotStore()
	var tracker auth.Tracker = auth.LogTracker{}
	if services.Redis != nil {
		snapshots = auth.NewRedisSnapshotStore(services.Redis, cfg.Redis.SnapshotTTL)
		if cfg.Redis.AnalyticsStream != "" {
			tracker = auth.NewStreamTracker(services.Redis, cfg.Redis.AnalyticsStream)
		}
	}

	profileOpts := []profile.Option{}
	if cfg.Profile.IpLookupURL != "" {
		resolver, err := ipinfo.NewClient(cfg.Profile.IpLookupURL, cfg.Profile.IpLookupTimeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create ip resolver: %w", err)
		}
		profileOpts = append(profileOpts, profile.WithIpResolver(resolver))
	}
	if cfg.Profile.AvatarDir != "" {
		blobs, err := blob.NewFileStore(cfg.Profile.AvatarDir, cfg.Profile.AvatarBaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create avatar store: %w", err)
		}
		profileOpts = append(profileOpts, profile.WithBlobStore(blobs))
	}

	dashboardOpts := []dashboard.Option{}
	if services.Prime != nil {
		profileOpts = append(profileOpts, profile.WithAddressSource(profile.NewCustodyAddresses(services.Prime)))
		dashboardOpts = append(dashboardOpts, dashboard.WithCustodian(services.Prime, services.Catalogue))
	}
	if services.Ledger != nil {
		dashboardOpts = append(dashboardOpts, dashboard.WithLedger(services.Ledger))
	}

	authSession := auth.NewSession(provider, verifier, tokens, snapshots, tracker)
	profiles := profile.NewService(services.Backend, authSession, services.Catalogue, profileOpts...)

	zap.L().Info("Application wired",
		zap.Bool("redis", services.Redis != nil),
		zap.Bool("prime", services.Prime != nil),
		zap.Bool("ledger", services.Ledger != nil),
		zap.Int("assets", len(services.Catalogue)))

	return &App{
		services: services,
		Auth:     authSession,
		Profiles: profiles,
		Sessions: session.NewRegistry(services.Backend, profiles, dashboardOpts...),
	}, nil
}

func (a *App) HealthCheck(ctx context.Context) error {
	if err := a.services.Backend.Ping(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	if a.services.Redis != nil {
		if err := a.services.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
	}
	return nil
}
