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

package main

import (
	"context"
	"flag"
	"fmt"

	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/config"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/profile"

	"go.uber.org/zap"
)

// missingSeeds counts catalogue assets the user has no document for.
func missingSeeds(ctx context.Context, services *common.Services, p models.Profile) (int, error) {
	assets, err := services.Backend.ListAssets(ctx, p.Uid)
	if err != nil {
		return 0, fmt.Errorf("failed to list assets: %w", err)
	}
	have := make(map[string]bool, len(assets))
	for _, a := range assets {
		have[a.Symbol] = true
	}
	missing := 0
	for _, c := range services.Catalogue {
		if !have[c.Symbol] {
			missing++
		}
	}
	return missing, nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	initFlag := flag.Bool("init", false, "Write any missing seed assets and settings for every user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	// Opening the services creates the schema when it does not exist yet.
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	profiles, err := services.Backend.ListProfiles(ctx)
	if err != nil {
		zap.L().Fatal("Failed to list profiles", zap.Error(err))
	}

	opts := []profile.Option{}
	if services.Prime != nil {
		opts = append(opts, profile.WithAddressSource(profile.NewCustodyAddresses(services.Prime)))
	}
	profileService := profile.NewService(services.Backend, nil, services.Catalogue, opts...)

	common.PrintHeader("SEED DATA STATUS", common.DefaultWidth)

	incomplete, repaired := 0, 0
	for i, p := range profiles {
		isLast := i == len(profiles)-1
		missing, err := missingSeeds(ctx, services, p)
		if err != nil {
			zap.L().Error("Failed to check user", zap.String("uid", p.Uid), zap.Error(err))
			continue
		}
		if missing == 0 {
			fmt.Printf("%s ✓ %s: complete\n", common.BoxPrefix(isLast), p.Email)
			continue
		}
		incomplete++

		if !*initFlag {
			fmt.Printf("%s ✗ %s: %d seed assets missing\n", common.BoxPrefix(isLast), p.Email, missing)
			continue
		}
		if err := profileService.Reconcile(ctx, p.Uid); err != nil {
			fmt.Printf("%s ✗ %s: repair failed: %s\n", common.BoxPrefix(isLast), p.Email, err)
			zap.L().Error("Seed repair failed", zap.String("uid", p.Uid), zap.Error(err))
			continue
		}
		repaired++
		fmt.Printf("%s ✓ %s: %d seed assets written\n", common.BoxPrefix(isLast), p.Email, missing)
	}

	summary := fmt.Sprintf("SUMMARY: %d users, %d incomplete, %d repaired", len(profiles), incomplete, repaired)
	if !*initFlag && incomplete > 0 {
		summary += " (run with --init to repair)"
	}
	common.PrintFooter(summary, common.DefaultWidth)
}
