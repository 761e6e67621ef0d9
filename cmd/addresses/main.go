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
	"safvacut-wallet-go/internal/dashboard"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"go.uber.org/zap"
)

type reportStats struct {
	totalUsers     int
	totalAddresses int
	totalWallets   int
}

func printUserHeader(p models.Profile, assetCount, walletCount int) {
	fmt.Printf("\n┌─ User: %s (%s)\n", p.DisplayName, p.Email)
	fmt.Printf("│  ID: %s\n", p.Uid)
	fmt.Printf("│  Receive addresses: %d  Connected wallets: %d\n", assetCount, walletCount)
	common.PrintBoxSeparator(98)
}

func processUser(ctx context.Context, p models.Profile, docs store.DocumentStore) (int, int, error) {
	assets, err := docs.ListAssets(ctx, p.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get assets: %w", err)
	}
	wallets, err := docs.ListWallets(ctx, p.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get wallets: %w", err)
	}

	printUserHeader(p, len(assets), len(wallets))

	rows := len(assets) + len(wallets)
	row := 0
	for _, a := range assets {
		row++
		fmt.Printf("%s %-30s → %s\n", common.BoxPrefix(row == rows), a.Symbol+" ("+a.Name+")", a.Address)
	}
	for _, w := range wallets {
		row++
		isLast := row == rows
		fmt.Printf("%s %-30s → %s\n", common.BoxPrefix(isLast), w.Type, dashboard.TruncateAddress(w.Address))
		fmt.Printf("%s   Connected: %s\n", common.BoxDetailPrefix(isLast), w.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return len(assets), len(wallets), nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	flag.Parse()

	logger.Info("Starting address query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	backend, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer backend.Close()

	profiles, err := common.ResolveProfiles(ctx, backend, *emailFlag)
	if err != nil {
		logger.Fatal("Failed to resolve users", zap.Error(err))
	}

	common.PrintHeader("RECEIVE ADDRESSES AND WALLETS REPORT", common.WideWidth)

	stats := reportStats{}
	for _, p := range profiles {
		stats.totalUsers++
		addresses, wallets, err := processUser(ctx, p, backend)
		if err != nil {
			logger.Error("Failed to process user", zap.String("uid", p.Uid), zap.Error(err))
			continue
		}
		stats.totalAddresses += addresses
		stats.totalWallets += wallets
	}

	summary := fmt.Sprintf("SUMMARY: %d receive addresses and %d connected wallets across %d users",
		stats.totalAddresses, stats.totalWallets, stats.totalUsers)
	common.PrintFooter(summary, common.WideWidth)

	logger.Info("Address query completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("total_addresses", stats.totalAddresses),
		zap.Int("total_wallets", stats.totalWallets))
}
