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
	"safvacut-wallet-go/internal/formance"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Sends recorded per user are few; this bounds the audit query.
const maxAuditedTransactions = 100000

type balanceStats struct {
	totalUsers        int
	usersWithBalances int
	usersWithDrift    int
	grandTotal        decimal.Decimal
}

func formatTransactionId(txId string) string {
	if txId == "" {
		return "none"
	}
	if len(txId) > 8 {
		return txId[:8] + "..."
	}
	return txId
}

func printAsset(a models.Asset, isLast bool) {
	fmt.Printf("%s %-5s: %20s × %12s = %16s (%s, last_tx: %s)\n",
		common.BoxPrefix(isLast),
		a.Symbol,
		a.Balance.String(),
		common.FormatUSD(a.Price),
		common.FormatUSD(a.Value),
		common.FormatPercent(a.Change24h),
		formatTransactionId(a.LastTransactionId))
}

func printUserHeader(p models.Profile, total decimal.Decimal) {
	fmt.Printf("\n┌─ User: %s (%s)\n", p.DisplayName, p.Email)
	fmt.Printf("│  ID: %s  Wallet: %d\n", p.Uid, p.WalletId)
	fmt.Printf("│  Total: %s\n", common.FormatUSD(total))
	common.PrintBoxSeparator(78)
}

func processUser(ctx context.Context, p models.Profile, docs store.DocumentStore) (decimal.Decimal, bool, error) {
	assets, err := docs.ListAssets(ctx, p.Uid)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to get assets: %w", err)
	}

	total := decimal.Zero
	funded := false
	for _, a := range assets {
		total = total.Add(a.Value)
		if a.Balance.IsPositive() {
			funded = true
		}
	}

	printUserHeader(p, total)
	for i, a := range assets {
		printAsset(a, i == len(assets)-1)
	}
	return total, funded, nil
}

// auditLedger checks the user's mirrored ledger account against the sends
// in the store and prints any asset that disagrees.
func auditLedger(ctx context.Context, p models.Profile, docs store.DocumentStore, ledger *formance.Service) (bool, error) {
	assets, err := docs.ListAssets(ctx, p.Uid)
	if err != nil {
		return false, fmt.Errorf("failed to get assets: %w", err)
	}
	txs, err := docs.ListTransactions(ctx, p.Uid, maxAuditedTransactions)
	if err != nil {
		return false, fmt.Errorf("failed to get transactions: %w", err)
	}

	symbols := make([]string, 0, len(assets))
	for _, a := range assets {
		symbols = append(symbols, a.Symbol)
	}
	drift, err := ledger.AuditSends(ctx, p.Uid, symbols, txs)
	if err != nil {
		return false, err
	}

	if len(drift) == 0 {
		fmt.Printf("%s ledger: in sync\n", common.BoxDetailPrefix(true))
		return false, nil
	}
	for i, d := range drift {
		fmt.Printf("%s ledger %-5s: expected %s, mirrored %s\n",
			common.BoxDetailPrefix(i == len(drift)-1), d.Symbol, d.Expected.String(), d.Mirrored.String())
	}
	return true, nil
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "Filter by specific user email (optional)")
	ledgerFlag := flag.Bool("ledger", false, "Check each user's Formance ledger mirror against recorded sends")
	flag.Parse()

	logger.Info("Starting balance query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Read-only; no Prime connection needed.
	backend, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer backend.Close()

	var ledger *formance.Service
	if *ledgerFlag {
		ledger, err = common.InitializeLedger(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to ledger", zap.Error(err))
		}
		if ledger == nil {
			logger.Fatal("--ledger requires FORMANCE_ENABLED=true")
		}
	}

	profiles, err := common.ResolveProfiles(ctx, backend, *emailFlag)
	if err != nil {
		logger.Fatal("Failed to resolve users", zap.Error(err))
	}

	common.PrintHeader("USER BALANCES REPORT", common.WideWidth)

	stats := balanceStats{grandTotal: decimal.Zero}
	for _, p := range profiles {
		stats.totalUsers++
		total, funded, err := processUser(ctx, p, backend)
		if err != nil {
			logger.Error("Failed to process user", zap.String("uid", p.Uid), zap.Error(err))
			continue
		}
		if funded {
			stats.usersWithBalances++
		}
		stats.grandTotal = stats.grandTotal.Add(total)

		if ledger != nil {
			drifted, err := auditLedger(ctx, p, backend, ledger)
			if err != nil {
				logger.Error("Ledger audit failed", zap.String("uid", p.Uid), zap.Error(err))
				continue
			}
			if drifted {
				stats.usersWithDrift++
			}
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d of %d users hold assets, %s in total",
		stats.usersWithBalances, stats.totalUsers, common.FormatUSD(stats.grandTotal))
	common.PrintFooter(summary, common.WideWidth)

	if ledger != nil {
		fmt.Printf("Ledger mirror: %d of %d users out of sync\n", stats.usersWithDrift, stats.totalUsers)
	}

	logger.Info("Balance query completed",
		zap.Int("users_queried", stats.totalUsers),
		zap.Int("users_with_balances", stats.usersWithBalances),
		zap.Int("users_with_ledger_drift", stats.usersWithDrift))
}
