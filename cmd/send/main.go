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
	"time"

	"safvacut-wallet-go/internal/apperr"
	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/config"
	"safvacut-wallet-go/internal/dashboard"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/notification"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	emailFlag := flag.String("email", "", "User email (required)")
	assetFlag := flag.String("asset", "", "Asset symbol (e.g., BTC, ETH) (required)")
	amountFlag := flag.String("amount", "", "Amount to send (required)")
	recipientFlag := flag.String("recipient", "", "Recipient address (required)")
	flag.Parse()

	if *emailFlag == "" || *assetFlag == "" || *amountFlag == "" || *recipientFlag == "" {
		zap.L().Fatal("All flags are required: --email, --asset, --amount, --recipient")
	}

	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		zap.L().Fatal("Invalid amount", zap.String("amount", *amountFlag), zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	profiles, err := common.ResolveProfiles(ctx, services.Backend, *emailFlag)
	if err != nil {
		zap.L().Fatal("Failed to find user", zap.String("email", *emailFlag), zap.Error(err))
	}
	p := profiles[0]

	center := notification.NewCenter(services.Backend, p.Uid)
	defer center.Close()

	opts := []dashboard.Option{}
	if services.Ledger != nil {
		opts = append(opts, dashboard.WithLedger(services.Ledger))
	}
	ctrl := dashboard.NewController(services.Backend, p.Uid, center, opts...)
	if err := ctrl.Load(ctx); err != nil {
		zap.L().Fatal("Failed to load dashboard", zap.Error(err))
	}

	tx, err := ctrl.SendTransaction(ctx, models.SendRequest{
		Crypto:    *assetFlag,
		Amount:    amount,
		Recipient: *recipientFlag,
	})
	if err != nil {
		zap.L().Fatal(apperr.Message(err), zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("TRANSACTION SENT", common.DefaultWidth)
	fmt.Printf("ID:        %s\n", tx.Id)
	fmt.Printf("Hash:      %s\n", tx.Hash)
	fmt.Printf("Asset:     %s\n", tx.Crypto)
	fmt.Printf("Amount:    %s (fee %s)\n", tx.Amount.String(), tx.Fee.String())
	fmt.Printf("Recipient: %s\n", tx.Recipient)
	fmt.Printf("Balance:   %s → %s\n", tx.BalanceBefore.String(), tx.BalanceAfter.String())
	fmt.Printf("Time:      %s\n", tx.CreatedAt.Format(time.RFC3339))
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()
}
