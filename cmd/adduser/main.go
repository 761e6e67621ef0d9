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
	"strings"

	"safvacut-wallet-go/internal/auth"
	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/config"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/profile"

	"go.uber.org/zap"
)

func printAssets(assets []models.Asset) {
	for i, a := range assets {
		isLast := i == len(assets)-1
		fmt.Printf("%s %-5s %-14s → %s\n", common.BoxPrefix(isLast), a.Symbol, a.Name, a.Address)
	}
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	nameFlag := flag.String("name", "", "User's full name (required)")
	emailFlag := flag.String("email", "", "User's email address (required)")
	passwordFlag := flag.String("password", "", "Initial password, at least 8 characters (required)")
	flag.Parse()

	if *nameFlag == "" || *emailFlag == "" || *passwordFlag == "" {
		zap.L().Fatal("All flags are required: --name, --email and --password")
	}

	if err := auth.ValidateSignUp(auth.SignUpInput{
		Name:            *nameFlag,
		Email:           *emailFlag,
		Password:        *passwordFlag,
		ConfirmPassword: *passwordFlag,
		AcceptedTerms:   true,
	}); err != nil {
		zap.L().Fatal("Invalid user details", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	zap.L().Info("Initializing services")
	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	provider := auth.NewLocalProvider(services.Backend, cfg.Auth)
	identity, err := provider.CreateUser(ctx, *emailFlag, *passwordFlag)
	if err != nil {
		zap.L().Fatal("Failed to create user", zap.String("email", *emailFlag), zap.Error(err))
	}

	name := strings.TrimSpace(*nameFlag)
	photo := auth.AvatarURL(name)
	if err := provider.UpdateProfile(ctx, identity.Uid, name, photo); err != nil {
		zap.L().Fatal("Failed to set display name", zap.Error(err))
	}
	identity.DisplayName = name
	identity.PhotoURL = photo

	opts := []profile.Option{}
	if services.Prime != nil {
		opts = append(opts, profile.WithAddressSource(profile.NewCustodyAddresses(services.Prime)))
	}
	profiles := profile.NewService(services.Backend, provider, services.Catalogue, opts...)

	p, err := profiles.Initialize(ctx, *identity, models.ClientInfo{UserAgent: "adduser"})
	if err != nil {
		zap.L().Fatal("Failed to initialize profile", zap.Error(err))
	}

	fmt.Println()
	common.PrintHeader("USER CREATED", common.DefaultWidth)
	fmt.Printf("ID:        %s\n", p.Uid)
	fmt.Printf("Name:      %s\n", p.DisplayName)
	fmt.Printf("Email:     %s\n", p.Email)
	fmt.Printf("Wallet ID: %d\n", p.WalletId)
	common.PrintSeparator("=", common.DefaultWidth)

	assets, err := services.Backend.ListAssets(ctx, p.Uid)
	if err != nil {
		zap.L().Fatal("Failed to list seeded assets", zap.Error(err))
	}

	fmt.Printf("\n┌─ Receive addresses (%d/%d assets)\n", len(assets), len(services.Catalogue))
	printAssets(assets)
	fmt.Println()

	if len(assets) < len(services.Catalogue) {
		zap.L().Warn("Seed data incomplete; it is repaired on next login or by setup --init",
			zap.Int("seeded", len(assets)),
			zap.Int("expected", len(services.Catalogue)))
	}
	zap.L().Info("User created successfully", zap.String("uid", p.Uid))
}
