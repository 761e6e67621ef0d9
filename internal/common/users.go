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

package common

import (
	"context"
	"fmt"
	"strings"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/store"

	"go.uber.org/zap"
)

// ResolveProfiles retrieves profiles based on an optional email filter.
// If emailFilter is provided, returns the single profile with that email.
// If emailFilter is empty, returns all profiles.
func ResolveProfiles(ctx context.Context, backend store.Backend, emailFilter string) ([]models.Profile, error) {
	if emailFilter == "" {
		profiles, err := backend.ListProfiles(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get profiles: %w", err)
		}
		return profiles, nil
	}

	zap.L().Info("Looking up account by email", zap.String("email", emailFilter))
	account, err := backend.GetAccountByEmail(ctx, strings.TrimSpace(emailFilter))
	if err != nil {
		return nil, fmt.Errorf("account not found: %w", err)
	}

	profile, err := backend.GetProfile(ctx, account.Uid)
	if err != nil {
		return nil, fmt.Errorf("profile not found for %s: %w", emailFilter, err)
	}
	return []models.Profile{*profile}, nil
}
