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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"safvacut-wallet-go/internal/models"
)

var federatedProviders = []string{"google", "github", "apple"}

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	snapshotTTL, err := getEnvDuration("SESSION_SNAPSHOT_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	tokenTTL, err := getEnvDuration("JWT_TTL", 12*time.Hour)
	if err != nil {
		return nil, err
	}

	lockoutDuration, err := getEnvDuration("AUTH_LOCKOUT_DURATION", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	readyTimeout, err := getEnvDuration("SERVER_READY_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, err
	}

	ipLookupTimeout, err := getEnvDuration("IP_LOOKUP_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}

	reconcileInterval, err := getEnvDuration("RECONCILE_INTERVAL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnvString("STORE_BACKEND", "sqlite"))
	if backend != "sqlite" && backend != "postgres" {
		return nil, fmt.Errorf("invalid STORE_BACKEND: %q (want sqlite or postgres)", backend)
	}

	providerSecrets := make(map[string]string, len(federatedProviders))
	for _, p := range federatedProviders {
		if secret := os.Getenv("AUTH_" + strings.ToUpper(p) + "_SECRET"); secret != "" {
			providerSecrets[p] = secret
		}
	}

	return &models.Config{
		StoreBackend: backend,
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "wallet.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
		},
		Postgres: models.PostgresConfig{
			URL: getEnvString("DATABASE_URL", ""),
		},
		Redis: models.RedisConfig{
			Enabled:         getEnvBool("REDIS_ENABLED", false),
			Addr:            getEnvString("REDIS_ADDR", "localhost:6379"),
			Password:        getEnvString("REDIS_PASSWORD", ""),
			DB:              getEnvInt("REDIS_DB", 0),
			SnapshotTTL:     snapshotTTL,
			AnalyticsStream: getEnvString("ANALYTICS_STREAM", "wallet:analytics"),
		},
		Auth: models.AuthConfig{
			JWTSecret:         getEnvString("JWT_SECRET", ""),
			JWTIssuer:         getEnvString("JWT_ISSUER", "safvacut-wallet"),
			TokenTTL:          tokenTTL,
			MaxFailedAttempts: getEnvInt("AUTH_MAX_FAILED_ATTEMPTS", 5),
			LockoutDuration:   lockoutDuration,
			ProviderSecrets:   providerSecrets,
		},
		Server: models.ServerConfig{
			Addr:            getEnvString("SERVER_ADDR", ":8080"),
			ShutdownTimeout: shutdownTimeout,
			ReadyTimeout:    readyTimeout,
		},
		Profile: models.ProfileConfig{
			AssetsFile:      getEnvString("ASSETS_FILE", "assets.yaml"),
			IpLookupURL:     getEnvString("IP_LOOKUP_URL", "https://api.ipify.org?format=json"),
			IpLookupTimeout: ipLookupTimeout,
			AvatarDir:       getEnvString("AVATAR_DIR", "avatars"),
			AvatarBaseURL:   getEnvString("AVATAR_BASE_URL", "/static"),
		},
		Prime: models.PrimeConfig{
			Enabled:     getEnvBool("PRIME_ENABLED", false),
			PortfolioId: getEnvString("PRIME_PORTFOLIO_ID", ""),
		},
		Formance: models.FormanceConfig{
			Enabled:      getEnvBool("FORMANCE_ENABLED", false),
			StackURL:     getEnvString("FORMANCE_STACK_URL", ""),
			ClientID:     getEnvString("FORMANCE_CLIENT_ID", ""),
			ClientSecret: getEnvString("FORMANCE_CLIENT_SECRET", ""),
			LedgerName:   getEnvString("FORMANCE_LEDGER", "safvacut-wallet"),
		},
		Reconcile: models.ReconcileConfig{
			Enabled:  getEnvBool("RECONCILE_ENABLED", true),
			Interval: reconcileInterval,
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
