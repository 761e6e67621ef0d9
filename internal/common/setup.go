package common

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"safvacut-wallet-go/internal/cache"
	"safvacut-wallet-go/internal/database"
	"safvacut-wallet-go/internal/formance"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/postgres"
	"safvacut-wallet-go/internal/prime"
	"safvacut-wallet-go/internal/store"

	"github.com/coinbase-samples/prime-sdk-go/credentials"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
		log.Println("Make sure to set environment variables via export or other means")
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

// Services holds every backend the wallet needs. Redis, Prime and Ledger are
// nil when disabled in configuration.
type Services struct {
	Backend   store.Backend
	Redis     redis.UniversalClient
	Prime     *prime.Service
	Ledger    *formance.Service
	Catalogue []AssetConfig
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	backend, err := InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		return nil, err
	}

	services := &Services{Backend: backend}

	catalogue, err := LoadAssetCatalogue(cfg.Profile.AssetsFile)
	if err != nil {
		services.Close()
		return nil, err
	}
	services.Catalogue = catalogue

	if cfg.Redis.Enabled {
		zap.L().Info("Connecting to Redis", zap.String("addr", cfg.Redis.Addr))
		rdb, err := cache.ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			services.Close()
			return nil, err
		}
		services.Redis = rdb
	}

	if cfg.Prime.Enabled {
		zap.L().Info("Loading Prime API credentials")
		creds, err := loadPrimeCredentials()
		if err != nil {
			services.Close()
			return nil, err
		}

		primeService, err := prime.NewService(creds)
		if err != nil {
			services.Close()
			return nil, err
		}

		if err := primeService.UsePortfolio(ctx, cfg.Prime.PortfolioId); err != nil {
			services.Close()
			return nil, err
		}
		services.Prime = primeService
	}

	ledger, err := InitializeLedger(ctx, cfg)
	if err != nil {
		services.Close()
		return nil, err
	}
	services.Ledger = ledger

	return services, nil
}

// InitializeLedger connects the Formance mirror. It returns nil when the
// ledger is disabled.
func InitializeLedger(ctx context.Context, cfg *models.Config) (*formance.Service, error) {
	if !cfg.Formance.Enabled {
		return nil, nil
	}
	zap.L().Info("Connecting to Formance ledger",
		zap.String("stack", cfg.Formance.StackURL),
		zap.String("ledger", cfg.Formance.LedgerName))
	return formance.NewService(ctx, cfg.Formance)
}

// InitializeDatabaseOnly opens just the document backend without any remote
// integrations. Useful for read-only command line operations.
func InitializeDatabaseOnly(ctx context.Context, cfg *models.Config) (store.Backend, error) {
	switch cfg.StoreBackend {
	case "postgres":
		zap.L().Info("Using Postgres store")
		pg, err := postgres.NewStore(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		return pg, nil
	case "sqlite", "":
		zap.L().Info("Using SQLite store", zap.String("path", cfg.Database.Path))
		db, err := database.NewService(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

func (cs *Services) Close() {
	if cs.Redis != nil {
		if err := cs.Redis.Close(); err != nil {
			zap.L().Warn("Failed to close redis client", zap.Error(err))
		}
	}
	if cs.Backend != nil {
		cs.Backend.Close()
	}
}

func loadPrimeCredentials() (*credentials.Credentials, error) {
	accessKey := os.Getenv("PRIME_ACCESS_KEY")
	passphrase := os.Getenv("PRIME_PASSPHRASE")
	signingKey := os.Getenv("PRIME_SIGNING_KEY")

	if accessKey == "" || passphrase == "" || signingKey == "" {
		return nil, fmt.Errorf("missing required Prime API credentials: PRIME_ACCESS_KEY, PRIME_PASSPHRASE, PRIME_SIGNING_KEY")
	}

	return &credentials.Credentials{
		AccessKey:  accessKey,
		Passphrase: passphrase,
		SigningKey: signingKey,
	}, nil
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
