package models

import "time"

// Config represents the application configuration
type Config struct {
	StoreBackend string
	Database     DatabaseConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Server       ServerConfig
	Profile      ProfileConfig
	Prime        PrimeConfig
	Formance     FormanceConfig
	Reconcile    ReconcileConfig
}

// DatabaseConfig holds SQLite connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// PostgresConfig holds the Postgres connection string
type PostgresConfig struct {
	URL string
}

// RedisConfig holds session snapshot and analytics stream settings
type RedisConfig struct {
	Enabled         bool
	Addr            string
	Password        string
	DB              int
	SnapshotTTL     time.Duration
	AnalyticsStream string
}

// AuthConfig holds token and lockout settings
type AuthConfig struct {
	JWTSecret         string
	JWTIssuer         string
	TokenTTL          time.Duration
	MaxFailedAttempts int
	LockoutDuration   time.Duration
	ProviderSecrets   map[string]string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
	ReadyTimeout    time.Duration
}

// ProfileConfig holds seed data and profile side-channel settings
type ProfileConfig struct {
	AssetsFile      string
	IpLookupURL     string
	IpLookupTimeout time.Duration
	AvatarDir       string
	AvatarBaseURL   string
}

// PrimeConfig enables Coinbase Prime custody addresses
type PrimeConfig struct {
	Enabled     bool
	PortfolioId string
}

// FormanceConfig enables the ledger mirror
type FormanceConfig struct {
	Enabled      bool
	StackURL     string
	ClientID     string
	ClientSecret string
	LedgerName   string
}

// ReconcileConfig holds the background reconciler settings
type ReconcileConfig struct {
	Enabled  bool
	Interval time.Duration
}
