package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sethvargo/go-envconfig"
)

// Store backends
const (
	StoreBackendFile   = "file"
	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

type Config struct {
	API   APIConfig   `env:",prefix=API_"`
	Auth  AuthConfig  `env:",prefix=AUTH_"`
	Store StoreConfig `env:",prefix=STORE_"`
	Redis RedisConfig `env:",prefix=REDIS_"`
	Debug DebugConfig `env:",prefix=DEBUG_"`
	Env   string      `env:"ENV,default=development"`
}

type APIConfig struct {
	BaseURL   string   `env:"BASE_URL,default=https://api.fitbook.app"`
	Timeout   Duration `env:"TIMEOUT,default=15s"`
	UserAgent string   `env:"USER_AGENT,default=fitbook-client/1.0"`
}

type AuthConfig struct {
	RefreshMaxAttempts int      `env:"REFRESH_MAX_ATTEMPTS,default=3"`
	RefreshBaseDelay   Duration `env:"REFRESH_BASE_DELAY,default=1s"`
	RefreshMaxDelay    Duration `env:"REFRESH_MAX_DELAY,default=30s"`
	ExpirySkew         Duration `env:"EXPIRY_SKEW,default=30s"`
}

type StoreConfig struct {
	Backend    string `env:"BACKEND,default=file"`
	Path       string `env:"PATH,default="`
	Passphrase string `env:"PASSPHRASE,default="`
	ClientID   string `env:"CLIENT_ID,default=default"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

type DebugConfig struct {
	MetricsAddr string `env:"METRICS_ADDR,default="`
}

// Address returns the Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// CredentialPath returns the credential file path, defaulting to
// ~/.fitbook/credentials
func (s StoreConfig) CredentialPath() string {
	if s.Path != "" {
		return s.Path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".fitbook", "credentials")
	}
	return filepath.Join(home, ".fitbook", "credentials")
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var config Config

	if err := envconfig.Process(ctx, &config); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	switch config.Store.Backend {
	case StoreBackendFile:
		if len(config.Store.Passphrase) < 12 {
			return nil, fmt.Errorf("STORE_PASSPHRASE must be at least 12 characters long for the file backend")
		}
	case StoreBackendMemory, StoreBackendRedis:
	default:
		return nil, fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}

	return &config, nil
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}
