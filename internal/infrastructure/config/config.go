package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, default=insecure-dev-secret"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`

	Session SessionConfig
	MockAPI MockAPIConfig
	Storage StorageConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type SessionConfig struct {
	Timeout  time.Duration `env:"SESSION_TIMEOUT, default=15m"`
	TokenTTL time.Duration `env:"TOKEN_TTL,       default=24h"`
}

type MockAPIConfig struct {
	LatencyMin time.Duration `env:"MOCKAPI_LATENCY_MIN, default=300ms"`
	LatencyMax time.Duration `env:"MOCKAPI_LATENCY_MAX, default=800ms"`
	FailNext   int           `env:"MOCKAPI_FAIL_NEXT,   default=0"`
	BcryptCost int           `env:"BCRYPT_COST,         default=10"`
}

type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER, default=memory"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=admin_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
	Prefix   string `env:"REDIS_PREFIX,   default=console:"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StorageRedis, StorageMongo:
	default:
		return fmt.Errorf("config: unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.MockAPI.LatencyMin < 0 || c.MockAPI.LatencyMax < c.MockAPI.LatencyMin {
		return fmt.Errorf("config: invalid mock API latency range [%s, %s)", c.MockAPI.LatencyMin, c.MockAPI.LatencyMax)
	}
	if c.Session.Timeout <= 0 {
		return fmt.Errorf("config: SESSION_TIMEOUT must be positive")
	}
	if c.IsProduction() && c.JWTSecret == "insecure-dev-secret" {
		return fmt.Errorf("config: JWT_SECRET must be set in production")
	}
	return nil
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }
