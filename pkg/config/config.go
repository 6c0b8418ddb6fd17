package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

type Config struct {
	Port            string        `mapstructure:"port"`
	Storage         string        `mapstructure:"storage"`
	MongoURI        string        `mapstructure:"mongodb_uri"`
	MongoDatabase   string        `mapstructure:"mongodb_database"`
	PostgresDSN     string        `mapstructure:"postgres_dsn"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	StoreTimeout    time.Duration `mapstructure:"store_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SeedPosts       int           `mapstructure:"seed_posts"`
}

var defaults = map[string]interface{}{
	"port":             "8080",
	"storage":          StorageMemory,
	"mongodb_uri":      "mongodb://localhost:27017",
	"mongodb_database": "blog",
	"postgres_dsn":     "postgresql://localhost/blog?sslmode=disable",
	"redis_addr":       "redis://localhost:6379",
	"log_level":        "info",
	"log_file":         "",
	"store_timeout":    "3s",
	"shutdown_timeout": "10s",
	"seed_posts":       0,
}

// Load reads the optional dotenv files into the process environment and
// resolves every setting from the environment, falling back to defaults.
// Variables already set in the environment win over dotenv values.
func Load(dotenvFiles ...string) (*Config, error) {
	// A missing .env is fine: production sets real environment variables.
	_ = godotenv.Load(dotenvFiles...)

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed decoding settings: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageMongo, StoragePostgres, StorageRedis:
	default:
		return fmt.Errorf("config: unknown storage %q", c.Storage)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("config: store timeout must be positive, got %s", c.StoreTimeout)
	}
	if c.SeedPosts < 0 {
		return fmt.Errorf("config: seed posts must not be negative, got %d", c.SeedPosts)
	}
	return nil
}
