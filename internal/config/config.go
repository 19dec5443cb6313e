package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreSQLite = "sqlite"
)

// Config is the CLI configuration. Environment variables set the defaults;
// command flags override individual fields.
type Config struct {
	Content string `env:"ARBOR_CONTENT"`

	Store   string `env:"ARBOR_STORE" envDefault:"file"`
	Slot    string `env:"ARBOR_SLOT" envDefault:"default"`
	DataDir string `env:"ARBOR_DATA_DIR" envDefault:".arbor"`

	RedisAddr     string        `env:"ARBOR_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"ARBOR_REDIS_PASSWORD"`
	RedisDB       int           `env:"ARBOR_REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"ARBOR_REDIS_TTL"`
	// RedisLockTTL bounds how long a crashed player keeps its slot locked.
	// A running player renews the lock, so sessions may last longer.
	RedisLockTTL time.Duration `env:"ARBOR_REDIS_LOCK_TTL" envDefault:"30m"`

	SQLitePath string `env:"ARBOR_SQLITE_PATH" envDefault:".arbor/saves.db"`

	// EncryptionKey is hex encoded; empty disables encryption at rest.
	EncryptionKey string `env:"ARBOR_ENCRYPTION_KEY"`

	Seed     uint64 `env:"ARBOR_SEED"`
	LogLevel string `env:"ARBOR_LOG_LEVEL" envDefault:"warn"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks field combinations that env tags cannot express.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis, StoreSQLite:
	default:
		return fmt.Errorf("unknown store %q (want memory, file, redis or sqlite)", c.Store)
	}
	if c.Slot == "" {
		return errors.New("slot must not be empty")
	}
	if _, err := c.Key(); err != nil {
		return err
	}
	return nil
}

// Key decodes EncryptionKey. It returns nil when encryption is off.
func (c Config) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key must be hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}
