package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultDatabaseURL = "file:quartermaster.db?_pragma=foreign_keys(1)"

// Config holds application configuration (env + Viper).
type Config struct {
	Env           string
	Port          string
	DatabaseURL   string
	RedisURL      string // optional; enables the cross-process inventory lock
	LogLevel      string
	RepairLockTTL time.Duration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_URL", defaultDatabaseURL)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REPAIR_LOCK_TTL", "10s")

	ttl, err := time.ParseDuration(v.GetString("REPAIR_LOCK_TTL"))
	if err != nil {
		return nil, fmt.Errorf("REPAIR_LOCK_TTL: %w", err)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("REPAIR_LOCK_TTL must be positive, got %s", ttl)
	}

	return &Config{
		Env:           strings.ToLower(v.GetString("APP_ENV")),
		Port:          v.GetString("PORT"),
		DatabaseURL:   strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:      strings.TrimSpace(v.GetString("REDIS_URL")),
		LogLevel:      v.GetString("LOG_LEVEL"),
		RepairLockTTL: ttl,
	}, nil
}
