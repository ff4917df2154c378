package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the full application configuration, populated from
// environment variables.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Lock     LockConfig
	Worker   WorkerConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LockConfig controls the distributed lock used on the coupon usage path.
// TTL must comfortably exceed the critical section (two reads + two writes).
type LockConfig struct {
	TTL        time.Duration
	RetryCount int
	RetryDelay time.Duration
}

type WorkerConfig struct {
	Concurrency            int
	CouponExpiryCron       string
	StaleCartPurgeCron     string
	StaleCartRetentionDays int
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Shopcart API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "shopcart"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Lock: LockConfig{
			TTL:        time.Duration(getEnvInt("LOCK_TTL_MS", 10000)) * time.Millisecond,
			RetryCount: getEnvInt("LOCK_RETRY_COUNT", 3),
			RetryDelay: time.Duration(getEnvInt("LOCK_RETRY_DELAY_MS", 200)) * time.Millisecond,
		},
		Worker: WorkerConfig{
			Concurrency:            getEnvInt("WORKER_CONCURRENCY", 10),
			CouponExpiryCron:       getEnv("COUPON_EXPIRY_CRON", "*/10 * * * *"),
			StaleCartPurgeCron:     getEnv("STALE_CART_PURGE_CRON", "0 3 * * *"),
			StaleCartRetentionDays: getEnvInt("STALE_CART_RETENTION_DAYS", 30),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks config invariants that would otherwise surface as
// confusing runtime failures.
func (c *Config) Validate() error {
	if c.App.Environment == "production" && c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD must be set in production")
	}
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("LOCK_TTL_MS must be positive")
	}
	if c.Lock.RetryCount < 0 {
		return fmt.Errorf("LOCK_RETRY_COUNT must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
