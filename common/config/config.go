package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service    ServiceConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Delegation DelegationConfig
	Notify     NotifyConfig
	RateLimit  RateLimitConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// RedisConfig holds Redis connection settings (blob store, notifications, rate limits)
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DelegationConfig holds proxy-vote delegation settings
type DelegationConfig struct {
	// WindowLead is how far before an event the delegation window opens
	WindowLead time.Duration
	// TxRetries bounds optimistic-concurrency retries on contended transitions
	TxRetries int
	// SweepInterval is how often the concluded-delegation sweeper runs
	SweepInterval time.Duration
}

// NotifyConfig holds push-notification dispatch settings
type NotifyConfig struct {
	Enabled bool
	Channel string
}

// RateLimitConfig holds per-member rate limit settings for write endpoints
type RateLimitConfig struct {
	Enabled   bool
	PerMember int64
	WindowSec int
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "portal"),
			User:        getEnv("POSTGRES_USER", "portal"),
			Password:    getEnv("POSTGRES_PASSWORD", "portal"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 25),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 5),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Delegation: DelegationConfig{
			WindowLead:    getEnvDuration("DELEGATION_WINDOW_LEAD", 30*24*time.Hour),
			TxRetries:     getEnvInt("DELEGATION_TX_RETRIES", 3),
			SweepInterval: getEnvDuration("DELEGATION_SWEEP_INTERVAL", 10*time.Minute),
		},
		Notify: NotifyConfig{
			Enabled: getEnvBool("NOTIFY_ENABLED", true),
			Channel: getEnv("NOTIFY_CHANNEL", "portal:notifications"),
		},
		RateLimit: RateLimitConfig{
			Enabled:   getEnvBool("RATE_LIMIT_ENABLED", true),
			PerMember: int64(getEnvInt("RATE_LIMIT_PER_MEMBER", 30)),
			WindowSec: getEnvInt("RATE_LIMIT_WINDOW_SEC", 60),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	if c.Delegation.WindowLead <= 0 {
		return fmt.Errorf("delegation window lead must be positive")
	}

	if c.Delegation.TxRetries < 1 {
		return fmt.Errorf("delegation tx retries must be >= 1")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
