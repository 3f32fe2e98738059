package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv     string
	LogLevel   string
	LogFormat  string
	InstanceID string

	// Lifecycle store
	Store       string
	ConfigPath  string
	WatchConfig bool

	// Database
	DatabaseURL      string
	DatabaseMaxConns int
	SQLitePath       string

	// Redis
	RedisURL string
	RedisKey string

	// RabbitMQ
	RabbitMQURL   string
	RabbitMQQueue string

	// Outbox for events the broker rejected
	OutboxPollInterval time.Duration
	OutboxMaxRetries   int
	OutboxCapacity     int

	// Store circuit breaker
	BreakerEnabled  bool
	BreakerFailures int
	BreakerTimeout  time.Duration

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// Worker
	WorkerHealthAddr string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:     getEnv("APP_ENV", "development"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
		InstanceID: getEnv("INSTANCE_ID", uuid.NewString()),

		Store:       strings.ToLower(getEnv("LIFECYCLES_STORE", StoreFile)),
		ConfigPath:  getEnv("LIFECYCLES_CONFIG_PATH", "lifecycles.yaml"),
		WatchConfig: getBoolEnv("LIFECYCLES_WATCH", false),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 0),
		SQLitePath:       getEnv("SQLITE_PATH", ""),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RedisKey: getEnv("LIFECYCLES_REDIS_KEY", "lifecycles:config"),

		RabbitMQURL:   getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue: getEnv("RABBITMQ_QUEUE", ""),

		OutboxPollInterval: getDurationEnv("OUTBOX_POLL_INTERVAL", time.Second),
		OutboxMaxRetries:   getIntEnv("OUTBOX_MAX_RETRIES", 5),
		OutboxCapacity:     getIntEnv("OUTBOX_CAPACITY", 10000),

		BreakerEnabled:  getBoolEnv("STORE_BREAKER_ENABLED", true),
		BreakerFailures: getIntEnv("STORE_BREAKER_FAILURES", 5),
		BreakerTimeout:  getDurationEnv("STORE_BREAKER_TIMEOUT", 30*time.Second),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		WorkerHealthAddr: getEnv("WORKER_HEALTH_ADDR", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected store has what it needs.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile:
		if c.ConfigPath == "" {
			return fmt.Errorf("LIFECYCLES_CONFIG_PATH is required for the %s store", c.Store)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s store", c.Store)
		}
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %s store", c.Store)
		}
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown LIFECYCLES_STORE %q", c.Store)
	}
	if c.BreakerEnabled && c.BreakerFailures <= 0 {
		return fmt.Errorf("STORE_BREAKER_FAILURES must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
