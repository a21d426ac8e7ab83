package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP surface
	HTTPAddr        string
	ActionRateLimit int
	ActionWindow    time.Duration

	// Event forwarding, empty disables it
	NATSURL string

	// Rate limiter store, empty falls back to in-process limiting
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Transaction retry
	TxMaxAttempts    int
	TxRetryBaseDelay time.Duration

	// Game settings
	StartingCash     int64
	CatalogCacheSize int

	// Logging
	LogLevel  string
	LogFormat string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load reads configuration from the environment, after a .env file if present
func load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DatabaseName:  os.Getenv("DATABASE_NAME"),
		HTTPAddr:      envString("HTTP_ADDR", ":8080"),
		NATSURL:       os.Getenv("NATS_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      envString("LOG_LEVEL", "info"),
		LogFormat:     envString("LOG_FORMAT", "text"),
		Environment:   envString("ENVIRONMENT", "development"),

		ActionRateLimit:  envInt("ACTION_RATE_LIMIT", 120),
		ActionWindow:     time.Duration(envInt("ACTION_RATE_WINDOW_SECONDS", 60)) * time.Second,
		RedisDB:          envInt("REDIS_DB", 0),
		TxMaxAttempts:    envInt("TX_MAX_ATTEMPTS", 5),
		TxRetryBaseDelay: time.Duration(envInt("TX_RETRY_BASE_DELAY_MS", 20)) * time.Millisecond,
		StartingCash:     int64(envInt("STARTING_CASH", 500)),
		CatalogCacheSize: envInt("CATALOG_CACHE_SIZE", 512),
	}

	if config.Environment != "test" && config.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if config.TxMaxAttempts < 1 {
		return nil, fmt.Errorf("TX_MAX_ATTEMPTS must be at least 1, got %d", config.TxMaxAttempts)
	}

	return config, nil
}

// ConfigureLogging applies the log level and format to the global logger
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		log.WithFields(log.Fields{"key": key, "value": v}).Warn("Ignoring non-numeric setting")
		return fallback
	}
	return parsed
}
