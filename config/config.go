package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseDriver  string        `toml:"database_driver"`
	DatabasePath    string        `toml:"database_path"` // sqlite file
	DatabaseURL     string        `toml:"database_url"`  // postgres DSN
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"-"` // file key conn_max_lifetime, e.g. "5m"
	BusyTimeout     time.Duration `toml:"-"` // file key busy_timeout, e.g. "5s"
	AutoMigrate     bool          `toml:"auto_migrate"`

	// Marketplace configuration
	StartingBalance int64 `toml:"starting_balance"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // "text" or "json"

	// Environment
	Environment string `toml:"environment"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = Load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		DatabaseDriver:  DriverSQLite,
		DatabasePath:    "data/stovemarket.db",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		BusyTimeout:     5 * time.Second,
		StartingBalance: 1000,
		LogLevel:        "info",
		LogFormat:       "text",
		Environment:     "development",
	}
}

// Load builds the configuration from defaults, an optional TOML file named by
// STOVEMARKET_CONFIG, and environment variables, in that order.
func Load() (*Config, error) {
	config := Default()

	if path := os.Getenv("STOVEMARKET_CONFIG"); path != "" {
		if err := config.loadFile(path); err != nil {
			return nil, err
		}
	}

	config.loadEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to open config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	var durations fileDurations
	if err := toml.Unmarshal(data, &durations); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	durations.apply(c)
	return nil
}

func (c *Config) loadEnv() {
	if driver := os.Getenv("DATABASE_DRIVER"); driver != "" {
		c.DatabaseDriver = strings.ToLower(strings.TrimSpace(driver))
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		c.DatabasePath = path
	}
	if url := os.Getenv("DATABASE_URL"); url != "" {
		c.DatabaseURL = url
	}
	if n := os.Getenv("DB_MAX_OPEN_CONNS"); n != "" {
		if parsed, err := strconv.Atoi(n); err == nil {
			c.MaxOpenConns = parsed
		}
	}
	if n := os.Getenv("DB_MAX_IDLE_CONNS"); n != "" {
		if parsed, err := strconv.Atoi(n); err == nil {
			c.MaxIdleConns = parsed
		}
	}
	if ms := os.Getenv("DB_BUSY_TIMEOUT_MS"); ms != "" {
		if parsed, err := strconv.Atoi(ms); err == nil {
			c.BusyTimeout = time.Duration(parsed) * time.Millisecond
		}
	}
	if auto := os.Getenv("AUTO_MIGRATE"); auto != "" {
		c.AutoMigrate = auto == "true" || auto == "1"
	}
	if balance := os.Getenv("STARTING_BALANCE"); balance != "" {
		if parsed, err := strconv.ParseInt(balance, 10, 64); err == nil {
			c.StartingBalance = parsed
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		c.LogFormat = format
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		c.Environment = env
	}
}

// Validate checks that the selected driver has what it needs
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("DATABASE_PATH is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}

	if c.StartingBalance < 0 {
		return fmt.Errorf("STARTING_BALANCE must not be negative")
	}
	return nil
}
