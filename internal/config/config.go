// Package config defines all configuration structures for the rxnDB explorer.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatasetConfig selects and parameterises the reaction-table source.
type DatasetConfig struct {
	// Source selects the ingestion backend: "yaml" | "postgres".
	Source string `mapstructure:"source"`
	// Dirs is the list of preprocessed YAML dataset directories, loaded and
	// concatenated in order when Source is "yaml".
	Dirs []string `mapstructure:"dirs"`
	// AllowEmpty permits an empty reaction table at startup.  Off by default:
	// an explorer with nothing to explore is almost always a deployment error.
	AllowEmpty bool `mapstructure:"allow_empty"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis connection and cache parameters.  The cache is
// optional: an empty Addr disables result caching entirely.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds event-publishing parameters.  The publisher is optional:
// an empty Brokers list disables event publishing.
type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	RequiredAcks int           `mapstructure:"required_acks"`
}

// ExplorerConfig holds engine-level defaults surfaced to callers.
type ExplorerConfig struct {
	// DefaultMethod is the phase-combination rule used when a request does
	// not specify one: "and" | "or".
	DefaultMethod string `mapstructure:"default_method"`
	// InitialPhases is the phase pre-selection offered to fresh UI sessions.
	InitialPhases []string `mapstructure:"initial_phases"`
	// CacheTTL bounds the lifetime of cached filter results.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the explorer.  Every
// infrastructure component and application service reads its settings from
// the relevant sub-struct.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Explorer ExplorerConfig `mapstructure:"explorer"`
	Log      LogConfig      `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Dataset
	switch c.Dataset.Source {
	case "yaml":
		if len(c.Dataset.Dirs) == 0 {
			return fmt.Errorf("config: dataset.dirs must contain at least one directory when dataset.source is yaml")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("config: database.host is required when dataset.source is postgres")
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
		}
		if c.Database.User == "" {
			return fmt.Errorf("config: database.user is required when dataset.source is postgres")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("config: database.db_name is required when dataset.source is postgres")
		}
	default:
		return fmt.Errorf("config: dataset.source %q is invalid; expected yaml|postgres", c.Dataset.Source)
	}

	// Redis (optional, validated only when enabled)
	if c.Redis.Addr != "" && c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be >= 0, got %d", c.Redis.DB)
	}

	// Explorer
	switch c.Explorer.DefaultMethod {
	case "and", "or":
	default:
		return fmt.Errorf("config: explorer.default_method %q is invalid; expected and|or", c.Explorer.DefaultMethod)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
