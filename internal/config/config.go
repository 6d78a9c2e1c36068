package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Dataset   DatasetConfig   `yaml:"dataset"`
	Session   SessionConfig   `yaml:"session"`
	Translate TranslateConfig `yaml:"translate"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `yaml:"port"             env:"PORT"                    env-default:"8080"`
	Host            string        `yaml:"host"             env:"HOST"                    env-default:"0.0.0.0"`
	Env             string        `yaml:"env"              env:"ENV"                     env-default:"development"` // "development" or "production"
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatasetConfig points at the translation table
type DatasetConfig struct {
	Path string `yaml:"path" env:"DATASET_PATH" env-default:"translations.csv"`
}

// SessionConfig holds session-related configuration
type SessionConfig struct {
	TopCountries    int           `yaml:"top_countries"    env:"SESSION_TOP_COUNTRIES"    env-default:"3"`
	Preload         bool          `yaml:"preload"          env:"SESSION_PRELOAD"`
	Seed            int64         `yaml:"seed"             env:"SESSION_SEED"             env-default:"0"`
	LeaderboardSize int           `yaml:"leaderboard_size" env:"SESSION_LEADERBOARD_SIZE"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SESSION_IDLE_TIMEOUT"     env-default:"2h"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"SESSION_CLEANUP_INTERVAL" env-default:"10m"`
}

// TranslateConfig holds lookup-related configuration
type TranslateConfig struct {
	FallbackCacheSize int64 `yaml:"fallback_cache_size" env:"TRANSLATE_FALLBACK_CACHE_SIZE"`
	Seed              int64 `yaml:"seed"                env:"TRANSLATE_SEED"                env-default:"0"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"` // "json" or "text"
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults. The file path comes from CONFIG_PATH
// (fallback "./config.yaml"); a missing default file is not an error.
func Load() (*Config, error) {
	cfg := defaults()

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// defaults holds the settings whose zero value is meaningful (false, 0 = no
// limit, 0 = no cache). cleanenv only applies env-default to zero fields, so
// these are seeded here and left for the file and env to overwrite.
func defaults() Config {
	return Config{
		Session: SessionConfig{
			Preload:         true,
			LeaderboardSize: 10,
		},
		Translate: TranslateConfig{
			FallbackCacheSize: 1000,
		},
	}
}

// Validate checks values cleanenv cannot
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if c.Session.TopCountries < 1 {
		return fmt.Errorf("session.top_countries must be >= 1 (got %d)", c.Session.TopCountries)
	}
	if c.Session.LeaderboardSize < 0 {
		return fmt.Errorf("session.leaderboard_size must be >= 0 (got %d)", c.Session.LeaderboardSize)
	}
	if c.Session.IdleTimeout <= 0 {
		return fmt.Errorf("session.idle_timeout must be > 0 (got %s)", c.Session.IdleTimeout)
	}
	if c.Translate.FallbackCacheSize < 0 {
		return fmt.Errorf("translate.fallback_cache_size must be >= 0 (got %d)", c.Translate.FallbackCacheSize)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text (got %q)", c.Logging.Format)
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
