package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Edamam    EdamamConfig
	Cache     CacheConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Tracker   TrackerConfig
	Log       LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EdamamConfig holds Edamam Recipe API configuration
type EdamamConfig struct {
	AppID   string        `mapstructure:"app_id"`
	AppKey  string        `mapstructure:"app_key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Configured reports whether both credentials are present
func (c EdamamConfig) Configured() bool {
	return c.AppID != "" && c.AppKey != ""
}

// CacheConfig holds nutrition result cache configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// StorageConfig selects the daily entry store
type StorageConfig struct {
	Type string `mapstructure:"type"` // "memory" or "sqlite"
	DSN  string `mapstructure:"dsn"`
}

// RateLimitConfig holds rate limiting configuration, in requests per minute
type RateLimitConfig struct {
	PerIP  int `mapstructure:"per_ip"`
	Edamam int `mapstructure:"edamam"`
}

// TrackerConfig holds calorie tracking defaults
type TrackerConfig struct {
	DefaultTarget int `mapstructure:"default_target"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/caltrack/")

	// Environment variable settings
	v.SetEnvPrefix("CALTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Edamam's own variable names are honoured as well
	_ = v.BindEnv("edamam.app_id", "CALTRACK_EDAMAM_APP_ID", "EDAMAM_APP_ID")
	_ = v.BindEnv("edamam.app_key", "CALTRACK_EDAMAM_APP_KEY", "EDAMAM_APP_KEY")

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env without overriding variables already set.
// A missing file is not an error.
func loadEnvFile() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("error loading .env file: %w", err)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Edamam defaults
	v.SetDefault("edamam.app_id", "")
	v.SetDefault("edamam.app_key", "")
	v.SetDefault("edamam.base_url", "https://api.edamam.com")
	v.SetDefault("edamam.timeout", "30s")

	// Cache defaults
	v.SetDefault("cache.ttl", "24h")

	// Storage defaults
	v.SetDefault("storage.type", "memory")
	v.SetDefault("storage.dsn", ":memory:")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.edamam", 10)

	v.SetDefault("tracker.default_target", 2500)
	v.SetDefault("log.level", "info")
}

// validate validates the configuration. Missing Edamam credentials are
// allowed: searches then fall back to the local food table.
func validate(config *Config) error {
	port, err := strconv.Atoi(config.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got: %s", config.Server.Port)
	}

	if config.Storage.Type != "memory" && config.Storage.Type != "sqlite" {
		return fmt.Errorf("storage type must be 'memory' or 'sqlite', got: %s", config.Storage.Type)
	}

	if config.Storage.Type == "sqlite" && config.Storage.DSN == "" {
		return fmt.Errorf("storage DSN is required when storage type is 'sqlite'")
	}

	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.RateLimit.PerIP < 1 || config.RateLimit.Edamam < 1 {
		return fmt.Errorf("rate limits must be at least 1 request per minute")
	}

	if config.Tracker.DefaultTarget < 1 {
		return fmt.Errorf("default calorie target must be greater than 0, got: %d", config.Tracker.DefaultTarget)
	}

	return nil
}
