package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"lottosettle/database"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL      string `mapstructure:"database_url"`
	DatabaseName     string `mapstructure:"database_name"`
	DatabaseMaxConns int32  `mapstructure:"database_max_conns"`
	DatabaseMinConns int32  `mapstructure:"database_min_conns"`

	// NATS configuration
	NATSServers    string `mapstructure:"nats_servers"`    // NATS server addresses (comma-separated)
	NATSEnabled    bool   `mapstructure:"nats_enabled"`    // When false, events go to a no-op publisher
	CommandSubject string `mapstructure:"command_subject"` // Subject pattern for inbound settlement commands

	// Redis configuration (settings snapshot cache)
	RedisURL         string        `mapstructure:"redis_url"`
	SettingsCacheTTL time.Duration `mapstructure:"settings_cache_ttl"`

	// Game defaults
	DefaultTimeZone string `mapstructure:"default_time_zone"` // Used when a game type has no zone configured
	DefaultGameType string `mapstructure:"default_game_type"` // Settings snapshot used when a command names no game

	// OpenTelemetry configuration
	OTelEnabled              bool   `mapstructure:"otel_enabled"`
	OTelExporterType         string `mapstructure:"otel_exporter_type"` // console, otlp or none
	OTelOTLPEndpoint         string `mapstructure:"otel_otlp_endpoint"`
	OTelServiceName          string `mapstructure:"otel_service_name"`
	OTelExportIntervalMillis int    `mapstructure:"otel_export_interval_millis"`

	// Logging
	LogLevel string `mapstructure:"log_level"`

	// Environment
	Environment string `mapstructure:"environment"` // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = Load(os.Getenv("CONFIG_FILE"))
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// Location returns the default game time zone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from an optional file and the environment.
// Environment variables always win over file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_max_conns", 10)
	v.SetDefault("database_min_conns", 2)
	v.SetDefault("nats_servers", "nats://nats:4222")
	v.SetDefault("nats_enabled", true)
	v.SetDefault("command_subject", "lottery.commands.>")
	v.SetDefault("redis_url", "redis://redis:6379/0")
	v.SetDefault("settings_cache_ttl", 5*time.Minute)
	v.SetDefault("default_time_zone", "UTC")
	v.SetDefault("default_game_type", "thai")
	v.SetDefault("otel_enabled", false)
	v.SetDefault("otel_exporter_type", "none")
	v.SetDefault("otel_otlp_endpoint", "otel-collector:4317")
	v.SetDefault("otel_service_name", "lottosettle")
	v.SetDefault("otel_export_interval_millis", 15000)
	v.SetDefault("log_level", "info")
	v.SetDefault("environment", "development")
}

// bindEnv maps every key to its upper-case environment variable so that
// Unmarshal sees values which were never written to the file.
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"database_url", "database_name", "database_max_conns", "database_min_conns",
		"nats_servers", "nats_enabled", "command_subject",
		"redis_url", "settings_cache_ttl", "default_time_zone", "default_game_type",
		"otel_enabled", "otel_exporter_type", "otel_otlp_endpoint", "otel_service_name", "otel_export_interval_millis",
		"log_level", "environment",
	} {
		_ = v.BindEnv(key, strings.ToUpper(key))
	}
}

func (c *Config) validate() error {
	if c.Environment == "test" {
		return nil
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	// If DatabaseName is provided, ensure it's not empty
	if c.DatabaseName != "" && strings.TrimSpace(c.DatabaseName) == "" {
		return fmt.Errorf("DATABASE_NAME cannot be empty when provided")
	}
	if _, err := time.LoadLocation(c.DefaultTimeZone); err != nil {
		return fmt.Errorf("invalid DEFAULT_TIME_ZONE %q: %w", c.DefaultTimeZone, err)
	}
	return nil
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:      "test",
		NATSEnabled:      false,
		CommandSubject:   "lottery.commands.>",
		SettingsCacheTTL: time.Minute,
		DefaultTimeZone:  "UTC",
		DefaultGameType:  "thai",
		OTelExporterType: "none",
		LogLevel:         "debug",
	}
}
