package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultDBPassword = "secret"

// Config holds the whole application configuration, populated from environment variables
type Config struct {
	App        AppConfig
	Log        LogConfig
	GraphQL    GraphQLConfig
	Migrations MigrationConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	CORSOrigins []string // "*" allows any origin
}

type LogConfig struct {
	Level string // trace, debug, info, warn, error
}

// =====================================================
// GRAPHQL CONFIGURATION
// =====================================================

type GraphQLConfig struct {
	Path               string        // HTTP route serving the API
	BatchWait          time.Duration // how long loaders collect keys
	BatchCapacity      int           // max keys per batch
	SlowBatchThreshold time.Duration // batches slower than this are logged
}

// =====================================================
// MIGRATION CONFIGURATION
// =====================================================

type MigrationConfig struct {
	OnStart           bool // apply pending migrations when the API boots
	BaselineOnMigrate bool // adopt a non-empty schema without history
	BaselineVersion   int  // version recorded for the baseline
}

// Load reads config from environment variables
func Load() (*Config, error) {
	batchWait, err := getEnvDuration("GRAPHQL_BATCH_WAIT", 2*time.Millisecond)
	if err != nil {
		return nil, err
	}
	slowBatch, err := getEnvDuration("GRAPHQL_SLOW_BATCH_THRESHOLD", 100*time.Millisecond)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Bookstore GraphQL"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			CORSOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		GraphQL: GraphQLConfig{
			Path:               getEnv("GRAPHQL_PATH", "/graphql"),
			BatchWait:          batchWait,
			BatchCapacity:      getEnvInt("GRAPHQL_BATCH_CAPACITY", 100),
			SlowBatchThreshold: slowBatch,
		},
		Migrations: MigrationConfig{
			OnStart:           getEnvBool("MIGRATE_ON_START", true),
			BaselineOnMigrate: getEnvBool("MIGRATE_BASELINE_ON_MIGRATE", false),
			BaselineVersion:   getEnvInt("MIGRATE_BASELINE_VERSION", 1),
		},
	}

	// Validate critical config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that would make the service misbehave
func (c *Config) Validate() error {
	var errs []error

	if !strings.HasPrefix(c.GraphQL.Path, "/") {
		errs = append(errs, fmt.Errorf("GRAPHQL_PATH must start with '/', got %q", c.GraphQL.Path))
	}
	if c.GraphQL.BatchWait <= 0 {
		errs = append(errs, errors.New("GRAPHQL_BATCH_WAIT must be positive"))
	}
	if c.GraphQL.BatchCapacity <= 0 {
		errs = append(errs, errors.New("GRAPHQL_BATCH_CAPACITY must be positive"))
	}
	if c.GraphQL.SlowBatchThreshold < 0 {
		errs = append(errs, errors.New("GRAPHQL_SLOW_BATCH_THRESHOLD must not be negative"))
	}
	if c.Migrations.BaselineVersion < 1 {
		errs = append(errs, errors.New("MIGRATE_BASELINE_VERSION must be at least 1"))
	}

	// Production must not run on the development password
	if c.IsProduction() {
		if pw := os.Getenv("DB_PASSWORD"); pw == "" || pw == defaultDBPassword {
			errs = append(errs, errors.New("DB_PASSWORD must be set in production"))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
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

// getEnvIntStrict is getEnvInt for values where a typo must not pass silently
func getEnvIntStrict(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}
