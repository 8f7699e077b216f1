package config

import (
	"fmt"
	"math"
	"time"

	"bookstore-graphql/internal/infrastructure/database"
)

// envReader parses typed DB_* values and keeps the first failure
type envReader struct {
	err error
}

func (r *envReader) int(key string, defaultValue int) int {
	value, err := getEnvIntStrict(key, defaultValue)
	r.keep(err)
	return value
}

func (r *envReader) duration(key string, defaultValue time.Duration) time.Duration {
	value, err := getEnvDuration(key, defaultValue)
	r.keep(err)
	return value
}

func (r *envReader) keep(err error) {
	if r.err == nil {
		r.err = err
	}
}

// LoadDatabaseConfig reads the DB_* environment variables into a DBConfig.
// Malformed numbers and durations fail instead of falling back to defaults.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	env := &envReader{}

	port := env.int("DB_PORT", 5432)
	maxConns := env.int("DB_MAX_CONNECTIONS", 25)
	minConns := env.int("DB_MIN_CONNECTIONS", 5)

	cfg := &database.DBConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              port,
		Username:          getEnv("DB_USER", "bookstore"),
		Password:          getEnv("DB_PASSWORD", defaultDBPassword),
		DBName:            getEnv("DB_NAME", "bookstore_graphql"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConnLifetime:   env.duration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
		MaxConnIdleTime:   env.duration("DB_MAX_CONN_IDLE_TIME", time.Minute),
		HealthCheckPeriod: env.duration("DB_HEALTH_CHECK_PERIOD", time.Minute),
		MaxRetries:        env.int("DB_MAX_RETRIES", 5),
		RetryDelay:        env.duration("DB_RETRY_DELAY", time.Second),
		ConnectTimeout:    env.duration("DB_CONNECT_TIMEOUT", 10*time.Second),
	}
	if env.err != nil {
		return nil, env.err
	}

	if maxConns < 1 || maxConns > math.MaxInt32 {
		return nil, fmt.Errorf("DB_MAX_CONNECTIONS must be between 1 and %d, got %d", math.MaxInt32, maxConns)
	}
	if minConns < 0 {
		return nil, fmt.Errorf("DB_MIN_CONNECTIONS must not be negative, got %d", minConns)
	}
	if minConns > maxConns {
		return nil, fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)", minConns, maxConns)
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("DB_MAX_RETRIES must be at least 1, got %d", cfg.MaxRetries)
	}
	cfg.MaxConns = int32(maxConns)
	cfg.MinConns = int32(minConns)

	return cfg, nil
}
