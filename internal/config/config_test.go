package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "/graphql", cfg.GraphQL.Path)
	assert.Equal(t, 2*time.Millisecond, cfg.GraphQL.BatchWait)
	assert.Equal(t, 100, cfg.GraphQL.BatchCapacity)
	assert.Equal(t, 100*time.Millisecond, cfg.GraphQL.SlowBatchThreshold)
	assert.True(t, cfg.Migrations.OnStart)
	assert.False(t, cfg.Migrations.BaselineOnMigrate)
	assert.Equal(t, 1, cfg.Migrations.BaselineVersion)
	assert.Equal(t, []string{"*"}, cfg.App.CORSOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GRAPHQL_PATH", "/api/graphql")
	t.Setenv("GRAPHQL_BATCH_WAIT", "10ms")
	t.Setenv("GRAPHQL_BATCH_CAPACITY", "50")
	t.Setenv("GRAPHQL_SLOW_BATCH_THRESHOLD", "250ms")
	t.Setenv("MIGRATE_ON_START", "false")
	t.Setenv("MIGRATE_BASELINE_ON_MIGRATE", "true")
	t.Setenv("MIGRATE_BASELINE_VERSION", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://books.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/api/graphql", cfg.GraphQL.Path)
	assert.Equal(t, 10*time.Millisecond, cfg.GraphQL.BatchWait)
	assert.Equal(t, 50, cfg.GraphQL.BatchCapacity)
	assert.Equal(t, 250*time.Millisecond, cfg.GraphQL.SlowBatchThreshold)
	assert.False(t, cfg.Migrations.OnStart)
	assert.True(t, cfg.Migrations.BaselineOnMigrate)
	assert.Equal(t, 3, cfg.Migrations.BaselineVersion)
	assert.Equal(t, []string{"http://localhost:3000", "https://books.example.com"}, cfg.App.CORSOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("GRAPHQL_BATCH_WAIT", "soon")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRAPHQL_BATCH_WAIT")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:        AppConfig{Environment: "development"},
			GraphQL:    GraphQLConfig{Path: "/graphql", BatchWait: time.Millisecond, BatchCapacity: 10},
			Migrations: MigrationConfig{BaselineVersion: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		env     map[string]string
		wantErr string
	}{
		{name: "valid"},
		{name: "relative path", mutate: func(c *Config) { c.GraphQL.Path = "graphql" }, wantErr: "GRAPHQL_PATH"},
		{name: "zero wait", mutate: func(c *Config) { c.GraphQL.BatchWait = 0 }, wantErr: "GRAPHQL_BATCH_WAIT"},
		{name: "zero capacity", mutate: func(c *Config) { c.GraphQL.BatchCapacity = 0 }, wantErr: "GRAPHQL_BATCH_CAPACITY"},
		{name: "baseline zero", mutate: func(c *Config) { c.Migrations.BaselineVersion = 0 }, wantErr: "MIGRATE_BASELINE_VERSION"},
		{
			name:    "production default password",
			mutate:  func(c *Config) { c.App.Environment = "production" },
			env:     map[string]string{"DB_PASSWORD": defaultDBPassword},
			wantErr: "DB_PASSWORD",
		},
		{
			name:   "production real password",
			mutate: func(c *Config) { c.App.Environment = "production" },
			env:    map[string]string{"DB_PASSWORD": "s3cure"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg := valid()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDatabaseConfig(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("DB_MAX_CONNECTIONS", "10")
	t.Setenv("DB_MIN_CONNECTIONS", "2")
	t.Setenv("DB_RETRY_DELAY", "250ms")

	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "require", cfg.SSLMode)
	assert.Equal(t, int32(10), cfg.MaxConns)
	assert.Equal(t, int32(2), cfg.MinConns)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 5, cfg.MaxRetries)
}

func TestLoadDatabaseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"port", map[string]string{"DB_PORT": "abc"}, "DB_PORT"},
		{"lifetime", map[string]string{"DB_MAX_CONN_LIFETIME": "forever"}, "DB_MAX_CONN_LIFETIME"},
		{"min above max", map[string]string{"DB_MAX_CONNECTIONS": "2", "DB_MIN_CONNECTIONS": "5"}, "exceeds"},
		{"no retries", map[string]string{"DB_MAX_RETRIES": "0"}, "DB_MAX_RETRIES"},
		{"max connections not a number", map[string]string{"DB_MAX_CONNECTIONS": "ten"}, "invalid DB_MAX_CONNECTIONS"},
		{"min connections not a number", map[string]string{"DB_MIN_CONNECTIONS": "1.5"}, "invalid DB_MIN_CONNECTIONS"},
		{"retry delay", map[string]string{"DB_RETRY_DELAY": "soon"}, "invalid DB_RETRY_DELAY"},
		{"zero max connections", map[string]string{"DB_MAX_CONNECTIONS": "0", "DB_MIN_CONNECTIONS": "0"}, "DB_MAX_CONNECTIONS"},
		{"negative min connections", map[string]string{"DB_MIN_CONNECTIONS": "-1"}, "DB_MIN_CONNECTIONS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadDatabaseConfig()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDatabaseConfig_Defaults(t *testing.T) {
	cfg, err := LoadDatabaseConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, int32(5), cfg.MinConns)
	assert.Equal(t, 5*time.Minute, cfg.MaxConnLifetime)
	assert.Equal(t, time.Minute, cfg.MaxConnIdleTime)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}

func TestGetEnvIntStrict(t *testing.T) {
	v, err := getEnvIntStrict("BOOKSTORE_TEST_INT", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, v)

	t.Setenv("BOOKSTORE_TEST_INT", " 42 ")
	v, err = getEnvIntStrict("BOOKSTORE_TEST_INT", 7)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	t.Setenv("BOOKSTORE_TEST_INT", "forty")
	_, err = getEnvIntStrict("BOOKSTORE_TEST_INT", 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid BOOKSTORE_TEST_INT")
}
