//go:build integration

// Package testutil provides testcontainers-based PostgreSQL for integration tests.
package testutil

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"bookstore-graphql/internal/infrastructure/database"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresUser     = "bookstore"
	postgresPassword = "secret"
	postgresDB       = "bookstore_test"
)

// SkipUnlessIntegration skips t unless INTEGRATION_TESTS=1
func SkipUnlessIntegration(t testing.TB) {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests")
	}
}

// StartPostgres runs a throwaway PostgreSQL container and returns a
// connected, unmigrated PostgresDB. Both are torn down by t.Cleanup.
func StartPostgres(t testing.TB) *database.PostgresDB {
	t.Helper()
	SkipUnlessIntegration(t)

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
				"POSTGRES_DB":       postgresDB,
			},
			// the server restarts once after init scripts
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background()) // best effort
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	portNum, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	db := database.NewPostgresDB(&database.DBConfig{
		Host:              host,
		Port:              portNum,
		Username:          postgresUser,
		Password:          postgresPassword,
		DBName:            postgresDB,
		SSLMode:           "disable",
		MaxConns:          10,
		MinConns:          1,
		MaxConnLifetime:   5 * time.Minute,
		MaxConnIdleTime:   time.Minute,
		HealthCheckPeriod: time.Minute,
		MaxRetries:        5,
		RetryDelay:        500 * time.Millisecond,
		ConnectTimeout:    10 * time.Second,
	})
	require.NoError(t, db.Connect(ctx))
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// StartMigratedPostgres is StartPostgres plus every embedded migration
func StartMigratedPostgres(t testing.TB) *database.PostgresDB {
	t.Helper()

	db := StartPostgres(t)
	_, err := database.NewMigrator(db.Pool, database.MigrateOptions{BaselineVersion: 1}).Migrate(context.Background())
	require.NoError(t, err, "failed to migrate test database")
	return db
}

// Truncate empties the domain tables, seed data included
func Truncate(t testing.TB, db *database.PostgresDB) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), `TRUNCATE books, authors`)
	require.NoError(t, err)
}
