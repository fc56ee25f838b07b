package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"stovemarket/database"
)

// PostgresDatabase represents a PostgreSQL test container with the schema applied
type PostgresDatabase struct {
	TestDatabase
	Container *postgres.PostgresContainer
	URL       string
}

// SetupPostgresDatabase creates a new PostgreSQL test container and runs
// migrations. It skips in -short mode and when no container runtime is
// available.
func SetupPostgresDatabase(t *testing.T) *PostgresDatabase {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping PostgreSQL integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	// Generate unique labels for this test container
	labels := map[string]string{
		"test":      "stovemarket-repository",
		"test-name": t.Name(),
		"timestamp": time.Now().Format("20060102-150405"),
		"cleanup":   "auto",
	}

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("stovemarket_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(labels),
	)
	require.NoError(t, err)

	pgDB := &PostgresDatabase{Container: postgresContainer}
	t.Cleanup(func() {
		pgDB.robustCleanup(t)
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	opts := database.Options{
		Driver:       string(database.Postgres),
		URL:          connStr,
		MaxOpenConns: 4,
		AutoMigrate:  true,
	}
	db, err := database.Open(ctx, opts)
	require.NoError(t, err)

	pgDB.DB = db
	pgDB.Options = opts
	pgDB.URL = connStr
	return pgDB
}

// robustCleanup closes the pool and terminates the container, recovering
// from panics so cleanup never fails the test
func (pd *PostgresDatabase) robustCleanup(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Logf("Panic during container cleanup (recovered): %v", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if pd.DB != nil {
		if err := pd.DB.Close(); err != nil {
			t.Logf("Warning: failed to close database pool: %v", err)
		}
	}

	if pd.Container != nil {
		if err := pd.Container.Terminate(ctx); err != nil {
			t.Logf("Warning: Failed to terminate test container: %v", err)
		}
	}
}
