package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"stovemarket/database"
)

// TestDatabase represents a migrated test database
type TestDatabase struct {
	DB      *database.DB
	Options database.Options
}

// SetupTestDatabase creates a migrated SQLite database in a temporary
// directory. The pool is closed when the test finishes.
func SetupTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	opts := database.Options{
		Driver:       string(database.SQLite),
		Path:         filepath.Join(t.TempDir(), "stovemarket_test.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5 * time.Second,
		AutoMigrate:  true,
	}

	db, err := database.Open(context.Background(), opts)
	require.NoError(t, err)

	testDB := &TestDatabase{DB: db, Options: opts}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Warning: failed to close test database: %v", err)
		}
	})

	return testDB
}

// Begin opens a read-write unit of work that is rolled back when the test
// finishes unless the test completes it first.
func (td *TestDatabase) Begin(t *testing.T) *database.UnitOfWork {
	t.Helper()

	uow, err := td.DB.NewUnitOfWork(context.Background(), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = uow.Rollback() })
	return uow
}

// Count returns the number of rows in table, read outside any open unit
func (td *TestDatabase) Count(t *testing.T, table string) int64 {
	t.Helper()

	var n int64
	err := td.DB.WithUnitOfWork(context.Background(), true, func(uow *database.UnitOfWork) error {
		_, err := uow.Prepare("SELECT COUNT(*) FROM "+table, nil).One(context.Background(), &n)
		return err
	})
	require.NoError(t, err)
	return n
}
