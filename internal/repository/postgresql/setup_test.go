package postgresql_test

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var (
	testDBOnce sync.Once
	testDB     *database.DB
	testDBErr  error
)

// requireTestDB connects to the database named by TEST_DATABASE_URL. Tests in
// this package are skipped when the variable is unset.
func requireTestDB(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database tests")
	}

	testDBOnce.Do(func() {
		testDB, testDBErr = database.NewPostgreSQLDB(dsn, 10, 2)
	})
	require.NoError(t, testDBErr)
	return testDB
}

// cleanupTestData truncates every table this package writes to.
func cleanupTestData(t *testing.T, db *database.DB) {
	t.Helper()

	ctx := context.Background()
	tx, err := db.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	for _, table := range []string{"attendances", "leaves", "users"} {
		_, err := tx.Exec(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		require.NoError(t, err)
	}

	require.NoError(t, tx.Commit(ctx))
}

// createTestUser inserts a minimal user row and returns it.
func createTestUser(t *testing.T, ctx context.Context, db *database.DB, email string) user.User {
	t.Helper()

	var u user.User
	err := db.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, email)
		VALUES ('Ayesha', 'Khan', $1)
		RETURNING id, first_name, last_name, email
	`, email).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email)
	require.NoError(t, err)
	return u
}
