package database

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainHash stands in for bcrypt; seeding behavior is what's under test here.
func plainHash(plaintext string) (string, error) {
	return "digest:" + plaintext, nil
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	// The pool must not open a second connection, which would get its own
	// empty in-memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, Migrate(db))
}

func TestSeedCreatesRolesAndAccounts(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Seed(db, plainHash))

	var roles int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM roles").Scan(&roles))
	assert.Equal(t, 2, roles)

	var role, digest string
	require.NoError(t, db.QueryRow(`
		SELECT r.name, u.password_hash
		FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.username = 'admin'`).Scan(&role, &digest))
	assert.Equal(t, "Admin", role)
	assert.Equal(t, "digest:admin1234", digest)

	require.NoError(t, db.QueryRow(`
		SELECT r.name FROM users u JOIN roles r ON r.id = u.role_id
		WHERE u.username = 'user'`).Scan(&role))
	assert.Equal(t, "User", role)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Seed(db, plainHash))
	require.NoError(t, Seed(db, plainHash))

	var users, roles int
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM users").Scan(&users))
	require.NoError(t, db.QueryRow("SELECT COUNT(1) FROM roles").Scan(&roles))
	assert.Equal(t, 2, users)
	assert.Equal(t, 2, roles)
}

func TestSeedLeavesExistingAccountsAlone(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Seed(db, plainHash))

	_, err := db.Exec("UPDATE users SET password_hash = 'changed' WHERE username = 'admin'")
	require.NoError(t, err)

	require.NoError(t, Seed(db, plainHash))

	var digest string
	require.NoError(t, db.QueryRow("SELECT password_hash FROM users WHERE username = 'admin'").Scan(&digest))
	assert.Equal(t, "changed", digest)
}
