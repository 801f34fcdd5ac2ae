package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // SQLite driver
)

// New creates a new database connection pool.
func New(dataSourceName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dataSourceName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	const sqlStmt = `
	CREATE TABLE IF NOT EXISTS roles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role_id INTEGER NOT NULL REFERENCES roles(id),
		profile_pic TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := db.Exec(sqlStmt)
	return err
}

// Seeder hashes passwords for seeded accounts. Kept as a function value so
// tests can swap in a cheap hasher.
type Seeder func(plaintext string) (string, error)

// Seed inserts the default roles and accounts if they are missing. It is
// idempotent and intended to run exactly once per process, right after
// Migrate.
func Seed(db *sql.DB, hash Seeder) error {
	roles := []string{"Admin", "User"}
	for _, name := range roles {
		if _, err := db.Exec("INSERT INTO roles(name) VALUES(?) ON CONFLICT(name) DO NOTHING", name); err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}

	accounts := []struct {
		username string
		password string
		role     string
	}{
		{"admin", "admin1234", "Admin"},
		{"user", "user1234", "User"},
	}

	for _, acct := range accounts {
		var exists int
		err := db.QueryRow("SELECT COUNT(1) FROM users WHERE username = ?", acct.username).Scan(&exists)
		if err != nil {
			return fmt.Errorf("seed lookup %s: %w", acct.username, err)
		}
		if exists > 0 {
			continue
		}

		digest, err := hash(acct.password)
		if err != nil {
			return fmt.Errorf("seed hash for %s: %w", acct.username, err)
		}

		_, err = db.Exec(
			"INSERT INTO users(username, password_hash, role_id) SELECT ?, ?, id FROM roles WHERE name = ?",
			acct.username, digest, acct.role,
		)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", acct.username, err)
		}
		log.Info().Str("username", acct.username).Str("role", acct.role).Msg("Seeded default account")
	}

	return nil
}
