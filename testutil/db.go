// Package testutil provides shared helpers for database integration tests.
// Every helper that takes a *testing.T skips the test when TEST_DATABASE_URL
// is unset, so `go test ./...` stays green on machines without Postgres.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/travel-booking/backend/migrations"
)

// EnvDSN names the variable holding the test database URL.
const EnvDSN = "TEST_DATABASE_URL"

// NewPool opens a pool on the test database. It is closed when the test ends.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := requireDSN(t)

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

// NewTx begins a transaction on the test database and rolls it back when the
// test ends, so rows written through it never outlive the test.
func NewTx(t *testing.T) pgx.Tx {
	t.Helper()
	pool := NewPool(t)

	tx, err := pool.Begin(context.Background())
	if err != nil {
		t.Fatalf("testutil.NewTx: begin: %v", err)
	}
	// Registered after pool.Close, so it runs first.
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

// NewSQLDB opens a database/sql handle on the test database, for goose.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := openSQL(requireDSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// MustMigrate applies every pending migration to dsn and panics on failure.
// It is meant for TestMain, where no *testing.T exists.
func MustMigrate(dsn string) {
	db, err := openSQL(dsn)
	if err != nil {
		panic("testutil.MustMigrate: " + err.Error())
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		panic("testutil.MustMigrate: create provider: " + err.Error())
	}
	if _, err := provider.Up(context.Background()); err != nil {
		panic("testutil.MustMigrate: up: " + err.Error())
	}
}

func openSQL(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skip(EnvDSN + " not set; skipping integration test")
	}
	return dsn
}
