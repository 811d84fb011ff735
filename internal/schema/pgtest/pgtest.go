//go:build integration

// Package pgtest starts a disposable PostgreSQL container with the service
// schema applied, for repository integration tests.
package pgtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/verum/internal/schema"
)

const image = "postgres:17-alpine"

// Start runs a PostgreSQL container, migrates it, and returns an open pool.
// The container and pool are released when t completes.
func Start(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	ctr, err := postgres.Run(ctx, image,
		postgres.WithDatabase("verum_test"),
		postgres.WithUsername("verum"),
		postgres.WithPassword("verum"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "connection string")
	require.NoError(t, schema.Up(dsn), "apply migrations")

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err, "open database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.PingContext(ctx), "ping database")
	return db
}
