// Package dbtest starts a throwaway Postgres container for integration tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/vietanh2810/event-attendance-api/internal/db"
)

const (
	password = "attendance"
	database = "attendance_test"
)

// StartPostgres runs postgres:16-alpine, migrates it and returns a handle.
// The test is skipped under -short or when Docker is not reachable.
func StartPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in -short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}

	resource, err := pool.Run("postgres", "16-alpine", []string{
		"POSTGRES_PASSWORD=" + password,
		"POSTGRES_DB=" + database,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("host=localhost port=%s user=postgres password=%s dbname=%s sslmode=disable",
		resource.GetPort("5432/tcp"), password, database)

	var conn *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var err error
		conn, err = db.OpenPostgresWithURL(dsn)
		return err
	}))

	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return conn
}
