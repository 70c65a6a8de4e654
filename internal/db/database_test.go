package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMemory(t *testing.T) {
	gdb, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), DriverSQLite, "")
	assert.EqualError(t, err, "STORAGE_DSN is empty")

	_, err = Open(context.Background(), "mysql", "dsn")
	assert.EqualError(t, err, `unknown database driver "mysql"`)
}
