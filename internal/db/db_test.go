package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roster/internal/config"
)

func TestNewMemory_CreatesTables(t *testing.T) {
	gormDB, err := NewMemory()
	require.NoError(t, err)

	for _, table := range []string{"tblEmployee", "tblProjects", "tblUsers"} {
		assert.True(t, gormDB.Migrator().HasTable(table), "table %s not found", table)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.Config{DBDriver: "oracle"})
	assert.Error(t, err)
}

func TestOpen_SQLite(t *testing.T) {
	gormDB, err := Open(&config.Config{DBDriver: "sqlite", SQLitePath: MemoryPath})
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))
	assert.True(t, gormDB.Migrator().HasTable("tblEmployee"))
}
