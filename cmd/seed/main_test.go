package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roster/internal/db"
	"roster/internal/repository"
)

func TestSeed_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
users:
  - username: admin
    password: "1234"
projects:
  - seq: 1
    description: Alpha
employees:
  - psc: E2
  - psc: E1
    tagId: T1
    projectId: 1
`), 0o600))

	doc, err := readSeedFile(path)
	require.NoError(t, err)

	gormDB, err := db.NewMemory()
	require.NoError(t, err)
	creds := repository.NewCredentialRepository(gormDB)
	projects := repository.NewProjectRepository(gormDB)
	employees := repository.NewEmployeeRepository(gormDB)
	ctx := context.Background()

	stats, err := seed(ctx, creds, projects, employees, doc)
	require.NoError(t, err)
	assert.Equal(t, seedStats{users: 1, projects: 1, employees: 2}, stats)

	stats, err = seed(ctx, creds, projects, employees, doc)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.users)
	assert.Equal(t, 1, stats.skipped)

	matches, err := creds.FindMatching(ctx, "admin", "1234", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	rows, err := employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "E1", rows[0].PSC)
	assert.Equal(t, "T1", *rows[0].TagID)
	assert.Nil(t, rows[1].TagID)
}

func TestReadSeedFile_Errors(t *testing.T) {
	_, err := readSeedFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users: [\n"), 0o600))
	_, err = readSeedFile(path)
	assert.Error(t, err)
}
