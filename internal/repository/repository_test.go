package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"roster/internal/db"
	"roster/internal/model"
)

func strPtr(s string) *string { return &s }
func intPtr(i int64) *int64   { return &i }

// newTestDB creates a migrated in-memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gormDB, err := db.NewMemory()
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gormDB
}

func TestEmployeeRepository_ListOrderedByPSC(t *testing.T) {
	gormDB := newTestDB(t)
	repo := NewEmployeeRepository(gormDB)
	ctx := context.Background()

	for _, psc := range []string{"E3", "E1", "E2"} {
		require.NoError(t, repo.Upsert(ctx, &model.Employee{PSC: psc}))
	}

	employees, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 3)
	assert.Equal(t, "E1", employees[0].PSC)
	assert.Equal(t, "E2", employees[1].PSC)
	assert.Equal(t, "E3", employees[2].PSC)
}

func TestEmployeeRepository_ListEmptyIsNotNil(t *testing.T) {
	repo := NewEmployeeRepository(newTestDB(t))

	employees, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, employees)
	assert.Empty(t, employees)
}

func TestEmployeeRepository_ListIsIdempotent(t *testing.T) {
	repo := NewEmployeeRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &model.Employee{PSC: "E1", TagID: strPtr("T1"), ProjectID: intPtr(1)}))
	require.NoError(t, repo.Upsert(ctx, &model.Employee{PSC: "E2"}))

	first, err := repo.List(ctx)
	require.NoError(t, err)
	second, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmployeeRepository_Update(t *testing.T) {
	repo := NewEmployeeRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &model.Employee{PSC: "E1", TagID: strPtr("T1"), ProjectID: intPtr(1)}))

	t.Run("sets both columns", func(t *testing.T) {
		n, err := repo.Update(ctx, "E1", strPtr("T9"), intPtr(2))
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		employees, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, employees, 1)
		assert.Equal(t, "T9", *employees[0].TagID)
		assert.Equal(t, int64(2), *employees[0].ProjectID)
	})

	t.Run("nil values become null", func(t *testing.T) {
		n, err := repo.Update(ctx, "E1", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		employees, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Nil(t, employees[0].TagID)
		assert.Nil(t, employees[0].ProjectID)
	})

	t.Run("unknown psc affects nothing", func(t *testing.T) {
		n, err := repo.Update(ctx, "NOPE", strPtr("x"), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})
}

func TestProjectRepository_ListOrderedByDescription(t *testing.T) {
	repo := NewProjectRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Upsert(ctx, &model.Project{Seq: 1, Description: "Gamma"}))
	require.NoError(t, repo.Upsert(ctx, &model.Project{Seq: 2, Description: "Alpha"}))
	require.NoError(t, repo.Upsert(ctx, &model.Project{Seq: 3, Description: "Beta"}))

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, []string{projects[0].Description, projects[1].Description, projects[2].Description})
	assert.Equal(t, int64(2), projects[0].Seq)
}

func TestCredentialRepository_FindMatching(t *testing.T) {
	repo := NewCredentialRepository(newTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &model.Credential{UserID: "admin", Password: "1234"}))

	tests := []struct {
		name     string
		user     string
		password string
		want     int
	}{
		{"exact match", "admin", "1234", 1},
		{"wrong password", "admin", "12345", 0},
		{"unknown user", "root", "1234", 0},
		{"password with padding", "admin", "1234 ", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := repo.FindMatching(ctx, tt.user, tt.password, 2)
			require.NoError(t, err)
			assert.Len(t, creds, tt.want)
		})
	}
}

func TestRepositories_ClosedStoreErrors(t *testing.T) {
	gormDB := newTestDB(t)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	ctx := context.Background()

	_, err = NewEmployeeRepository(gormDB).List(ctx)
	assert.Error(t, err)
	_, err = NewProjectRepository(gormDB).List(ctx)
	assert.Error(t, err)
	_, err = NewEmployeeRepository(gormDB).Update(ctx, "E1", nil, nil)
	assert.Error(t, err)
	_, err = NewCredentialRepository(gormDB).FindMatching(ctx, "a", "b", 2)
	assert.Error(t, err)
}
