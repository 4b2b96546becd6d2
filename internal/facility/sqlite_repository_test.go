package facility

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/facility-reservations/internal/db"
)

func newSQLiteRepo(t *testing.T) Repository {
	t.Helper()
	ctx := context.Background()

	sqlDB, err := db.OpenSQLite(ctx, filepath.Join(t.TempDir(), "facilities.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.MigrateSQLite(ctx, sqlDB))

	return NewSQLiteRepository(sqlDB)
}

func TestSQLiteRepository_SeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	empty, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	seed := []*Facility{
		{Name: "Court A", HourlyRate: 12.5, Description: "First"},
		{Name: "Court B", HourlyRate: 8, Description: "Second"},
	}
	inserted, err := repo.SeedIfEmpty(ctx, seed)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, seed[0].ID)
	assert.NotEqual(t, seed[0].ID, seed[1].ID)

	again, err := repo.SeedIfEmpty(ctx, []*Facility{{Name: "Court C"}})
	require.NoError(t, err)
	assert.False(t, again, "a populated table is left alone")

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Court A", list[0].Name)
	assert.Equal(t, 12.5, list[0].HourlyRate)
	assert.Equal(t, "Second", list[1].Description)
}

func TestSQLiteRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepo(t)

	seed := []*Facility{{Name: "Court A", HourlyRate: 10}}
	_, err := repo.SeedIfEmpty(ctx, seed)
	require.NoError(t, err)

	f, err := repo.GetByID(ctx, seed[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Court A", f.Name)

	_, err = repo.GetByID(ctx, seed[0].ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}
