package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrations(t *testing.T) {
	for _, dialect := range []string{"postgres", "sqlite"} {
		t.Run(dialect, func(t *testing.T) {
			migrations, err := loadMigrations(dialect)
			require.NoError(t, err)
			require.NotEmpty(t, migrations)
			assert.Equal(t, "001_init.sql", migrations[0].name)
			assert.Contains(t, migrations[0].sql, "bookings")
		})
	}

	_, err := loadMigrations("mysql")
	assert.Error(t, err)
}

func TestMigrateSQLiteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, MigrateSQLite(ctx, sqlDB))
	require.NoError(t, MigrateSQLite(ctx, sqlDB), "re-running must be a no-op")

	var applied int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "SELECT COUNT(1) FROM schema_migrations").Scan(&applied))
	migrations, err := loadMigrations("sqlite")
	require.NoError(t, err)
	assert.Equal(t, len(migrations), applied)

	var fk int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestSQLiteRejectsOrphanBooking(t *testing.T) {
	ctx := context.Background()
	sqlDB, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer sqlDB.Close()
	require.NoError(t, MigrateSQLite(ctx, sqlDB))

	_, err = sqlDB.ExecContext(ctx,
		`INSERT INTO bookings (facility_id, name, email, start_time, end_time, created_at, cancel_token)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		42, "n", "e@x.com", 0, 3600000, 0, "tok")
	assert.Error(t, err)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	assert.Error(t, err)
}

func TestMillisRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	in := time.Date(2026, 3, 1, 10, 0, 0, 123_000_000, loc)

	out := FromMillis(ToMillis(in))
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())
}
