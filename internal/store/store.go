// Package store opens the schedule storage and hands out its repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/facility-reservations/internal/booking"
	"github.com/nekogravitycat/facility-reservations/internal/db"
	"github.com/nekogravitycat/facility-reservations/internal/facility"
)

// Store owns the database handle behind the facility and booking repositories.
// It is created once by the entry point and closed on shutdown.
type Store struct {
	Facilities facility.Repository
	Bookings   booking.Repository
	Backend    string

	ping  func(ctx context.Context) error
	close func()
}

const (
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// IsPostgresDSN reports whether dsn addresses a Postgres server rather than a SQLite file.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// Open connects to the backend selected by dsn and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if IsPostgresDSN(dsn) {
		pool, err := db.NewPool(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to migrate postgres: %w", err)
		}
		return NewPostgres(pool), nil
	}

	sqlDB, err := db.OpenSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateSQLite(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate sqlite: %w", err)
	}
	return NewSQLite(sqlDB), nil
}

// NewPostgres wraps an already migrated pool.
func NewPostgres(pool *pgxpool.Pool) *Store {
	return &Store{
		Facilities: facility.NewPgxRepository(pool),
		Bookings:   booking.NewPgxRepository(pool),
		Backend:    BackendPostgres,
		ping:       pool.Ping,
		close:      pool.Close,
	}
}

// NewSQLite wraps an already migrated SQLite handle.
func NewSQLite(sqlDB *sql.DB) *Store {
	return &Store{
		Facilities: facility.NewSQLiteRepository(sqlDB),
		Bookings:   booking.NewSQLiteRepository(sqlDB),
		Backend:    BackendSQLite,
		ping:       sqlDB.PingContext,
		close:      func() { _ = sqlDB.Close() },
	}
}

// Ping checks that the backing database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.ping == nil {
		return fmt.Errorf("store is not configured")
	}
	return s.ping(ctx)
}

// Close releases the database handle. It is safe to call on a nil Store.
func (s *Store) Close() {
	if s == nil || s.close == nil {
		return
	}
	s.close()
}
