package facility

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	List(ctx context.Context) ([]*Facility, error)
	GetByID(ctx context.Context, id int64) (*Facility, error)

	// SeedIfEmpty inserts the given facilities only when the table has no rows.
	// It reports whether anything was inserted; IDs are populated on insert.
	SeedIfEmpty(ctx context.Context, facilities []*Facility) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var pgsql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) List(ctx context.Context) ([]*Facility, error) {
	query, args, err := pgsql.Select("id", "name", "hourly_rate", "description").
		From("public.facilities").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list facilities query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list facilities failed: %w", err)
	}
	defer rows.Close()

	var result []*Facility
	for rows.Next() {
		var f Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.HourlyRate, &f.Description); err != nil {
			return nil, fmt.Errorf("scan facility failed: %w", err)
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list facilities failed: %w", err)
	}
	return result, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Facility, error) {
	query, args, err := pgsql.Select("id", "name", "hourly_rate", "description").
		From("public.facilities").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get facility query failed: %w", err)
	}

	var f Facility
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&f.ID, &f.Name, &f.HourlyRate, &f.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get facility failed: %w", err)
	}
	return &f, nil
}

func (r *pgxRepository) SeedIfEmpty(ctx context.Context, facilities []*Facility) (bool, error) {
	seeded := false
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Concurrent first starts must not both seed.
		if _, err := tx.Exec(ctx, "LOCK TABLE public.facilities IN EXCLUSIVE MODE"); err != nil {
			return fmt.Errorf("lock facilities failed: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM public.facilities)").Scan(&exists); err != nil {
			return fmt.Errorf("check facilities failed: %w", err)
		}
		if exists {
			return nil
		}

		for _, f := range facilities {
			query, args, err := pgsql.Insert("public.facilities").
				Columns("name", "hourly_rate", "description").
				Values(f.Name, f.HourlyRate, f.Description).
				Suffix("RETURNING id").
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert facility query failed: %w", err)
			}
			if err := tx.QueryRow(ctx, query, args...).Scan(&f.ID); err != nil {
				return fmt.Errorf("insert facility failed: %w", err)
			}
		}
		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}
