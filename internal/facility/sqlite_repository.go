package facility

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a Repository backed by a SQLite handle
// opened with db.OpenSQLite.
func NewSQLiteRepository(db *sql.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) List(ctx context.Context) ([]*Facility, error) {
	rows, err := squirrel.Select("id", "name", "hourly_rate", "description").
		From("facilities").
		OrderBy("id ASC").
		RunWith(r.db).
		QueryContext(ctx)
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

func (r *sqliteRepository) GetByID(ctx context.Context, id int64) (*Facility, error) {
	var f Facility
	err := squirrel.Select("id", "name", "hourly_rate", "description").
		From("facilities").
		Where(squirrel.Eq{"id": id}).
		RunWith(r.db).
		QueryRowContext(ctx).
		Scan(&f.ID, &f.Name, &f.HourlyRate, &f.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get facility failed: %w", err)
	}
	return &f, nil
}

func (r *sqliteRepository) SeedIfEmpty(ctx context.Context, facilities []*Facility) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin seed failed: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(1) FROM facilities").Scan(&count); err != nil {
		return false, fmt.Errorf("check facilities failed: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	for _, f := range facilities {
		res, err := squirrel.Insert("facilities").
			Columns("name", "hourly_rate", "description").
			Values(f.Name, f.HourlyRate, f.Description).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return false, fmt.Errorf("insert facility failed: %w", err)
		}
		if f.ID, err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("read facility id failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit seed failed: %w", err)
	}
	return true, nil
}
