package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/nekogravitycat/facility-reservations/internal/db"
)

type sqliteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a Repository backed by a SQLite handle opened
// with db.OpenSQLite. Transactions there begin IMMEDIATE, which gives the
// check-and-insert the same exclusivity the Postgres row lock does.
func NewSQLiteRepository(sqlDB *sql.DB) Repository {
	return &sqliteRepository{db: sqlDB}
}

var sqliteBookingColumns = []string{
	"b.id", "b.facility_id", "f.name", "b.name", "b.email",
	"b.start_time", "b.end_time", "b.created_at", "COALESCE(b.cancel_token, '')",
}

func (r *sqliteRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*Booking, error) {
	rows, err := query.RunWith(r.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var (
			b                        Booking
			start, end, createdMilli int64
		)
		if err := rows.Scan(
			&b.ID, &b.FacilityID, &b.FacilityName, &b.Name, &b.Email,
			&start, &end, &createdMilli, &b.CancelToken,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		b.StartTime = db.FromMillis(start)
		b.EndTime = db.FromMillis(end)
		b.CreatedAt = db.FromMillis(createdMilli)
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *sqliteRepository) ListByFacilityBetween(ctx context.Context, facilityID int64, from, to time.Time) ([]*Booking, error) {
	query := squirrel.Select(sqliteBookingColumns...).
		From("bookings b").
		Join("facilities f ON b.facility_id = f.id").
		Where(squirrel.Eq{"b.facility_id": facilityID}).
		Where(squirrel.Lt{"b.start_time": db.ToMillis(to)}).
		Where(squirrel.Gt{"b.end_time": db.ToMillis(from)}).
		OrderBy("b.start_time ASC")

	return r.list(ctx, query)
}

func (r *sqliteRepository) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	query := squirrel.Select(sqliteBookingColumns...).
		From("bookings b").
		Join("facilities f ON b.facility_id = f.id").
		Where(squirrel.Expr("lower(b.email) = lower(?)", email)).
		OrderBy("b.start_time ASC", "b.id ASC")

	return r.list(ctx, query)
}

func (r *sqliteRepository) CreateIfFree(ctx context.Context, b *Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create booking failed: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = squirrel.Select("1").
		From("facilities").
		Where(squirrel.Eq{"id": b.FacilityID}).
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrFacilityNotFound
		}
		return fmt.Errorf("check facility failed: %w", err)
	}

	var overlapping int
	err = squirrel.Select("COUNT(1)").
		From("bookings").
		Where(squirrel.Eq{"facility_id": b.FacilityID}).
		Where(squirrel.Lt{"start_time": db.ToMillis(b.EndTime)}).
		Where(squirrel.Gt{"end_time": db.ToMillis(b.StartTime)}).
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("check overlap failed: %w", err)
	}
	if overlapping > 0 {
		return ErrSlotOccupied
	}

	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	res, err := squirrel.Insert("bookings").
		Columns("facility_id", "name", "email", "start_time", "end_time", "created_at", "cancel_token").
		Values(b.FacilityID, b.Name, b.Email,
			db.ToMillis(b.StartTime), db.ToMillis(b.EndTime), db.ToMillis(createdAt), b.CancelToken).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: bookings.cancel_token") {
			return errTokenCollision
		}
		return fmt.Errorf("create booking failed: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read booking id failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking failed: %w", err)
	}

	b.ID = id
	b.CreatedAt = createdAt
	return nil
}

func (r *sqliteRepository) DeleteByIDAndEmail(ctx context.Context, id int64, email string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cancel booking failed: %w", err)
	}
	defer tx.Rollback()

	var stored string
	err = squirrel.Select("email").
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		RunWith(tx).
		QueryRowContext(ctx).
		Scan(&stored)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("get booking failed: %w", err)
	}
	if !strings.EqualFold(stored, email) {
		return ErrEmailMismatch
	}

	res, err := squirrel.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	} else if n == 0 {
		return ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cancel failed: %w", err)
	}
	return nil
}

func (r *sqliteRepository) DeleteByToken(ctx context.Context, token string) error {
	res, err := squirrel.Delete("bookings").
		Where(squirrel.Eq{"cancel_token": token}).
		RunWith(r.db).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if n == 0 {
		return ErrInvalidToken
	}
	return nil
}
