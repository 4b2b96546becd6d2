package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// ListByFacilityBetween returns bookings of the facility that intersect [from, to),
	// ordered by start time.
	ListByFacilityBetween(ctx context.Context, facilityID int64, from, to time.Time) ([]*Booking, error)

	// ListByEmail returns the bookings whose email matches case-insensitively,
	// ordered by start time ascending.
	ListByEmail(ctx context.Context, email string) ([]*Booking, error)

	// CreateIfFree inserts b unless another booking of the same facility
	// overlaps [b.StartTime, b.EndTime). The check and the insert run in one
	// transaction that holds the facility's write lock, so two concurrent
	// calls for the same slot cannot both succeed.
	// Returns ErrSlotOccupied or ErrFacilityNotFound on the expected failures.
	CreateIfFree(ctx context.Context, b *Booking) error

	// DeleteByIDAndEmail deletes the booking when its email matches
	// case-insensitively. Returns ErrNotFound or ErrEmailMismatch.
	DeleteByIDAndEmail(ctx context.Context, id int64, email string) error

	// DeleteByToken deletes the booking holding token. Returns ErrInvalidToken
	// when no live booking has it.
	DeleteByToken(ctx context.Context, token string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var pgsql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.facility_id", "f.name", "b.name", "b.email",
	"b.start_time", "b.end_time", "b.created_at", "COALESCE(b.cancel_token, '')",
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.FacilityID, &b.FacilityName, &b.Name, &b.Email,
		&b.StartTime, &b.EndTime, &b.CreatedAt, &b.CancelToken,
	); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*Booking, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) ListByFacilityBetween(ctx context.Context, facilityID int64, from, to time.Time) ([]*Booking, error) {
	query := pgsql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.facilities f ON b.facility_id = f.id").
		Where(squirrel.Eq{"b.facility_id": facilityID}).
		Where(squirrel.Lt{"b.start_time": to}).
		Where(squirrel.Gt{"b.end_time": from}).
		OrderBy("b.start_time ASC")

	return r.list(ctx, query)
}

func (r *pgxRepository) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	query := pgsql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.facilities f ON b.facility_id = f.id").
		Where(squirrel.Expr("lower(b.email) = lower(?)", email)).
		OrderBy("b.start_time ASC", "b.id ASC")

	return r.list(ctx, query)
}

func (r *pgxRepository) CreateIfFree(ctx context.Context, b *Booking) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// 1. Lock the facility row; concurrent creators for the same
		// facility queue here until this transaction ends.
		lockSQL, lockArgs, err := pgsql.Select("id").
			From("public.facilities").
			Where(squirrel.Eq{"id": b.FacilityID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("build lock facility query failed: %w", err)
		}
		var locked int64
		if err := tx.QueryRow(ctx, lockSQL, lockArgs...).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrFacilityNotFound
			}
			return fmt.Errorf("lock facility failed: %w", err)
		}

		// 2. Overlap: ExistingStart < NewEnd AND ExistingEnd > NewStart
		overlapSQL, overlapArgs, err := pgsql.Select("1").
			From("public.bookings").
			Where(squirrel.Eq{"facility_id": b.FacilityID}).
			Where(squirrel.Lt{"start_time": b.EndTime}).
			Where(squirrel.Gt{"end_time": b.StartTime}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build check overlap query failed: %w", err)
		}
		var exists bool
		if err := tx.QueryRow(ctx, "SELECT EXISTS ("+overlapSQL+")", overlapArgs...).Scan(&exists); err != nil {
			return fmt.Errorf("check overlap failed: %w", err)
		}
		if exists {
			return ErrSlotOccupied
		}

		// 3. Insert
		insertSQL, insertArgs, err := pgsql.Insert("public.bookings").
			Columns("facility_id", "name", "email", "start_time", "end_time", "cancel_token").
			Values(b.FacilityID, b.Name, b.Email, b.StartTime, b.EndTime, b.CancelToken).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking query failed: %w", err)
		}
		if err := tx.QueryRow(ctx, insertSQL, insertArgs...).Scan(&b.ID, &b.CreatedAt); err != nil {
			return fmt.Errorf("create booking failed: %w", err)
		}
		return nil
	})
	return classifyPgError(err)
}

func (r *pgxRepository) DeleteByIDAndEmail(ctx context.Context, id int64, email string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := pgsql.Select("email").
			From("public.bookings").
			Where(squirrel.Eq{"id": id}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("build get booking query failed: %w", err)
		}

		var stored string
		if err := tx.QueryRow(ctx, query, args...).Scan(&stored); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("get booking failed: %w", err)
		}
		if !strings.EqualFold(stored, email) {
			return ErrEmailMismatch
		}

		query, args, err = pgsql.Delete("public.bookings").
			Where(squirrel.Eq{"id": id}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete booking query failed: %w", err)
		}
		ct, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("delete booking failed: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *pgxRepository) DeleteByToken(ctx context.Context, token string) error {
	query, args, err := pgsql.Delete("public.bookings").
		Where(squirrel.Eq{"cancel_token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrInvalidToken
	}
	return nil
}

// classifyPgError maps constraint violations that slipped past the
// transactional checks onto the domain errors.
func classifyPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.ExclusionViolation:
		return ErrSlotOccupied
	case pgerrcode.ForeignKeyViolation:
		return ErrFacilityNotFound
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == "bookings_cancel_token_key" {
			return errTokenCollision
		}
	}
	return err
}
