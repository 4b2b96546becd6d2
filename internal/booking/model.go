package booking

import (
	"time"

	"github.com/nekogravitycat/facility-reservations/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrSlotOccupied     = apperror.Conflict("slot occupied")
	ErrEmailMismatch    = apperror.Forbidden("email mismatch")
	ErrInvalidToken     = apperror.NotFound("invalid or already used token")
	ErrFacilityNotFound = apperror.NotFound("facility not found")
	ErrInvalidDate      = apperror.Validation("date must be formatted as YYYY-MM-DD")
	ErrInvalidHour      = apperror.Validation("hour must be a whole hour between 09:00 and 20:00")
	ErrMissingName      = apperror.Validation("name is required")
	ErrMissingEmail     = apperror.Validation("email is required")
	ErrMissingToken     = apperror.Validation("token is required")
	ErrInvalidID        = apperror.Validation("invalid booking id")
	ErrStartTimePast    = apperror.Validation("cannot create booking in the past")
)

const (
	// Duration is the fixed length of every booking.
	Duration = time.Hour

	// OpeningHour and ClosingHour bound the bookable slots; both are inclusive
	// slot start hours.
	OpeningHour = 9
	ClosingHour = 20

	DefaultHorizonDays = 30
	MaxHorizonDays     = 365

	DateLayout = "2006-01-02"
	HourLayout = "15:04"
)

// Booking is a one-hour reservation of a facility.
type Booking struct {
	ID           int64
	FacilityID   int64
	FacilityName string // Populated by listing queries only
	Name         string
	Email        string
	StartTime    time.Time
	EndTime      time.Time
	CreatedAt    time.Time
	CancelToken  string // Empty for legacy rows
}

// Overlaps reports whether b intersects the half-open interval [start, end).
// Touching endpoints do not overlap.
func (b *Booking) Overlaps(start, end time.Time) bool {
	return b.StartTime.Before(end) && b.EndTime.After(start)
}

// Covers reports whether instant t lies within [StartTime, EndTime).
func (b *Booking) Covers(t time.Time) bool {
	return !t.Before(b.StartTime) && t.Before(b.EndTime)
}

// Slot is one hour of a facility's day.
type Slot struct {
	Hour     string // "HH:00"
	Start    time.Time
	Occupied bool
}
