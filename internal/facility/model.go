package facility

import (
	"github.com/nekogravitycat/facility-reservations/internal/pkg/apperror"
)

var (
	ErrNotFound  = apperror.NotFound("facility not found")
	ErrInvalidID = apperror.Validation("invalid facility id")
)

// Facility represents a reservable venue (e.g., Tennis Court, Padel Court).
// Facilities are seeded once and never changed by normal operation.
type Facility struct {
	ID          int64
	Name        string
	HourlyRate  float64
	Description string
}
