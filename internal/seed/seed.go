// Package seed fills an empty store with the demo facilities and bookings.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/nekogravitycat/facility-reservations/internal/booking"
	"github.com/nekogravitycat/facility-reservations/internal/facility"
)

// Facilities returns the four facilities every new store starts with.
func Facilities() []*facility.Facility {
	return []*facility.Facility{
		{Name: "Football Pitch", HourlyRate: 20.0, Description: "Full-size 11-a-side pitch"},
		{Name: "Tennis Court", HourlyRate: 10.0, Description: "Professional hard court"},
		{Name: "Padel Court", HourlyRate: 10.0, Description: "Glass-walled padel court"},
		{Name: "Basketball Court", HourlyRate: 15.0, Description: "Indoor basketball court"},
	}
}

type demoBooking struct {
	facility int // index into Facilities()
	name     string
	email    string
	dayDelta int
	hour     int
}

var demoBookings = []demoBooking{
	{facility: 0, name: "Demo Player", email: "demo@reservations.local", dayDelta: 1, hour: 10},
	{facility: 1, name: "Demo User", email: "user@example.com", dayDelta: 2, hour: 12},
	{facility: 2, name: "Demo Player", email: "demo@reservations.local", dayDelta: 1, hour: 15},
}

type Options struct {
	DemoBookings bool
	Now          time.Time
	Location     *time.Location
}

// Run seeds facilities when the store has none, and then the demo bookings
// on future dates when requested. It reports whether seeding happened.
func Run(ctx context.Context, facilities facility.Repository, bookings booking.Repository, opts Options) (bool, error) {
	seeded := Facilities()
	ok, err := facilities.SeedIfEmpty(ctx, seeded)
	if err != nil {
		return false, fmt.Errorf("seed facilities: %w", err)
	}
	if !ok || !opts.DemoBookings {
		return ok, nil
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	today, _ := booking.DayBounds(now, loc)

	for _, d := range demoBookings {
		y, m, day := today.AddDate(0, 0, d.dayDelta).Date()
		start := time.Date(y, m, day, d.hour, 0, 0, 0, loc)
		b := &booking.Booking{
			FacilityID:  seeded[d.facility].ID,
			Name:        d.name,
			Email:       d.email,
			StartTime:   start,
			EndTime:     start.Add(booking.Duration),
			CancelToken: booking.NewCancelToken(),
		}
		if err := bookings.CreateIfFree(ctx, b); err != nil {
			return true, fmt.Errorf("seed booking for facility %d: %w", b.FacilityID, err)
		}
	}
	return true, nil
}
