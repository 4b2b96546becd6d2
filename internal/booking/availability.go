package booking

import (
	"fmt"
	"time"
)

// DayBounds returns local midnight of day and of the following day in loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// CalculateAvailability lays out one slot per whole hour from OpeningHour to
// ClosingHour on day. A slot is occupied when any booking covers its start
// instant, so bookings that begin mid-hour or span several hours are handled
// the same way as whole-hour ones.
func CalculateAvailability(day time.Time, loc *time.Location, bookings []*Booking) []Slot {
	midnight, _ := DayBounds(day, loc)
	y, m, d := midnight.Date()

	slots := make([]Slot, 0, ClosingHour-OpeningHour+1)
	for h := OpeningHour; h <= ClosingHour; h++ {
		at := time.Date(y, m, d, h, 0, 0, 0, loc)
		occupied := false
		for _, b := range bookings {
			if b.Covers(at) {
				occupied = true
				break
			}
		}
		slots = append(slots, Slot{
			Hour:     fmt.Sprintf("%02d:00", h),
			Start:    at,
			Occupied: occupied,
		})
	}
	return slots
}

// UpcomingDates returns days consecutive calendar dates starting with the day
// that contains now, each at local midnight in loc.
func UpcomingDates(now time.Time, loc *time.Location, days int) []time.Time {
	if days <= 0 {
		days = DefaultHorizonDays
	}
	if days > MaxHorizonDays {
		days = MaxHorizonDays
	}

	today, _ := DayBounds(now, loc)
	dates := make([]time.Time, days)
	for i := range dates {
		dates[i] = today.AddDate(0, 0, i)
	}
	return dates
}

// ParseDate parses a YYYY-MM-DD calendar date as local midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// SlotStart combines a calendar date and an "HH:MM" hour into the start
// instant of a booking. Only whole hours inside the operating window are valid.
func SlotStart(date, hour string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}

	hm, err := time.Parse(HourLayout, hour)
	if err != nil || hm.Minute() != 0 {
		return time.Time{}, ErrInvalidHour
	}
	if hm.Hour() < OpeningHour || hm.Hour() > ClosingHour {
		return time.Time{}, ErrInvalidHour
	}

	y, m, d := day.Date()
	return time.Date(y, m, d, hm.Hour(), 0, 0, 0, loc), nil
}
