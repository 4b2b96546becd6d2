package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/facility-reservations/internal/facility"
)

type CreateRequest struct {
	FacilityID int64
	Name       string
	Email      string
	Date       string // YYYY-MM-DD
	Hour       string // HH:MM, whole hours only
}

type Service interface {
	// ListAvailableDates returns the next days calendar dates starting today.
	// days <= 0 selects DefaultHorizonDays.
	ListAvailableDates(days int) []time.Time
	GetAvailability(ctx context.Context, facilityID int64, date string) ([]Slot, error)
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	CancelByEmail(ctx context.Context, id int64, email string) error
	CancelByToken(ctx context.Context, token string) error
	ListByEmail(ctx context.Context, email string) ([]*Booking, error)
}

type service struct {
	repo       Repository
	facService facility.Service
	loc        *time.Location
	now        func() time.Time
}

type Option func(*service)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithLocation sets the zone dates and hours are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewService(repo Repository, facService facility.Service, opts ...Option) Service {
	s := &service{
		repo:       repo,
		facService: facService,
		loc:        time.Local,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requireFacility maps facility lookups onto booking errors.
func (s *service) requireFacility(ctx context.Context, id int64) error {
	if _, err := s.facService.GetByID(ctx, id); err != nil {
		switch {
		case errors.Is(err, facility.ErrNotFound), errors.Is(err, facility.ErrInvalidID):
			return ErrFacilityNotFound
		default:
			return err
		}
	}
	return nil
}

func (s *service) ListAvailableDates(days int) []time.Time {
	return UpcomingDates(s.now(), s.loc, days)
}

func (s *service) GetAvailability(ctx context.Context, facilityID int64, date string) ([]Slot, error) {
	day, err := ParseDate(date, s.loc)
	if err != nil {
		return nil, err
	}
	if err := s.requireFacility(ctx, facilityID); err != nil {
		return nil, err
	}

	from, to := DayBounds(day, s.loc)
	bookings, err := s.repo.ListByFacilityBetween(ctx, facilityID, from, to)
	if err != nil {
		return nil, err
	}
	return CalculateAvailability(day, s.loc, bookings), nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Validate input
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" {
		return nil, ErrMissingName
	}
	if email == "" {
		return nil, ErrMissingEmail
	}
	if req.FacilityID < 1 {
		return nil, ErrFacilityNotFound
	}

	start, err := SlotStart(req.Date, req.Hour, s.loc)
	if err != nil {
		return nil, err
	}
	if start.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	// 2. Check-and-insert, atomically in the repository
	b := &Booking{
		FacilityID: req.FacilityID,
		Name:       name,
		Email:      email,
		StartTime:  start,
		EndTime:    start.Add(Duration),
	}
	for attempt := 0; ; attempt++ {
		b.CancelToken = NewCancelToken()
		err = s.repo.CreateIfFree(ctx, b)
		if !errors.Is(err, errTokenCollision) || attempt+1 >= maxTokenAttempts {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) CancelByEmail(ctx context.Context, id int64, email string) error {
	if id < 1 {
		return ErrNotFound
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrMissingEmail
	}
	return s.repo.DeleteByIDAndEmail(ctx, id, email)
}

// CancelByToken deletes the booking holding token. A token that never existed
// and one that was already used both yield ErrInvalidToken.
func (s *service) CancelByToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingToken
	}
	return s.repo.DeleteByToken(ctx, token)
}

func (s *service) ListByEmail(ctx context.Context, email string) ([]*Booking, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	return s.repo.ListByEmail(ctx, email)
}
