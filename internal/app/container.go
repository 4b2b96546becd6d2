package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/facility-reservations/internal/api"
	"github.com/nekogravitycat/facility-reservations/internal/booking"
	"github.com/nekogravitycat/facility-reservations/internal/facility"
	"github.com/nekogravitycat/facility-reservations/internal/store"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	Store        *store.Store
	Location     *time.Location
	Now          func() time.Time // Optional, defaults to time.Now
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router          *gin.Engine
	FacilityService facility.Service
	BookingService  booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Facility Module
	facService := facility.NewService(cfg.Store.Facilities)

	// Booking Module
	opts := []booking.Option{booking.WithLocation(cfg.Location)}
	if cfg.Now != nil {
		opts = append(opts, booking.WithClock(cfg.Now))
	}
	bookingService := booking.NewService(cfg.Store.Bookings, facService, opts...)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		FacilityService: facService,
		BookingService:  bookingService,
		Store:           cfg.Store,
	})

	return &Container{
		Router:          router,
		FacilityService: facService,
		BookingService:  bookingService,
	}
}
