package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nekogravitycat/facility-reservations/internal/booking"
	bookingHttp "github.com/nekogravitycat/facility-reservations/internal/booking/http"
	"github.com/nekogravitycat/facility-reservations/internal/facility"
	facHttp "github.com/nekogravitycat/facility-reservations/internal/facility/http"
	"github.com/nekogravitycat/facility-reservations/internal/metrics"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds everything NewRouter needs.
type Config struct {
	IsProduction    bool
	ProdOrigins     []string
	FacilityService facility.Service
	BookingService  booking.Service
	Store           Pinger
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Metrics) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	// - RequestMetrics: Records request latency for Prometheus.
	metrics.Register()
	r.Use(gin.Logger(), gin.Recovery(), RequestMetrics())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	if cfg.IsProduction && len(cfg.ProdOrigins) > 0 {
		config.AllowOrigins = cfg.ProdOrigins
	} else {
		config.AllowOrigins = []string{
			"http://localhost:5173", // Frontend dev server
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type"}
	r.Use(cors.New(config))

	r.GET("/healthz", healthHandler(cfg.Store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	facHandler := facHttp.NewHandler(cfg.FacilityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		facHttp.RegisterRoutes(v1, facHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler)
	}

	return r
}

func healthHandler(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
