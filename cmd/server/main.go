package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/nekogravitycat/facility-reservations/internal/app"
	"github.com/nekogravitycat/facility-reservations/internal/config"
	"github.com/nekogravitycat/facility-reservations/internal/seed"
	"github.com/nekogravitycat/facility-reservations/internal/store"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Open store (runs migrations)
	st, err := store.Open(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()
	log.Printf("using %s store", st.Backend)

	// Seed on first initialization
	seeded, err := seed.Run(ctx, st.Facilities, st.Bookings, seed.Options{
		DemoBookings: cfg.SeedDemoData,
		Location:     cfg.Location,
	})
	if err != nil {
		log.Fatalf("failed to seed store: %v", err)
	}
	if seeded {
		log.Println("seeded facilities")
	}

	container := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		Store:        st,
		Location:     cfg.Location,
	})

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}
