package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"careslot/pkg/client"
	"careslot/pkg/logger"
)

// The sweeper is an external trigger: it periodically calls the bookings
// service sweep endpoint so the service itself stays free of schedulers.
func main() {
	log := logger.New(logger.Config{
		Level:   logger.INFO,
		Format:  logger.JSON,
		Service: "sweeper",
	})

	baseURL := os.Getenv("BOOKINGS_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	interval := 15 * time.Minute
	if raw := os.Getenv("SWEEP_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal("Invalid SWEEP_INTERVAL", "value", raw, "error", err)
		}
		interval = parsed
	}

	bookings := client.NewBookingClient(baseURL)
	if token := os.Getenv("SWEEP_TOKEN"); token != "" {
		// Admin-role JWT; the sweep endpoint rejects anything else when the
		// bookings service runs with JWT_SECRET set.
		bookings.SetBearerToken(token)
	}

	log.Info("Waiting for bookings service", "base_url", baseURL)
	if err := bookings.WaitForHealthy(2 * time.Minute); err != nil {
		log.Fatal("Bookings service never became healthy", "error", err)
	}

	log.Info("Starting sweep loop", "interval", interval)
	sweep(bookings, log)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			sweep(bookings, log)
		case sig := <-shutdown:
			log.Info("Shutdown signal received", "signal", sig)
			return
		}
	}
}

func sweep(bookings *client.BookingClient, log *logger.Logger) {
	resp, err := bookings.SweepStale()
	if err != nil {
		log.Error("Sweep request failed", "error", err)
		return
	}

	skipped, err := bookings.DecodeSweepResult(resp)
	if err != nil {
		log.Error("Could not decode sweep result", "status", resp.StatusCode, "error", err)
		return
	}

	log.Info("Sweep completed", "skipped", skipped)
}
