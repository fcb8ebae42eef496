package main

import (
	"careslot/internal/bookings/events"
	"careslot/internal/bookings/handler"
	"careslot/internal/bookings/repository"
	"careslot/internal/bookings/service"
	"careslot/internal/bookings/validator"
	"careslot/pkg/app"
	"careslot/pkg/config"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	notifier, err := events.NewNotifier(cfg, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize booking notifier", "error", err)
	}
	defer notifier.Close()

	bookingService := initServices(cfg, notifier)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, cfg.Log, cfg.JWTSecret != ""))
	serverApp.Run()
}

func initServices(cfg *config.Config, notifier events.Notifier) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log, cfg.MaxCourseDurationDays)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	logRepo := repository.NewMongoDailyLogRepository(cfg)
	slotBlocks := repository.NewMongoSlotBlockReader(cfg)
	specialists := repository.NewMongoSpecialistReader(cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		logRepo,
		slotBlocks,
		specialists,
		notifier,
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
