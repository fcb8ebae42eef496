package main

import (
	"careslot/internal/schedules/handler"
	"careslot/internal/schedules/repository"
	"careslot/internal/schedules/service"
	"careslot/internal/schedules/validator"
	"careslot/pkg/app"
	"careslot/pkg/config"
)

const ServiceName = "schedules"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Schedules service")
	slotService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSlotHandler(slotService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.SlotService {
	slotValidator := validator.NewSlotValidator(cfg.Log)
	slotRepo := repository.NewMongoSlotRepository(cfg)
	slotService := service.NewSlotService(slotRepo, slotValidator, cfg)

	cfg.Log.Info("Slot service initialized", "database", cfg.MongoDatabaseName)
	return slotService
}
