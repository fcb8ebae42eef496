package main

import (
	"careslot/internal/specialists/handler"
	"careslot/internal/specialists/repository"
	"careslot/internal/specialists/service"
	"careslot/internal/specialists/validator"
	"careslot/pkg/app"
	"careslot/pkg/config"
	"careslot/pkg/contracts"
)

const ServiceName = "specialists"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Specialists service")
	specialistService, payoutService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(contracts.Multi(
		handler.NewSpecialistHandler(specialistService, cfg.Log),
		handler.NewPayoutHandler(payoutService, cfg.Log, cfg.JWTSecret != ""),
	))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.SpecialistService, service.PayoutService) {
	specialistValidator := validator.NewSpecialistValidator(cfg.Log)
	specialistRepo := repository.NewMongoSpecialistRepository(cfg)
	clinicRepo := repository.NewMongoClinicRepository(cfg)
	reviewRepo := repository.NewMongoReviewRepository(cfg)
	payoutRepo := repository.NewMongoPayoutRepository(cfg)

	specialistService := service.NewSpecialistService(
		specialistRepo,
		clinicRepo,
		reviewRepo,
		specialistValidator,
		cfg,
	)
	payoutService := service.NewPayoutService(payoutRepo, specialistValidator, cfg)

	cfg.Log.Info("Specialist services initialized", "database", cfg.MongoDatabaseName)
	return specialistService, payoutService
}
