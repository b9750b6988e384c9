package main

import (
	"snpr/internal/phenotypes/handler"
	"snpr/internal/phenotypes/repository"
	"snpr/internal/phenotypes/service"
	"snpr/internal/phenotypes/validator"
	"snpr/pkg/app"
	"snpr/pkg/config"
	"snpr/pkg/metrics"
	"snpr/pkg/variation"
)

const ServiceName = "phenotypes"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	m := metrics.New(ServiceName)

	cfg.Log.Info("Starting Phenotypes service")
	phenotypeService := initServices(cfg, m)
	serverApp := app.NewApplication(cfg, m)
	serverApp.SetApp(handler.NewPhenotypeHandler(phenotypeService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config, m *metrics.Metrics) service.PhenotypeService {
	var known variation.KnownVariations
	if cfg.KnownVariationsCache {
		known = variation.NewCache()
	}

	phenotypeService := service.NewPhenotypeService(
		repository.NewMongoPhenotypeRepository(cfg),
		repository.NewMongoUserPhenotypeRepository(cfg),
		validator.NewPhenotypeValidator(),
		known,
		m,
		cfg,
	)

	cfg.Log.Info("Phenotypes service initialized",
		"database", cfg.MongoDatabaseName,
		"known_variations_cache", cfg.KnownVariationsCache,
	)
	return phenotypeService
}
