package main

import (
	"context"

	"snpr/internal/genotypes/handler"
	"snpr/internal/genotypes/repository"
	"snpr/internal/genotypes/service"
	"snpr/internal/genotypes/validator"
	"snpr/pkg/app"
	"snpr/pkg/blob"
	"snpr/pkg/blob/factory"
	"snpr/pkg/config"
	"snpr/pkg/kafka"
	kafka_config "snpr/pkg/kafka/config"
	kafka_middleware "snpr/pkg/kafka/middleware"
	"snpr/pkg/metrics"
	"snpr/pkg/middleware"
)

const ServiceName = "genotypes"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	m := metrics.New(ServiceName)

	cfg.Log.Info("Starting Genotypes service")

	store, err := factory.Open(context.Background(), cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to open blob store", "driver", cfg.BlobDriver, "error", err)
	}

	producer := initProducer(cfg, m)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close kafka producer", "error", err)
		}
	}()

	genotypeService := initServices(cfg, store, producer)
	serverApp := app.NewApplication(cfg, m)
	serverApp.SetApp(
		handler.NewGenotypeHandler(genotypeService, cfg.Log),
		app.WithContentTypes(middleware.ContentTypeMultipart),
		app.WithMaxRequestSize(int64(cfg.MaxUploadSize)),
	)
	serverApp.Run()
}

func initProducer(cfg *config.Config, m *metrics.Metrics) *kafka.Producer {
	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kcfg, cfg.GenotypeTopic, cfg.GenotypeDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create kafka producer", "error", err)
	}
	if kcfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware(m))
	}
	return producer
}

func initServices(cfg *config.Config, store blob.Store, publisher kafka.Publisher) service.GenotypeService {
	genotypeService := service.NewGenotypeService(
		repository.NewMongoGenotypeRepository(cfg),
		store,
		publisher,
		validator.NewGenotypeValidator(),
		cfg,
	)

	cfg.Log.Info("Genotypes service initialized",
		"database", cfg.MongoDatabaseName,
		"blob_driver", store.Driver(),
		"topic", cfg.GenotypeTopic,
	)
	return genotypeService
}
