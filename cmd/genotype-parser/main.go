package main

import (
	"context"

	"snpr/internal/genotypes/repository"
	"snpr/internal/genotypes/service"
	"snpr/internal/genotypes/worker"
	"snpr/pkg/app"
	"snpr/pkg/blob/factory"
	"snpr/pkg/config"
	kafka_config "snpr/pkg/kafka/config"
	"snpr/pkg/metrics"
)

const ServiceName = "genotype-parser"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	m := metrics.New(ServiceName)

	cfg.Log.Info("Starting Genotype parser")

	store, err := factory.Open(context.Background(), cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to open blob store", "driver", cfg.BlobDriver, "error", err)
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid kafka configuration", "error", err)
	}

	parseService := service.NewParseService(
		repository.NewMongoGenotypeRepository(cfg),
		repository.NewMongoSnpRepository(cfg),
		store,
		m,
		cfg,
	)

	consumer, err := worker.NewConsumer(kcfg, cfg, worker.NewHandler(parseService, cfg.Log), m)
	if err != nil {
		cfg.Log.Fatal("Failed to create genotype consumer", "error", err)
	}

	serverApp := app.NewApplication(cfg, m)
	serverApp.SetApp(nil)
	serverApp.AddWorker("genotype-parser", worker.Run(consumer, cfg.Log))
	serverApp.Run()
}
