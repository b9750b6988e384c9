package main

import (
	"snpr/internal/news/handler"
	"snpr/internal/news/repository"
	"snpr/internal/news/service"
	"snpr/pkg/app"
	"snpr/pkg/config"
	"snpr/pkg/metrics"
)

const ServiceName = "news"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	m := metrics.New(ServiceName)

	cfg.Log.Info("Starting News service", "default_limit", cfg.NewsLimit)
	newsService := service.NewNewsService(repository.NewMongoNewsRepository(cfg), cfg)
	serverApp := app.NewApplication(cfg, m)
	serverApp.SetApp(handler.NewNewsHandler(newsService, cfg.Log))
	serverApp.Run()
}
