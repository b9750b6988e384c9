package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"

	"snpr/pkg/config"
	"snpr/pkg/contracts"
	"snpr/pkg/health"
	"snpr/pkg/metrics"
	"snpr/pkg/middleware"
)

// Worker is a background loop that runs until ctx is cancelled.
type Worker func(ctx context.Context) error

type Option func(*options)

type options struct {
	contentTypes   []string
	maxRequestSize int64
}

// WithContentTypes replaces the JSON-only body media types accepted by the
// application routes.
func WithContentTypes(types ...string) Option {
	return func(o *options) { o.contentTypes = types }
}

// WithMaxRequestSize overrides cfg.MaxRequestSize for the application routes.
func WithMaxRequestSize(n int64) Option {
	return func(o *options) { o.maxRequestSize = n }
}

type Application struct {
	cfg            *config.Config
	metrics        *metrics.Metrics
	server         *http.Server
	healthHandler  http.Handler
	appHttpHandler http.Handler
	workers        map[string]Worker
}

func NewApplication(cfg *config.Config, m *metrics.Metrics) *Application {
	return &Application{
		cfg:     cfg,
		metrics: m,
		workers: map[string]Worker{},
	}
}

// SetApp builds the router chain. appHandler may be nil for worker-only
// processes that still expose health and metrics.
func (a *Application) SetApp(appHandler contracts.Handler, opts ...Option) {
	o := options{
		contentTypes:   []string{middleware.ContentTypeJSON},
		maxRequestSize: int64(a.cfg.MaxRequestSize),
	}
	for _, opt := range opts {
		opt(&o)
	}

	a.setHealthHandler()
	a.setAppHandler(appHandler, o)
	a.setAppServer()
}

func (a *Application) AddWorker(name string, w Worker) {
	a.workers[name] = w
}

func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

func (a *Application) setHealthHandler() {
	healthRouter := httprouter.New()

	var db health.Pinger
	if a.cfg.Client != nil && a.cfg.Client.Mongo != nil {
		db = a.cfg.Client.Mongo
	}
	var metricsHandler http.Handler
	if a.metrics != nil {
		metricsHandler = a.metrics.Handler()
	}
	health.NewHandler(db, metricsHandler, a.cfg.Log).RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(a.cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(a.cfg.Log)(healthHTTPHandler)
	a.healthHandler = healthHTTPHandler
	a.cfg.Log.Info("Health endpoints configured with minimal middleware (Recovery + Logging only)")
}

func (a *Application) setAppHandler(appHandler contracts.Handler, o options) {
	appRouter := httprouter.New()
	if appHandler != nil {
		appHandler.RegisterRoutes(appRouter)
	}

	var appHttpHandler http.Handler = appRouter
	appHttpHandler = middleware.RequestTimeout(a.cfg.RequestTimeout)(appHttpHandler)
	appHttpHandler = middleware.ContentTypeValidation(a.cfg.Log, o.contentTypes...)(appHttpHandler)
	appHttpHandler = middleware.MaxRequestSize(o.maxRequestSize)(appHttpHandler)
	if a.metrics != nil {
		appHttpHandler = middleware.RequestMetrics(a.metrics)(appHttpHandler)
	}
	appHttpHandler = middleware.RequestLogging(a.cfg.Log)(appHttpHandler)
	appHttpHandler = middleware.Recovery(a.cfg.Log)(appHttpHandler)
	a.appHttpHandler = appHttpHandler
	a.cfg.Log.Info("Application endpoints configured",
		"content_types", o.contentTypes,
		"max_request_size", o.maxRequestSize,
	)
}

func (a *Application) setAppServer() {
	mux := http.NewServeMux()
	mux.Handle("/health", a.healthHandler)
	mux.Handle("/ready", a.healthHandler)
	mux.Handle("/metrics", a.healthHandler)
	mux.Handle("/", a.appHttpHandler)

	a.server = &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      mux,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  a.cfg.IdleTimeout,
	}

	a.cfg.Log.Info("HTTP server configured", "port", a.cfg.Port)
}

func (a *Application) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	for name, w := range a.workers {
		g.Go(func() error {
			a.cfg.Log.Info("Starting worker", "worker", name)
			err := w(gctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				a.cfg.Log.Error("Worker stopped with error", "worker", name, "error", err)
				return err
			}
			a.cfg.Log.Info("Worker stopped", "worker", name)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.cfg.Log.Info("Shutdown signal received")
		}
		a.gracefulShutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		a.cfg.Log.Fatal("Application failed", "error", err)
	}
}

func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}

	a.cfg.Log.Info("Server stopped gracefully")
}
