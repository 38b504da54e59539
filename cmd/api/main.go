package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/precast-api/internal/application/tracking"
	inframetrics "github.com/jhoicas/precast-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/precast-api/internal/infrastructure/pdf"
	"github.com/jhoicas/precast-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/precast-api/internal/interfaces/http"
	"github.com/jhoicas/precast-api/pkg/config"
	"github.com/jhoicas/precast-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("base de datos")
	}
	defer backend.Close()

	// Métricas: registro propio para no mezclar con colectores de terceros.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	transitionMetrics := inframetrics.NewTransitionMetrics(registry)

	trackingCfg := tracking.Config{TxTimeout: cfg.Tracking.TxTimeout}
	transitionUC := tracking.NewTransitionUseCase(backend.TxRunner, transitionMetrics, log, trackingCfg)
	componentUC := tracking.NewComponentUseCase(
		backend.TxRunner, backend.Projects, backend.Components, backend.Ledger, backend.History, log, trackingCfg,
	)
	aggregateUC := tracking.NewAggregateUseCase(
		backend.Projects, backend.Components, backend.Ledger, backend.Aggregates,
		infrapdf.NewProjectReportGenerator(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs (solo si el archivo existe)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Precast API",
		}))
	} else if !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("swagger deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Transitions: transitionUC,
		Components:  componentUC,
		Aggregates:  aggregateUC,
		JWTSecret:   cfg.JWT.Secret,
		Metrics:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
