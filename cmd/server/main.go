package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cuadrecaja/internal/config"
	"cuadrecaja/internal/infra"
	"cuadrecaja/internal/repository"
	"cuadrecaja/internal/router"
	"cuadrecaja/internal/service"
	"cuadrecaja/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// NewDatabase runs AutoMigrate as part of startup.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background machinery is wired here (composition root) so the pool and
	// the cron have full access to the infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailer := infra.NewMailer(cfg)
	mailerCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	sucursalRepo := repository.NewSucursalRepository(db)
	cuadreRepo := repository.NewCuadreRepository(db)
	pagoRepo := repository.NewPagoRepository(db)

	handlers := worker.Handlers{
		Reporte: worker.NewReporteWorker(cuadreRepo, sucursalRepo, dispatcher, rdb, cfg.PDFStoragePath, cfg.ReporteEmail),
		Email:   worker.NewEmailWorker(mailer, mailerCB, rdb),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	// Periodic KPI resync — self-heals the cached deposit figure if a crash
	// separated a record write from its KPI update.
	worker.StartKPICron(ctx, worker.KPICronConfig{
		SucursalRepo: sucursalRepo,
		KPI:          service.NewKPIService(cuadreRepo, pagoRepo, sucursalRepo),
		Interval:     time.Duration(cfg.KPIResyncMinutes) * time.Minute,
	})

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("cuadrecaja backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
