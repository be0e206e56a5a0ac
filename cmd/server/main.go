package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/clock"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/config"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/infra"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/logger"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/repository"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/router"
	"github.com/Excelencia-Digital-Soft/Hotel-Nose-sub004/internal/worker"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.Env, cfg.LogLevel)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Worker handlers are wired here (composition root) so the pool has
	// access to every infrastructure dependency.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := clock.Real{}
	loc := cfg.Location()
	dispatcher := worker.NewDispatcher(rdb)
	notifier := infra.NewNotifier(rdb)
	mailer := infra.NewMailer(cfg)
	notifierCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	workerHandlers := &worker.WorkerHandlers{
		Notificacion:  worker.NewNotificacionWorker(notifier, notifierCB),
		ReporteCierre: worker.NewReporteCierreWorker(repository.NewCierreRepository(db), dispatcher, loc, cfg.PDFStoragePath, cfg.ReporteCierreEmail),
		Email:         worker.NewEmailWorker(mailer),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	scanner := worker.NewAlertScanner(worker.AlertScannerConfig{
		Reservas:   repository.NewReservaRepository(db),
		Dispatcher: dispatcher,
		RDB:        rdb,
		Clock:      clk,
		Intervalo:  cfg.AlertasIntervalo,
		Aviso:      time.Duration(cfg.AlertaAvisoMinutos) * time.Minute,
	})
	scanner.Start(ctx)

	r := router.New(cfg, db, rdb, dispatcher, clk)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Str("timezone", loc.String()).Msgf("hotel backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	// Stops the worker pool and cancels every pending alert timer.
	cancel()
	scanner.Stop()
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}
