package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rackpos/internal/cache"
	"rackpos/internal/config"
	"rackpos/internal/infra"
	"rackpos/internal/repository"
	"rackpos/internal/router"
	"rackpos/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: pretty in dev, JSON in prod
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so that the pool has
	// full access to infrastructure dependencies.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)
	ventaRepo := repository.NewVentaRepository(db)
	empresaRepo := repository.NewEmpresaRepository(db)

	recibos := worker.NewReciboWorker(ventaRepo, empresaRepo, dispatcher, cfg.PDFStoragePath)
	emails := worker.NewEmailWorker(mailer)

	pool := worker.NewPool(rdb)
	pool.Register(worker.QueueRecibos, worker.JobRecibo, recibos.Process)
	pool.Register(worker.QueueEmail, worker.JobEmail, emails.Process)
	pool.Start(ctx, cfg.WorkerPoolSize)

	tasasCB := infra.NewCircuitBreaker("tasas", infra.DefaultCBConfig())
	worker.StartTasasCron(ctx, worker.TasasCronConfig{
		Repo:     repository.NewTasaRepository(db),
		Client:   infra.NewTasasClient(cfg.TasasSourceURL),
		CB:       tasasCB,
		Cache:    cache.NewRedisListCache(rdb, time.Duration(cfg.ListCacheTTLSeconds)*time.Second),
		Interval: time.Duration(cfg.TasasIntervalMinutes) * time.Minute,
	})

	r := router.New(cfg, db, rdb, tasasCB, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("rackpos backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
